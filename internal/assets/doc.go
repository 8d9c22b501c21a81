// Package assets provides the stylesheets used to print HTML books as A5
// booklet pages.
//
// Styles are embedded at compile time under styles/{name}.css. A style can
// also be given as a path to a CSS file on disk, see ResolveStyle.
//
// Every embedded style declares the A5 @page rule with 2cm margins. Chrome
// uses the paper size passed by the converter, so the rule only matters
// when the HTML is printed from a browser.
package assets
