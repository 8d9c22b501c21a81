package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
)

//go:embed styles/*.css
var styles embed.FS

// DefaultStyle is the style applied when none is configured.
const DefaultStyle = "book"

// LoadStyle returns the embedded style name (without .css).
func LoadStyle(name string) (string, error) {
	if err := validateStyleName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrStyleNotFound, name, strings.Join(StyleNames(), ", "))
	}
	return string(content), nil
}

// ResolveStyle loads nameOrPath as a CSS file when it looks like a path
// (contains a separator or ends in .css), otherwise as an embedded style.
// An empty value selects DefaultStyle.
func ResolveStyle(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return LoadStyle(DefaultStyle)
	}
	if strings.ContainsAny(nameOrPath, `/\`) || strings.EqualFold(path.Ext(nameOrPath), ".css") {
		content, err := os.ReadFile(nameOrPath) // #nosec G304 -- user-provided stylesheet
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrStyleRead, err)
		}
		return string(content), nil
	}
	return LoadStyle(nameOrPath)
}

// StyleNames lists the embedded styles, sorted.
func StyleNames() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	slices.Sort(names)
	return names
}

// validateStyleName rejects names that could escape the styles directory
// or change the extension.
func validateStyleName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidStyleName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidStyleName, name)
	}
	return nil
}
