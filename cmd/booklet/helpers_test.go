package main

// Notes:
// - Test infrastructure shared by the command tests: an isolated Environment
//   backed by a map, and a PDF fixture written with fpdf.

import (
	"bytes"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"codeberg.org/go-pdf/fpdf"
)

// fixedNow is the clock used by test environments.
var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// testEnv returns an Environment that sees only vars and records output.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			kv := make([]string, 0, len(vars))
			for k, v := range vars {
				kv = append(kv, k+"="+v)
			}
			sort.Strings(kv)
			return kv
		},
	}
	return env, &stdout, &stderr
}

// writeFixturePDF writes an n-page A5 PDF named name into dir.
func writeFixturePDF(t *testing.T, dir, name string, n int) string {
	t.Helper()

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetFont("Helvetica", "", 36)
	for i := range n {
		pdf.AddPage()
		pdf.Text(65, 105, string(rune('A'+i%26)))
	}

	path := filepath.Join(dir, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}
