package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTable(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	Table(&buf, []string{"WORD", "STATUS"}, [][]string{
		{"päivä", "solid"},
		{"opiskella", "ghost", "extra"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "  WORD       STATUS" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "  päivä      solid" {
		t.Errorf("row = %q", lines[2])
	}
	if strings.Contains(lines[3], "extra") {
		t.Error("expected cells beyond the header to be dropped")
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"A"}, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestStatusIcon(t *testing.T) {
	color.NoColor = true
	if StatusIcon(true) != "✓" || StatusIcon(false) != "✗" {
		t.Error("unexpected icons")
	}
}
