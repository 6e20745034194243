package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTableTo(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	TableTo(&buf, []string{"Source", "Target", "Count"}, [][]string{
		{"NCIT", "SNOMEDCT", "1204"},
		{"GO", "NCIT", "7"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "  Source  Target    Count" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[3] != "  GO      NCIT      7" {
		t.Errorf("unexpected row %q", lines[3])
	}
}

func TestTableTo_Empty(t *testing.T) {
	var buf bytes.Buffer
	TableTo(&buf, []string{"A"}, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestStatusIcon(t *testing.T) {
	color.NoColor = true
	if StatusIcon(true) != "✓" || StatusIcon(false) != "✗" {
		t.Error("unexpected status icons")
	}
}

func TestCount(t *testing.T) {
	for n, want := range map[int]string{
		0:       "0",
		7:       "7",
		999:     "999",
		1204:    "1,204",
		118941:  "118,941",
		1000000: "1,000,000",
		-2500:   "-2,500",
	} {
		if got := Count(n); got != want {
			t.Errorf("Count(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestMappingAndOutcomeIcon(t *testing.T) {
	color.NoColor = true
	if got := Mapping("NCIT", "GO"); got != "NCIT → GO" {
		t.Errorf("unexpected mapping %q", got)
	}
	for outcome, want := range map[string]string{"applied": "✓", "stale": "↺", "failed": "✗", "pending": "…"} {
		if got := OutcomeIcon(outcome); got != want {
			t.Errorf("OutcomeIcon(%q) = %q, want %q", outcome, got, want)
		}
	}
}

func TestTableTo_RuneWidths(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	TableTo(&buf, []string{"PAIR", "N"}, [][]string{
		{"GO ⇄ NCIT", "1"},
		{"A ⇄ B", "2"},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[3] != "  A ⇄ B      2" {
		t.Errorf("unexpected row %q", lines[3])
	}
}
