package errsink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/msalah0e/ontomap/internal/logging"
)

func TestConsole(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	Console{W: &buf}.Report("could not load")
	if !strings.Contains(buf.String(), "could not load") {
		t.Errorf("expected message in output, got %q", buf.String())
	}
}

func TestMultiAndRecorder(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, b, Log{Logger: logging.Nop()}}
	m.Report("one")
	m.Report("two")

	for _, r := range []*Recorder{a, b} {
		got := r.Messages()
		if len(got) != 2 || got[0] != "one" || got[1] != "two" {
			t.Errorf("unexpected messages: %v", got)
		}
	}
}
