package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestSpinner_NonTTYPrintsMessageOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Updating Homebrew packages")
	s.SetWriter(buf)

	s.Start()
	s.Start() // second Start is a no-op

	output := buf.String()
	if got := strings.Count(output, "Updating Homebrew packages..."); got != 1 {
		t.Errorf("non-TTY start should print the message exactly once, got %d in %q", got, output)
	}
}

func TestSpinner_StopPrintsFinalMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Running updates")
	s.SetWriter(buf)

	s.Start()
	s.Stop("Done: 3 updated, 1 skipped")

	output := buf.String()
	if !strings.Contains(output, "Done: 3 updated, 1 skipped") {
		t.Errorf("stop should print the final message, got: %q", output)
	}
}

func TestSpinner_StopBeforeStartIsNoop(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Never started")
	s.SetWriter(buf)

	s.Stop("should not appear")

	if buf.Len() != 0 {
		t.Errorf("stop without start should write nothing, got: %q", buf.String())
	}
}
