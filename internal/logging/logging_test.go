package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}

	log.WithField("deck", "verbs").Debug("planned")
	out := buf.String()
	if !strings.Contains(out, "deck=verbs") || !strings.Contains(out, "planned") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNew_DefaultLevel(t *testing.T) {
	log, err := New("", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", log.GetLevel())
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud", nil); err == nil {
		t.Error("expected error for unknown level")
	}
}
