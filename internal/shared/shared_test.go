package shared

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	t.Run("Valid UUID", func(t *testing.T) {
		id := GenerateID()
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("generated ID is not a valid UUID: %v", err)
		}
	})

	t.Run("Unique", func(t *testing.T) {
		seen := map[string]bool{}
		for range 100 {
			id := GenerateID()
			if seen[id] {
				t.Fatalf("duplicate ID generated: %s", id)
			}
			seen[id] = true
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("Writes To Provided Writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		logger.Info("hello")

		if buf.Len() == 0 {
			t.Error("expected log output in buffer")
		}
	})

	t.Run("WithLogger Adds Fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := WithLogger(NewLogger(buf), "component", "test")
		logger.Info("hello")

		if !bytes.Contains(buf.Bytes(), []byte("component")) {
			t.Errorf("expected component field in output: %s", buf.String())
		}
	})

	t.Run("SetLogLevel Filters", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("info log should be filtered at error level: %s", buf.String())
		}
	})
}
