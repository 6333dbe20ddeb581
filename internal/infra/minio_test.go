package infra

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"betafeedback/pkg/utils"
)

func TestArchiveKeyIsUniquePerExport(t *testing.T) {
	now := time.Date(2025, 4, 2, 9, 15, 30, 0, time.UTC)
	pattern := regexp.MustCompile(`^exports/feedback-export-2025-04-02-091530-[0-9a-f]{8}\.csv$`)

	first := archiveKey("feedback-export-2025-04-02.csv", now)
	second := archiveKey("feedback-export-2025-04-02.csv", now)

	for _, key := range []string{first, second} {
		if !pattern.MatchString(key) {
			t.Fatalf("archiveKey() = %q, want %s", key, pattern)
		}
	}
	if first == second {
		t.Fatalf("two exports in the same second share key %q", first)
	}
}

func TestDisabledArchiver(t *testing.T) {
	if _, err := (DisabledArchiver{}).Archive(context.Background(), "f.json", "application/json", nil); !errors.Is(err, utils.ErrArchiveDisabled) {
		t.Fatalf("Archive() = %v, want ErrArchiveDisabled", err)
	}
}
