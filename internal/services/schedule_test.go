package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const seedYAML = `platforms:
  twitter:
    - day: monday
      time: "09:00"
    - day: wednesday
      time: "18:30"
  facebook:
    - day: friday
      time: "12:00"
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoadScheduleSeed(t *testing.T) {
	slots, err := LoadScheduleSeed(writeSeed(t, seedYAML))
	if err != nil {
		t.Fatalf("LoadScheduleSeed: %v", err)
	}

	tw := slots["twitter"]
	if len(tw) != 2 {
		t.Fatalf("expected 2 twitter slots, got %d", len(tw))
	}
	if tw[0].DayOfWeek != 1 || tw[0].Hour != 9 || tw[0].Minute != 0 {
		t.Errorf("unexpected first twitter slot: %+v", tw[0])
	}
	if tw[1].DayOfWeek != 3 || tw[1].Hour != 18 || tw[1].Minute != 30 {
		t.Errorf("unexpected second twitter slot: %+v", tw[1])
	}
	if len(slots["facebook"]) != 1 {
		t.Errorf("expected 1 facebook slot, got %d", len(slots["facebook"]))
	}
}

func TestLoadScheduleSeedRejectsBadDay(t *testing.T) {
	bad := "platforms:\n  twitter:\n    - day: someday\n      time: \"09:00\"\n"
	if _, err := LoadScheduleSeed(writeSeed(t, bad)); err == nil {
		t.Fatal("expected error for unknown day")
	}
}

func TestLoadScheduleSeedRejectsBadTime(t *testing.T) {
	bad := "platforms:\n  twitter:\n    - day: monday\n      time: \"25:99\"\n"
	if _, err := LoadScheduleSeed(writeSeed(t, bad)); err == nil {
		t.Fatal("expected error for bad time")
	}
}

func TestSeedScheduleReplaces(t *testing.T) {
	platforms := newMockPlatformRepo()
	if err := SeedSchedule(context.Background(), platforms, writeSeed(t, seedYAML)); err != nil {
		t.Fatalf("SeedSchedule: %v", err)
	}
	if len(platforms.schedules["twitter"]) != 2 {
		t.Errorf("expected twitter schedule seeded, got %+v", platforms.schedules["twitter"])
	}
}
