package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// scheduleFile is the YAML seed format:
//
//	platforms:
//	  twitter:
//	    - day: monday
//	      time: "09:00"
type scheduleFile struct {
	Platforms map[string][]slotSpec `yaml:"platforms"`
}

type slotSpec struct {
	Day  string `yaml:"day"`
	Time string `yaml:"time"`
}

var dayNames = map[string]int{
	"sunday": 0, "monday": 1, "tuesday": 2, "wednesday": 3,
	"thursday": 4, "friday": 5, "saturday": 6,
}

// LoadScheduleSeed parses a weekly schedule seed file.
func LoadScheduleSeed(path string) (map[string][]*models.ScheduleSlot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file scheduleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse schedule seed: %w", err)
	}

	out := make(map[string][]*models.ScheduleSlot)
	for platform, specs := range file.Platforms {
		for _, spec := range specs {
			day, ok := dayNames[spec.Day]
			if !ok {
				return nil, fmt.Errorf("unknown day %q for %s", spec.Day, platform)
			}
			t, err := time.Parse("15:04", spec.Time)
			if err != nil {
				return nil, fmt.Errorf("bad time %q for %s: %w", spec.Time, platform, err)
			}
			out[platform] = append(out[platform], &models.ScheduleSlot{
				Platform:  platform,
				DayOfWeek: day,
				Hour:      t.Hour(),
				Minute:    t.Minute(),
			})
		}
	}
	return out, nil
}

// SeedSchedule replaces each platform's schedule from the seed file.
func SeedSchedule(ctx context.Context, repo repository.PlatformRepo, path string) error {
	slots, err := LoadScheduleSeed(path)
	if err != nil {
		return err
	}
	for platform, ss := range slots {
		if err := repo.ReplaceSchedule(ctx, platform, ss); err != nil {
			return err
		}
		logger.Log.Info("schedule seeded", zap.String("platform", platform), zap.Int("slots", len(ss)))
	}
	return nil
}
