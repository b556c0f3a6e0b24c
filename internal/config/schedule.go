package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/pointage/internal/common"
	"github.com/Veraticus/pointage/internal/model"
	"github.com/Veraticus/pointage/internal/timeofday"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyStandardBreak      = "schedule.standard_break"
	KeyStandardWork       = "schedule.standard_work"
	KeyMorningReference   = "schedule.morning_reference"
	KeyLunchStart         = "schedule.lunch_start"
	KeyLunchEnd           = "schedule.lunch_end"
	KeyEveningReference   = "schedule.evening_reference"
	KeyDuplicateTolerance = "schedule.duplicate_tolerance"

	KeyInputEncoding = "input.encoding"
	KeyInputSort     = "input.sort"
	KeyOutputPath    = "output.path"
	KeyStoragePath   = "storage.path"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
)

// SetDefaults registers the default value of every key.
func SetDefaults() {
	d := model.DefaultSchedule()

	viper.SetDefault(KeyStandardBreak, timeofday.FormatDuration(d.StandardBreak))
	viper.SetDefault(KeyStandardWork, timeofday.FormatDuration(d.StandardWork))
	viper.SetDefault(KeyMorningReference, d.MorningReference.String())
	viper.SetDefault(KeyLunchStart, d.LunchStart.String())
	viper.SetDefault(KeyLunchEnd, d.LunchEnd.String())
	viper.SetDefault(KeyEveningReference, d.EveningReference.String())
	viper.SetDefault(KeyDuplicateTolerance, d.DuplicateTolerance.String())

	viper.SetDefault(KeyInputEncoding, "utf-8")
	viper.SetDefault(KeyInputSort, true)
	viper.SetDefault(KeyOutputPath, "Etat_de_pointage.xlsx")
	viper.SetDefault(KeyStoragePath, "~/.config/pointage/pointage.db")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFormat, "console")
}

// LoadSchedule reads the schedule keys, falling back to the defaults for
// unset ones, and validates the result.
func LoadSchedule() (model.Schedule, error) {
	s := model.DefaultSchedule()

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&s.StandardBreak, KeyStandardBreak},
		{&s.StandardWork, KeyStandardWork},
	}
	for _, d := range durations {
		if raw := viper.GetString(d.key); raw != "" {
			v, err := timeofday.ParseDuration(raw)
			if err != nil {
				return s, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, d.key, err)
			}
			*d.dst = v
		}
	}

	times := []struct {
		dst *timeofday.Time
		key string
	}{
		{&s.MorningReference, KeyMorningReference},
		{&s.LunchStart, KeyLunchStart},
		{&s.LunchEnd, KeyLunchEnd},
		{&s.EveningReference, KeyEveningReference},
	}
	for _, tt := range times {
		if raw := viper.GetString(tt.key); raw != "" {
			v, err := timeofday.Parse(raw)
			if err != nil {
				return s, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, tt.key, err)
			}
			*tt.dst = v
		}
	}

	if raw := viper.GetString(KeyDuplicateTolerance); raw != "" {
		v, err := time.ParseDuration(raw)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, KeyDuplicateTolerance, err)
		}
		s.DuplicateTolerance = v
	}

	if err := ValidateSchedule(s); err != nil {
		return s, err
	}
	return s, nil
}

// ValidateSchedule rejects schedules the calculator cannot work with.
func ValidateSchedule(s model.Schedule) error {
	switch {
	case s.StandardWork <= 0:
		return fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeyStandardWork)
	case s.StandardBreak < 0:
		return fmt.Errorf("%w: %s cannot be negative", common.ErrInvalidConfig, KeyStandardBreak)
	case s.DuplicateTolerance < 0:
		return fmt.Errorf("%w: %s cannot be negative", common.ErrInvalidConfig, KeyDuplicateTolerance)
	case s.LunchStart >= s.LunchEnd:
		return fmt.Errorf("%w: %s must be before %s", common.ErrInvalidConfig, KeyLunchStart, KeyLunchEnd)
	}
	return nil
}
