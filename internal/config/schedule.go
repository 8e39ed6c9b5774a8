package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	businessUTCOffsetEnv = "BUSINESS_UTC_OFFSET_HOURS"
	dailyPostCapEnv      = "DAILY_POST_CAP"
	defaultSlotTimeEnv   = "DEFAULT_SLOT_TIME"
	undoWindowSecondsEnv = "UNDO_WINDOW_SECONDS"

	// The agency operates on Brasília time; the offset is configuration so
	// the core stays portable.
	defaultBusinessUTCOffset = -3
	defaultDailyPostCap      = 5
	defaultSlotTime          = "09:00"
	defaultUndoWindowSeconds = 10
)

type ScheduleConfig struct {
	// BusinessUTCOffsetHours is the fixed UTC offset of the business
	// timezone used for past-date checks and reschedule timestamps.
	BusinessUTCOffsetHours int
	DailyPostCap           int
	DefaultSlotTime        string
	UndoWindow             time.Duration
}

func LoadScheduleConfig() (*ScheduleConfig, error) {
	offset := defaultBusinessUTCOffset
	if v := os.Getenv(businessUTCOffsetEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < -12 || parsed > 14 {
			return nil, ErrInvalidUTCOffset
		}
		offset = parsed
	}

	dailyCap := defaultDailyPostCap
	if v := os.Getenv(dailyPostCapEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			dailyCap = parsed
		}
	}

	slotTime := os.Getenv(defaultSlotTimeEnv)
	if slotTime == "" {
		slotTime = defaultSlotTime
	}
	if _, err := time.Parse("15:04", slotTime); err != nil {
		return nil, ErrInvalidSlotTime
	}

	undoWindow := defaultUndoWindowSeconds
	if v := os.Getenv(undoWindowSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			undoWindow = parsed
		}
	}

	return &ScheduleConfig{
		BusinessUTCOffsetHours: offset,
		DailyPostCap:           dailyCap,
		DefaultSlotTime:        slotTime,
		UndoWindow:             time.Duration(undoWindow) * time.Second,
	}, nil
}

// Location returns the fixed-offset business timezone.
func (c *ScheduleConfig) Location() *time.Location {
	name := fmt.Sprintf("UTC%+03d", c.BusinessUTCOffsetHours)
	return time.FixedZone(name, c.BusinessUTCOffsetHours*3600)
}
