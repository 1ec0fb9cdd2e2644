package models

import (
	"time"
)

// MealTime is the time-of-day bucket used to narrow suggestions by tag
type MealTime string

const (
	// MealTimeBreakfast covers 05:00-10:59
	MealTimeBreakfast MealTime = "breakfast"

	// MealTimeLunch covers 11:00-14:59
	MealTimeLunch MealTime = "lunch"

	// MealTimeSnack covers the afternoon gap and late night
	MealTimeSnack MealTime = "snack"

	// MealTimeDinner covers 17:00-21:59
	MealTimeDinner MealTime = "dinner"
)

// MealTimeAt maps the wall-clock hour of t to a meal time bucket
func MealTimeAt(t time.Time) MealTime {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return MealTimeBreakfast
	case h >= 11 && h < 15:
		return MealTimeLunch
	case h >= 17 && h < 22:
		return MealTimeDinner
	default:
		return MealTimeSnack
	}
}

// Tag returns the catalog tag carried by items suited to this meal time
func (m MealTime) Tag() string {
	return string(m)
}
