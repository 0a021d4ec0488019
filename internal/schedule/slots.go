// Package schedule defines the surgery time-slot grid: half-hour slots
// from 08:00 through 23:30, the same grid for every clinic.
package schedule

import "fmt"

const (
	openingHour = 8
	closingHour = 24
)

// Slots returns every bookable slot in day order.
func Slots() []string {
	slots := make([]string, 0, (closingHour-openingHour)*2)
	for hour := openingHour; hour < closingHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%02d:30", hour))
	}
	return slots
}

// IsValid reports whether s names a slot on the grid.
func IsValid(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hour, &minute); err != nil {
		return false
	}
	if hour < openingHour || hour >= closingHour {
		return false
	}
	return minute == 0 || minute == 30
}
