package availability

import (
	"time"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
)

const DateLayout = "2006-01-02"

func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// Normalize validates the ISO date and removes duplicate slot entries while
// keeping their order.
func Normalize(day models.AvailabilityDay) (models.AvailabilityDay, error) {
	if !ValidDate(day.Date) {
		return day, httperr.ErrBusiness("invalid_date")
	}
	day.Slots = dedupe(day.Slots)
	day.Unavailable = dedupe(day.Unavailable)
	return day, nil
}

// Upsert keeps at most one entry per date: a write for an existing date
// replaces that entry, otherwise the day is appended.
func Upsert(days []models.AvailabilityDay, day models.AvailabilityDay) []models.AvailabilityDay {
	for i := range days {
		if days[i].Date == day.Date {
			days[i] = day
			return days
		}
	}
	return append(days, day)
}

func Find(days []models.AvailabilityDay, date string) (models.AvailabilityDay, bool) {
	for _, d := range days {
		if d.Date == date {
			return d, true
		}
	}
	return models.AvailabilityDay{}, false
}

// IsSlotOpen checks a slot against a day's exclusion list. An empty Slots
// list means the day is open-ended apart from its exclusions.
func IsSlotOpen(day models.AvailabilityDay, slot string) bool {
	for _, u := range day.Unavailable {
		if u == slot {
			return false
		}
	}
	if len(day.Slots) == 0 {
		return true
	}
	for _, s := range day.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
