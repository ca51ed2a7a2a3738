package store

import "time"

// standardSlots are the bookable times on a clinic weekday.
var standardSlots = []string{
	"09:00", "09:30", "10:00", "10:30",
	"11:00", "11:30", "14:00", "14:30",
	"15:00", "15:30", "16:00", "16:30",
}

// emergencySlots are held back for emergency and urgent bookings only.
var emergencySlots = []string{"08:00", "17:00"}

const availabilityHorizonDays = 30

// Availability describes the open slots for one date.
type Availability struct {
	Available bool     `json:"available"`
	Date      string   `json:"date"`
	Slots     []string `json:"slots"`
}

// clinicDay reports whether the date (YYYY-MM-DD) is a weekday inside the
// booking horizon. Malformed dates are never clinic days.
func clinicDay(now time.Time, date string) bool {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) || d.After(today.AddDate(0, 0, availabilityHorizonDays)) {
		return false
	}
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// openSlots returns the slot list for a date and appointment type, before
// removing bookings. Emergency and urgent types unlock the reserved slots.
func openSlots(now time.Time, date, appointmentType string) []string {
	if !clinicDay(now, date) {
		return nil
	}
	slots := make([]string, 0, len(standardSlots)+len(emergencySlots))
	slots = append(slots, standardSlots...)
	if appointmentType == "emergency" || appointmentType == "urgent" {
		slots = append(slots, emergencySlots...)
	}
	return slots
}

// removeBooked filters booked times out of a slot list.
func removeBooked(slots []string, booked map[string]bool) []string {
	out := slots[:0:0]
	for _, s := range slots {
		if !booked[s] {
			out = append(out, s)
		}
	}
	return out
}
