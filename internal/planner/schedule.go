package planner

import (
	"fmt"
	"strings"
	"time"
)

// ScheduleItem is one timed activity in an event schedule.
type ScheduleItem struct {
	Time            string `json:"time"`
	Activity        string `json:"activity"`
	DurationMinutes int    `json:"duration_minutes"`
	VendorID        string `json:"vendor_id,omitempty"`
}

// defaultStartHour anchors the schedule when no start time is supplied.
const defaultStartHour = 12

// BuildSchedule generates an event-type-specific timeline anchored on the
// event date. vendorByCategory assigns selected vendors to the activities
// their category serves; unmatched activities carry no vendor.
func BuildSchedule(req EventRequirements, vendorByCategory map[string]string) []ScheduleItem {
	start, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		start = time.Now()
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), defaultStartHour, 0, 0, 0, time.Local)

	eventType := strings.ToLower(req.EventType)
	switch {
	case strings.Contains(eventType, "wedding"), strings.Contains(eventType, "mehndi"), strings.Contains(eventType, "baraat"):
		return []ScheduleItem{
			{Time: clock(start.Add(-2 * time.Hour)), Activity: "Venue Setup & Decoration", DurationMinutes: 120, VendorID: vendorByCategory["decoration"]},
			{Time: clock(start), Activity: "Guest Arrival & Photography", DurationMinutes: 60, VendorID: vendorByCategory["photography"]},
			{Time: clock(start.Add(1 * time.Hour)), Activity: "Event Begins - Main Ceremony", DurationMinutes: 180},
			{Time: clock(start.Add(2 * time.Hour)), Activity: "Dinner Service", DurationMinutes: 90, VendorID: vendorByCategory["catering"]},
			{Time: clock(start.Add(4 * time.Hour)), Activity: "Event Conclusion & Cleanup", DurationMinutes: 60},
		}
	case strings.Contains(eventType, "birthday"), strings.Contains(eventType, "party"):
		return []ScheduleItem{
			{Time: clock(start.Add(-30 * time.Minute)), Activity: "Venue Setup", DurationMinutes: 30, VendorID: vendorByCategory["decoration"]},
			{Time: clock(start), Activity: "Guest Arrival", DurationMinutes: 30},
			{Time: clock(start.Add(30 * time.Minute)), Activity: "Activities & Entertainment", DurationMinutes: 90, VendorID: vendorByCategory["entertainment"]},
			{Time: clock(start.Add(2 * time.Hour)), Activity: "Cake & Food Service", DurationMinutes: 60, VendorID: vendorByCategory["catering"]},
		}
	default:
		setupMinutes := 30
		if req.Attendees > 50 {
			setupMinutes = 60
		}
		return []ScheduleItem{
			{Time: clock(start.Add(-time.Duration(setupMinutes) * time.Minute)), Activity: "Venue Setup & A/V Check", DurationMinutes: setupMinutes, VendorID: vendorByCategory["av_equipment"]},
			{Time: clock(start), Activity: "Guest Registration & Welcome", DurationMinutes: 30},
			{Time: clock(start.Add(30 * time.Minute)), Activity: "Main Event Activities", DurationMinutes: 180},
			{Time: clock(start.Add(3*time.Hour + 30*time.Minute)), Activity: "Networking & Refreshments", DurationMinutes: 30, VendorID: vendorByCategory["catering"]},
		}
	}
}

// FormatSchedule renders schedule items as time-labeled activity strings.
func FormatSchedule(items []ScheduleItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprintf("%s - %s", item.Time, item.Activity))
	}
	return out
}

func clock(t time.Time) string {
	return t.Format("03:04 PM")
}
