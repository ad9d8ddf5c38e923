package timeline

import "time"

// DayStats summarizes one day of the timetable.
type DayStats struct {
	Day         string
	Courses     int
	BusyMinutes int
	FreeMinutes int
	ByType      map[BlockType]int // minutes per course type
}

// Stats computes per-day statistics, Monday first.
func Stats(s Schedule) []DayStats {
	days := s.Days()
	out := make([]DayStats, 0, len(days))
	for _, day := range days {
		st := DayStats{Day: day, ByType: make(map[BlockType]int)}
		for _, b := range s[day] {
			mins := int(b.Duration() / time.Minute)
			if b.IsPlaceholder() {
				st.FreeMinutes += mins
				continue
			}
			st.Courses++
			st.BusyMinutes += mins
			st.ByType[b.Type] += mins
		}
		out = append(out, st)
	}
	return out
}

// WeekTotals sums day statistics.
func WeekTotals(days []DayStats) DayStats {
	total := DayStats{Day: "week", ByType: make(map[BlockType]int)}
	for _, d := range days {
		total.Courses += d.Courses
		total.BusyMinutes += d.BusyMinutes
		total.FreeMinutes += d.FreeMinutes
		for t, m := range d.ByType {
			total.ByType[t] += m
		}
	}
	return total
}

// Load returns the share of the day taken by courses, between 0 and 1.
func (d DayStats) Load() float64 {
	total := d.BusyMinutes + d.FreeMinutes
	if total == 0 {
		return 0
	}
	return float64(d.BusyMinutes) / float64(total)
}
