package timeline

import (
	"slices"
	"time"

	"github.com/javiermolinar/pupitre/internal/canvas"
	"github.com/javiermolinar/pupitre/internal/dateutil"
)

// DragEvent is a pointer event over the timetable.
type DragEvent struct {
	ActiveID    string      // dragged block id
	OverID      string      // hovered block id or day key, "" outside any target
	InitialRect canvas.Rect // dragged element's rect at drag start
	OverRect    canvas.Rect // hovered element's rect
	Delta       canvas.Point
}

// After reports whether the pointer sits in the lower half of the hovered
// element, meaning the drop goes after it rather than before.
func (e DragEvent) After() bool {
	return e.InitialRect.Top+e.Delta.Y > e.OverRect.MidY()
}

// Hover builds a drag event for keyboard and CLI callers that know the target
// and side but have no pointer geometry.
func Hover(activeID, overID string, after bool) DragEvent {
	ev := DragEvent{
		ActiveID: activeID,
		OverID:   overID,
		OverRect: canvas.Rect{Height: 2},
	}
	if after {
		ev.Delta.Y = 2
	}
	return ev
}

// Placement is where a drag would put the active block.
type Placement struct {
	Day   string
	Index int
	Start time.Time
	End   time.Time
}

// insertionIndex returns the index in day's sequence a drop over ev.OverID lands at.
func (s Schedule) insertionIndex(day string, ev DragEvent) int {
	if ev.OverID == day {
		return len(s[day])
	}
	h := slices.IndexFunc(s[day], func(b Block) bool { return b.ID == ev.OverID })
	if h < 0 {
		return len(s[day])
	}
	if ev.After() {
		return h + 1
	}
	return h
}

// placementAt computes start and end for b inserted at idx of day: the sum of
// the preceding durations from the first tick, with the end clamped to the last
// tick and the start pulled back by the same amount.
func placementAt(seq []Block, idx int, b Block, day string, cal Calendar) Placement {
	cursor := cal.Axis.Start()
	for _, prev := range seq[:idx] {
		if prev.IsPlaceholder() {
			cursor += cal.Axis.Tick()
			continue
		}
		cursor += int(prev.Duration() / time.Minute)
	}

	mins := int(b.Duration() / time.Minute)
	if cursor+mins > cal.Axis.End() {
		cursor = cal.Axis.End() - mins
	}

	date, _ := cal.Week.DayDate(day)
	start := dateutil.At(date, cursor)
	return Placement{Day: day, Index: idx, Start: start, End: start.Add(b.Duration())}
}

// MoveAcrossDays handles a drag-over event that carries a block into another
// day. The block is inserted before or after the hovered block, the placeholders
// it now covers are removed from the destination, its old slots are refilled
// with placeholders in the source, and both days are renumbered.
//
// It returns the new schedule and the block's placement, or false with s
// unchanged when either day cannot be resolved, both days are the same, or the
// destination has no room for the block.
func MoveAcrossDays(s Schedule, cal Calendar, ev DragEvent) (Schedule, Placement, bool) {
	src, from, found := s.Find(ev.ActiveID)
	if !found {
		return s, Placement{}, false
	}
	dst, ok := s.container(ev.OverID)
	if !ok || dst == src {
		return s, Placement{}, false
	}

	block := s[src][from]
	if block.IsPlaceholder() {
		return s, Placement{}, false
	}
	idx := s.insertionIndex(dst, ev)
	preview := placementAt(s[dst], idx, block, dst, cal)

	date, _ := cal.Week.DayDate(dst)
	block.Start, block.End = preview.Start, preview.End
	block.retag(date)

	slots := cal.Axis.SlotsFor(block.Duration())
	target, ok := insertCovering(s[dst], idx, block, slots)
	if !ok {
		return s, Placement{}, false
	}

	out := s.Clone()
	out[dst] = Renumber(dst, target, cal)
	out[src] = Renumber(src, vacate(s[src], from, src, cal, slots), cal)

	_, final, _ := out.Find(block.ID)
	placed := out[dst][final]
	return out, Placement{Day: dst, Index: final, Start: placed.Start, End: placed.End}, true
}

// insertCovering inserts b at idx and removes slots placeholders to make room,
// taking those after the insertion point first and then those before it.
func insertCovering(seq []Block, idx int, b Block, slots int) ([]Block, bool) {
	out := slices.Insert(slices.Clone(seq), idx, b)
	for j := idx + 1; j < len(out) && slots > 0; {
		if out[j].IsPlaceholder() {
			out = slices.Delete(out, j, j+1)
			slots--
			continue
		}
		j++
	}
	for j := idx - 1; j >= 0 && slots > 0; j-- {
		if out[j].IsPlaceholder() {
			out = slices.Delete(out, j, j+1)
			slots--
		}
	}
	return out, slots == 0
}

// vacate replaces the block at idx with slots placeholders.
func vacate(seq []Block, idx int, day string, cal Calendar, slots int) []Block {
	fill := make([]Block, slots)
	for i := range fill {
		fill[i] = newPlaceholder(cal, day, cal.Axis.Start())
	}
	out := slices.Clone(seq)
	return slices.Replace(out, idx, idx+1, fill...)
}

// Reorder handles a drag-end event within one day: the block moves before or
// after the hovered block and the day is renumbered. It returns false with s
// unchanged when the target is unresolved, lies in another day, or leaves the
// block where it is.
func Reorder(s Schedule, cal Calendar, ev DragEvent) (Schedule, Placement, bool) {
	day, from, found := s.Find(ev.ActiveID)
	if !found || ev.OverID == ev.ActiveID {
		return s, Placement{}, false
	}
	overDay, ok := s.container(ev.OverID)
	if !ok || overDay != day {
		return s, Placement{}, false
	}
	block := s[day][from]
	if block.IsPlaceholder() {
		return s, Placement{}, false
	}

	to := s.insertionIndex(day, ev)
	// Indices after the removal of the block shift down by one.
	if from < to {
		to--
	}
	if to == from {
		return s, Placement{}, false
	}

	seq := slices.Delete(slices.Clone(s[day]), from, from+1)
	seq = slices.Insert(seq, to, block)

	out := s.Clone()
	out[day] = Renumber(day, seq, cal)
	placed := out[day][to]
	return out, Placement{Day: day, Index: to, Start: placed.Start, End: placed.End}, true
}

// Preview returns where dropping at ev would place the active block, computed
// from the durations preceding the insertion point, without changing s.
func Preview(s Schedule, cal Calendar, ev DragEvent) (Placement, bool) {
	src, from, found := s.Find(ev.ActiveID)
	if !found {
		return Placement{}, false
	}
	dst, ok := s.container(ev.OverID)
	if !ok {
		return Placement{}, false
	}
	block := s[src][from]
	seq := s[dst]
	idx := s.insertionIndex(dst, ev)
	if src == dst {
		seq = slices.Delete(slices.Clone(seq), from, from+1)
		if from < idx {
			idx--
		}
	}
	return placementAt(seq, idx, block, dst, cal), true
}
