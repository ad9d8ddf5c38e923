package timeline

import (
	"errors"
	"fmt"
)

// Drag session errors.
var (
	ErrNotDragging     = errors.New("no drag in progress")
	ErrAlreadyDragging = errors.New("already dragging a block")
)

// DragState is the phase of a drag gesture.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	DragOver
	DragDropped
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DragOver:
		return "over"
	case DragDropped:
		return "dropped"
	default:
		return fmt.Sprintf("DragState(%d)", int(s))
	}
}

// DragSession runs one drag gesture over a schedule:
// idle -> dragging -> over -> dropped, with cancel returning to idle.
//
// Cross-day moves are applied while hovering so the block follows the pointer
// into the new day; same-day reordering waits for the drop.
type DragSession struct {
	cal      Calendar
	state    DragState
	activeID string

	before  Schedule // schedule at drag start, restored on cancel
	current Schedule
	preview *Placement
}

// NewDragSession creates an idle session laid out on cal.
func NewDragSession(cal Calendar) *DragSession {
	return &DragSession{cal: cal}
}

// State returns the current phase.
func (d *DragSession) State() DragState {
	return d.state
}

// ActiveID returns the dragged block id, "" when idle.
func (d *DragSession) ActiveID() string {
	return d.activeID
}

// Schedule returns the schedule as it currently looks mid-drag.
func (d *DragSession) Schedule() Schedule {
	return d.current
}

// Preview returns where the block would land if dropped now, nil before the
// first hover.
func (d *DragSession) Preview() *Placement {
	return d.preview
}

// Start picks up the block with the given id.
func (d *DragSession) Start(s Schedule, id string) error {
	if d.state == DragDragging || d.state == DragOver {
		return ErrAlreadyDragging
	}
	b, ok := s.Block(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	if b.IsPlaceholder() {
		return ErrPlaceholderDrag
	}
	d.state = DragDragging
	d.activeID = id
	d.before = s
	d.current = s
	d.preview = nil
	return nil
}

// Over handles the pointer hovering a block or day. It reports whether the
// schedule changed, which only happens when the hover crosses into another day.
func (d *DragSession) Over(ev DragEvent) (bool, error) {
	if d.state != DragDragging && d.state != DragOver {
		return false, ErrNotDragging
	}
	ev.ActiveID = d.activeID
	d.state = DragOver

	next, placed, ok := MoveAcrossDays(d.current, d.cal, ev)
	if ok {
		d.current = next
		d.preview = &placed
		return true, nil
	}
	if p, ok := Preview(d.current, d.cal, ev); ok {
		d.preview = &p
	}
	return false, nil
}

// End drops the block. A drop outside any target restores the schedule from
// drag start. It returns the resulting schedule and whether it differs from
// the one the drag started with.
func (d *DragSession) End(ev DragEvent) (Schedule, bool, error) {
	if d.state != DragDragging && d.state != DragOver {
		return nil, false, ErrNotDragging
	}
	ev.ActiveID = d.activeID

	if ev.OverID == "" {
		result := d.Cancel()
		return result, false, nil
	}

	if next, _, ok := MoveAcrossDays(d.current, d.cal, ev); ok {
		d.current = next
	}
	if next, _, ok := Reorder(d.current, d.cal, ev); ok {
		d.current = next
	}

	result := d.current
	changed := !sameCourses(d.before, result)
	d.state = DragDropped
	d.before = nil
	d.preview = nil
	return result, changed, nil
}

// Cancel abandons the drag and returns the schedule from drag start.
func (d *DragSession) Cancel() Schedule {
	result := d.before
	if result == nil {
		result = d.current
	}
	d.state = DragIdle
	d.activeID = ""
	d.before = nil
	d.current = nil
	d.preview = nil
	return result
}

// sameCourses reports whether a and b hold the same courses at the same times
// on every day. Placeholders are ignored.
func sameCourses(a, b Schedule) bool {
	if len(a) != len(b) {
		return false
	}
	for day, seq := range a {
		ca := courseSeq(seq)
		cb := courseSeq(b[day])
		if len(ca) != len(cb) {
			return false
		}
		for i := range ca {
			if ca[i].ID != cb[i].ID || !ca[i].Start.Equal(cb[i].Start) || !ca[i].End.Equal(cb[i].End) {
				return false
			}
		}
	}
	return true
}

func courseSeq(seq []Block) []Block {
	var out []Block
	for _, b := range seq {
		if !b.IsPlaceholder() {
			out = append(out, b)
		}
	}
	return out
}
