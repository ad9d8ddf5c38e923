package tui

import (
	"github.com/javiermolinar/pupitre/internal/dateutil"
	"github.com/javiermolinar/pupitre/internal/timeline"
)

// slotMinute returns the minute of day a slot starts at.
func (m *Model) slotMinute(slot int) int {
	axis := m.tt.Calendar().Axis
	return axis.Start() + slot*axis.Tick()
}

// slotOf returns the slot a block starts in.
func (m *Model) slotOf(b timeline.Block) int {
	axis := m.tt.Calendar().Axis
	return (dateutil.MinuteOfDay(b.Start) - axis.Start()) / axis.Tick()
}

// blockAt returns the block of the displayed schedule covering pos.
// Every day covers the whole axis, so a lookup only fails for a position
// off the board.
func (m *Model) blockAt(pos Position) (timeline.Block, int, bool) {
	days := m.tt.Days()
	if pos.Day < 0 || pos.Day >= len(days) {
		return timeline.Block{}, -1, false
	}
	minute := m.slotMinute(pos.Slot)
	for i, b := range m.tt.Schedule()[days[pos.Day]] {
		if dateutil.MinuteOfDay(b.Start) <= minute && minute < dateutil.MinuteOfDay(b.End) {
			return b, i, true
		}
	}
	return timeline.Block{}, -1, false
}

// hoverEvent builds the drag event for the cursor position. Hovering below the
// dragged block on its own day drops after the hovered block, anywhere else
// before it.
func (m *Model) hoverEvent() (timeline.DragEvent, bool) {
	active := m.tt.Dragged()
	over, overIdx, ok := m.blockAt(m.cursor)
	if !ok {
		return timeline.DragEvent{}, false
	}
	s := m.tt.Schedule()
	activeDay, activeIdx, found := s.Find(active)
	if !found {
		return timeline.DragEvent{}, false
	}
	after := activeDay == m.tt.Days()[m.cursor.Day] && overIdx > activeIdx
	return timeline.Hover(active, over.ID, after), true
}

// moveCursor moves the cursor by the given deltas, clamped to the board.
func (m *Model) moveCursor(dDay, dSlot int) bool {
	next := Position{Day: m.cursor.Day + dDay, Slot: m.cursor.Slot + dSlot}
	if next.Day < 0 || next.Day >= len(m.tt.Days()) {
		return false
	}
	if next.Slot < 0 || next.Slot >= m.tt.Calendar().Axis.Slots() {
		return false
	}
	m.cursor = next
	m.ensureCursorVisible()
	return true
}

// focusBlock moves the cursor onto the first slot of the block with id.
func (m *Model) focusBlock(id string) {
	s := m.tt.Schedule()
	day, idx, found := s.Find(id)
	if !found {
		return
	}
	for i, d := range m.tt.Days() {
		if d == day {
			m.cursor = Position{Day: i, Slot: m.slotOf(s[day][idx])}
		}
	}
	m.ensureCursorVisible()
}

// visibleSlots returns how many slot rows fit between header and footer.
func (m *Model) visibleSlots() int {
	rows := m.height - chromeLines - m.footerLines()
	if rows < 1 {
		rows = 1
	}
	if total := m.tt.Calendar().Axis.Slots(); rows > total {
		rows = total
	}
	return rows
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleSlots()
	if m.cursor.Slot < m.scrollOffset {
		m.scrollOffset = m.cursor.Slot
	}
	if m.cursor.Slot >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor.Slot - visible + 1
	}
	if max := m.tt.Calendar().Axis.Slots() - visible; m.scrollOffset > max {
		m.scrollOffset = max
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}
