package planner

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/pupitre/internal/canvas"
)

// ErrDragEnded is returned when a drag session is ended twice.
var ErrDragEnded = errors.New("drag session already ended")

// DragEnd describes the release of a drag gesture.
type DragEnd struct {
	ActiveID    string       // dragged card id or palette template id
	InitialRect canvas.Rect  // dragged element's rect at drag start
	OverID      string       // drop target id, "" when released outside any target
	OverRect    *canvas.Rect // drop target rect, nil when unknown
	Delta       canvas.Point // total pointer movement in screen pixels
}

// ApplyDragEnd moves an existing card according to a drag release, using the
// transform in effect at release time. It reports whether the plan changed.
//
// Zero-delta releases are clicks and releases outside any target are
// discarded. Dropping a non-row card onto a row appends it to that row;
// dropping a row child onto the canvas makes it free-floating again. A drop
// onto a row id that no longer exists is discarded.
func (p *Plan) ApplyDragEnd(ev DragEnd, t canvas.Transform) bool {
	if ev.Delta.IsZero() || ev.OverID == "" {
		return false
	}

	active, fromRow, found := p.Card(ev.ActiveID)
	if !found {
		return false
	}

	coords := canvas.ToCanvas(ev.InitialRect, ev.OverRect, ev.Delta, t)

	if IsRowID(ev.OverID) && !active.IsRow() {
		target, ok := p.rows[ev.OverID]
		if !ok {
			return false
		}
		if fromRow == target.ID {
			target.Cards[target.indexOf(active.ID)].Coordinates = coords
			return true
		}
		card, _ := p.detach(active.ID)
		card.Coordinates = coords
		target.Cards = append(target.Cards, card)
		return true
	}

	if fromRow != "" && ev.OverID == CanvasID {
		card, _ := p.detach(active.ID)
		card.Coordinates = coords
		p.cards = append(p.cards, card)
		return true
	}

	p.setCoordinates(active.ID, coords)
	return true
}

func (p *Plan) setCoordinates(id string, coords canvas.Point) {
	idx, rowID, found := p.locate(id)
	if !found {
		return
	}
	if rowID == "" {
		p.cards[idx].Coordinates = coords
		return
	}
	p.rows[rowID].Cards[idx].Coordinates = coords
}

// AddFromPalette places a new card built from a palette template. Drops are
// only accepted directly on the canvas background. start is the transform
// captured when the palette drag began. Row templates with a seat count get
// freshly minted child seats.
func (p *Plan) AddFromPalette(templateID string, ev DragEnd, start canvas.Transform) (Card, bool, error) {
	tpl, err := ParseTemplate(templateID)
	if err != nil {
		return Card{}, false, err
	}
	if ev.OverID != CanvasID {
		return Card{}, false, nil
	}

	card := Card{
		ID:          p.mintID(tpl.ID, nil),
		Coordinates: canvas.ToCanvas(ev.InitialRect, ev.OverRect, ev.Delta, start),
		Text:        tpl.Label,
		Type:        tpl.Type,
	}

	if !card.IsRow() {
		p.addFree(card, "", nil)
		return card, true, nil
	}

	card.Text = fmt.Sprintf("%s %d", tpl.Label, len(p.rows)+1)
	reserved := map[string]bool{card.ID: true}
	seats := make([]Card, 0, tpl.Seats)
	for i := 0; i < tpl.Seats; i++ {
		id := p.mintID("Seat", reserved)
		reserved[id] = true
		seats = append(seats, Card{
			ID:          id,
			Coordinates: canvas.Point{X: float64(i * SeatSpacing)},
			Text:        fmt.Sprintf("Seat %d", i+1),
			Type:        CardSeat,
		})
	}
	p.addFree(card, card.Text, seats)

	return card, true, nil
}

// DragSession tracks one drag gesture from start to release.
type DragSession struct {
	plan     *Plan
	activeID string
	start    canvas.Transform
	palette  bool
	ended    bool

	AddedCard *Card // set when a palette drop created a card
}

// BeginDrag starts dragging an existing card.
func (p *Plan) BeginDrag(cardID string, t canvas.Transform) *DragSession {
	return &DragSession{plan: p, activeID: cardID, start: t}
}

// BeginPaletteDrag starts dragging a palette template; t is captured as the
// transform used for the drop.
func (p *Plan) BeginPaletteDrag(templateID string, t canvas.Transform) *DragSession {
	return &DragSession{plan: p, activeID: templateID, start: t, palette: true}
}

// ActiveID returns the id of the dragged card or template.
func (s *DragSession) ActiveID() string {
	return s.activeID
}

// End releases the drag. ev.ActiveID is ignored in favour of the session's
// active id; current is the transform at release time.
func (s *DragSession) End(ev DragEnd, current canvas.Transform) (bool, error) {
	if s.ended {
		return false, ErrDragEnded
	}
	s.ended = true
	ev.ActiveID = s.activeID

	if !s.palette {
		return s.plan.ApplyDragEnd(ev, current), nil
	}

	card, added, err := s.plan.AddFromPalette(s.activeID, ev, s.start)
	if err != nil {
		return false, err
	}
	if added {
		s.AddedCard = &card
	}
	return added, nil
}
