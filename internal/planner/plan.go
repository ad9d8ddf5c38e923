package planner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Plan is the in-memory seating plan.
// Every card lives in exactly one place: the free list or one row's children.
// Row cards themselves are always free-floating and have a matching row entry.
type Plan struct {
	Name string

	cards    []Card          // free-floating cards, render order
	rows     map[string]*Row // keyed by row card id
	rowOrder []string        // insertion order of rows

	newSuffix func() string
}

// PlanOption configures optional plan behavior.
type PlanOption func(*Plan)

// WithIDSuffix overrides the random suffix used when minting card ids.
func WithIDSuffix(fn func() string) PlanOption {
	return func(p *Plan) {
		p.newSuffix = fn
	}
}

// NewPlan creates an empty plan.
func NewPlan(name string, opts ...PlanOption) *Plan {
	p := &Plan{
		Name:      name,
		rows:      make(map[string]*Row),
		newSuffix: randomSuffix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// mintID appends a fresh random suffix to prefix, avoiding ids already in the
// plan and ids in reserved.
func (p *Plan) mintID(prefix string, reserved map[string]bool) string {
	for {
		id := prefix + "-" + p.newSuffix()
		if _, _, found := p.locate(id); found || reserved[id] {
			continue
		}
		return id
	}
}

// Cards returns a copy of the free-floating cards.
func (p *Plan) Cards() []Card {
	return slices.Clone(p.cards)
}

// Rows returns copies of all rows in insertion order.
func (p *Plan) Rows() []Row {
	result := make([]Row, 0, len(p.rowOrder))
	for _, id := range p.rowOrder {
		result = append(result, *p.rows[id].clone())
	}
	return result
}

// Row returns a copy of the row with the given id.
func (p *Plan) Row(id string) (Row, bool) {
	r, ok := p.rows[id]
	if !ok {
		return Row{}, false
	}
	return *r.clone(), true
}

// Card returns the card with the given id and the id of the row holding it
// ("" when the card is free-floating).
func (p *Plan) Card(id string) (card Card, rowID string, found bool) {
	idx, rowID, found := p.locate(id)
	if !found {
		return Card{}, "", false
	}
	if rowID == "" {
		return p.cards[idx], "", true
	}
	return p.rows[rowID].Cards[idx], rowID, true
}

// Len returns the number of cards in the plan, children included.
func (p *Plan) Len() int {
	n := len(p.cards)
	for _, r := range p.rows {
		n += len(r.Cards)
	}
	return n
}

// locate returns the index of a card in its container.
func (p *Plan) locate(id string) (idx int, rowID string, found bool) {
	for i, c := range p.cards {
		if c.ID == id {
			return i, "", true
		}
	}
	for _, rid := range p.rowOrder {
		if i := p.rows[rid].indexOf(id); i >= 0 {
			return i, rid, true
		}
	}
	return 0, "", false
}

// addFree appends a card to the free list, creating the row entry for row cards.
func (p *Plan) addFree(c Card, rowName string, children []Card) {
	p.cards = append(p.cards, c)
	if c.IsRow() {
		p.rows[c.ID] = &Row{ID: c.ID, Name: rowName, Cards: children}
		p.rowOrder = append(p.rowOrder, c.ID)
	}
}

// detach removes a card from its current container and returns it.
func (p *Plan) detach(id string) (Card, bool) {
	idx, rowID, found := p.locate(id)
	if !found {
		return Card{}, false
	}
	if rowID == "" {
		c := p.cards[idx]
		p.cards = slices.Delete(p.cards, idx, idx+1)
		return c, true
	}
	r := p.rows[rowID]
	c := r.Cards[idx]
	r.Cards = slices.Delete(r.Cards, idx, idx+1)
	return c, true
}

// Rename changes a card's text. Renaming a row card also renames the row.
func (p *Plan) Rename(id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	idx, rowID, found := p.locate(id)
	if !found {
		return fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	if rowID != "" {
		p.rows[rowID].Cards[idx].Text = text
		return nil
	}
	p.cards[idx].Text = text
	if r, ok := p.rows[id]; ok {
		r.Name = text
	}
	return nil
}

// Delete removes a card. Deleting a row card removes the row and all its children.
func (p *Plan) Delete(id string) error {
	if _, found := p.detach(id); !found {
		return fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	if _, ok := p.rows[id]; ok {
		delete(p.rows, id)
		p.rowOrder = slices.DeleteFunc(p.rowOrder, func(rid string) bool { return rid == id })
	}
	return nil
}

// Validate checks the containment invariant: ids are unique across the free
// list and all rows, and row cards and row entries match one to one.
func (p *Plan) Validate() error {
	seen := make(map[string]string)
	mark := func(id, where string) error {
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s in both %s and %s", ErrContainment, id, prev, where)
		}
		seen[id] = where
		return nil
	}

	rowCards := 0
	for _, c := range p.cards {
		if err := mark(c.ID, "canvas"); err != nil {
			return err
		}
		if c.IsRow() {
			rowCards++
			if _, ok := p.rows[c.ID]; !ok {
				return fmt.Errorf("%w: row card %s has no row entry", ErrContainment, c.ID)
			}
		}
	}
	if rowCards != len(p.rows) || len(p.rows) != len(p.rowOrder) {
		return fmt.Errorf("%w: %d row cards for %d rows", ErrContainment, rowCards, len(p.rows))
	}

	for _, rid := range p.rowOrder {
		for _, c := range p.rows[rid].Cards {
			if c.IsRow() {
				return fmt.Errorf("%w: row %s nested in row %s", ErrContainment, c.ID, rid)
			}
			if err := mark(c.ID, rid); err != nil {
				return err
			}
		}
	}
	return nil
}
