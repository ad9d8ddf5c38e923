package planner

import (
	"context"
	"fmt"
	"slices"
	"sort"
)

// Snapshot is the serializable form handed to the persistence collaborator.
type Snapshot struct {
	Cards    []Card         `json:"cards"`
	RowsData map[string]Row `json:"rowsData"`
}

// Snapshot returns a deep copy of the plan's cards and rows.
func (p *Plan) Snapshot() Snapshot {
	snap := Snapshot{
		Cards:    slices.Clone(p.cards),
		RowsData: make(map[string]Row, len(p.rows)),
	}
	if snap.Cards == nil {
		snap.Cards = []Card{}
	}
	for id, r := range p.rows {
		row := *r.clone()
		if row.Cards == nil {
			row.Cards = []Card{}
		}
		snap.RowsData[id] = row
	}
	return snap
}

// FromSnapshot rebuilds a plan from persisted data and validates containment.
// Rows follow the order of their row cards in the free list.
func FromSnapshot(name string, snap Snapshot, opts ...PlanOption) (*Plan, error) {
	p := NewPlan(name, opts...)
	p.cards = slices.Clone(snap.Cards)

	for _, c := range p.cards {
		if !c.IsRow() {
			continue
		}
		row, ok := snap.RowsData[c.ID]
		if !ok {
			row = Row{ID: c.ID, Name: c.Text}
		}
		p.rows[c.ID] = row.clone()
		p.rowOrder = append(p.rowOrder, c.ID)
	}

	// Rows without a card cannot be placed on the canvas.
	var orphans []string
	for id := range snap.RowsData {
		if _, ok := p.rows[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) > 0 {
		sort.Strings(orphans)
		return nil, fmt.Errorf("%w: rows without a row card: %v", ErrContainment, orphans)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Repository persists plans. Implementations store snapshots verbatim.
type Repository interface {
	// SavePlan replaces the stored plan with the given snapshot.
	SavePlan(ctx context.Context, name string, snap Snapshot) error

	// LoadPlan returns the stored snapshot, or ErrPlanNotFound.
	LoadPlan(ctx context.Context, name string) (*Snapshot, error)

	// ListPlans returns the names of all stored plans.
	ListPlans(ctx context.Context) ([]string, error)
}
