// Package planner holds the room planner model: free-floating cards on a
// zoomable canvas and row containers that own an ordered list of child cards.
package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/javiermolinar/pupitre/internal/canvas"
)

// Planner errors.
var (
	ErrCardNotFound    = errors.New("card not found")
	ErrPlanNotFound    = errors.New("plan not found")
	ErrInvalidTemplate = errors.New("invalid palette template")
	ErrEmptyText       = errors.New("card text cannot be empty")
	ErrContainment     = errors.New("card containment violated")
)

// CanvasID is the drop target id of the canvas background.
const CanvasID = "canvas"

// SeatSpacing is the horizontal distance between seats synthesized for a row template.
const SeatSpacing = 60

// CardType identifies what a card represents on the canvas.
type CardType string

const (
	CardRow     CardType = "row"
	CardSeat    CardType = "seat"
	CardStudent CardType = "student"
	CardBlock   CardType = "block"
)

// Card is a positioned item on the canvas or inside a row.
// Coordinates are canvas-space; children of a row are relative to the row.
type Card struct {
	ID          string       `json:"id"`
	Coordinates canvas.Point `json:"coordinates"`
	Text        string       `json:"text"`
	Type        CardType     `json:"type"`
}

// IsRow returns true if the card is a row container card.
func (c Card) IsRow() bool {
	return c.Type == CardRow
}

// Row is a container holding an ordered sequence of child cards.
type Row struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}

func (r *Row) clone() *Row {
	cards := make([]Card, len(r.Cards))
	copy(cards, r.Cards)
	return &Row{ID: r.ID, Name: r.Name, Cards: cards}
}

func (r *Row) indexOf(id string) int {
	for i, c := range r.Cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// IsRowID reports whether id names a row container: its first
// hyphen-delimited token is "row", compared case-insensitively.
func IsRowID(id string) bool {
	first, _, _ := strings.Cut(id, "-")
	return strings.EqualFold(first, string(CardRow))
}

// Template describes a palette entry such as "Row-4", "Seat" or "Student-Ana".
type Template struct {
	ID    string
	Type  CardType
	Seats int    // child seats synthesized for row templates
	Label string // default card text
}

// ParseTemplate parses a palette template id.
// The first hyphen-delimited token selects the card type; for rows the second
// token is the number of seats, for other types the remainder is the label.
func ParseTemplate(id string) (Template, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Template{}, fmt.Errorf("%w: empty id", ErrInvalidTemplate)
	}

	head, rest, _ := strings.Cut(id, "-")
	tpl := Template{ID: id}

	switch strings.ToLower(head) {
	case string(CardRow):
		tpl.Type = CardRow
		tpl.Label = "Row"
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil || n < 0 {
				return Template{}, fmt.Errorf("%w: %q seat count must be a non-negative number", ErrInvalidTemplate, id)
			}
			tpl.Seats = n
		}
	case string(CardSeat):
		tpl.Type = CardSeat
		tpl.Label = labelOr(rest, "Seat")
	case string(CardStudent):
		tpl.Type = CardStudent
		tpl.Label = labelOr(rest, "Student")
	default:
		tpl.Type = CardBlock
		tpl.Label = strings.ReplaceAll(id, "-", " ")
	}

	return tpl, nil
}

func labelOr(s, fallback string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "-", " "))
	if s == "" {
		return fallback
	}
	return s
}
