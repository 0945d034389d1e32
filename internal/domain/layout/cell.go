// Package layout parses and resolves palace floor plans.
//
// A floor plan is a rectangular grid of cell tokens. A blank token "<room>_"
// marks a floor tile. A symbolic token "<room>_<payload>_" places furniture:
// an all-digit payload refers to existing furniture by ID, any other payload
// names furniture that does not exist yet. Everything else is invalid and
// resolves to null.
package layout

import (
	"regexp"
	"strconv"
)

// CellKind classifies a parsed cell token.
type CellKind int

const (
	CellInvalid CellKind = iota
	CellBlank
	CellResolved
	CellUnresolved
)

func (k CellKind) String() string {
	switch k {
	case CellBlank:
		return "blank"
	case CellResolved:
		return "resolved"
	case CellUnresolved:
		return "unresolved"
	default:
		return "invalid"
	}
}

var (
	blankPattern    = regexp.MustCompile(`^\d+_$`)
	symbolicPattern = regexp.MustCompile(`^(\d+)_([^_]+)_$`)
	digitsPattern   = regexp.MustCompile(`^\d+$`)
)

// Cell is one parsed grid cell.
type Cell struct {
	Kind        CellKind
	Raw         string // blank tokens are kept verbatim
	Room        string
	FurnitureID int64  // set for CellResolved
	Name        string // set for CellUnresolved
}

// ParseCell classifies a single token. A nil token is invalid.
func ParseCell(token *string) Cell {
	if token == nil {
		return Cell{Kind: CellInvalid}
	}
	s := *token

	if blankPattern.MatchString(s) {
		return Cell{Kind: CellBlank, Raw: s}
	}

	m := symbolicPattern.FindStringSubmatch(s)
	if m == nil {
		return Cell{Kind: CellInvalid}
	}
	room, payload := m[1], m[2]

	if digitsPattern.MatchString(payload) {
		id, err := strconv.ParseInt(payload, 10, 64)
		if err != nil {
			// digits that do not fit an ID cannot refer to any furniture
			return Cell{Kind: CellInvalid}
		}
		return Cell{Kind: CellResolved, Room: room, FurnitureID: id}
	}

	return Cell{Kind: CellUnresolved, Room: room, Name: payload}
}

// Format renders the canonical token for c. Invalid and unresolved cells have
// no canonical token and render as nil.
func (c Cell) Format() *string {
	var s string
	switch c.Kind {
	case CellBlank:
		s = c.Raw
	case CellResolved:
		s = c.Room + "_" + strconv.FormatInt(c.FurnitureID, 10) + "_"
	default:
		return nil
	}
	return &s
}
