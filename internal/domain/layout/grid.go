package layout

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotRectangular is returned when grid rows differ in length.
	ErrNotRectangular = errors.New("layout must be rectangular")
	// ErrInvalidLayout is returned when a layout is not a JSON array of arrays.
	ErrInvalidLayout = errors.New("layout must be a JSON array of rows")
)

// Row is one line of a grid. Nil entries are null cells.
type Row []*string

// UnmarshalJSON accepts any JSON array, mapping every element that is not a
// string to a null cell.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidLayout
	}

	row := make(Row, len(raw))
	for i, elem := range raw {
		var s string
		if err := json.Unmarshal(elem, &s); err == nil {
			row[i] = &s
		}
	}
	*r = row
	return nil
}

// Grid is a floor plan: a matrix of cell tokens in row-major order.
type Grid []Row

// Validate checks that every row has the same length.
func (g Grid) Validate() error {
	if len(g) == 0 {
		return nil
	}
	width := len(g[0])
	for i, row := range g {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrNotRectangular, i, len(row), width)
		}
	}
	return nil
}

// Cells returns the number of cells in the grid.
func (g Grid) Cells() int {
	n := 0
	for _, row := range g {
		n += len(row)
	}
	return n
}

// FurnitureIDs returns the furniture IDs referenced by resolved cells, in
// row-major order, without duplicates.
func (g Grid) FurnitureIDs() []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, row := range g {
		for _, token := range row {
			cell := ParseCell(token)
			if cell.Kind != CellResolved {
				continue
			}
			if _, ok := seen[cell.FurnitureID]; ok {
				continue
			}
			seen[cell.FurnitureID] = struct{}{}
			ids = append(ids, cell.FurnitureID)
		}
	}
	return ids
}

// DecodeGrid parses a stored or submitted layout. An empty input decodes to
// a nil grid.
func DecodeGrid(data []byte) (Grid, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var g Grid
	if err := json.Unmarshal(data, &g); err != nil {
		if errors.Is(err, ErrInvalidLayout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	return g, nil
}

// Encode renders the grid as a JSON array of arrays of strings and nulls.
func (g Grid) Encode() (string, error) {
	if g == nil {
		g = Grid{}
	}
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("failed to encode layout: %w", err)
	}
	return string(data), nil
}
