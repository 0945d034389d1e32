package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
)

// ErrMissingFurnitureID is returned when the creator leaves a created item
// without a unique store-assigned ID.
var ErrMissingFurnitureID = errors.New("created furniture has no unique ID")

// FurnitureCreator persists new furniture in one batch, assigning each item
// its ID in place. Implementations must create all items or none.
type FurnitureCreator interface {
	CreateMultiple(ctx context.Context, furniture []*domain.Furniture) error
}

// Result is the outcome of compiling a grid.
type Result struct {
	// Grid holds only blank tokens, "<room>_<id>_" tokens and nulls.
	Grid Grid
	// Created lists the furniture created for named cells, in row-major order.
	Created []*domain.Furniture
}

// CreatedIDs returns the IDs of the furniture created during compilation.
func (r *Result) CreatedIDs() []int64 {
	ids := make([]int64, len(r.Created))
	for i, f := range r.Created {
		ids[i] = f.ID
	}
	return ids
}

type pendingCell struct {
	row, col int
	room     string
	item     *domain.Furniture
}

// Compile resolves every named furniture cell of grid into newly created
// furniture owned by owner in palaceID, and rewrites the grid in canonical
// form. Cells are processed row-major. Resolving an already resolved grid
// creates nothing.
//
// Ownership is not checked here; callers pass an owner and palace they have
// already authorized. Compile is not atomic on its own: run it inside the
// transaction that also stores the resolved grid.
func Compile(
	ctx context.Context,
	grid Grid,
	owner uuid.UUID,
	palaceID int64,
	creator FurnitureCreator,
) (*Result, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	resolved := make(Grid, len(grid))
	var pending []pendingCell

	for i, row := range grid {
		resolved[i] = make(Row, len(row))
		for j, token := range row {
			cell := ParseCell(token)
			if cell.Kind != CellUnresolved {
				resolved[i][j] = cell.Format()
				continue
			}

			item, err := domain.NewPlacedFurniture(owner, palaceID, cell.Name)
			if err != nil {
				return nil, fmt.Errorf("cell [%d][%d]: %w", i, j, err)
			}
			pending = append(pending, pendingCell{row: i, col: j, room: cell.Room, item: item})
		}
	}

	result := &Result{Grid: resolved, Created: []*domain.Furniture{}}
	if len(pending) == 0 {
		return result, nil
	}

	batch := make([]*domain.Furniture, len(pending))
	for k, p := range pending {
		batch[k] = p.item
	}

	if err := creator.CreateMultiple(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to create furniture: %w", err)
	}

	seen := make(map[int64]struct{}, len(batch))
	for _, p := range pending {
		id := p.item.ID
		if _, dup := seen[id]; dup || id <= 0 {
			return nil, fmt.Errorf("%w: got %d", ErrMissingFurnitureID, id)
		}
		seen[id] = struct{}{}

		resolved[p.row][p.col] = Cell{Kind: CellResolved, Room: p.room, FurnitureID: id}.Format()
	}

	result.Created = batch
	return result, nil
}
