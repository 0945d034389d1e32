package layout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialCreator assigns IDs starting at next, like a database sequence.
type sequentialCreator struct {
	next    int64
	calls   int
	batches [][]*domain.Furniture
	err     error
	assign  func(i int) int64
}

func (c *sequentialCreator) CreateMultiple(_ context.Context, furniture []*domain.Furniture) error {
	c.calls++
	c.batches = append(c.batches, furniture)
	if c.err != nil {
		return c.err
	}
	for i, f := range furniture {
		if c.assign != nil {
			f.ID = c.assign(i)
			continue
		}
		f.ID = c.next
		c.next++
	}
	return nil
}

func TestCompile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	owner := uuid.New()

	t.Run("creates named furniture in row-major order", func(t *testing.T) {
		creator := &sequentialCreator{next: 100}
		grid := Grid{
			{strPtr("0_"), strPtr("1_desk_"), strPtr("1_7_")},
			{strPtr("2_lamp_"), strPtr("bogus"), nil},
		}

		result, err := Compile(ctx, grid, owner, 9, creator)
		require.NoError(t, err)

		assert.Equal(t, 1, creator.calls, "furniture must be created in one batch")
		require.Len(t, result.Created, 2)
		assert.Equal(t, "desk", result.Created[0].Name)
		assert.Equal(t, "lamp", result.Created[1].Name)
		assert.Equal(t, []int64{100, 101}, result.CreatedIDs())
		for _, f := range result.Created {
			assert.Equal(t, owner, f.UserID)
			assert.Equal(t, int64(9), f.PalaceID)
			assert.Empty(t, f.Description)
		}

		want := Grid{
			{strPtr("0_"), strPtr("1_100_"), strPtr("1_7_")},
			{strPtr("2_101_"), nil, nil},
		}
		assert.Equal(t, want, result.Grid)
	})

	t.Run("duplicate names create separate furniture", func(t *testing.T) {
		creator := &sequentialCreator{next: 1}
		grid := Grid{{strPtr("1_chair_"), strPtr("1_chair_")}}

		result, err := Compile(ctx, grid, owner, 1, creator)
		require.NoError(t, err)
		assert.Equal(t, Grid{{strPtr("1_1_"), strPtr("1_2_")}}, result.Grid)
	})

	t.Run("names are kept verbatim", func(t *testing.T) {
		creator := &sequentialCreator{next: 1}
		grid := Grid{{strPtr("0_"), strPtr("1_ _"), strPtr("1_ bed _")}}

		result, err := Compile(ctx, grid, owner, 1, creator)
		require.NoError(t, err)
		require.Len(t, result.Created, 2)
		assert.Equal(t, " ", result.Created[0].Name)
		assert.Equal(t, " bed ", result.Created[1].Name)
		assert.Equal(t, Grid{{strPtr("0_"), strPtr("1_1_"), strPtr("1_2_")}}, result.Grid)
	})

	t.Run("resolved grid is a fixed point", func(t *testing.T) {
		creator := &sequentialCreator{next: 50}
		grid := Grid{{strPtr("0_"), strPtr("1_sofa_")}, {strPtr("3_"), strPtr("1_bed_")}}

		first, err := Compile(ctx, grid, owner, 1, creator)
		require.NoError(t, err)

		second, err := Compile(ctx, first.Grid, owner, 1, creator)
		require.NoError(t, err)

		assert.Equal(t, 1, creator.calls, "no furniture should be created on the second pass")
		assert.Empty(t, second.Created)
		assert.Equal(t, first.Grid, second.Grid)
	})

	t.Run("canonicalizes resolved tokens", func(t *testing.T) {
		creator := &sequentialCreator{next: 1}
		result, err := Compile(ctx, Grid{{strPtr("1_007_")}}, owner, 1, creator)
		require.NoError(t, err)
		assert.Equal(t, Grid{{strPtr("1_7_")}}, result.Grid)
		assert.Equal(t, 0, creator.calls)
	})

	t.Run("output contains only canonical tokens", func(t *testing.T) {
		creator := &sequentialCreator{next: 1}
		grid := Grid{{strPtr("1_a_"), strPtr("x"), strPtr("4_"), nil, strPtr("2_3_"), strPtr("1__")}}

		result, err := Compile(ctx, grid, owner, 1, creator)
		require.NoError(t, err)
		for _, row := range result.Grid {
			for _, token := range row {
				kind := ParseCell(token).Kind
				if token != nil {
					assert.Contains(t, []CellKind{CellBlank, CellResolved}, kind, *token)
				}
			}
		}
	})

	t.Run("empty grid", func(t *testing.T) {
		creator := &sequentialCreator{}
		result, err := Compile(ctx, Grid{}, owner, 1, creator)
		require.NoError(t, err)
		assert.Empty(t, result.Grid)
		assert.Empty(t, result.Created)
	})

	t.Run("rejects non-rectangular grid", func(t *testing.T) {
		creator := &sequentialCreator{next: 1}
		_, err := Compile(ctx, Grid{{strPtr("1_a_")}, {}}, owner, 1, creator)
		assert.ErrorIs(t, err, ErrNotRectangular)
		assert.Equal(t, 0, creator.calls)
	})

	t.Run("creator failure", func(t *testing.T) {
		boom := errors.New("boom")
		creator := &sequentialCreator{err: boom}
		_, err := Compile(ctx, Grid{{strPtr("1_a_")}}, owner, 1, creator)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("creator leaves IDs unset", func(t *testing.T) {
		creator := &sequentialCreator{assign: func(int) int64 { return 0 }}
		_, err := Compile(ctx, Grid{{strPtr("1_a_")}}, owner, 1, creator)
		assert.ErrorIs(t, err, ErrMissingFurnitureID)
	})

	t.Run("creator assigns duplicate IDs", func(t *testing.T) {
		creator := &sequentialCreator{assign: func(int) int64 { return 4 }}
		_, err := Compile(ctx, Grid{{strPtr("1_a_"), strPtr("1_b_")}}, owner, 1, creator)
		assert.ErrorIs(t, err, ErrMissingFurnitureID)
	})
}
