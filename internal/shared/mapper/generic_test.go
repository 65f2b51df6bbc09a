package mapper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string
	Value int
}

type entity struct {
	Label string
}

// =============================================================================
// MapSlicePtrWithID Tests
// =============================================================================

func TestMapSlicePtrWithID(t *testing.T) {
	toEntity := func(r *row) (*entity, error) {
		if r.Value < 0 {
			return nil, errors.New("negative value")
		}
		if r.Value == 0 {
			return nil, nil
		}
		return &entity{Label: fmt.Sprintf("%s=%d", r.ID, r.Value)}, nil
	}
	getID := func(r *row) string { return r.ID }

	t.Run("skips nil inputs and nil outputs", func(t *testing.T) {
		got, err := MapSlicePtrWithID([]*row{{ID: "a", Value: 1}, nil, {ID: "b", Value: 0}, {ID: "c", Value: 3}}, toEntity, getID)
		require.NoError(t, err)
		assert.Equal(t, []*entity{{Label: "a=1"}, {Label: "c=3"}}, got)
	})

	t.Run("error includes item ID", func(t *testing.T) {
		_, err := MapSlicePtrWithID([]*row{{ID: "tpl_bad", Value: -1}}, toEntity, getID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tpl_bad")
		assert.Contains(t, err.Error(), "negative value")
	})

	t.Run("nil input", func(t *testing.T) {
		got, err := MapSlicePtrWithID[row, entity, string](nil, toEntity, getID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
