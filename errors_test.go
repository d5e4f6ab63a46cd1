package recipebook

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationError_Error(t *testing.T) {
	t.Parallel()
	err := &OperationError{Op: OpRead, ID: "item-category", Kind: ErrNotFound, Err: ErrObjectNotFound}
	assert.Contains(t, err.Error(), "recipebook:")
	assert.Contains(t, err.Error(), `read "item-category"`)
	assert.Contains(t, err.Error(), "object not found")

	noID := &OperationError{Op: OpList, Kind: ErrList}
	assert.Equal(t, "recipebook: failed to get available recipes (list)", noID.Error())
}

func TestOperationError_Unwrap(t *testing.T) {
	t.Parallel()
	cause := fmt.Errorf("unable to get results for x: %w", ErrObjectNotFound)
	err := &OperationError{Op: OpRead, ID: "x", Kind: ErrNotFound, Err: cause}
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, ErrObjectNotFound)
	assert.NotErrorIs(t, err, ErrRead)
}

func TestOperationError_errorsAs(t *testing.T) {
	t.Parallel()
	outer := fmt.Errorf("outer: %w", &OperationError{Op: OpCreate, ID: "a", Kind: ErrCreate, Err: ErrAlreadyExists})

	var oe *OperationError
	require.ErrorAs(t, outer, &oe)
	assert.Equal(t, OpCreate, oe.Op)
	assert.Equal(t, "a", oe.ID)
	assert.ErrorIs(t, oe, ErrAlreadyExists)
}

func TestSentinelErrors_Distinct(t *testing.T) {
	t.Parallel()
	all := []error{
		ErrCreate, ErrNotFound, ErrRead, ErrUpdate, ErrDelete, ErrList,
		ErrInvalidName, ErrInvalidFields, ErrInvalidRecord, ErrInvalidManifest,
		ErrObjectNotFound, ErrAlreadyExists, ErrReadOnly,
	}
	for i, a := range all {
		assert.Contains(t, a.Error(), "recipebook:")
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v is %v", a, b)
			}
		}
	}
}
