package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	t.Run("entity errors wrap the generic sentinels", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, ErrUserNotFound, ErrNotFound)
		assert.ErrorIs(t, ErrTaskNotFound, ErrNotFound)
		assert.ErrorIs(t, ErrEmailExists, ErrDuplicate)
	})

	t.Run("IsNotFoundError", func(t *testing.T) {
		t.Parallel()
		assert.True(t, IsNotFoundError(ErrNotFound))
		assert.True(t, IsNotFoundError(ErrUserNotFound))
		assert.True(t, IsNotFoundError(ErrTaskNotFound))
		assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", ErrTaskNotFound)))
		assert.False(t, IsNotFoundError(ErrEmailExists))
		assert.False(t, IsNotFoundError(errors.New("something else")))
	})

	t.Run("IsDuplicateError", func(t *testing.T) {
		t.Parallel()
		assert.True(t, IsDuplicateError(ErrEmailExists))
		assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrEmailExists)))
		assert.False(t, IsDuplicateError(ErrTaskNotFound))
	})
}

func TestTaskPatchIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, TaskPatch{}.IsZero())

	title := "t"
	assert.False(t, TaskPatch{Title: &title}.IsZero())
	assert.False(t, TaskPatch{ClearDueDate: true}.IsZero())
}

func TestSortFieldIsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []SortField{SortByDueDate, SortByPriority, SortByCreatedAt, SortByTitle} {
		assert.True(t, f.IsValid(), string(f))
	}
	assert.False(t, SortField("updated_at").IsValid())
	assert.False(t, SortField("").IsValid())
}
