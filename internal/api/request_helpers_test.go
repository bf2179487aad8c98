package api

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasknest-api/internal/domain"
	"github.com/phrazzld/tasknest-api/internal/store"
)

func TestParseTaskQuery(t *testing.T) {
	t.Parallel()

	parse := func(t *testing.T, rawQuery string) store.TaskQuery {
		t.Helper()
		values, err := url.ParseQuery(rawQuery)
		require.NoError(t, err)
		return parseTaskQuery(values)
	}

	t.Run("empty query has defaults", func(t *testing.T) {
		t.Parallel()

		query := parse(t, "")
		assert.Nil(t, query.Filter.Priority)
		assert.Empty(t, query.Filter.Tag)
		assert.Nil(t, query.Filter.DueBefore)
		assert.Nil(t, query.Filter.DueAfter)
		assert.Nil(t, query.Filter.Completed)
		assert.Equal(t, store.SortField(""), query.Sort)
		assert.Equal(t, store.OrderDesc, query.Order)
	})

	t.Run("all filters parse", func(t *testing.T) {
		t.Parallel()

		query := parse(t,
			"priority=high&tag=work&due_before=2025-06-01&due_after=2025-01-01T00:00:00Z&completed=true")

		require.NotNil(t, query.Filter.Priority)
		assert.Equal(t, domain.PriorityHigh, *query.Filter.Priority)
		assert.Equal(t, "work", query.Filter.Tag)
		require.NotNil(t, query.Filter.DueBefore)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *query.Filter.DueBefore)
		require.NotNil(t, query.Filter.DueAfter)
		require.NotNil(t, query.Filter.Completed)
		assert.True(t, *query.Filter.Completed)
	})

	t.Run("invalid values are dropped not rejected", func(t *testing.T) {
		t.Parallel()

		query := parse(t, "priority=critical&due_before=tomorrow&completed=kinda")

		assert.Nil(t, query.Filter.Priority)
		assert.Nil(t, query.Filter.DueBefore)
		assert.Nil(t, query.Filter.Completed)
	})

	t.Run("sort fields", func(t *testing.T) {
		t.Parallel()

		query := parse(t, "sort=due_date&order=asc")
		assert.Equal(t, store.SortByDueDate, query.Sort)
		assert.Equal(t, store.OrderAsc, query.Order)

		query = parse(t, "sort=bogus&order=sideways")
		assert.Equal(t, store.SortField(""), query.Sort)
		assert.Equal(t, store.OrderDesc, query.Order)
	})
}
