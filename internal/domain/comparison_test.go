package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparison(t *testing.T) {
	c := testCatalog()

	cmp, err := NewComparison(c, "dubai-full-day", "buggy-quad")
	require.NoError(t, err)

	t.Run("duplicate is a conflict", func(t *testing.T) {
		assert.True(t, IsConflict(cmp.Add(c, "buggy-quad")))
	})

	t.Run("unknown tour is not found", func(t *testing.T) {
		assert.True(t, IsNotFound(cmp.Add(c, "moon-walk")))
	})

	require.NoError(t, cmp.Add(c, "hot-air-balloon"))

	t.Run("fourth tour is rejected", func(t *testing.T) {
		assert.True(t, IsValidation(cmp.Add(c, "dhow-cruise-marina")))
		assert.Len(t, cmp.Selected(), MaxToursToCompare)
	})

	t.Run("available excludes selected", func(t *testing.T) {
		ids := make([]string, 0)
		for _, tour := range cmp.Available(c) {
			ids = append(ids, tour.ID)
		}

		assert.Equal(t, []string{"desert-safari-sharing", "abu-dhabi-city", "dhow-cruise-marina"}, ids)
	})

	t.Run("remove frees a slot", func(t *testing.T) {
		cmp.Remove("buggy-quad")
		assert.False(t, cmp.Contains("buggy-quad"))
		require.NoError(t, cmp.Add(c, "dhow-cruise-marina"))

		selected := cmp.Selected()
		assert.Equal(t, "dhow-cruise-marina", selected[len(selected)-1].ID)
	})
}
