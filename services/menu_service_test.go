package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryUpdate(t *testing.T) {
	env := newTestEnv(t)

	cat, err := env.menu.CreateCategory("Drinks", "cold and hot")
	require.NoError(t, err)

	got, err := env.menu.UpdateCategory(cat.ID, map[string]any{
		"name":      "Beverages",
		"is_active": false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Beverages", got.Name)
	assert.False(t, got.IsActive)

	// the public menu only lists active categories
	menu, err := env.menu.ListCategories()
	require.NoError(t, err)
	for _, c := range menu {
		assert.NotEqual(t, cat.ID, c.ID)
	}

	_, err = env.menu.UpdateCategory(9999, map[string]any{"name": "Ghost"})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "category", notFound.Resource)
}

func TestCategoryDelete(t *testing.T) {
	env := newTestEnv(t)

	cat, err := env.menu.CreateCategory("Specials", "")
	require.NoError(t, err)

	require.NoError(t, env.menu.DeleteCategory(cat.ID))

	_, err = env.menu.GetCategory(cat.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	err = env.menu.DeleteCategory(cat.ID)
	require.ErrorAs(t, err, &notFound)
}

func TestCategoryCreateRequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.menu.CreateCategory("", "")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestMenuItemUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.menu.UpdateItem(env.padThai.ID, map[string]any{"price": int64(25500)})
	require.NoError(t, err)
	assert.Equal(t, int64(25500), got.Price)

	require.NoError(t, env.menu.DeleteItem(env.padThai.ID))

	_, err = env.menu.GetItem(env.padThai.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
