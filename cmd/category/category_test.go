package category_test

import (
	"path/filepath"
	"testing"

	"fjacquet/ledgerdash/cmd/category"
	"fjacquet/ledgerdash/cmd/cmdtest"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLifecycle(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)
	exec := func(args ...string) (string, error) {
		return cmdtest.Execute(t, c, category.Cmd, append(append([]string{"category"}, args...), cmdtest.User...)...)
	}

	out, err := exec("add", "tools")
	require.NoError(t, err)
	assert.Equal(t, "added category tools\n", out)

	_, err = exec("add", "tools")
	assert.ErrorIs(t, err, ledgererror.ErrDuplicate)

	_, err = exec("rename", "tools", "Hand tools")
	require.NoError(t, err)
	_, err = exec("rename", "toys", "Toys")
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)

	_, err = exec("delete", "packaging")
	require.NoError(t, err)
	_, err = exec("delete", "packaging")
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)

	s, err := c.State()
	require.NoError(t, err)
	assert.Equal(t, []models.Category{
		{Value: "material", Label: "مواد اولیه"},
		{Value: "shipping", Label: "حمل و نقل"},
		{Value: "other", Label: "سایر"},
		{Value: "tools", Label: "Hand tools"},
	}, s.Categories())

	out, err = exec("list")
	require.NoError(t, err)
	assert.Contains(t, out, "# Categories")
	assert.Contains(t, out, "Hand tools")
	assert.NotContains(t, out, "packaging")
}

func TestCategoryAdd_RequiresUser(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)
	_, err := cmdtest.Execute(t, c, category.Cmd, "category", "add", "tools")
	assert.ErrorIs(t, err, ledgererror.ErrUnauthorized)

	out, err := cmdtest.Execute(t, c, category.Cmd, "category", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "tools")
}

func TestCategorySaveSeed(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)
	seed := filepath.Join(t.TempDir(), "categories.yaml")
	c.GetCategoryStore().CategoriesFile = seed

	_, err := cmdtest.Execute(t, c, category.Cmd, append([]string{"category", "add", "tools"}, cmdtest.User...)...)
	require.NoError(t, err)
	out, err := cmdtest.Execute(t, c, category.Cmd, append([]string{"category", "save-seed"}, cmdtest.User...)...)
	require.NoError(t, err)
	assert.Equal(t, "saved 5 categories\n", out)

	loaded, err := c.GetCategoryStore().LoadCategories()
	require.NoError(t, err)
	require.Len(t, loaded, 5)
	assert.Equal(t, "tools", loaded[4].Value)
}
