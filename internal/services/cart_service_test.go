package services_test

import (
	"testing"

	"tunazugba/internal/models"
	"tunazugba/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAddon(t *testing.T, env *checkoutEnv, name, price string, stock int) *models.Addon {
	t.Helper()
	addon := &models.Addon{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		IsAvailable: true,
	}
	require.NoError(t, env.menuRepo.CreateAddon(addon))
	return addon
}

func TestCartAdd_MergesIdenticalCombination(t *testing.T) {
	env := setupCheckoutEnv(t)
	addon := createAddon(t, env, "Extra Rice", "15.00", 10)

	line1, err := env.carts.Add(env.user, services.AddRequest{
		MenuItemID: env.item.ID, Quantity: 1, AddonIDs: []string{addon.ID},
	})
	require.NoError(t, err)

	line2, err := env.carts.Add(env.user, services.AddRequest{
		MenuItemID: env.item.ID, Quantity: 2, AddonIDs: []string{addon.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, line1.ID, line2.ID, "identical combinations must merge")
	assert.Equal(t, 3, line2.Quantity)

	lines, err := env.cartRepo.GetByUser(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCartAdd_DifferentAddonSetsStaySeparate(t *testing.T) {
	env := setupCheckoutEnv(t)
	addon := createAddon(t, env, "Extra Rice", "15.00", 10)

	_, err := env.carts.Add(env.user, services.AddRequest{MenuItemID: env.item.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = env.carts.Add(env.user, services.AddRequest{
		MenuItemID: env.item.ID, Quantity: 1, AddonIDs: []string{addon.ID},
	})
	require.NoError(t, err)

	lines, err := env.cartRepo.GetByUser(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestCartAdd_RejectsOverStock(t *testing.T) {
	env := setupCheckoutEnv(t)

	_, err := env.carts.Add(env.user, services.AddRequest{MenuItemID: env.item.ID, Quantity: 11})
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, stockErr.Available)

	// Merging past the stock ceiling is rejected too.
	_, err = env.carts.Add(env.user, services.AddRequest{MenuItemID: env.item.ID, Quantity: 6})
	require.NoError(t, err)
	_, err = env.carts.Add(env.user, services.AddRequest{MenuItemID: env.item.ID, Quantity: 6})
	assert.ErrorAs(t, err, &stockErr)
}

func TestCartAdd_RejectsUnavailableAddon(t *testing.T) {
	env := setupCheckoutEnv(t)
	addon := createAddon(t, env, "Chicharon", "25.00", 0)

	_, err := env.carts.Add(env.user, services.AddRequest{
		MenuItemID: env.item.ID, Quantity: 1, AddonIDs: []string{addon.ID},
	})
	assert.Error(t, err)
}

func TestCartList_TotalsCoverSelectedLinesOnly(t *testing.T) {
	env := setupCheckoutEnv(t)

	line, err := env.carts.Add(env.user, services.AddRequest{MenuItemID: env.item.ID, Quantity: 2})
	require.NoError(t, err)

	view, err := env.carts.List(env.user)
	require.NoError(t, err)
	assert.True(t, view.Totals.Subtotal.Equal(decimal.RequireFromString("190.00")))

	_, err = env.carts.ToggleSelection(env.user, line.ID)
	require.NoError(t, err)

	view, err = env.carts.List(env.user)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1, "deselected lines stay in the cart")
	assert.True(t, view.Totals.Subtotal.IsZero(), "deselected lines are excluded from totals")
}

func TestCartList_PrunesOutOfStockItems(t *testing.T) {
	env := setupCheckoutEnv(t)

	_, err := env.carts.Add(env.user, services.AddRequest{MenuItemID: env.item.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.MenuItem{}).
		Where("id = ?", env.item.ID).
		Update("stock", 0).Error)

	view, err := env.carts.List(env.user)
	require.NoError(t, err)
	assert.Empty(t, view.Lines, "sold-out items must drop from the cart on view")
}

func TestCartClear(t *testing.T) {
	env := setupCheckoutEnv(t)

	_, err := env.carts.Add(env.user, services.AddRequest{MenuItemID: env.item.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, env.carts.Clear(env.user))

	lines, err := env.cartRepo.GetByUser(env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAddonSignature_OrderAndDuplicatesDoNotMatter(t *testing.T) {
	a := models.AddonSignature([]string{"x", "y", "z"})
	b := models.AddonSignature([]string{"z", "y", "x", "y"})
	c := models.AddonSignature([]string{"x", "y"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, models.AddonSignature(nil), c)
}
