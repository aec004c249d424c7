package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boutique_backend/models"
)

func TestListActiveProductsFilters(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "Laptop Gaming", 1299.99, 5)
	seedProduct(t, db, "Casque Audio", 199.99, 15)

	inactive := seedProduct(t, db, "Ancien Modèle", 49.99, 1)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", inactive.ID).
		Update("is_active", false).Error)

	all, err := ListActiveProducts(db, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := ListActiveProducts(db, Filter{Search: "Laptop"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Laptop Gaming", matched[0].Name)

	none, err := ListActiveProducts(db, Filter{Search: "Ancien"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListActiveProductsByCategory(t *testing.T) {
	db := newTestDB(t)

	audio := seedProduct(t, db, "Casque Audio", 199.99, 15)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", audio.ID).
		Update("category", "Audio").Error)
	seedProduct(t, db, "Laptop Gaming", 1299.99, 5)

	matched, err := ListActiveProducts(db, Filter{Category: "Audio"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Casque Audio", matched[0].Name)

	categories, err := Categories(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"Audio", "Test"}, categories)
}
