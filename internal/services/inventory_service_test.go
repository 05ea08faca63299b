package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"threadline/internal/repos"
	"threadline/internal/services"
)

func TestCheckAvailabilityBuckets(t *testing.T) {
	db := memdb(t)
	prods := repos.NewProductRepo(db)
	inv := services.NewInventoryService(prods)

	cases := []struct {
		stock  int
		status string
	}{
		{0, "OUT_OF_STOCK"},
		{1, "LOW_STOCK"},
		{4, "LOW_STOCK"},
		{5, "IN_STOCK"},
		{40, "IN_STOCK"},
	}
	for _, tc := range cases {
		require.NoError(t, prods.SetStock("p-oxford", "M", tc.stock))
		av, err := inv.CheckAvailability("p-oxford", "M")
		require.NoError(t, err)
		require.Equal(t, tc.status, av.Status, "stock=%d", tc.stock)
	}
}

func TestCheckAvailabilityMissingVariant(t *testing.T) {
	inv := services.NewInventoryService(repos.NewProductRepo(memdb(t)))

	av, err := inv.CheckAvailability("p-hoodie", "S")
	require.NoError(t, err)
	require.Equal(t, "OUT_OF_STOCK", av.Status)
	require.Zero(t, av.Stock)

	av, err = inv.CheckAvailability("no-such-product", "M")
	require.NoError(t, err)
	require.Equal(t, "OUT_OF_STOCK", av.Status)
}

func TestSetStockValidation(t *testing.T) {
	inv := services.NewInventoryService(repos.NewProductRepo(memdb(t)))

	require.Error(t, inv.SetStock("p-oxford", "XS", 5))
	require.Error(t, inv.SetStock("p-oxford", "M", -1))
	require.NoError(t, inv.SetStock("p-oxford", "M", 0))
}

func TestCartServiceSnapshotsVariantPrice(t *testing.T) {
	db := memdb(t)
	prods := repos.NewProductRepo(db)
	svc := services.NewCartService(repos.NewCartRepo(db), prods)

	// Seeded XL oxford carries its own price, distinct from the base price.
	require.NoError(t, svc.Add("sid-1", "p-oxford", "XL", 1))

	st, err := svc.Load("sid-1")
	require.NoError(t, err)
	items := st.Items()
	require.Len(t, items, 1)
	require.InDelta(t, 52.99, items[0].Price, 1e-9)
	require.Equal(t, "Classic Oxford Shirt", items[0].Name)
}
