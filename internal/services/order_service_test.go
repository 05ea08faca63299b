package services_test

import (
	"regexp"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"threadline/internal/domain"
	"threadline/internal/repos"
	"threadline/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func oxford(qty int) domain.CartItem {
	return domain.CartItem{
		ProductID: "p-oxford",
		Name:      "Classic Oxford Shirt",
		Size:      "M",
		Quantity:  qty,
		Price:     49.99,
	}
}

func TestOrderIDFormat(t *testing.T) {
	re := regexp.MustCompile(`^MM90-[0-9A-Z]{6}$`)
	for i := 0; i < 50; i++ {
		id := services.NewOrderID()
		require.Regexp(t, re, id)
	}
}

func TestCreateRejectsEmptyCart(t *testing.T) {
	svc := services.NewOrderService(repos.NewOrderRepo(memdb(t)))

	_, err := svc.Create("Jane", "555-0100", nil)
	require.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestCreateAndTrackRoundTrip(t *testing.T) {
	svc := services.NewOrderService(repos.NewOrderRepo(memdb(t)))

	id, err := svc.Create("  Jane Doe  ", " 555-0100 ", []domain.CartItem{oxford(2)})
	require.NoError(t, err)
	require.Regexp(t, `^MM90-[0-9A-Z]{6}$`, id)

	o, items, err := svc.Track(id, "555-0100")
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", o.Name)
	require.Equal(t, domain.StatusPending, o.Status)
	require.Len(t, items, 1)
	require.Equal(t, "p-oxford", items[0].ProductID)
	require.Equal(t, 2, items[0].Quantity)
	require.InDelta(t, 99.98, items[0].Subtotal(), 1e-9)
}

func TestTrackIsCaseInsensitiveOnOrderID(t *testing.T) {
	svc := services.NewOrderService(repos.NewOrderRepo(memdb(t)))

	id, err := svc.Create("Jane", "555-0100", []domain.CartItem{oxford(1)})
	require.NoError(t, err)

	o, _, err := svc.Track("  mm90-"+id[5:]+"  ", "555-0100")
	require.NoError(t, err)
	require.Equal(t, id, o.OrderID)
}

func TestTrackRequiresMatchingPhone(t *testing.T) {
	svc := services.NewOrderService(repos.NewOrderRepo(memdb(t)))

	id, err := svc.Create("Jane", "555-0100", []domain.CartItem{oxford(1)})
	require.NoError(t, err)

	_, _, err = svc.Track(id, "555-9999")
	require.ErrorIs(t, err, services.ErrOrderNotFound)

	_, _, err = svc.Track("MM90-ZZZZZZ", "555-0100")
	require.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestCreateDecrementsStock(t *testing.T) {
	db := memdb(t)
	prods := repos.NewProductRepo(db)
	svc := services.NewOrderService(repos.NewOrderRepo(db))

	before, err := prods.Variant("p-oxford", "M")
	require.NoError(t, err)

	_, err = svc.Create("Jane", "555-0100", []domain.CartItem{oxford(3)})
	require.NoError(t, err)

	after, err := prods.Variant("p-oxford", "M")
	require.NoError(t, err)
	require.Equal(t, before.Stock-3, after.Stock)
}

func TestCreateFailsWhenStockInsufficient(t *testing.T) {
	db := memdb(t)
	prods := repos.NewProductRepo(db)
	svc := services.NewOrderService(repos.NewOrderRepo(db))

	require.NoError(t, prods.SetStock("p-oxford", "M", 2))

	_, err := svc.Create("Jane", "555-0100", []domain.CartItem{oxford(3)})
	require.ErrorIs(t, err, repos.ErrInsufficientStock)

	// A failed order must not leak a partial decrement.
	v, err := prods.Variant("p-oxford", "M")
	require.NoError(t, err)
	require.Equal(t, 2, v.Stock)
}

func TestStatusLifecycle(t *testing.T) {
	svc := services.NewOrderService(repos.NewOrderRepo(memdb(t)))

	id, err := svc.Create("Jane", "555-0100", []domain.CartItem{oxford(1)})
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(id, domain.StatusShipped))
	o, _, err := svc.Track(id, "555-0100")
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, o.Status)

	require.ErrorIs(t, svc.SetStatus(id, "Teleported"), services.ErrUnknownStatus)
	require.ErrorIs(t, svc.SetStatus("MM90-ZZZZZZ", domain.StatusPacked), services.ErrOrderNotFound)
}

func TestLeadsAggregatePerPhone(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(repos.NewOrderRepo(db))

	id1, err := svc.Create("Jane", "555-0100", []domain.CartItem{oxford(1)})
	require.NoError(t, err)
	id2, err := svc.Create("Jane D.", "555-0100", []domain.CartItem{oxford(2)})
	require.NoError(t, err)
	_, err = svc.Create("Bob", "555-0200", []domain.CartItem{oxford(1)})
	require.NoError(t, err)

	leads, err := svc.Leads()
	require.NoError(t, err)
	require.Len(t, leads, 2)

	// Biggest spender first.
	top := leads[0]
	require.Equal(t, "555-0100", top.Phone)
	require.Equal(t, 2, top.OrderCount)
	require.InDelta(t, 3*49.99, top.TotalSpent, 1e-9)
	require.ElementsMatch(t, []string{id1, id2}, top.Orders())
}
