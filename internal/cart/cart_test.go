package cart_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
)

var laptop = catalog.Product{ID: 1, Name: "HP Pavilion Gaming Laptop", Category: "Laptop", Price: 65999, Stock: 10}

func newCart(t *testing.T) (*cart.Cart, *catalog.Catalog) {
	t.Helper()
	cat := catalog.New(catalog.Seed())
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return cart.New(cat, cart.WithClock(func() time.Time { return at })), cat
}

func product(t *testing.T, cat *catalog.Catalog, id int) catalog.Product {
	t.Helper()
	p, ok := cat.Product(id)
	require.True(t, ok)
	return p
}

func shipping() cart.ShippingInfo {
	return cart.ShippingInfo{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Address:  "12 MG Road",
		City:     "Pune",
		State:    "MH",
		Pincode:  "411001",
	}
}

func TestAdd_TwiceMergesIntoOneLine(t *testing.T) {
	c, _ := newCart(t)

	c.Add(laptop)
	c.Add(laptop)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(131998), c.Total())
	assert.Equal(t, 2, c.ItemCount())
}

func TestAdd_KeepsFirstAddOrder(t *testing.T) {
	c, cat := newCart(t)

	c.Add(product(t, cat, 3))
	c.Add(product(t, cat, 1))
	c.Add(product(t, cat, 3))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].ID)
	assert.Equal(t, 1, lines[1].ID)
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name      string
		qty       int
		wantLines int
		wantQty   int
	}{
		{name: "zero removes", qty: 0, wantLines: 0},
		{name: "negative removes", qty: -3, wantLines: 0},
		{name: "sets value", qty: 7, wantLines: 1, wantQty: 7},
		{name: "no stock bound", qty: 500, wantLines: 1, wantQty: 500},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newCart(t)
			c.Add(laptop)

			c.SetQuantity(laptop.ID, tc.qty)

			lines := c.Lines()
			require.Len(t, lines, tc.wantLines)
			if tc.wantLines > 0 {
				assert.Equal(t, tc.wantQty, lines[0].Quantity)
			}
		})
	}
}

func TestSetQuantity_UnknownLineIsNoop(t *testing.T) {
	c, _ := newCart(t)
	c.SetQuantity(42, 3)
	assert.True(t, c.Empty())
}

func TestRemove(t *testing.T) {
	c, cat := newCart(t)
	c.Add(product(t, cat, 1))
	c.Add(product(t, cat, 2))

	c.Remove(1)
	c.Remove(99)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].ID)
}

func TestTotal_NoDriftAcrossOperations(t *testing.T) {
	c, cat := newCart(t)

	c.Add(product(t, cat, 1))
	c.Add(product(t, cat, 15))
	c.Add(product(t, cat, 15))
	c.SetQuantity(1, 3)
	c.Add(product(t, cat, 13))
	c.Remove(13)
	c.SetQuantity(15, 5)

	var want int64
	for _, l := range c.Lines() {
		want += l.Price * int64(l.Quantity)
	}
	assert.Equal(t, want, c.Total())
	assert.Equal(t, int64(3*65999+5*4999), c.Total())
	assert.Equal(t, 8, c.ItemCount())
}

func TestClear(t *testing.T) {
	c, _ := newCart(t)
	c.Add(laptop)

	c.Clear()

	assert.True(t, c.Empty())
	assert.Zero(t, c.Total())
	assert.Zero(t, c.ItemCount())
}

func TestPlaceOrder(t *testing.T) {
	c, cat := newCart(t)
	p := product(t, cat, 1)
	c.Add(p)
	c.Add(p)
	before := c.Total()

	o := c.PlaceOrder(shipping())

	assert.Equal(t, before, o.Total)
	assert.Equal(t, int64(131998), o.Total)
	assert.Equal(t, "ORD-1714557600000", o.OrderID)
	assert.Equal(t, cart.StatusProcessing, o.Status)
	assert.Equal(t, cart.PaymentCashOnDelivery, o.PaymentMethod)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)

	assert.True(t, c.Empty())
	assert.Len(t, c.Orders(), 1)
	assert.Equal(t, 8, product(t, cat, 1).Stock)
}

func TestPlaceOrder_StaleSnapshotDoesNotDoubleDecrement(t *testing.T) {
	c, cat := newCart(t)
	snapshot := product(t, cat, 1)

	c.Add(snapshot)
	c.PlaceOrder(shipping())

	// Same stale snapshot (stock 10) added again after the first order.
	c.Add(snapshot)
	c.Add(snapshot)
	c.PlaceOrder(shipping())

	assert.Equal(t, 10-1-2, product(t, cat, 1).Stock)
}

func TestPlaceOrder_UniqueIDsWithinSameMillisecond(t *testing.T) {
	c, _ := newCart(t)

	seen := map[string]bool{}
	for range 5 {
		c.Add(laptop)
		o := c.PlaceOrder(shipping())
		assert.False(t, seen[o.OrderID], o.OrderID)
		seen[o.OrderID] = true
	}
	assert.Len(t, c.Orders(), 5)
}

func TestPlaceOrder_OrderIsDetachedFromCart(t *testing.T) {
	c, _ := newCart(t)
	c.Add(laptop)

	o := c.PlaceOrder(shipping())
	c.Add(laptop)
	c.SetQuantity(laptop.ID, 9)

	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, 1, c.Orders()[0].Items[0].Quantity)
}

func TestRestore(t *testing.T) {
	c, _ := newCart(t)

	prior := cart.Order{OrderID: "ORD-1714557600000", Total: 1}
	c.Restore([]cart.Line{
		{Product: laptop, Quantity: 2},
		{Product: laptop, Quantity: 5},
		{Product: catalog.Product{ID: 2, Price: 10}, Quantity: 0},
	}, []cart.Order{prior})

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	o := c.PlaceOrder(shipping())
	assert.Equal(t, "ORD-1714557600001", o.OrderID, "ids continue past restored history")
	assert.Len(t, c.Orders(), 2)
}
