// Package cart keeps the shopper's line items and turns them into orders.
package cart

import (
	"slices"
	"time"

	"Storefront/internal/catalog"
)

// Line is a product snapshot taken when it was first added, plus a quantity
// that is always at least 1.
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

func (l Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// StockLedger is the part of the catalog the cart writes stock back to.
type StockLedger interface {
	Product(id int) (catalog.Product, bool)
	SetStock(id, stock int)
}

// Cart is not safe for concurrent use; callers serialise access.
type Cart struct {
	lines  []Line
	orders []Order
	stock  StockLedger
	ids    *orderIDs
	now    func() time.Time
}

type Option func(*Cart)

func WithClock(now func() time.Time) Option {
	return func(c *Cart) { c.now = now }
}

func New(stock StockLedger, opts ...Option) *Cart {
	c := &Cart{stock: stock, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.ids = &orderIDs{}
	return c
}

// Add increments the line for p, or appends a new line with quantity 1.
// Stock is not checked here.
func (c *Cart) Add(p catalog.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

func (c *Cart) Remove(productID int) {
	c.lines = slices.DeleteFunc(c.lines, func(l Line) bool { return l.ID == productID })
}

// SetQuantity overwrites a line's quantity. Anything below 1 removes the line.
// There is no upper bound against stock.
func (c *Cart) SetQuantity(productID, qty int) {
	if qty < 1 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.lines[i].Quantity = qty
	}
}

func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

func (c *Cart) Orders() []Order {
	return slices.Clone(c.orders)
}

// Restore replaces the cart contents and order history with persisted state.
// Lines with a quantity below 1 or a repeated product id are dropped.
func (c *Cart) Restore(lines []Line, orders []Order) {
	c.lines = nil
	for _, l := range lines {
		if l.Quantity < 1 || c.index(l.ID) >= 0 {
			continue
		}
		c.lines = append(c.lines, l)
	}
	c.orders = slices.Clone(orders)
	c.ids.observe(orders)
}

// PlaceOrder snapshots the cart into an order, writes the stock of every
// ordered product back to the ledger, appends the order to the history and
// empties the cart. It accepts any shipping info; validation belongs to the
// checkout flow.
//
// The new stock is computed from the ledger's current value, not from the
// snapshot held in the line, so repeated orders never decrement twice from
// the same base.
func (c *Cart) PlaceOrder(info ShippingInfo) Order {
	at := c.now()

	o := Order{
		OrderID:       c.ids.next(at),
		Items:         c.Lines(),
		Total:         c.Total(),
		ShippingInfo:  info,
		PaymentMethod: PaymentCashOnDelivery,
		OrderDate:     at.UTC(),
		Status:        StatusProcessing,
	}

	for _, l := range c.lines {
		current, ok := c.stock.Product(l.ID)
		if !ok {
			continue
		}
		c.stock.SetStock(l.ID, current.Stock-l.Quantity)
	}

	c.orders = append(c.orders, o)
	c.Clear()
	return o
}

func (c *Cart) index(productID int) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.ID == productID })
}
