// Package storefront wires the catalog, cart and login session together,
// persists them after every change and serves them over HTTP.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"Storefront/internal/auth"
	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/events"
	"Storefront/internal/persist"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOutOfStock        = errors.New("product out of stock")
	ErrInsufficientStock = errors.New("quantity exceeds stock")
	ErrEmptyCart         = errors.New("cart is empty")
)

// LowStockThreshold is the stock level at or below which the dashboard lists
// a product.
const LowStockThreshold = 5

type Deps struct {
	Log       *zap.Logger
	Catalog   *catalog.Catalog
	Directory *auth.Directory
	State     *persist.State
	Publisher events.Publisher
	Metrics   *Metrics
	CartOpts  []cart.Option
}

// App is the single shopper's storefront. All methods are safe for
// concurrent use; each mutation is saved before the call returns.
type App struct {
	mu sync.Mutex

	log     *zap.Logger
	catalog *catalog.Catalog
	cart    *cart.Cart
	session *auth.Session
	state   *persist.State
	pub     events.Publisher
	metrics *Metrics
}

// New builds the App and rehydrates session, cart and order history from
// the state store.
func New(ctx context.Context, d Deps) (*App, error) {
	if d.Catalog == nil || d.Directory == nil || d.State == nil {
		return nil, errors.New("storefront: catalog, directory and state are required")
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}

	a := &App{
		log:     d.Log,
		catalog: d.Catalog,
		cart:    cart.New(d.Catalog, d.CartOpts...),
		session: auth.NewSession(d.Directory),
		state:   d.State,
		pub:     d.Publisher,
		metrics: d.Metrics,
	}

	if err := a.rehydrate(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) rehydrate(ctx context.Context) error {
	id, found, err := a.state.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("rehydrate: %w", err)
	}
	if found {
		a.session.Restore(id)
	}

	lines, err := a.state.LoadCart(ctx)
	if err != nil {
		return fmt.Errorf("rehydrate: %w", err)
	}
	orders, err := a.state.LoadOrders(ctx)
	if err != nil {
		return fmt.Errorf("rehydrate: %w", err)
	}
	a.cart.Restore(lines, orders)

	a.log.Info("state restored",
		zap.Bool("session", found),
		zap.Int("cart_lines", len(lines)),
		zap.Int("orders", len(orders)),
	)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	return a.state.Ping(ctx)
}

// Catalog

func (a *App) Products() []catalog.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.List()
}

func (a *App) Product(id int) (catalog.Product, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Product(id)
}

func (a *App) Categories() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Categories()
}

func (a *App) Filtered() []catalog.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Filtered()
}

func (a *App) FilterByCategory(category string) []catalog.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.FilterByCategory(category)
}

func (a *App) Search(query string) []catalog.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Search(query)
}

// Cart

type CartView struct {
	Lines     []cart.Line `json:"lines"`
	Total     int64       `json:"total"`
	ItemCount int         `json:"item_count"`
}

func (a *App) Cart() CartView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cartView()
}

func (a *App) cartView() CartView {
	lines := a.cart.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartView{Lines: lines, Total: a.cart.Total(), ItemCount: a.cart.ItemCount()}
}

// AddToCart adds one unit of the product. It refuses products with no stock
// and lines that would exceed the current stock.
func (a *App) AddToCart(ctx context.Context, productID int) (CartView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.catalog.Product(productID)
	if !ok {
		return CartView{}, ErrProductNotFound
	}
	if p.Stock <= 0 {
		return CartView{}, ErrOutOfStock
	}
	if a.quantityOf(productID)+1 > p.Stock {
		return CartView{}, ErrInsufficientStock
	}

	return a.mutateCart(ctx, func() { a.cart.Add(p) })
}

// SetQuantity overwrites the quantity of an existing line. Zero or less
// removes it. Quantities above the current stock are refused.
func (a *App) SetQuantity(ctx context.Context, productID, qty int) (CartView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if qty >= 1 {
		if p, ok := a.catalog.Product(productID); ok && qty > p.Stock {
			return CartView{}, ErrInsufficientStock
		}
	}

	return a.mutateCart(ctx, func() { a.cart.SetQuantity(productID, qty) })
}

func (a *App) RemoveFromCart(ctx context.Context, productID int) (CartView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.mutateCart(ctx, func() { a.cart.Remove(productID) })
}

func (a *App) ClearCart(ctx context.Context) (CartView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.mutateCart(ctx, a.cart.Clear)
}

func (a *App) quantityOf(productID int) int {
	for _, l := range a.cart.Lines() {
		if l.ID == productID {
			return l.Quantity
		}
	}
	return 0
}

// mutateCart applies mutate and saves the cart. A failed save puts the
// previous lines back.
func (a *App) mutateCart(ctx context.Context, mutate func()) (CartView, error) {
	cp := a.checkpoint()
	mutate()

	if err := a.state.SaveCart(ctx, a.cart.Lines()); err != nil {
		a.rollback(cp)
		return CartView{}, err
	}
	return a.cartView(), nil
}

// checkpoint is the cart, history and stock of the carted products as they
// were before a mutation.
type checkpoint struct {
	lines  []cart.Line
	orders []cart.Order
	stock  map[int]int
}

func (a *App) checkpoint() checkpoint {
	cp := checkpoint{
		lines:  a.cart.Lines(),
		orders: a.cart.Orders(),
		stock:  make(map[int]int),
	}
	for _, l := range cp.lines {
		if p, ok := a.catalog.Product(l.ID); ok {
			cp.stock[l.ID] = p.Stock
		}
	}
	return cp
}

func (a *App) rollback(cp checkpoint) {
	a.cart.Restore(cp.lines, cp.orders)
	for id, stock := range cp.stock {
		a.catalog.SetStock(id, stock)
	}
}

// Checkout validates the shipping form, places the order and persists the
// extended history with the emptied cart. If either save fails the order is
// undone in memory and the history record is put back. The order event is
// best effort.
func (a *App) Checkout(ctx context.Context, info cart.ShippingInfo) (cart.Order, error) {
	info = info.Normalize()
	if err := cart.ValidateShipping(info); err != nil {
		return cart.Order{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cart.Empty() {
		return cart.Order{}, ErrEmptyCart
	}

	cp := a.checkpoint()
	o := a.cart.PlaceOrder(info)

	if err := a.state.SaveOrders(ctx, a.cart.Orders()); err != nil {
		a.rollback(cp)
		return cart.Order{}, err
	}
	if err := a.state.SaveCart(ctx, a.cart.Lines()); err != nil {
		a.rollback(cp)
		if rerr := a.state.SaveOrders(ctx, cp.orders); rerr != nil {
			a.log.Error("restore order history failed", zap.Error(rerr), zap.String("order_id", o.OrderID))
		}
		return cart.Order{}, err
	}

	a.metrics.observeOrder(o)
	a.log.Info("order placed",
		zap.String("order_id", o.OrderID),
		zap.Int64("total", o.Total),
		zap.Int("lines", len(o.Items)),
	)

	if err := a.pub.PublishOrderPlaced(ctx, events.NewOrderPlaced(o)); err != nil {
		a.log.Warn("publish order placed failed", zap.Error(err), zap.String("order_id", o.OrderID))
	}
	return o, nil
}

func (a *App) Orders() []cart.Order {
	a.mu.Lock()
	defer a.mu.Unlock()

	orders := a.cart.Orders()
	if orders == nil {
		orders = []cart.Order{}
	}
	return orders
}

// Session

func (a *App) Login(ctx context.Context, username, password string) (auth.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev, hadPrev := a.session.Current()

	id, err := a.session.Login(username, password)
	if err != nil {
		return auth.Identity{}, err
	}
	if err := a.state.SaveSession(ctx, &id); err != nil {
		if hadPrev {
			a.session.Restore(prev)
		} else {
			a.session.Logout()
		}
		return auth.Identity{}, err
	}
	return id, nil
}

func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev, hadPrev := a.session.Current()

	a.session.Logout()
	if err := a.state.SaveSession(ctx, nil); err != nil {
		if hadPrev {
			a.session.Restore(prev)
		}
		return err
	}
	return nil
}

func (a *App) CurrentUser() (auth.Identity, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Current()
}

func (a *App) IsAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.IsAdmin()
}

// Admin

type Dashboard struct {
	TotalRevenue int64             `json:"total_revenue"`
	ProductCount int               `json:"product_count"`
	OrderCount   int               `json:"order_count"`
	LowStock     []catalog.Product `json:"low_stock"`
}

func (a *App) Dashboard() Dashboard {
	a.mu.Lock()
	defer a.mu.Unlock()

	products := a.catalog.List()
	orders := a.cart.Orders()

	d := Dashboard{
		ProductCount: len(products),
		OrderCount:   len(orders),
		LowStock:     []catalog.Product{},
	}
	for _, o := range orders {
		d.TotalRevenue += o.Total
	}
	for _, p := range products {
		if p.Stock <= LowStockThreshold {
			d.LowStock = append(d.LowStock, p)
		}
	}
	return d
}
