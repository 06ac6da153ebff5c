// Package events announces placed orders to other processes.
package events

import (
	"context"
	"encoding/json"
	"time"

	"Storefront/internal/cart"
)

const DefaultOrderPlacedSubject = "storefront.orders.placed"

type OrderItem struct {
	ProductID int   `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
}

type OrderPlaced struct {
	OrderID   string      `json:"order_id"`
	Total     int64       `json:"total"`
	Items     []OrderItem `json:"items"`
	OrderDate time.Time   `json:"order_date"`
}

func NewOrderPlaced(o cart.Order) OrderPlaced {
	items := make([]OrderItem, len(o.Items))
	for i, l := range o.Items {
		items[i] = OrderItem{ProductID: l.ID, Quantity: l.Quantity, Price: l.Price}
	}
	return OrderPlaced{
		OrderID:   o.OrderID,
		Total:     o.Total,
		Items:     items,
		OrderDate: o.OrderDate,
	}
}

func (e OrderPlaced) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlaced) error
}

type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
