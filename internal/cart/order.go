package cart

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	PaymentCashOnDelivery = "Cash On Delivery"
	StatusProcessing      = "Processing"

	orderIDPrefix = "ORD-"
)

type ShippingInfo struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,number,len=10"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Pincode  string `json:"pincode" validate:"required,number,len=6"`
}

type Order struct {
	OrderID       string       `json:"order_id"`
	Items         []Line       `json:"items"`
	Total         int64        `json:"total"`
	ShippingInfo  ShippingInfo `json:"shipping_info"`
	PaymentMethod string       `json:"payment_method"`
	OrderDate     time.Time    `json:"order_date"`
	Status        string       `json:"status"`
}

// orderIDs issues ORD-<unix millis> identifiers. Two orders in the same
// millisecond get consecutive numbers.
type orderIDs struct {
	last int64
}

func (g *orderIDs) next(at time.Time) string {
	ms := at.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("%s%d", orderIDPrefix, ms)
}

// observe advances the generator past ids already present in history.
func (g *orderIDs) observe(orders []Order) {
	for _, o := range orders {
		n, err := strconv.ParseInt(strings.TrimPrefix(o.OrderID, orderIDPrefix), 10, 64)
		if err == nil && n > g.last {
			g.last = n
		}
	}
}
