// Package persist is the save/load boundary between the storefront state and
// a key-value backend.
package persist

import (
	"context"
	"errors"
)

// Keys of the persisted records.
const (
	KeySession = "currentUser"
	KeyCart    = "cart"
	KeyOrders  = "orderHistory"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Store is a string-keyed blob store. Get reports a missing key with
// found=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
