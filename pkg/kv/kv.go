// Package kv is the small persistent key/value store behind the storefront
// client: the cached catalog snapshot, the cart and the action limiter
// bookkeeping live here.
//
// Drivers: "memory" (process lifetime), "disk" (a storage.Disk, one file per
// key) and "redis".
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/agromart/pkg/storage"
)

// ErrNotFound is returned by Get for an absent key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a byte-valued key/value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Options selects and configures a driver for Open.
type Options struct {
	Driver        string // memory | disk | redis
	Dir           string // disk root
	RedisAddr     string
	RedisPassword string
}

// Open builds the store named by o.Driver.
func Open(ctx context.Context, o Options) (Store, error) {
	switch o.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "disk":
		return NewDisk(storage.NewLocal(o.Dir, ""), ""), nil
	case "redis":
		return NewRedis(ctx, o.RedisAddr, o.RedisPassword)
	default:
		return nil, fmt.Errorf("kv: unknown driver %q", o.Driver)
	}
}
