package kv

import (
	"context"
	"errors"
	"net/url"
	"path"

	"github.com/shashiranjanraj/agromart/pkg/storage"
)

// Disk stores each key as <prefix>/<escaped key>.json on a storage disk.
type Disk struct {
	disk   storage.Disk
	prefix string
}

func NewDisk(d storage.Disk, prefix string) *Disk {
	return &Disk{disk: d, prefix: prefix}
}

func (d *Disk) file(key string) string {
	return path.Join(d.prefix, url.PathEscape(key)+".json")
}

func (d *Disk) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := d.disk.Get(ctx, d.file(key))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return data, err
}

func (d *Disk) Set(ctx context.Context, key string, value []byte) error {
	return d.disk.Put(ctx, d.file(key), value)
}

func (d *Disk) Delete(ctx context.Context, key string) error {
	return d.disk.Delete(ctx, d.file(key))
}
