package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/agromart/config"
	"github.com/shashiranjanraj/agromart/pkg/logger"
)

var (
	managerMu sync.RWMutex
	disks     = map[string]Disk{}
)

// Connect boots the configured disks. The local disk always exists; the s3
// disk only when S3_BUCKET is set. A broken s3 config disables that disk.
func Connect(ctx context.Context) {
	RegisterDisk("local", NewLocal(config.StorageLocalRoot(), config.StorageURL()))

	if config.StorageS3Bucket() == "" {
		return
	}
	d, err := NewS3(ctx, S3Config{
		Bucket:   config.StorageS3Bucket(),
		Region:   config.StorageS3Region(),
		Key:      config.StorageS3Key(),
		Secret:   config.StorageS3Secret(),
		Endpoint: config.StorageS3Endpoint(),
		URL:      config.StorageS3URL(),
	})
	if err != nil {
		logger.Warn("storage: s3 disk disabled", "error", err)
		return
	}
	RegisterDisk("s3", d)
}

// Lookup returns the named disk.
func Lookup(name string) (Disk, error) {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Use is Lookup for boot code; it panics on an unknown disk.
//
//	storage.Use("s3").Put(ctx, "backups/catalog.json", data)
func Use(name string) Disk {
	d, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return d
}

// RegisterDisk plugs in a Disk under name, replacing any previous one.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// Default returns the STORAGE_DISK disk, falling back to local.
func Default() Disk {
	if d, err := Lookup(config.StorageDefault()); err == nil {
		return d
	}
	return Use("local")
}
