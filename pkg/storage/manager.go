package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// ─── Manager ──────────────────────────────────────────────────────────────────

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the storage manager from configuration.
// The local disk is always available; the s3 disk only when S3_BUCKET is set.
func Connect(ctx context.Context) error {
	local := NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	RegisterDisk("local", local)

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			RegisterDisk("s3", d)
		}
	}

	name := config.StorageDefault()
	managerMu.Lock()
	defer managerMu.Unlock()
	if _, ok := disks[name]; !ok {
		return fmt.Errorf("storage: default disk %q is not configured", name)
	}
	defaultDisk = name
	logger.Info("storage: ready", "disk", name)
	return nil
}

// Use returns the named disk.
//
//	storage.Use("s3").Put(ctx, "upload/product/3/x.png", r)
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// Default returns the disk selected by STORAGE_DISK.
func Default() Disk {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	return Use(name)
}

// RegisterDisk plugs in a Disk under name. Tests use it to install a temp-dir disk.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// SetDefault selects the disk returned by Default.
func SetDefault(name string) {
	managerMu.Lock()
	defaultDisk = name
	managerMu.Unlock()
}
