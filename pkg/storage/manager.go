package storage

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/velocart/velocart/config"
)

// ErrDiskNotConfigured is returned by the default-disk helpers when no disk
// has been registered. Callers that can live without storage (image cleanup,
// for example) log it and move on.
var ErrDiskNotConfigured = errors.New("storage: no disk configured")

var (
	managerMu   sync.RWMutex
	disks       = map[string]FS{}
	defaultDisk string
)

// Connect boots the storage manager.
// Call once at application startup.
func Connect() {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.Get("STORAGE_DISK", "local")

	// Always boot the local disk.
	disks["local"] = newLocalDisk()

	// Boot the S3 disk only if a bucket is configured.
	if config.Get("S3_BUCKET", "") != "" {
		d, err := newS3Disk()
		if err != nil {
			fmt.Printf("storage/s3: %v (disk disabled)\n", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Disk returns the named disk ("local" or "s3"). Asking for a disk that was
// never booted is a programming error.
//
//	storage.Disk("s3").Put("products/42/cover.jpg", data)
func Disk(name string) FS {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// RegisterDisk plugs in a custom FS implementation at boot time.
// Tests use this to swap in a temp-dir disk.
func RegisterDisk(name string, d FS) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
	if defaultDisk == "" {
		defaultDisk = name
	}
}

// Default-disk helpers; these proxy to the STORAGE_DISK disk. When Connect
// has not run and nothing was registered they fail soft with
// ErrDiskNotConfigured rather than panicking, matching pkg/cache's nil-safe
// helpers.

func defaultFS() (FS, bool) {
	managerMu.RLock()
	d, ok := disks[defaultDisk]
	managerMu.RUnlock()
	return d, ok
}

// Put writes content to path on the default disk.
func Put(path string, content []byte) error {
	fs, ok := defaultFS()
	if !ok {
		return ErrDiskNotConfigured
	}
	return fs.Put(path, content)
}

// PutStream writes from r to path on the default disk.
func PutStream(path string, r io.Reader) error {
	fs, ok := defaultFS()
	if !ok {
		return ErrDiskNotConfigured
	}
	return fs.PutStream(path, r)
}

// Get returns file content from the default disk.
func Get(path string) ([]byte, error) {
	fs, ok := defaultFS()
	if !ok {
		return nil, ErrDiskNotConfigured
	}
	return fs.Get(path)
}

// GetStream returns a ReadCloser from the default disk.
func GetStream(path string) (io.ReadCloser, error) {
	fs, ok := defaultFS()
	if !ok {
		return nil, ErrDiskNotConfigured
	}
	return fs.GetStream(path)
}

// Exists reports whether path exists on the default disk.
func Exists(path string) bool {
	fs, ok := defaultFS()
	if !ok {
		return false
	}
	return fs.Exists(path)
}

// Delete removes path from the default disk.
func Delete(path string) error {
	fs, ok := defaultFS()
	if !ok {
		return ErrDiskNotConfigured
	}
	return fs.Delete(path)
}

// URL returns the public URL for path on the default disk.
func URL(path string) string {
	fs, ok := defaultFS()
	if !ok {
		return ""
	}
	return fs.URL(path)
}

// Size returns the file size in bytes on the default disk.
func Size(path string) (int64, error) {
	fs, ok := defaultFS()
	if !ok {
		return 0, ErrDiskNotConfigured
	}
	return fs.Size(path)
}

// Files lists files in directory (non-recursive) on the default disk.
func Files(directory string) ([]string, error) {
	fs, ok := defaultFS()
	if !ok {
		return nil, ErrDiskNotConfigured
	}
	return fs.Files(directory)
}

// DeleteDirectory removes directory and its contents on the default disk.
func DeleteDirectory(path string) error {
	fs, ok := defaultFS()
	if !ok {
		return ErrDiskNotConfigured
	}
	return fs.DeleteDirectory(path)
}
