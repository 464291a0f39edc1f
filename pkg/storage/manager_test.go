package storage

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetManager(t *testing.T) {
	t.Helper()
	managerMu.Lock()
	disks = map[string]FS{}
	defaultDisk = ""
	managerMu.Unlock()
}

// memDisk is a map-backed FS for tests.
type memDisk struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemDisk() *memDisk { return &memDisk{files: map[string][]byte{}} }

func (d *memDisk) Put(path string, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[path] = append([]byte(nil), content...)
	return nil
}

func (d *memDisk) PutStream(path string, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return d.Put(path, content)
}

func (d *memDisk) Get(path string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	content, ok := d.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return content, nil
}

func (d *memDisk) GetStream(path string) (io.ReadCloser, error) {
	content, err := d.Get(path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (d *memDisk) Exists(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.files[path]
	return ok
}

func (d *memDisk) Size(path string) (int64, error) {
	content, err := d.Get(path)
	if err != nil {
		return 0, err
	}
	return int64(len(content)), nil
}

func (d *memDisk) URL(path string) string { return "mem://" + path }

func (d *memDisk) Delete(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, path)
	return nil
}

func (d *memDisk) Files(directory string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var names []string
	for path := range d.files {
		if strings.HasPrefix(path, directory+"/") {
			names = append(names, path)
		}
	}
	return names, nil
}

func (d *memDisk) DeleteDirectory(directory string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path := range d.files {
		if strings.HasPrefix(path, directory+"/") {
			delete(d.files, path)
		}
	}
	return nil
}

func TestHelpersFailSoftWithoutDisk(t *testing.T) {
	resetManager(t)

	assert.ErrorIs(t, Put("products/1/cover.jpg", []byte("x")), ErrDiskNotConfigured)
	assert.ErrorIs(t, Delete("products/1/cover.jpg"), ErrDiskNotConfigured)
	assert.ErrorIs(t, DeleteDirectory("products/1"), ErrDiskNotConfigured)

	_, err := Get("products/1/cover.jpg")
	assert.ErrorIs(t, err, ErrDiskNotConfigured)

	assert.False(t, Exists("products/1/cover.jpg"))
	assert.Empty(t, URL("products/1/cover.jpg"))
}

func TestRegisterDiskBecomesDefault(t *testing.T) {
	resetManager(t)
	RegisterDisk("mem", newMemDisk())

	require.NoError(t, Put("products/7/image.png", []byte("png")))
	content, err := Get("products/7/image.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), content)
	assert.True(t, Exists("products/7/image.png"))
	assert.Equal(t, "mem://products/7/image.png", URL("products/7/image.png"))

	require.NoError(t, DeleteDirectory("products/7"))
	assert.False(t, Exists("products/7/image.png"))
}

func TestNamedDiskLookupPanicsWhenMissing(t *testing.T) {
	resetManager(t)
	assert.Panics(t, func() { Disk("s3") })
}
