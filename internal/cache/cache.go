// Package cache stores per-document check outcomes on disk so that unchanged
// documents known to be clean are not analysed again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is bumped whenever Payload changes shape.
const SchemaVersion uint16 = 1

// Key identifies a document outcome: hash of content and configuration digest.
type Key [32]byte

// KeyFor combines a content hash with a configuration digest.
func KeyFor(content, config [32]byte) Key {
	h := sha256.New()
	_, _ = h.Write(content[:])
	_, _ = h.Write(config[:])
	var out Key
	copy(out[:], h.Sum(nil))
	return out
}

// String returns the hex form of the key.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Payload is the cached outcome of checking one document.
type Payload struct {
	Schema   uint16   `msgpack:"schema"`
	Path     string   `msgpack:"path"`
	Findings int      `msgpack:"findings"`
	Fixable  int      `msgpack:"fixable"`
	Codes    []string `msgpack:"codes,omitempty"`
}

// Clean reports whether the document had no findings.
func (p *Payload) Clean() bool {
	return p.Findings == 0
}

// Disk хранит результаты проверки документов на диске.
// Thread-safe for concurrent access.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a disk cache under $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func Open(app string) (*Disk, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir initializes a disk cache in dir.
func OpenDir(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Disk) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Disk) pathFor(key Key) string {
	hexKey := key.String()
	// раскладываем по подкаталогам, чтобы не держать тысячи файлов в одном
	return filepath.Join(c.dir, "docs", hexKey[:2], hexKey+".mp")
}

// Put serializes and atomically writes a payload.
func (c *Disk) Put(key Key, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = SchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. Entries written with another schema are treated as misses.
func (c *Disk) Get(key Key, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != SchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *Disk) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "docs"))
}
