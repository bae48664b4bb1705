package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/vmihailenco/msgpack/v5"
)

// Schema is bumped whenever Payload changes shape; older entries read as misses.
const Schema uint16 = 1

// Digest - фиксированный 256 битный хеш.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Sum hashes one input.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// Combine: H(first || rest...). Order matters.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Key identifies one rendered output: the documents in application order
// plus a fingerprint of everything that changes the text.
func Key(fingerprint string, documents ...[]byte) Digest {
	parts := make([]Digest, 0, len(documents))
	for _, doc := range documents {
		parts = append(parts, Sum(doc))
	}
	return Combine(Sum([]byte(fingerprint)), parts...)
}

// Payload is one cached render.
type Payload struct {
	Schema  uint16
	Dialect string
	Text    string
	// Declarations is the node count of the tree that produced Text.
	Declarations int
	Created      time.Time
}

// DiskCache stores rendered outputs keyed by Digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open uses dir, or $XDG_CACHE_HOME/<app> when dir is empty.
func Open(app, dir string) (*DiskCache, error) {
	if dir == "" {
		dir = filepath.Join(xdg.CacheHome, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// подкаталог по первым двум символам, чтобы не держать тысячи файлов рядом
	return filepath.Join(c.dir, "renders", hexKey[:2], hexKey+".mp")
}

// Put serializes payload and atomically replaces the entry.
func (c *DiskCache) Put(key Digest, payload *Payload) error {
	if c == nil || payload == nil {
		return nil
	}
	payload.Schema = Schema
	if payload.Created.IsZero() {
		payload.Created = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get reads the entry for key. A missing entry or one written with another
// schema is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
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

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if payload.Schema != Schema {
		return false, nil
	}
	*out = payload
	return true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, чтобы параллельный Open не увидел половину
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
