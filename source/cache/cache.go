package cache

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"time"

	"fortio.org/log"
	pkgerrors "github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/blake2b"

	"github.com/ElementialCoder/fmath/source/settings"
	"github.com/ElementialCoder/fmath/source/vm"
)

// The cache maps the digest of some source code to the encoded program it compiles to, so
// that running the same script twice only compiles it once.

var ErrMiss = errors.New("not in cache")

type Cache interface {
	Get(digest string) ([]byte, error)
	Put(digest string, data []byte) error
	Close() error
}

type BoltCache struct {
	db *bolt.DB
}

// Open opens the cache file at the given path, creating it and its directory if need be.
func Open(path string) (*BoltCache, error) {
	if e := os.MkdirAll(filepath.Dir(path), 0o755); e != nil {
		return nil, pkgerrors.Wrapf(e, "can't make directory for cache %s", path)
	}
	db, e := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if e != nil {
		return nil, pkgerrors.Wrapf(e, "can't open cache %s", path)
	}
	e = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists([]byte(settings.CACHE_BUCKET))
		return e
	})
	if e != nil {
		db.Close()
		return nil, pkgerrors.Wrap(e, "can't make cache bucket")
	}
	log.Infof("Opened program cache %s", path)
	return &BoltCache{db: db}, nil
}

func (c *BoltCache) Get(digest string) ([]byte, error) {
	var result []byte
	e := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(settings.CACHE_BUCKET)).Get([]byte(digest))
		if data == nil {
			return ErrMiss
		}
		// The slice is only good for the life of the transaction.
		result = append([]byte{}, data...)
		return nil
	})
	if e != nil {
		return nil, e
	}
	return result, nil
}

func (c *BoltCache) Put(digest string, data []byte) error {
	e := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(settings.CACHE_BUCKET)).Put([]byte(digest), data)
	})
	return pkgerrors.Wrapf(e, "can't write %s to cache", digest)
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}

// Digest is the hex-encoded BLAKE2b-256 hash of the source code.
func Digest(source string) string {
	sum := blake2b.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached program for the source code, if there is one. A cache entry that
// won't decode counts as a miss, since the right thing to do with it is to compile again.
func Lookup(c Cache, source string) (vm.Program, bool, error) {
	digest := Digest(source)
	data, e := c.Get(digest)
	if errors.Is(e, ErrMiss) {
		log.LogVf("cache miss for %s", digest)
		return nil, false, nil
	}
	if e != nil {
		return nil, false, pkgerrors.Wrap(e, "can't read cache")
	}
	program, e := vm.Decode(data)
	if e != nil {
		log.Warnf("Discarding bad cache entry %s: %v", digest, e)
		return nil, false, nil
	}
	log.LogVf("cache hit for %s", digest)
	return program, true, nil
}

func Store(c Cache, source string, program vm.Program) error {
	return c.Put(Digest(source), vm.Encode(program))
}
