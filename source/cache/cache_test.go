package cache

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ElementialCoder/fmath/source/fm"
	"github.com/ElementialCoder/fmath/source/vm"
)

func openTemp(t *testing.T) *BoltCache {
	t.Helper()
	c, e := Open(filepath.Join(t.TempDir(), "sub", "cache.db"))
	if e != nil {
		t.Fatal(e)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestDigest(t *testing.T) {
	if len(Digest("1 + 1")) != 64 {
		t.Fatalf("wanted 64 hex digits, got %s", Digest("1 + 1"))
	}
	if Digest("1 + 1") != Digest("1 + 1") {
		t.Fatalf("digest isn't deterministic")
	}
	if Digest("1 + 1") == Digest("1 + 2") {
		t.Fatalf("different sources should have different digests")
	}
}

func TestGetAndPut(t *testing.T) {
	c := openTemp(t)
	if _, e := c.Get("nothing"); !errors.Is(e, ErrMiss) {
		t.Fatalf("wanted a miss, got %v", e)
	}
	if e := c.Put("key", []byte{1, 2, 3}); e != nil {
		t.Fatal(e)
	}
	data, e := c.Get("key")
	if e != nil || !reflect.DeepEqual(data, []byte{1, 2, 3}) {
		t.Fatalf("wanted the data back, got %v, %v", data, e)
	}
}

func TestLookupAndStore(t *testing.T) {
	c := openTemp(t)
	source := "def sq(x) = x^2\nsum(from: 1, to: 3, para: i, sq(i))"
	if _, ok, e := Lookup(c, source); ok || e != nil {
		t.Fatalf("wanted a clean miss, got %v, %v", ok, e)
	}
	program, functions, e := fm.Compile(source)
	if e != nil {
		t.Fatal(e)
	}
	if e := Store(c, source, program); e != nil {
		t.Fatal(e)
	}
	cached, ok, e := Lookup(c, source)
	if !ok || e != nil {
		t.Fatalf("wanted a hit, got %v, %v", ok, e)
	}
	if vm.Describe(cached) != vm.Describe(program) {
		t.Fatalf("cached program differs:\n%s", vm.Describe(cached))
	}
	if v, e := fm.Execute(cached, functions); e != nil || v != 14 {
		t.Fatalf("wanted 14, got %v, %v", v, e)
	}
}

func TestBadEntryIsAMiss(t *testing.T) {
	c := openTemp(t)
	if e := c.Put(Digest("2"), []byte("garbage")); e != nil {
		t.Fatal(e)
	}
	if _, ok, e := Lookup(c, "2"); ok || e != nil {
		t.Fatalf("wanted a clean miss, got %v, %v", ok, e)
	}
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, e := Open(path)
	if e != nil {
		t.Fatal(e)
	}
	program, _, _ := fm.Compile("1 + 1")
	if e := Store(c, "1 + 1", program); e != nil {
		t.Fatal(e)
	}
	c.Close()
	c, e = Open(path)
	if e != nil {
		t.Fatal(e)
	}
	defer c.Close()
	if _, ok, _ := Lookup(c, "1 + 1"); !ok {
		t.Fatalf("the cache should survive being reopened")
	}
}
