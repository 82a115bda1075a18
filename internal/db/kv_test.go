package db

import (
	"encoding/binary"
	"errors"
	"sync"
	"testing"
)

func TestKV_GetPutDelete(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if _, ok, err := db.Get("missing"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	if err := db.Put("cache:abc", []byte("one")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := db.Put("cache:abc", []byte("two")); err != nil {
		t.Fatalf("Put() overwrite failed: %v", err)
	}

	v, ok, err := db.Get("cache:abc")
	if err != nil || !ok || string(v) != "two" {
		t.Fatalf("Get() = %q, %v, %v; want two", v, ok, err)
	}

	if err := db.Delete("cache:abc"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := db.Get("cache:abc"); ok {
		t.Error("key present after Delete")
	}
}

func TestKV_KeysEscapesWildcards(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	for _, k := range []string{"cache:1", "cache:2", "cacheX1", "quota:ledger"} {
		if err := db.Put(k, []byte("x")); err != nil {
			t.Fatalf("Put(%s) failed: %v", k, err)
		}
	}

	keys, err := db.Keys("cache:")
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "cache:1" || keys[1] != "cache:2" {
		t.Errorf("Keys(cache:) = %v", keys)
	}

	// "_" must match literally, not any single character.
	_ = db.Put("a_b", []byte("x"))
	_ = db.Put("axb", []byte("x"))
	keys, _ = db.Keys("a_")
	if len(keys) != 1 || keys[0] != "a_b" {
		t.Errorf("Keys(a_) = %v, want [a_b]", keys)
	}
}

func TestKV_UpdateIsAtomic(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	const workers = 20
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Update("counter", func(cur []byte, ok bool) ([]byte, error) {
				var n uint64
				if ok {
					n = binary.BigEndian.Uint64(cur)
				}
				out := make([]byte, 8)
				binary.BigEndian.PutUint64(out, n+1)
				return out, nil
			})
			if err != nil {
				t.Errorf("Update() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	v, ok, err := db.Get("counter")
	if err != nil || !ok {
		t.Fatalf("Get(counter) = %v, %v", ok, err)
	}
	if n := binary.BigEndian.Uint64(v); n != workers {
		t.Errorf("counter = %d, want %d", n, workers)
	}
}

func TestKV_UpdateErrorRollsBack(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	_ = db.Put("k", []byte("before"))
	boom := errors.New("boom")
	err := db.Update("k", func(cur []byte, ok bool) ([]byte, error) {
		if !ok || string(cur) != "before" {
			t.Errorf("Update saw %q, %v", cur, ok)
		}
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}

	v, _, _ := db.Get("k")
	if string(v) != "before" {
		t.Errorf("value = %q after failed update, want before", v)
	}
}
