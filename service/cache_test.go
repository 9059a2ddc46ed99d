package service

import (
	"context"
	"testing"
	"time"

	"github.com/shubham-bhadra-10/Legalyze/model"
)

func TestResultCachePutGet(t *testing.T) {
	cache := NewResultCache(NewMemoryKV(), time.Minute)
	ctx := context.Background()

	record := &model.Analysis{ID: "c1", UserID: "alice", ContractType: "Lease"}
	record.OverallScore = 72

	cache.Put(ctx, record)

	got := cache.Get(ctx, "c1")
	if got == nil {
		t.Fatal("Expected cache hit")
	}
	if got.UserID != "alice" || got.OverallScore != 72 {
		t.Errorf("Unexpected cached record: %+v", got)
	}
}

func TestResultCacheMiss(t *testing.T) {
	cache := NewResultCache(NewMemoryKV(), time.Minute)

	if got := cache.Get(context.Background(), "absent"); got != nil {
		t.Errorf("Expected miss, got %+v", got)
	}
}

func TestResultCacheCorruptEntryIsMiss(t *testing.T) {
	kv := NewMemoryKV()
	cache := NewResultCache(kv, time.Minute)
	ctx := context.Background()

	kv.Set(ctx, cacheKey("c1"), []byte("{not json"), time.Minute)

	if got := cache.Get(ctx, "c1"); got != nil {
		t.Errorf("Expected corrupt entry to read as a miss, got %+v", got)
	}
}

func TestResultCacheInvalidate(t *testing.T) {
	cache := NewResultCache(NewMemoryKV(), time.Minute)
	ctx := context.Background()

	cache.Put(ctx, &model.Analysis{ID: "c1", UserID: "alice"})
	cache.Invalidate(ctx, "c1")

	if got := cache.Get(ctx, "c1"); got != nil {
		t.Errorf("Expected entry to be gone after invalidation, got %+v", got)
	}
}

func TestBlobStoreRoundTrip(t *testing.T) {
	blobs := NewBlobStore(NewMemoryKV(), time.Minute)
	ctx := context.Background()

	key := blobs.Key("alice", time.Now())
	if err := blobs.Put(ctx, key, []byte("%PDF-1.4 data")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := blobs.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "%PDF-1.4 data" {
		t.Errorf("Unexpected blob contents: %q", got)
	}

	if err := blobs.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := blobs.Get(ctx, key); err == nil {
		t.Error("Expected not-found after delete")
	}
}

func TestBlobStoreKeysDistinguishUploads(t *testing.T) {
	blobs := NewBlobStore(NewMemoryKV(), time.Minute)

	at := time.Now()
	k1 := blobs.Key("alice", at)
	k2 := blobs.Key("alice", at.Add(time.Millisecond))
	k3 := blobs.Key("bob", at)

	if k1 == k2 || k1 == k3 {
		t.Errorf("Expected distinct keys, got %q %q %q", k1, k2, k3)
	}
}
