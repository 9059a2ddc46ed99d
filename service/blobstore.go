package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shubham-bhadra-10/Legalyze/pkg/apperr"
)

// BlobStore stages uploaded file bytes between the upload handler and the
// extraction step. Entries live under a per-user, per-request key and are
// deleted once consumed; the TTL cleans up after failed runs.
type BlobStore struct {
	kv  KV
	ttl time.Duration
}

func NewBlobStore(kv KV, ttl time.Duration) *BlobStore {
	return &BlobStore{kv: kv, ttl: ttl}
}

// Key builds the blob key for one upload. The timestamp suffix keeps
// concurrent uploads by the same user from colliding.
func (s *BlobStore) Key(userID string, at time.Time) string {
	return fmt.Sprintf("file:%s:%d", userID, at.UnixMilli())
}

// Put stores the uploaded bytes, overwriting any existing value at key.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	return s.kv.Set(ctx, key, data, s.ttl)
}

// Get returns the staged bytes or a not-found error.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.New(apperr.KindNotFound, "uploaded file not found")
		}
		return nil, err
	}
	return data, nil
}

// Delete removes the blob immediately. Deleting a missing key is not an
// error.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	return s.kv.Del(ctx, key)
}
