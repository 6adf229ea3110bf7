// Package photo decides where meal photos and avatars live.
//
// Clients always upload data URLs. The inline backend keeps them as they are
// (the record then carries the image itself); the S3 backend moves the bytes
// to an S3-compatible bucket (AWS, MinIO, Cloudflare R2) and the record keeps
// only the public URL.
package photo

import (
	"context"
	"fmt"
)

// Store turns an uploaded photo into the string persisted on a record.
type Store interface {
	Put(ctx context.Context, userID, photo string) (string, error)
}

// InlineStore keeps photos inside the database as data URLs.
type InlineStore struct{}

func (InlineStore) Put(_ context.Context, _ string, photo string) (string, error) {
	return photo, nil
}

// PutAll stores every photo in order and returns the persisted references.
// It stops at the first failure.
func PutAll(ctx context.Context, s Store, userID string, photos []string) ([]string, error) {
	out := make([]string, 0, len(photos))
	for i, p := range photos {
		ref, err := s.Put(ctx, userID, p)
		if err != nil {
			return nil, fmt.Errorf("photo %d: %w", i, err)
		}
		out = append(out, ref)
	}
	return out, nil
}
