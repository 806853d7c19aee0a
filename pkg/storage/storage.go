// Package storage stores uploaded listing images and returns stable
// references. Only the returned reference is persisted on the listing;
// the bytes themselves never touch the relational store.
package storage

import "context"

// Uploader stores raw file bytes and returns a stable reference string.
// Implementations generate their own object names; originalFileName is
// only consulted for its extension.
type Uploader interface {
	Upload(ctx context.Context, originalFileName string, data []byte) (string, error)
}
