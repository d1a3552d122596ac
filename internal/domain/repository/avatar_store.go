package repository

import "context"

// AvatarMirror publishes normalized avatars to an external object store (CDN).
// The database copy stays the source of truth.
type AvatarMirror interface {
	Put(ctx context.Context, userID string, png []byte) (url string, err error)
	Remove(ctx context.Context, userID string) error
}
