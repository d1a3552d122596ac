// Package gcs mirrors user avatars to a Google Cloud Storage bucket.
package gcs

import (
	"bytes"
	"context"
	"path"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

type AvatarMirror struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

func NewAvatarMirror(client *storage.Client, bucket, prefix string) *AvatarMirror {
	return &AvatarMirror{Client: client, Bucket: bucket, Prefix: prefix}
}

// ObjectPath is <prefix>/<userID>.png. Uploads overwrite the previous avatar.
func (m *AvatarMirror) ObjectPath(userID string) string {
	return path.Join(m.Prefix, userID+".png")
}

func (m *AvatarMirror) Put(ctx context.Context, userID string, png []byte) (string, error) {
	return helpers.UploadObject(ctx, m.Client, m.Bucket, m.ObjectPath(userID), "image/png", bytes.NewReader(png))
}

func (m *AvatarMirror) Remove(ctx context.Context, userID string) error {
	return helpers.DeleteObject(ctx, m.Client, m.Bucket, m.ObjectPath(userID))
}

var _ repository.AvatarMirror = (*AvatarMirror)(nil)
