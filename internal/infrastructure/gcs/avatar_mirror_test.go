package gcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectPath(t *testing.T) {
	m := NewAvatarMirror(nil, "bucket", "avatars")
	assert.Equal(t, "avatars/u1.png", m.ObjectPath("u1"))

	m.Prefix = ""
	assert.Equal(t, "u1.png", m.ObjectPath("u1"))
}
