package handlers_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAvatarRoundTrip(t *testing.T) {
	s := newServer(t)
	id, token := s.register(t, "Andrew", "andrew@example.com")

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/users/"+id+"/avatar", "", nil).Code)

	w := s.upload(t, token, "avatar", "me.png", pngBytes(t, 600, 400))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "https://cdn.test/avatars/"+id+".png", body["url"])

	w = s.do(t, http.MethodGet, "/users/"+id+"/avatar", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	cfg, format, err := image.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 250, cfg.Width)
	assert.Equal(t, 250, cfg.Height)

	me := s.do(t, http.MethodGet, "/users/me", token, nil)
	assert.NotContains(t, me.Body.String(), "avatar")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/users/me/avatar", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/users/"+id+"/avatar", "", nil).Code)
}

func TestAvatarUploadRejects(t *testing.T) {
	s := newServer(t)
	_, token := s.register(t, "Andrew", "andrew@example.com")

	tests := []struct {
		name     string
		field    string
		filename string
		data     []byte
		wantErr  string
	}{
		{name: "wrong extension", field: "avatar", filename: "me.gif", data: pngBytes(t, 10, 10)},
		{name: "not an image", field: "avatar", filename: "me.jpg", data: []byte("hello, world")},
		{name: "missing field", field: "upload", filename: "me.png", data: pngBytes(t, 10, 10), wantErr: "Please upload an image"},
		{name: "too large", field: "avatar", filename: "me.png", data: make([]byte, 1_000_001), wantErr: "File too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.upload(t, token, tt.field, tt.filename, tt.data)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorOf(t, w)["error"])
			}
		})
	}
}

func TestAvatarOfUnknownUser(t *testing.T) {
	s := newServer(t)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/users/nobody/avatar", "", nil).Code)
}
