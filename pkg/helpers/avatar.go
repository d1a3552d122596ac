package helpers

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

// MaxAvatarPixels bounds the decoded size of an upload; the header is checked
// before any pixel memory is allocated.
const MaxAvatarPixels = 25_000_000

var (
	ErrNotAnImage      = errors.New("please upload an image (jpg, jpeg or png)")
	ErrImageUndecoded  = errors.New("image could not be decoded")
	supportedImageExts = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}}
	supportedImageMime = map[string]struct{}{"image/jpeg": {}, "image/png": {}}
)

// CheckImageFilename accepts jpg, jpeg and png extensions, case-insensitively.
func CheckImageFilename(name string) error {
	if _, ok := supportedImageExts[strings.ToLower(filepath.Ext(name))]; !ok {
		return ErrNotAnImage
	}
	return nil
}

// NormalizeAvatar sniffs data, decodes it and re-encodes it as a size x size PNG.
// The source is center-cropped to a square first so the aspect ratio is kept.
func NormalizeAvatar(data []byte, size int) ([]byte, error) {
	if size <= 0 {
		size = 250
	}
	if _, ok := supportedImageMime[mimetype.Detect(data).String()]; !ok {
		return nil, ErrNotAnImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxAvatarPixels {
		return nil, ErrImageUndecoded
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrImageUndecoded
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, squareCrop(src.Bounds()), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func squareCrop(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w == h {
		return b
	}
	if w > h {
		off := (w - h) / 2
		return image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+h, b.Max.Y)
	}
	off := (h - w) / 2
	return image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+w)
}
