// Package imaging normalizes item photos and keeps them in a directory on
// disk. Items store the returned path in their image_path column.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/image/draw"
)

const (
	// MaxDimension is the longest edge of a stored photo.
	MaxDimension = 1024

	// JPEGQuality is used for every stored photo.
	JPEGQuality = 85

	// MaxInputBytes caps how much of a source file is read.
	MaxInputBytes = 20 << 20
)

// ErrUnsupported is returned for anything that is not a JPEG or PNG.
var ErrUnsupported = errors.New("unsupported image format (only JPEG and PNG accepted)")

// Info describes a stored photo.
type Info struct {
	Width  int
	Height int
	Bytes  int64
}

// Normalize decodes a JPEG or PNG, shrinks it to fit MaxDimension and
// re-encodes it as JPEG.
func Normalize(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxInputBytes {
		return nil, fmt.Errorf("image larger than %d bytes", MaxInputBytes)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || (format != "jpeg" && format != "png") {
		return nil, ErrUnsupported
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// Library stores photos as JPEG files under Dir.
type Library struct {
	Dir string
}

// Import normalizes the photo read from r and writes it under a file name
// derived from label. It returns the stored file's path.
func (l Library) Import(label string, r io.Reader) (string, error) {
	data, err := Normalize(r)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating photo directory: %w", err)
	}

	path := filepath.Join(l.Dir, fileName(label))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing photo: %w", err)
	}
	return path, nil
}

// ImportFile is Import for a file on disk.
func (l Library) ImportFile(label, src string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening photo: %w", err)
	}
	defer f.Close()
	return l.Import(label, f)
}

// Remove deletes a photo previously returned by Import. Paths outside Dir
// are left alone, as are photos that are already gone.
func (l Library) Remove(path string) error {
	if path == "" || !l.owns(path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing photo: %w", err)
	}
	return nil
}

// Stat reports the dimensions and size of a stored photo.
func Stat(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening photo: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("reading photo: %w", err)
	}
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("reading photo: %w", err)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Bytes: st.Size()}, nil
}

func (l Library) owns(path string) bool {
	dir, err := filepath.Abs(l.Dir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, abs)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}

// fileName builds "<slug>-<8 hex chars>.jpg" so two photos for items with
// the same name never collide.
func fileName(label string) string {
	base := slug.Make(label)
	if base == "" {
		base = "item"
	}
	if len(base) > 48 {
		base = strings.TrimRight(base[:48], "-")
	}
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ".jpg"
}

// downscale resizes img so neither edge exceeds maxDim, keeping the aspect
// ratio. Smaller images are returned unchanged.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := fit(bounds.Dx(), bounds.Dy(), maxDim)
	if w == bounds.Dx() && h == bounds.Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func fit(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w > h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}
