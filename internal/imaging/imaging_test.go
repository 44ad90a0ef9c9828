package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	return cfg.Width, cfg.Height
}

func TestNormalizeJPEGAndPNG(t *testing.T) {
	for name, data := range map[string][]byte{
		"jpeg": createTestJPEG(100, 80),
		"png":  createTestPNG(100, 80),
	} {
		out, err := Normalize(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: Normalize: %v", name, err)
		}
		if w, h := decodedSize(t, out); w != 100 || h != 80 {
			t.Errorf("%s: expected 100x80, got %dx%d", name, w, h)
		}
	}
}

func TestNormalizeDownscales(t *testing.T) {
	out, err := Normalize(bytes.NewReader(createTestPNG(2048, 1024)))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if w, h := decodedSize(t, out); w != MaxDimension || h != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, w, h)
	}
}

func TestNormalizeRejectsOtherFormats(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("not an image"),
		[]byte("GIF89a..."),
	} {
		if _, err := Normalize(bytes.NewReader(data)); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%q: expected ErrUnsupported, got %v", data, err)
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{50, 50, 1024, 50, 50},
		{2048, 2048, 1024, 1024, 1024},
		{3000, 1500, 1024, 1024, 512},
		{1500, 3000, 1024, 512, 1024},
		{5000, 2, 1024, 1024, 1},
	}
	for _, tt := range tests {
		w, h := fit(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fit(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestLibraryImportAndRemove(t *testing.T) {
	lib := Library{Dir: filepath.Join(t.TempDir(), "photos")}

	path, err := lib.Import("Basmati Rice (5kg)", bytes.NewReader(createTestJPEG(40, 30)))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if filepath.Dir(path) != lib.Dir {
		t.Errorf("expected photo under %s, got %s", lib.Dir, path)
	}
	if base := filepath.Base(path); !strings.HasPrefix(base, "basmati-rice-5kg-") || !strings.HasSuffix(base, ".jpg") {
		t.Errorf("unexpected file name %s", base)
	}

	info, err := Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Width != 40 || info.Height != 30 || info.Bytes == 0 {
		t.Errorf("unexpected info %+v", info)
	}

	// Same label, different file.
	again, _ := lib.Import("Basmati Rice (5kg)", bytes.NewReader(createTestJPEG(40, 30)))
	if again == path {
		t.Error("expected distinct paths for repeated imports")
	}

	if err := lib.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected photo to be deleted")
	}
	if err := lib.Remove(path); err != nil {
		t.Errorf("expected removing a missing photo to succeed, got %v", err)
	}
}

func TestLibraryRemoveIgnoresForeignPaths(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "keep.jpg")
	os.WriteFile(outside, []byte("x"), 0o644)

	lib := Library{Dir: filepath.Join(dir, "photos")}
	if err := lib.Remove(outside); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Error("expected file outside the library to be kept")
	}
}
