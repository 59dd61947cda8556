package imagesource

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diffus-me/sd-webui-roop/internal/model"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResolve_NoSource(t *testing.T) {
	r := NewResolver(time.Second)
	dir := t.TempDir()
	_, err := r.Resolve(context.Background(), model.ImageSource{}, dir, "t1")
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no writes, found %d entries", len(entries))
	}
}

func TestResolve_FilepathPassthrough(t *testing.T) {
	r := NewResolver(time.Second)
	existing := filepath.Join(t.TempDir(), "face.png")
	if err := os.WriteFile(existing, pngBytes(t, color.White), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	dir := t.TempDir()
	got, err := r.Resolve(context.Background(), model.ImageSource{ImageFilepath: existing}, dir, "t1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != existing {
		t.Fatalf("expected path returned verbatim, got %s", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no writes, found %d entries", len(entries))
	}
}

func TestResolve_Encoded(t *testing.T) {
	r := NewResolver(time.Second)

	t.Run("round_trip_with_sniffed_extension", func(t *testing.T) {
		raw := pngBytes(t, color.RGBA{R: 255, A: 255})
		dir := t.TempDir()
		src := model.ImageSource{EncodedImage: base64.StdEncoding.EncodeToString(raw)}
		got, err := r.Resolve(context.Background(), src, dir, "t1")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if filepath.Ext(got) != ".png" {
			t.Fatalf("expected .png extension, got %s", got)
		}
		data, err := os.ReadFile(got)
		if err != nil {
			t.Fatalf("read result: %v", err)
		}
		if !bytes.Equal(data, raw) {
			t.Fatal("written bytes differ from decoded payload")
		}
	})

	t.Run("data_uri_prefix", func(t *testing.T) {
		raw := pngBytes(t, color.Black)
		src := model.ImageSource{EncodedImage: "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)}
		got, err := r.Resolve(context.Background(), src, t.TempDir(), "t1")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if filepath.Ext(got) != ".png" {
			t.Fatalf("expected .png extension, got %s", got)
		}
	})

	t.Run("invalid_base64", func(t *testing.T) {
		src := model.ImageSource{EncodedImage: "not-base64!!!"}
		if _, err := r.Resolve(context.Background(), src, t.TempDir(), "t1"); err == nil {
			t.Fatal("expected error for invalid base64")
		}
	})

	t.Run("random_filename_when_empty", func(t *testing.T) {
		raw := pngBytes(t, color.White)
		dir := t.TempDir()
		src := model.ImageSource{EncodedImage: base64.StdEncoding.EncodeToString(raw)}
		first, err := r.Resolve(context.Background(), src, dir, "")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		second, err := r.Resolve(context.Background(), src, dir, "")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if first == second {
			t.Fatalf("expected unique filenames, both resolved to %s", first)
		}
	})
}

func TestResolve_Download(t *testing.T) {
	r := NewResolver(time.Second)
	raw := pngBytes(t, color.RGBA{B: 255, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write(raw)
	}))
	defer srv.Close()

	t.Run("extension_added_when_missing", func(t *testing.T) {
		got, err := r.Resolve(context.Background(), model.ImageSource{ImageURL: srv.URL + "/img"}, t.TempDir(), "t1")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if filepath.Base(got) != "t1.png" {
			t.Fatalf("expected t1.png, got %s", filepath.Base(got))
		}
	})

	t.Run("mismatched_extension_renamed", func(t *testing.T) {
		got, err := r.Resolve(context.Background(), model.ImageSource{ImageURL: srv.URL + "/img.jpg"}, t.TempDir(), "pic.jpg")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if filepath.Base(got) != "pic.png" {
			t.Fatalf("expected pic.png, got %s", filepath.Base(got))
		}
		if _, err := os.Stat(got); err != nil {
			t.Fatalf("renamed file missing: %v", err)
		}
	})

	t.Run("matching_extension_kept", func(t *testing.T) {
		got, err := r.Resolve(context.Background(), model.ImageSource{ImageURL: srv.URL + "/img"}, t.TempDir(), "pic.png")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if filepath.Base(got) != "pic.png" {
			t.Fatalf("expected pic.png, got %s", filepath.Base(got))
		}
	})

	t.Run("server_error_propagates", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer failing.Close()
		if _, err := r.Resolve(context.Background(), model.ImageSource{ImageURL: failing.URL}, t.TempDir(), "t1"); err == nil {
			t.Fatal("expected error for 404 download")
		}
	})
}

func TestResolve_FilepathMissing(t *testing.T) {
	r := NewResolver(time.Second)

	t.Run("no_fallback_source", func(t *testing.T) {
		src := model.ImageSource{ImageFilepath: filepath.Join(t.TempDir(), "missing.png")}
		_, err := r.Resolve(context.Background(), src, t.TempDir(), "t1")
		if !errors.Is(err, ErrFileMissing) {
			t.Fatalf("expected ErrFileMissing, got %v", err)
		}
	})

	t.Run("falls_back_to_encoded", func(t *testing.T) {
		raw := pngBytes(t, color.White)
		src := model.ImageSource{
			ImageFilepath: filepath.Join(t.TempDir(), "missing.png"),
			EncodedImage:  base64.StdEncoding.EncodeToString(raw),
		}
		got, err := r.Resolve(context.Background(), src, t.TempDir(), "t1")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if filepath.Ext(got) != ".png" {
			t.Fatalf("expected decoded fallback file, got %s", got)
		}
	})
}

func TestResolve_FilepathBeatsEncoded(t *testing.T) {
	r := NewResolver(time.Second)
	existing := filepath.Join(t.TempDir(), "face.png")
	if err := os.WriteFile(existing, pngBytes(t, color.White), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	src := model.ImageSource{
		ImageFilepath: existing,
		EncodedImage:  base64.StdEncoding.EncodeToString(pngBytes(t, color.Black)),
	}
	dir := t.TempDir()
	got, err := r.Resolve(context.Background(), src, dir, "t1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != existing {
		t.Fatalf("expected existing filepath to win, got %s", got)
	}
}

func TestDetectImageType(t *testing.T) {
	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"png", pngBytes(t, color.White), "png"},
		{"jpeg", jpegBuf.Bytes(), "jpeg"},
		{"unknown", []byte("definitely not an image"), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectImageType(tc.data); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
