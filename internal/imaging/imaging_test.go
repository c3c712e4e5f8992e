package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

type encoder func(*bytes.Buffer, image.Image) error

func encodeJPEG(b *bytes.Buffer, img image.Image) error {
	return jpeg.Encode(b, img, &jpeg.Options{Quality: 90})
}

func encodePNG(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) }

func encodeGIF(b *bytes.Buffer, img image.Image) error { return gif.Encode(b, img, nil) }

// sample returns a w x h image with a horizontal gradient, encoded with enc.
func sample(t *testing.T, enc encoder, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		c := color.RGBA{uint8(x * 255 / w), 80, 160, 255}
		for y := range h {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		t.Fatalf("encoding sample: %v", err)
	}
	return buf.Bytes()
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name         string
		enc          encoder
		w, h         int
		wantW, wantH int
	}{
		{"small jpeg kept", encodeJPEG, 50, 40, 50, 40},
		{"png converted", encodePNG, 300, 200, 300, 200},
		{"wide downscaled", encodeJPEG, 2400, 1200, MaxDimension, 600},
		{"tall downscaled", encodePNG, 600, 2400, 300, MaxDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Process(bytes.NewReader(sample(t, tt.enc, tt.w, tt.h)), "upload.png")
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if img.MIME != "image/jpeg" || img.Filename != "upload.jpg" {
				t.Errorf("got %s %q, want image/jpeg \"upload.jpg\"", img.MIME, img.Filename)
			}
			if img.Width != tt.wantW || img.Height != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", img.Width, img.Height, tt.wantW, tt.wantH)
			}

			decoded, format, err := image.Decode(bytes.NewReader(img.Data))
			if err != nil || format != "jpeg" {
				t.Fatalf("output is not a JPEG: %v %q", err, format)
			}
			if b := decoded.Bounds(); b.Dx() != img.Width || b.Dy() != img.Height {
				t.Errorf("reported %dx%d, encoded %dx%d", img.Width, img.Height, b.Dx(), b.Dy())
			}
		})
	}
}

func TestProcessRejects(t *testing.T) {
	inputs := map[string][]byte{
		"text":  []byte("not an image"),
		"gif":   sample(t, encodeGIF, 10, 10),
		"empty": nil,
	}
	for name, data := range inputs {
		if _, err := Process(bytes.NewReader(data), "x"); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestJPEGName(t *testing.T) {
	tests := map[string]string{
		"cat.png":                 "cat.jpg",
		"C:\\Users\\me\\dog.jpeg": "dog.jpg",
		"../../etc/passwd":        "passwd.jpg",
		"":                        "image.jpg",
	}
	for in, want := range tests {
		if got := jpegName(in); got != want {
			t.Errorf("jpegName(%q) = %q, want %q", in, got, want)
		}
	}
}
