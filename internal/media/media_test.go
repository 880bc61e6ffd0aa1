package media

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(1, 1, color.RGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStill(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s := NewStill(img)
	if s.Duration() != 0 || s.CurrentTime() != 0 {
		t.Error("Still must report a zero time axis")
	}
	if err := s.Seek(12); err != nil {
		t.Errorf("Seek on a still should be accepted, got %v", err)
	}
	if got, err := s.Frame(); err != nil || got != image.Image(img) {
		t.Errorf("Frame() = %v, %v", got, err)
	}

	if _, err := NewStill(nil).Frame(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}
}

func TestClipSeek(t *testing.T) {
	var seen []float64
	c := NewClip(10, func(t float64) image.Image {
		seen = append(seen, t)
		return image.NewRGBA(image.Rect(0, 0, 2, 2))
	})

	if err := c.Seek(3.5); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Frame(); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0] != 3.5 {
		t.Errorf("Frame should render at the current time, got %v", seen)
	}

	for _, bad := range []float64{-1, 10.5} {
		if err := c.Seek(bad); !errors.Is(err, ErrSeekRange) {
			t.Errorf("Seek(%v): expected ErrSeekRange, got %v", bad, err)
		}
	}
	if c.CurrentTime() != 3.5 {
		t.Errorf("Failed seek must keep the time, got %v", c.CurrentTime())
	}
	if err := c.Seek(10); err != nil {
		t.Errorf("Seek to the end is valid, got %v", err)
	}
}

func TestClipNotReady(t *testing.T) {
	c := NewClip(1, func(float64) image.Image { return nil })
	if _, err := c.Frame(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}
}

func TestOpenImage(t *testing.T) {
	path := writePNG(t, 6, 3)

	m, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()
	img, err := m.Frame()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 3 {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}

	w, h, err := ImageSize(path)
	if err != nil || w != 6 || h != 3 {
		t.Errorf("ImageSize = %d, %d, %v", w, h, err)
	}
}

func TestOpenImageErrors(t *testing.T) {
	if _, err := OpenImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.png")
	os.WriteFile(path, []byte("not an image"), 0644)
	if _, err := OpenImage(path); err == nil {
		t.Error("Expected decode error")
	}
}

func TestDecodeArgs(t *testing.T) {
	args := decodeArgs("in.mp4", 1.5)
	want := map[string]string{"-ss": "1.500000", "-i": "in.mp4", "-pix_fmt": "rgba", "-f": "rawvideo"}
	for i := 0; i < len(args)-1; i++ {
		if v, ok := want[args[i]]; ok {
			if args[i+1] != v {
				t.Errorf("%s = %s, want %s", args[i], args[i+1], v)
			}
			delete(want, args[i])
		}
	}
	if len(want) != 0 {
		t.Errorf("Missing args: %v", want)
	}
	if args[len(args)-1] != "-" {
		t.Error("Frames must be written to stdout")
	}
}

func TestSeekRejectsNonFinite(t *testing.T) {
	clip := NewClip(4, func(float64) image.Image { return image.NewRGBA(image.Rect(0, 0, 2, 2)) })
	for _, tm := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := clip.Seek(tm); !errors.Is(err, ErrSeekRange) {
			t.Errorf("Seek(%v) = %v, want ErrSeekRange", tm, err)
		}
	}
	if clip.CurrentTime() != 0 {
		t.Errorf("Rejected seek moved the clip to %v", clip.CurrentTime())
	}
}

func TestDecodeTimeAtEnd(t *testing.T) {
	tests := []struct{ t, duration, want float64 }{
		{1.5, 10, 1.5},
		{10, 10, 10 - tailGuard},
		{9.99, 10, 10 - tailGuard},
		{0, 0.01, 0},
	}
	for _, tt := range tests {
		if got := decodeTime(tt.t, tt.duration); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("decodeTime(%v, %v) = %v, want %v", tt.t, tt.duration, got, tt.want)
		}
	}
}
