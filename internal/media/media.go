// Package media provides the input surfaces the editor composites over:
// still images, single PDF pages, ffmpeg-decoded video and synthetic clips.
package media

import (
	"errors"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"
)

var (
	// ErrNotReady is returned by Frame while no decodable frame exists.
	ErrNotReady = errors.New("media not ready")
	// ErrSeekRange is returned by Seek for a time outside [0, Duration].
	ErrSeekRange = errors.New("seek out of range")
)

// Media is a playable handle. Still inputs report a zero duration and a
// frozen frame. Компоновщик обрабатывает оба вида одинаково.
type Media interface {
	Duration() float64
	CurrentTime() float64
	Seek(t float64) error
	// Кадр на момент CurrentTime.
	Frame() (image.Image, error)
	Close() error
}

// Still is a frozen frame with no time axis.
type Still struct {
	img image.Image
}

func NewStill(img image.Image) *Still {
	return &Still{img: img}
}

func (s *Still) Duration() float64    { return 0 }
func (s *Still) CurrentTime() float64 { return 0 }

// Seek принимает любое допустимое время: картинке некуда перематываться.
func (s *Still) Seek(float64) error { return nil }

func (s *Still) Frame() (image.Image, error) {
	if s.img == nil {
		return nil, ErrNotReady
	}
	return s.img, nil
}

func (s *Still) Close() error { return nil }

// Clip is a synthetic timed media whose frames come from a function of time.
type Clip struct {
	length float64
	now    float64
	render func(t float64) image.Image
}

func NewClip(length float64, render func(t float64) image.Image) *Clip {
	return &Clip{length: length, render: render}
}

func (c *Clip) Duration() float64    { return c.length }
func (c *Clip) CurrentTime() float64 { return c.now }

func (c *Clip) Seek(t float64) error {
	if err := checkRange(t, c.length); err != nil {
		return err
	}
	c.now = t
	return nil
}

func (c *Clip) Frame() (image.Image, error) {
	if c.render == nil {
		return nil, ErrNotReady
	}
	img := c.render(c.now)
	if img == nil {
		return nil, ErrNotReady
	}
	return img, nil
}

func (c *Clip) Close() error { return nil }

func checkRange(t, duration float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 || t > duration {
		return fmt.Errorf("%w: %.3f not in [0, %.3f]", ErrSeekRange, t, duration)
	}
	return nil
}

// Open picks the media kind by file extension. PDF documents open their
// first page at dpi. Все, что не известная картинка, считаем видео.
func Open(path string, dpi int) (Media, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return OpenPDFPage(path, 0, dpi)
	case isImageExt(ext):
		return OpenImage(path)
	default:
		return OpenVideo(path)
	}
}
