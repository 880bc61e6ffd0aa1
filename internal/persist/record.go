package persist

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/golang/geo/r2"

	"github.com/ivlev/annotator/internal/shape"
)

// Record types of the overlay store. Прямоугольник и круг оба TypeShape,
// различаются по Config.Shape.
const (
	TypeText   = "text"
	TypeShape  = "shape"
	TypeArrow  = "arrow"
	TypeMosaic = "mosaic"

	ShapeRectangle = "rectangle"
	ShapeCircle    = "circle"
)

// ErrUnknownType is returned for a record whose type is not in the taxonomy.
var ErrUnknownType = errors.New("unknown overlay type")

// Record is one stored overlay.
type Record struct {
	ID       string       `json:"id,omitempty" yaml:"id,omitempty"`
	Type     string       `json:"type" yaml:"type"`
	StartSec float64      `json:"start_sec" yaml:"start_sec"`
	EndSec   float64      `json:"end_sec" yaml:"end_sec"`
	Config   RecordConfig `json:"config" yaml:"config"`
}

type RecordConfig struct {
	Shape     string  `json:"shape,omitempty" yaml:"shape,omitempty"`
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Width     float64 `json:"width" yaml:"width"`
	Height    float64 `json:"height" yaml:"height"`
	Text      string  `json:"text,omitempty" yaml:"text,omitempty"`
	FontSize  float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	Color     string  `json:"color" yaml:"color"`
	PixelSize int     `json:"pixelSize,omitempty" yaml:"pixelSize,omitempty"`
}

// Defaults заполняют поля, которых может не быть в старой записи.
type Defaults struct {
	Color     color.RGBA
	FontSize  float64
	PixelSize int
}

// ToRecord maps s onto the store taxonomy. Если m задан, ширина и высота
// текста берутся из измерения.
func ToRecord(s shape.Shape, m shape.Measurer) Record {
	rec := Record{
		ID:       string(s.ID),
		StartSec: s.Window.From,
		EndSec:   s.Window.Until,
		Config:   RecordConfig{Color: shape.HexColor(s.Color)},
	}
	cfg := &rec.Config
	switch b := s.Body.(type) {
	case shape.Rectangle:
		rec.Type, cfg.Shape = TypeShape, ShapeRectangle
		cfg.X, cfg.Y, cfg.Width, cfg.Height = b.Origin.X, b.Origin.Y, b.Size.X, b.Size.Y
	case shape.Circle:
		rec.Type, cfg.Shape = TypeShape, ShapeCircle
		cfg.X, cfg.Y, cfg.Width, cfg.Height = b.Origin.X, b.Origin.Y, b.Diameter, b.Diameter
	case shape.Arrow:
		rec.Type = TypeArrow
		cfg.X, cfg.Y, cfg.Width, cfg.Height = b.Origin.X, b.Origin.Y, b.Delta.X, b.Delta.Y
	case shape.Mosaic:
		rec.Type = TypeMosaic
		cfg.X, cfg.Y, cfg.Width, cfg.Height = b.Origin.X, b.Origin.Y, b.Size.X, b.Size.Y
		cfg.PixelSize = b.BlockSize
	case shape.Text:
		rec.Type = TypeText
		cfg.X, cfg.Y = b.Origin.X, b.Origin.Y
		cfg.Text, cfg.FontSize = b.Content, b.FontSize
		if m != nil {
			cfg.Width, cfg.Height = m.TextWidth(b.Content, b.FontSize), b.FontSize
		}
	}
	return rec
}

// FromRecord maps a stored overlay back onto the five shape kinds.
func FromRecord(rec Record, d Defaults) (shape.Shape, error) {
	cfg := rec.Config
	col := d.Color
	if cfg.Color != "" {
		c, err := shape.ParseColor(cfg.Color)
		if err != nil {
			return shape.Shape{}, fmt.Errorf("overlay %s: %w", rec.ID, err)
		}
		col = c
	}

	origin := r2.Point{X: cfg.X, Y: cfg.Y}
	size := r2.Point{X: cfg.Width, Y: cfg.Height}
	var body shape.Body
	switch rec.Type {
	case TypeShape:
		switch cfg.Shape {
		case ShapeCircle:
			body = shape.Circle{Origin: origin, Diameter: max(cfg.Width, cfg.Height)}
		case ShapeRectangle, "":
			body = shape.Rectangle{Origin: origin, Size: size}
		default:
			return shape.Shape{}, fmt.Errorf("overlay %s: %w: shape %q", rec.ID, ErrUnknownType, cfg.Shape)
		}
	case TypeArrow:
		body = shape.Arrow{Origin: origin, Delta: size}
	case TypeMosaic:
		block := cfg.PixelSize
		if block <= 0 {
			block = d.PixelSize
		}
		body = shape.Mosaic{Origin: origin, Size: size, BlockSize: block}
	case TypeText:
		fs := cfg.FontSize
		if fs <= 0 {
			fs = d.FontSize
		}
		body = shape.Text{Origin: origin, Content: cfg.Text, FontSize: fs}
	default:
		return shape.Shape{}, fmt.Errorf("overlay %s: %w: %q", rec.ID, ErrUnknownType, rec.Type)
	}

	from, until := rec.StartSec, rec.EndSec
	if from > until {
		from, until = until, from
	}
	// Старые записи могут хранить отрицательные ширину и высоту.
	return shape.Normalize(shape.Shape{
		ID:     shape.ID(rec.ID),
		Color:  col,
		Window: shape.Window{From: from, Until: until},
		Body:   body,
	}, shape.DefaultLimits()), nil
}
