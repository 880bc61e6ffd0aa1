// Package compositor draws the current media frame and every overlay that
// is visible at the playback time onto a fixed-size raster surface.
package compositor

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"golang.org/x/image/draw"

	"github.com/ivlev/annotator/internal/shape"
)

type Options struct {
	StrokeWidth  float64
	FillAlpha    float64
	HandleRadius float64
	DashLength   float64
	Placeholder  color.RGBA
}

func DefaultOptions() Options {
	return Options{
		StrokeWidth:  3,
		FillAlpha:    0.2,
		HandleRadius: 5,
		DashLength:   6,
		Placeholder:  color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
	}
}

// Scene is everything one redraw needs.
type Scene struct {
	// Кадр на момент Time, nil пока медиа не готово.
	Frame    image.Image
	Time     float64
	Shapes   []shape.Shape
	Selected shape.ID
	Preview  *shape.Shape
}

type Compositor struct {
	surface *image.RGBA
	fonts   *FontMeasurer
	opts    Options
}

// New выделяет поверхность width x height.
func New(width, height int, fonts *FontMeasurer, opts Options) *Compositor {
	return &Compositor{
		surface: image.NewRGBA(image.Rect(0, 0, width, height)),
		fonts:   fonts,
		opts:    opts,
	}
}

// Surface: растр последнего Render.
func (c *Compositor) Surface() *image.RGBA { return c.surface }

func (c *Compositor) Fonts() *FontMeasurer { return c.fonts }

func (c *Compositor) measurer() shape.Measurer {
	if c.fonts == nil {
		return nil
	}
	return c.fonts
}

// Visible returns the shapes whose window contains t, in list (z) order.
func Visible(shapes []shape.Shape, t float64) []shape.Shape {
	out := make([]shape.Shape, 0, len(shapes))
	for _, s := range shapes {
		if s.Window.Contains(t) {
			out = append(out, s)
		}
	}
	return out
}

// Render redraws the whole surface for sc.
func (c *Compositor) Render(sc Scene) *image.RGBA {
	b := c.surface.Bounds()
	if sc.Frame != nil {
		draw.ApproxBiLinear.Scale(c.surface, b, sc.Frame, sc.Frame.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(c.surface, b, image.NewUniform(c.opts.Placeholder), image.Point{}, draw.Src)
	}

	dc := gg.NewContextForRGBA(c.surface)
	for _, s := range Visible(sc.Shapes, sc.Time) {
		c.drawShape(dc, s, sc.Frame)
	}
	if sc.Preview != nil && sc.Preview.Body != nil {
		c.drawShape(dc, shape.Normalize(*sc.Preview, shape.Limits{}), sc.Frame)
	}
	if i := shape.IndexOf(sc.Shapes, sc.Selected); sc.Selected != "" && i >= 0 {
		sel := sc.Shapes[i]
		if sel.Window.Contains(sc.Time) {
			c.drawSelection(dc, sel)
		} else {
			// Выделение переживает перемотку за окно, рисуются только маркеры.
			c.drawHandles(dc, sel)
		}
	}
	return c.surface
}

func (c *Compositor) drawShape(dc *gg.Context, s shape.Shape, frame image.Image) {
	dc.SetDash()
	dc.SetLineWidth(c.opts.StrokeWidth)
	switch b := s.Body.(type) {
	case shape.Rectangle:
		dc.DrawRectangle(b.Origin.X, b.Origin.Y, b.Size.X, b.Size.Y)
		c.fillAndStroke(dc, s.Color)
	case shape.Circle:
		cc := b.Center()
		dc.DrawCircle(cc.X, cc.Y, b.Radius())
		c.fillAndStroke(dc, s.Color)
	case shape.Arrow:
		drawArrow(dc, b.Origin, b.End(), s.Color, c.opts.StrokeWidth)
	case shape.Text:
		if c.fonts == nil {
			return
		}
		dc.SetFontFace(c.fonts.Face(b.FontSize))
		dc.SetColor(s.Color)
		dc.DrawString(b.Content, b.Origin.X, b.Origin.Y)
	case shape.Mosaic:
		// Без декодированного кадра область остается как есть.
		if frame == nil {
			return
		}
		r := shape.Bounds(s, nil)
		dst := image.Rect(
			int(math.Round(r.X.Lo)), int(math.Round(r.Y.Lo)),
			int(math.Round(r.X.Hi)), int(math.Round(r.Y.Hi)),
		)
		pixelate(c.surface, frame, dst, b.BlockSize)
	}
}

func (c *Compositor) fillAndStroke(dc *gg.Context, col color.RGBA) {
	dc.SetColor(fillColor(col, c.opts.FillAlpha))
	dc.FillPreserve()
	dc.SetColor(col)
	dc.Stroke()
}

// fillColor: цвет обводки с пониженной непрозрачностью.
func fillColor(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * alpha))}
}

func drawArrow(dc *gg.Context, from, to r2.Point, col color.RGBA, width float64) {
	dc.SetColor(col)
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	dc.Stroke()

	d := to.Sub(from)
	if d.Norm() == 0 {
		return
	}
	angle := math.Atan2(d.Y, d.X)
	size := 6 + width*3
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-size*math.Cos(angle-math.Pi/6), to.Y-size*math.Sin(angle-math.Pi/6))
	dc.LineTo(to.X-size*math.Cos(angle+math.Pi/6), to.Y-size*math.Sin(angle+math.Pi/6))
	dc.ClosePath()
	dc.Fill()
}

// drawSelection outlines s with a dashed box and draws its handles.
func (c *Compositor) drawSelection(dc *gg.Context, s shape.Shape) {
	// Текст меряем на каждой отрисовке: размер меняется прямо во время ресайза.
	r := shape.Bounds(s, c.measurer())
	pad := 4.0
	dc.SetLineWidth(1)
	dc.SetDash(c.opts.DashLength, c.opts.DashLength)
	dc.DrawRectangle(r.X.Lo-pad, r.Y.Lo-pad, r.X.Length()+2*pad, r.Y.Length()+2*pad)
	dc.SetColor(color.White)
	dc.Stroke()
	dc.SetDash()
	c.drawHandles(dc, s)
}

func (c *Compositor) drawHandles(dc *gg.Context, s shape.Shape) {
	dc.SetDash()
	dc.SetLineWidth(1.5)
	for _, h := range shape.Handles(s, c.measurer()) {
		dc.DrawCircle(h.At.X, h.At.Y, c.opts.HandleRadius)
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(s.Color)
		dc.Stroke()
	}
}

// EncodePNG пишет поверхность в PNG (сохранение статичной картинки).
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
