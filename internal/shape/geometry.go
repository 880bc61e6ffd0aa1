package shape

import (
	"math"

	"github.com/golang/geo/r2"
)

// Handle names a resize or endpoint hotspot of a shape.
type Handle string

const (
	HandleNone  Handle = ""
	HandleNW    Handle = "nw"
	HandleNE    Handle = "ne"
	HandleSE    Handle = "se"
	HandleSW    Handle = "sw"
	HandleN     Handle = "n"
	HandleS     Handle = "s"
	HandleE     Handle = "e"
	HandleW     Handle = "w"
	HandleStart Handle = "start"
	HandleEnd   Handle = "end"
	HandleSize  Handle = "size"
)

// HandlePoint: маркер вместе с его позицией.
type HandlePoint struct {
	Handle Handle
	At     r2.Point
}

// Bounds returns the axis-aligned bounding box. Для текста нужен m, чтобы измерить ширину.
func Bounds(s Shape, m Measurer) r2.Rect {
	switch b := s.Body.(type) {
	case Rectangle:
		return r2.RectFromPoints(b.Origin, b.Origin.Add(b.Size))
	case Mosaic:
		return r2.RectFromPoints(b.Origin, b.Origin.Add(b.Size))
	case Circle:
		return r2.RectFromPoints(b.Origin, b.Origin.Add(r2.Point{X: b.Diameter, Y: b.Diameter}))
	case Arrow:
		return r2.RectFromPoints(b.Origin, b.End())
	case Text:
		return TextBounds(b, m)
	}
	return r2.EmptyRect()
}

// TextBounds охватывает [x, y-fontSize] .. [x+width, y]: текст растет вправо
// и вверх от точки на базовой линии.
func TextBounds(b Text, m Measurer) r2.Rect {
	w := 0.0
	if m != nil {
		w = m.TextWidth(b.Content, b.FontSize)
	}
	return r2.RectFromPoints(
		r2.Point{X: b.Origin.X, Y: b.Origin.Y - b.FontSize},
		r2.Point{X: b.Origin.X + w, Y: b.Origin.Y},
	)
}

// Handles возвращает маркеры s в фиксированном для каждого вида порядке.
func Handles(s Shape, m Measurer) []HandlePoint {
	switch b := s.Body.(type) {
	case Rectangle:
		return cornerHandles(b.Origin, b.Size)
	case Mosaic:
		return cornerHandles(b.Origin, b.Size)
	case Circle:
		c, r := b.Center(), b.Radius()
		return []HandlePoint{
			{HandleN, r2.Point{X: c.X, Y: c.Y - r}},
			{HandleS, r2.Point{X: c.X, Y: c.Y + r}},
			{HandleE, r2.Point{X: c.X + r, Y: c.Y}},
			{HandleW, r2.Point{X: c.X - r, Y: c.Y}},
		}
	case Arrow:
		return []HandlePoint{
			{HandleStart, b.Origin},
			{HandleEnd, b.End()},
		}
	case Text:
		bb := TextBounds(b, m)
		return []HandlePoint{{HandleSize, r2.Point{X: bb.X.Hi, Y: bb.Y.Hi}}}
	}
	return nil
}

func cornerHandles(o, size r2.Point) []HandlePoint {
	return []HandlePoint{
		{HandleNW, o},
		{HandleNE, r2.Point{X: o.X + size.X, Y: o.Y}},
		{HandleSE, o.Add(size)},
		{HandleSW, r2.Point{X: o.X, Y: o.Y + size.Y}},
	}
}

// DistanceToLine is the perpendicular distance from p to the infinite line
// through a and b. Для вырожденной линии берем расстояние до a.
func DistanceToLine(p, a, b r2.Point) float64 {
	d := b.Sub(a)
	n := d.Norm()
	if n == 0 {
		return p.Sub(a).Norm()
	}
	return math.Abs(d.Cross(p.Sub(a))) / n
}
