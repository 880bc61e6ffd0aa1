package shape

import (
	"math"

	"github.com/golang/geo/r2"
)

// Limits: нижние и верхние границы, по которым обрезается любой жест.
type Limits struct {
	MinSize     float64
	MinFontSize float64
	MaxFontSize float64
}

func DefaultLimits() Limits {
	return Limits{MinSize: 5, MinFontSize: 12, MaxFontSize: 72}
}

// Preview builds the live geometry of a draw gesture from start to p.
// Прямоугольник и мозаика хранят знаковую дельту до Normalize.
func Preview(kind Kind, start, p r2.Point, blockSize int) Body {
	delta := p.Sub(start)
	switch kind {
	case KindRectangle:
		return Rectangle{Origin: start, Size: delta}
	case KindMosaic:
		return Mosaic{Origin: start, Size: delta, BlockSize: blockSize}
	case KindCircle:
		d := delta.Norm()
		mid := start.Add(delta.Mul(0.5))
		return Circle{Origin: r2.Point{X: mid.X - d/2, Y: mid.Y - d/2}, Diameter: d}
	case KindArrow:
		return Arrow{Origin: start, Delta: delta}
	}
	return nil
}

// Normalize делает размеры неотрицательными (кроме стрелок) и применяет минимальный размер.
func Normalize(s Shape, lim Limits) Shape {
	switch b := s.Body.(type) {
	case Rectangle:
		b.Origin, b.Size = normalizeBox(b.Origin, b.Size, lim.MinSize)
		s.Body = b
	case Mosaic:
		b.Origin, b.Size = normalizeBox(b.Origin, b.Size, lim.MinSize)
		if b.BlockSize < 1 {
			b.BlockSize = 1
		}
		s.Body = b
	case Circle:
		if b.Diameter < lim.MinSize {
			c := b.Center()
			b.Diameter = lim.MinSize
			b.Origin = r2.Point{X: c.X - lim.MinSize/2, Y: c.Y - lim.MinSize/2}
		}
		s.Body = b
	case Text:
		b.FontSize = clamp(b.FontSize, lim.MinFontSize, lim.MaxFontSize)
		s.Body = b
	}
	return s
}

func normalizeBox(o, size r2.Point, min float64) (r2.Point, r2.Point) {
	if size.X < 0 {
		o.X += size.X
		size.X = -size.X
	}
	if size.Y < 0 {
		o.Y += size.Y
		size.Y = -size.Y
	}
	size.X = math.Max(size.X, min)
	size.Y = math.Max(size.Y, min)
	return o, size
}

// ResizeCorner moves corner h of a rectangle or mosaic to p.
// Противоположный угол неподвижен, каждая сторона не меньше минимума.
func ResizeCorner(s Shape, h Handle, p r2.Point, lim Limits) Shape {
	switch b := s.Body.(type) {
	case Rectangle:
		b.Origin, b.Size = resizeBox(b.Origin, b.Size, h, p, lim.MinSize)
		s.Body = b
	case Mosaic:
		b.Origin, b.Size = resizeBox(b.Origin, b.Size, h, p, lim.MinSize)
		s.Body = b
	}
	return s
}

func resizeBox(o, size r2.Point, h Handle, p r2.Point, min float64) (r2.Point, r2.Point) {
	x0, y0 := o.X, o.Y
	x1, y1 := o.X+size.X, o.Y+size.Y
	switch h {
	case HandleNW:
		x0 = math.Min(p.X, x1-min)
		y0 = math.Min(p.Y, y1-min)
	case HandleNE:
		x1 = math.Max(p.X, x0+min)
		y0 = math.Min(p.Y, y1-min)
	case HandleSE:
		x1 = math.Max(p.X, x0+min)
		y1 = math.Max(p.Y, y0+min)
	case HandleSW:
		x0 = math.Min(p.X, x1-min)
		y1 = math.Max(p.Y, y0+min)
	default:
		return o, size
	}
	return r2.Point{X: x0, Y: y0}, r2.Point{X: x1 - x0, Y: y1 - y0}
}

// ResizeRadial: радиус круга равен расстоянию от неподвижного центра до p.
func ResizeRadial(s Shape, p r2.Point, lim Limits) Shape {
	b, ok := s.Body.(Circle)
	if !ok {
		return s
	}
	c := b.Center()
	d := math.Max(2*p.Sub(c).Norm(), lim.MinSize)
	b.Diameter = d
	b.Origin = r2.Point{X: c.X - d/2, Y: c.Y - d/2}
	s.Body = b
	return s
}

// ResizeText масштабирует шрифт по горизонтальному смещению от начала жеста.
func ResizeText(s Shape, startSize, startX, x, rate float64, lim Limits) Shape {
	b, ok := s.Body.(Text)
	if !ok {
		return s
	}
	b.FontSize = clamp(startSize+(x-startX)*rate, lim.MinFontSize, lim.MaxFontSize)
	s.Body = b
	return s
}

// MoveEndpoint двигает один конец стрелки, второй остается на месте.
func MoveEndpoint(s Shape, h Handle, p r2.Point) Shape {
	b, ok := s.Body.(Arrow)
	if !ok {
		return s
	}
	switch h {
	case HandleStart:
		end := b.End()
		b.Origin = p
		b.Delta = end.Sub(p)
	case HandleEnd:
		b.Delta = p.Sub(b.Origin)
	}
	s.Body = b
	return s
}

// Degenerate: нарисованная фигура без размера.
func Degenerate(b Body) bool {
	switch b := b.(type) {
	case Rectangle:
		return b.Size.X == 0 && b.Size.Y == 0
	case Mosaic:
		return b.Size.X == 0 && b.Size.Y == 0
	case Circle:
		return b.Diameter == 0
	case Arrow:
		return b.Delta.X == 0 && b.Delta.Y == 0
	case Text:
		return b.Content == ""
	}
	return true
}
