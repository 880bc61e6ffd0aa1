// Package shape holds the annotation model: the five shape kinds, their
// geometry and the clamped mutations applied by gestures.
package shape

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"
)

type Kind string

const (
	KindText      Kind = "text"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindArrow     Kind = "arrow"
	KindMosaic    Kind = "mosaic"
)

// ID identifies a shape for the lifetime of an editing session.
type ID string

const provisionalPrefix = "tmp-"

// NewProvisionalID возвращает временный id, еще не подтвержденный хранилищем.
func NewProvisionalID() ID {
	return ID(provisionalPrefix + uuid.NewString())
}

func (id ID) Provisional() bool {
	return strings.HasPrefix(string(id), provisionalPrefix)
}

// Measurer reports the rendered width of a text run at the given font size.
type Measurer interface {
	TextWidth(text string, fontSize float64) float64
}

// Body is the kind-specific part of a shape. Все варианты неизменяемые значения.
type Body interface {
	Kind() Kind
	Anchor() r2.Point
	withAnchor(p r2.Point) Body
}

// Rectangle is anchored at its top-left corner.
type Rectangle struct {
	Origin r2.Point
	Size   r2.Point
}

// Mosaic пикселизует медиа под своим прямоугольником.
type Mosaic struct {
	Origin    r2.Point
	Size      r2.Point
	BlockSize int
}

// Circle хранится как описанный квадрат.
type Circle struct {
	Origin   r2.Point
	Diameter float64
}

// Arrow points from Origin to Origin+Delta. Знак Delta сохраняется.
type Arrow struct {
	Origin r2.Point
	Delta  r2.Point
}

// Text привязан к левому концу базовой линии.
type Text struct {
	Origin   r2.Point
	Content  string
	FontSize float64
}

func (Rectangle) Kind() Kind { return KindRectangle }
func (Mosaic) Kind() Kind    { return KindMosaic }
func (Circle) Kind() Kind    { return KindCircle }
func (Arrow) Kind() Kind     { return KindArrow }
func (Text) Kind() Kind      { return KindText }

func (b Rectangle) Anchor() r2.Point { return b.Origin }
func (b Mosaic) Anchor() r2.Point    { return b.Origin }
func (b Circle) Anchor() r2.Point    { return b.Origin }
func (b Arrow) Anchor() r2.Point     { return b.Origin }
func (b Text) Anchor() r2.Point      { return b.Origin }

func (b Rectangle) withAnchor(p r2.Point) Body { b.Origin = p; return b }
func (b Mosaic) withAnchor(p r2.Point) Body    { b.Origin = p; return b }
func (b Circle) withAnchor(p r2.Point) Body    { b.Origin = p; return b }
func (b Arrow) withAnchor(p r2.Point) Body     { b.Origin = p; return b }
func (b Text) withAnchor(p r2.Point) Body      { b.Origin = p; return b }

// Центр описанного квадрата.
func (b Circle) Center() r2.Point {
	r := b.Radius()
	return r2.Point{X: b.Origin.X + r, Y: b.Origin.Y + r}
}

func (b Circle) Radius() float64 { return b.Diameter / 2 }

// End: позиция наконечника.
func (b Arrow) End() r2.Point { return b.Origin.Add(b.Delta) }

// Shape is one annotation. Copying a Shape copies all of its state.
type Shape struct {
	ID     ID
	Color  color.RGBA
	Window Window
	Body   Body
}

func (s Shape) Kind() Kind {
	if s.Body == nil {
		return ""
	}
	return s.Body.Kind()
}

func (s Shape) Origin() r2.Point {
	if s.Body == nil {
		return r2.Point{}
	}
	return s.Body.Anchor()
}

// MoveTo возвращает фигуру, сдвинутую так, что ее origin равен p.
func (s Shape) MoveTo(p r2.Point) Shape {
	if s.Body != nil {
		s.Body = s.Body.withAnchor(p)
	}
	return s
}

func (s Shape) String() string {
	return fmt.Sprintf("%s{%s at %.1f,%.1f [%.2f..%.2f]}", s.Kind(), s.ID, s.Origin().X, s.Origin().Y, s.Window.From, s.Window.Until)
}

// Clone copies a shape list. Фигуры значения, так что копия полная.
func Clone(list []Shape) []Shape {
	if list == nil {
		return nil
	}
	out := make([]Shape, len(list))
	copy(out, list)
	return out
}

// IndexOf returns the list position of id or -1.
func IndexOf(list []Shape, id ID) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
