// Package hittest resolves a pointer position to a handle of the selected
// shape or to a shape in the list.
package hittest

import (
	"github.com/golang/geo/r2"

	"github.com/ivlev/annotator/internal/shape"
)

type Options struct {
	HandleRadius   float64 // радиус попадания, больше нарисованного маркера
	ArrowThreshold float64
}

func DefaultOptions() Options {
	return Options{HandleRadius: 12, ArrowThreshold: 10}
}

// Result of Resolve. Handle is set only when a handle of the selected shape was struck.
type Result struct {
	ID     shape.ID
	Index  int
	Handle shape.Handle
}

func (r Result) Hit() bool { return r.Index >= 0 }

var miss = Result{Index: -1}

// Resolve checks the handles of the selected shape first, then every shape
// visible at time t in list order. Маркеры не зависят от окна времени.
func Resolve(shapes []shape.Shape, selected shape.ID, p r2.Point, t float64, m shape.Measurer, opts Options) Result {
	if selected != "" {
		if i := shape.IndexOf(shapes, selected); i >= 0 {
			if h := HitHandle(shapes[i], p, m, opts.HandleRadius); h != shape.HandleNone {
				return Result{ID: selected, Index: i, Handle: h}
			}
		}
	}
	if i := HitShape(shapes, p, t, m, opts.ArrowThreshold); i >= 0 {
		return Result{ID: shapes[i].ID, Index: i}
	}
	return miss
}

// HitHandle возвращает ближайший к p маркер s в пределах radius.
func HitHandle(s shape.Shape, p r2.Point, m shape.Measurer, radius float64) shape.Handle {
	best, bestDist := shape.HandleNone, radius
	for _, h := range shape.Handles(s, m) {
		if d := h.At.Sub(p).Norm(); d <= bestDist {
			best, bestDist = h.Handle, d
		}
	}
	return best
}

// HitShape returns the index of the first visible shape containing p, or -1.
// При перекрытии побеждает фигура раньше в списке.
func HitShape(shapes []shape.Shape, p r2.Point, t float64, m shape.Measurer, arrowThreshold float64) int {
	for i, s := range shapes {
		if !s.Window.Contains(t) {
			continue
		}
		if Contains(s, p, m, arrowThreshold) {
			return i
		}
	}
	return -1
}

// Contains is the per-kind body test. Для стрелки меряем расстояние до
// бесконечной прямой через концы, а не до отрезка.
func Contains(s shape.Shape, p r2.Point, m shape.Measurer, arrowThreshold float64) bool {
	switch b := s.Body.(type) {
	case shape.Circle:
		return p.Sub(b.Center()).Norm() <= b.Radius()
	case shape.Arrow:
		return shape.DistanceToLine(p, b.Origin, b.End()) <= arrowThreshold
	case nil:
		return false
	}
	return shape.Bounds(s, m).ContainsPoint(p)
}
