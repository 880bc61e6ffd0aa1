package hittest

import (
	"testing"

	"github.com/golang/geo/r2"

	"github.com/ivlev/annotator/internal/shape"
)

type runeMeasurer struct{}

func (runeMeasurer) TextWidth(text string, size float64) float64 {
	return float64(len(text)) * size / 2
}

func rect(id string, x, y, w, h float64) shape.Shape {
	return shape.Shape{
		ID:     shape.ID(id),
		Window: shape.Window{From: 0, Until: 10},
		Body:   shape.Rectangle{Origin: r2.Point{X: x, Y: y}, Size: r2.Point{X: w, Y: h}},
	}
}

func TestOverlapPrefersFirstCreated(t *testing.T) {
	shapes := []shape.Shape{rect("A", 0, 0, 100, 100), rect("B", 50, 50, 100, 100)}
	res := Resolve(shapes, "", r2.Point{X: 75, Y: 75}, 1, nil, DefaultOptions())
	if !res.Hit() || res.ID != "A" {
		t.Errorf("Expected A, got %+v", res)
	}
	res = Resolve(shapes, "", r2.Point{X: 140, Y: 140}, 1, nil, DefaultOptions())
	if res.ID != "B" {
		t.Errorf("Expected B, got %+v", res)
	}
}

func TestSelectedHandleWinsOverShapes(t *testing.T) {
	shapes := []shape.Shape{rect("A", 0, 0, 200, 200), rect("B", 50, 50, 50, 50)}
	// B's se handle lies inside A; a point near it must resolve to the handle.
	res := Resolve(shapes, "B", r2.Point{X: 108, Y: 95}, 1, nil, DefaultOptions())
	if res.ID != "B" || res.Handle != shape.HandleSE {
		t.Errorf("Expected B/se, got %+v", res)
	}
	// Without selection the same point hits A's body.
	res = Resolve(shapes, "", r2.Point{X: 108, Y: 95}, 1, nil, DefaultOptions())
	if res.ID != "A" || res.Handle != shape.HandleNone {
		t.Errorf("Expected A body, got %+v", res)
	}
}

func TestTimeWindowFiltersBodies(t *testing.T) {
	s := rect("A", 0, 0, 10, 10)
	s.Window = shape.Window{From: 2, Until: 5}
	shapes := []shape.Shape{s}
	p := r2.Point{X: 5, Y: 5}
	for _, tc := range []struct {
		t   float64
		hit bool
	}{{1, false}, {2, true}, {5, true}, {5.5, false}} {
		if got := Resolve(shapes, "", p, tc.t, nil, DefaultOptions()).Hit(); got != tc.hit {
			t.Errorf("t=%v hit=%v want %v", tc.t, got, tc.hit)
		}
	}
	// Handles of the selected shape stay live outside the window.
	res := Resolve(shapes, "A", r2.Point{X: 10, Y: 10}, 9, nil, DefaultOptions())
	if res.Handle != shape.HandleSE {
		t.Errorf("Expected se handle outside window, got %+v", res)
	}
}

func TestArrowHitsLineExtension(t *testing.T) {
	a := shape.Shape{ID: "arrow", Window: shape.Window{Until: 1}, Body: shape.Arrow{Origin: r2.Point{}, Delta: r2.Point{X: 100}}}
	if !Contains(a, r2.Point{X: 50, Y: 9}, nil, 10) {
		t.Error("Point near the segment should hit")
	}
	if !Contains(a, r2.Point{X: 400, Y: 5}, nil, 10) {
		t.Error("Point on the line extension should hit")
	}
	if Contains(a, r2.Point{X: 50, Y: 11}, nil, 10) {
		t.Error("Point beyond threshold should miss")
	}
}

func TestCircleAndText(t *testing.T) {
	c := shape.Shape{Body: shape.Circle{Origin: r2.Point{}, Diameter: 20}}
	if !Contains(c, r2.Point{X: 10, Y: 1}, nil, 10) {
		t.Error("Inside circle should hit")
	}
	if Contains(c, r2.Point{X: 1, Y: 1}, nil, 10) {
		t.Error("Bounding square corner lies outside the circle")
	}

	txt := shape.Shape{Body: shape.Text{Origin: r2.Point{X: 10, Y: 50}, Content: "hello", FontSize: 20}}
	if !Contains(txt, r2.Point{X: 30, Y: 40}, runeMeasurer{}, 10) {
		t.Error("Inside text box should hit")
	}
	if Contains(txt, r2.Point{X: 30, Y: 55}, runeMeasurer{}, 10) {
		t.Error("Below baseline should miss")
	}
	h := HitHandle(txt, r2.Point{X: 62, Y: 52}, runeMeasurer{}, 12)
	if h != shape.HandleSize {
		t.Errorf("Expected size handle, got %q", h)
	}
}

func TestMiss(t *testing.T) {
	res := Resolve(nil, "gone", r2.Point{}, 0, nil, DefaultOptions())
	if res.Hit() {
		t.Errorf("Expected miss, got %+v", res)
	}
}
