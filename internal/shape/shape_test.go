package shape

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

// fixedMeasurer treats every rune as half the font size wide.
type fixedMeasurer struct{}

func (fixedMeasurer) TextWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * size / 2
}

func pt(x, y float64) r2.Point { return r2.Point{X: x, Y: y} }

func TestProvisionalID(t *testing.T) {
	id := NewProvisionalID()
	if !id.Provisional() {
		t.Errorf("Expected %s to be provisional", id)
	}
	if ID("42").Provisional() {
		t.Error("Store id must not be provisional")
	}
	if NewProvisionalID() == id {
		t.Error("Provisional ids must be unique")
	}
}

func TestWindow(t *testing.T) {
	w := NewWindow(2, 5, 10)
	for _, tc := range []struct {
		t    float64
		want bool
	}{
		{1.99, false}, {2, true}, {3.5, true}, {5, true}, {5.01, false},
	} {
		if got := w.Contains(tc.t); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}

	if w := NewWindow(8, 3, 6); w.From != 3 || w.Until != 6 {
		t.Errorf("Expected ordered and clamped [3,6], got %+v", w)
	}
	if w := NewWindow(-1, 4, 10); w.From != 0 {
		t.Errorf("Expected From clamped to 0, got %+v", w)
	}
	if w := DefaultWindow(7, 5, 10, false); w.From != 7 || w.Until != 10 {
		t.Errorf("Expected [7,10], got %+v", w)
	}
	if w := DefaultWindow(7, 5, 10, true); w.From != 0 || w.Until != 10 {
		t.Errorf("Expected [0,10], got %+v", w)
	}
}

func TestBounds(t *testing.T) {
	m := fixedMeasurer{}
	tests := []struct {
		name   string
		body   Body
		lo, hi r2.Point
	}{
		{"rectangle", Rectangle{Origin: pt(10, 10), Size: pt(100, 50)}, pt(10, 10), pt(110, 60)},
		{"circle", Circle{Origin: pt(0, 0), Diameter: 20}, pt(0, 0), pt(20, 20)},
		{"arrow backwards", Arrow{Origin: pt(50, 50), Delta: pt(-30, -10)}, pt(20, 40), pt(50, 50)},
		{"text", Text{Origin: pt(10, 40), Content: "abcd", FontSize: 20}, pt(10, 20), pt(50, 40)},
		{"mosaic", Mosaic{Origin: pt(1, 2), Size: pt(3, 4), BlockSize: 2}, pt(1, 2), pt(4, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Bounds(Shape{Body: tt.body}, m)
			if b.Lo() != tt.lo || b.Hi() != tt.hi {
				t.Errorf("Expected %v..%v, got %v..%v", tt.lo, tt.hi, b.Lo(), b.Hi())
			}
		})
	}
}

func TestCircleDerived(t *testing.T) {
	c := Circle{Origin: pt(10, 20), Diameter: 30}
	if c.Center() != pt(25, 35) || c.Radius() != 15 {
		t.Errorf("Unexpected center %v radius %v", c.Center(), c.Radius())
	}
	hs := Handles(Shape{Body: c}, nil)
	want := map[Handle]r2.Point{HandleN: pt(25, 20), HandleS: pt(25, 50), HandleE: pt(40, 35), HandleW: pt(10, 35)}
	if len(hs) != 4 {
		t.Fatalf("Expected 4 handles, got %d", len(hs))
	}
	for _, h := range hs {
		if want[h.Handle] != h.At {
			t.Errorf("Handle %s at %v, want %v", h.Handle, h.At, want[h.Handle])
		}
	}
}

func TestTextHandleAtBottomRight(t *testing.T) {
	hs := Handles(Shape{Body: Text{Origin: pt(0, 30), Content: "ab", FontSize: 20}}, fixedMeasurer{})
	if len(hs) != 1 || hs[0].Handle != HandleSize || hs[0].At != pt(20, 30) {
		t.Errorf("Unexpected text handles %+v", hs)
	}
}

func TestResizeCornerClamps(t *testing.T) {
	lim := DefaultLimits()
	s := Shape{Body: Rectangle{Origin: pt(10, 10), Size: pt(100, 50)}}

	got := ResizeCorner(s, HandleSE, pt(160, 110), lim).Body.(Rectangle)
	if got.Origin != pt(10, 10) || got.Size != pt(150, 100) {
		t.Errorf("SE resize: got %+v", got)
	}

	got = ResizeCorner(s, HandleSE, pt(0, 0), lim).Body.(Rectangle)
	if got.Origin != pt(10, 10) || got.Size != pt(5, 5) {
		t.Errorf("SE collapse should clamp to 5x5, got %+v", got)
	}

	got = ResizeCorner(s, HandleNW, pt(200, 200), lim).Body.(Rectangle)
	if got.Origin != pt(105, 55) || got.Size != pt(5, 5) {
		t.Errorf("NW past opposite corner should clamp, got %+v", got)
	}

	got = ResizeCorner(s, HandleNE, pt(130, 0), lim).Body.(Rectangle)
	if got.Origin != pt(10, 0) || got.Size != pt(120, 60) {
		t.Errorf("NE resize: got %+v", got)
	}
}

func TestResizeRadialKeepsCenter(t *testing.T) {
	s := Shape{Body: Circle{Origin: pt(0, 0), Diameter: 20}}
	got := ResizeRadial(s, pt(30, 10), DefaultLimits()).Body.(Circle)
	if got.Center() != pt(10, 10) || got.Diameter != 40 {
		t.Errorf("Unexpected circle %+v", got)
	}
	got = ResizeRadial(s, pt(10, 10), DefaultLimits()).Body.(Circle)
	if got.Diameter != 5 || got.Center() != pt(10, 10) {
		t.Errorf("Expected min diameter 5 at same center, got %+v", got)
	}
}

func TestResizeTextRange(t *testing.T) {
	s := Shape{Body: Text{Content: "hi", FontSize: 24}}
	lim := DefaultLimits()
	for _, tc := range []struct {
		x, want float64
	}{
		{100, 24}, {120, 34}, {1000, 72}, {-1000, 12},
	} {
		got := ResizeText(s, 24, 100, tc.x, 0.5, lim).Body.(Text).FontSize
		if got != tc.want {
			t.Errorf("x=%v: font size %v, want %v", tc.x, got, tc.want)
		}
	}
}

func TestMoveEndpoint(t *testing.T) {
	s := Shape{Body: Arrow{Origin: pt(10, 10), Delta: pt(20, 0)}}
	a := MoveEndpoint(s, HandleStart, pt(40, 40)).Body.(Arrow)
	if a.Origin != pt(40, 40) || a.End() != pt(30, 10) {
		t.Errorf("Start move: %+v", a)
	}
	a = MoveEndpoint(s, HandleEnd, pt(0, 0)).Body.(Arrow)
	if a.Origin != pt(10, 10) || a.Delta != pt(-10, -10) {
		t.Errorf("End move: %+v", a)
	}
}

func TestPreviewAndNormalize(t *testing.T) {
	lim := DefaultLimits()
	r := Normalize(Shape{Body: Preview(KindRectangle, pt(110, 60), pt(10, 10), 0)}, lim).Body.(Rectangle)
	if r.Origin != pt(10, 10) || r.Size != pt(100, 50) {
		t.Errorf("Reverse drag should normalize, got %+v", r)
	}

	c := Preview(KindCircle, pt(0, 0), pt(30, 40), 0).(Circle)
	if c.Diameter != 50 || c.Center() != pt(15, 20) {
		t.Errorf("Circle preview %+v", c)
	}

	a := Normalize(Shape{Body: Preview(KindArrow, pt(50, 50), pt(10, 20), 0)}, lim).Body.(Arrow)
	if a.Delta != pt(-40, -30) {
		t.Errorf("Arrow delta must keep its sign, got %+v", a.Delta)
	}

	m := Normalize(Shape{Body: Preview(KindMosaic, pt(0, 0), pt(2, 40), 8)}, lim).Body.(Mosaic)
	if m.Size != pt(5, 40) || m.BlockSize != 8 {
		t.Errorf("Mosaic normalize %+v", m)
	}

	if !Degenerate(Preview(KindRectangle, pt(3, 3), pt(3, 3), 0)) {
		t.Error("Click without movement must be degenerate")
	}
}

func TestDistanceToLine(t *testing.T) {
	d := DistanceToLine(pt(500, 3), pt(0, 0), pt(10, 0))
	if math.Abs(d-3) > 1e-9 {
		t.Errorf("Distance to the line extension should be 3, got %v", d)
	}
	if d := DistanceToLine(pt(3, 4), pt(0, 0), pt(0, 0)); d != 5 {
		t.Errorf("Degenerate line distance %v", d)
	}
}

func TestColorRoundTrip(t *testing.T) {
	c, err := ParseColor("#ff3b30")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 0xff || c.G != 0x3b || c.B != 0x30 || c.A != 0xff {
		t.Errorf("Unexpected color %+v", c)
	}
	if HexColor(c) != "#ff3b30" {
		t.Errorf("HexColor = %s", HexColor(c))
	}
	if c, _ := ParseColor("#fff"); c.R != 255 || c.B != 255 {
		t.Errorf("Short form %+v", c)
	}
	if _, err := ParseColor("red"); err == nil {
		t.Error("Expected error for named color")
	}
}
