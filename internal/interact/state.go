// Package interact turns pointer and key events into shape list edits.
//
// Reduce is a pure function of (State, Event, Env). Все, что он не может
// сделать сам (например, стек отмены), возвращается как Effect.
package interact

import (
	"image/color"

	"github.com/golang/geo/r2"

	"github.com/ivlev/annotator/internal/hittest"
	"github.com/ivlev/annotator/internal/shape"
)

type Tool string

const (
	ToolSelect    Tool = "select"
	ToolText      Tool = "text"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolArrow     Tool = "arrow"
	ToolMosaic    Tool = "mosaic"
)

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolText, ToolRectangle, ToolCircle, ToolArrow, ToolMosaic:
		return true
	}
	return false
}

func (t Tool) draws() bool {
	switch t {
	case ToolRectangle, ToolCircle, ToolArrow, ToolMosaic:
		return true
	}
	return false
}

type Mode string

const (
	ModeIdle           Mode = "idle"
	ModeDrawing        Mode = "drawing"
	ModeDragging       Mode = "dragging"
	ModeResizeCorner   Mode = "resizing-corner"
	ModeResizeRadial   Mode = "resizing-radial"
	ModeResizeText     Mode = "resizing-text"
	ModeResizeEndpoint Mode = "resizing-arrow-endpoint"
	ModeAddingText     Mode = "adding-text"
)

// Settings are the tool options applied to new shapes.
type Settings struct {
	Tool       Tool
	Color      color.RGBA
	FontSize   float64
	PixelBlock int
	FullWindow bool
}

// Session is the in-progress gesture. Нулевое значение: простой.
type Session struct {
	Mode    Mode
	Target  shape.ID
	Handle  shape.Handle
	Start   r2.Point
	Offset  r2.Point
	Pointer r2.Point

	StartFontSize float64
	StartX        float64

	// Рисуемая фигура, иначе nil.
	Preview *shape.Shape
	// Список на момент нажатия: восстанавливается по Escape, уходит в историю при отпускании.
	Before []shape.Shape
}

func (s Session) Idle() bool { return s.Mode == "" || s.Mode == ModeIdle }

type State struct {
	Shapes   []shape.Shape
	Selected shape.ID
	Settings Settings
	Session  Session
}

// Env is the read-only context of one Reduce call.
type Env struct {
	Time     float64
	Duration float64
	Measurer shape.Measurer

	Limits         shape.Limits
	Hit            hittest.Options
	WindowSeconds  float64
	TextResizeRate float64

	NewID func() shape.ID
}

func (e Env) newID() shape.ID {
	if e.NewID != nil {
		return e.NewID()
	}
	return shape.NewProvisionalID()
}

func (e Env) window() float64 {
	if e.WindowSeconds > 0 {
		return e.WindowSeconds
	}
	return 5
}

func (e Env) textRate() float64 {
	if e.TextResizeRate > 0 {
		return e.TextResizeRate
	}
	return 0.5
}

// Restore replaces the whole list after an undo. Выделение сбрасывается.
func Restore(st State, list []shape.Shape) State {
	st.Shapes = list
	st.Selected = ""
	st.Session = Session{Mode: ModeIdle}
	return st
}

func (e Env) limits() shape.Limits {
	if e.Limits == (shape.Limits{}) {
		return shape.DefaultLimits()
	}
	return e.Limits
}

func (e Env) hit() hittest.Options {
	if e.Hit == (hittest.Options{}) {
		return hittest.DefaultOptions()
	}
	return e.Hit
}
