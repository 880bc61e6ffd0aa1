package interact

import (
	"image/color"

	"github.com/golang/geo/r2"

	"github.com/ivlev/annotator/internal/shape"
)

// Event is one input delivered to Reduce.
type Event interface{ event() }

type (
	PointerDown struct{ At r2.Point }
	PointerMove struct{ At r2.Point }
	PointerUp   struct{ At r2.Point }

	// KeyDelete: Delete или Backspace.
	KeyDelete struct{}
	KeyUndo   struct{}
	KeyEscape struct{}

	// TextConfirm завершает ввод текста, открытый кликом инструментом text.
	TextConfirm struct{ Text string }

	SetTool       struct{ Tool Tool }
	SetColor      struct{ Color color.RGBA }
	SetFontSize   struct{ Size float64 }
	SetPixelBlock struct{ Size int }
	SetWindowMode struct{ Full bool }

	// SetWindow меняет окно времени выбранной фигуры.
	SetWindow struct{ From, Until float64 }
)

func (PointerDown) event()   {}
func (PointerMove) event()   {}
func (PointerUp) event()     {}
func (KeyDelete) event()     {}
func (KeyUndo) event()       {}
func (KeyEscape) event()     {}
func (TextConfirm) event()   {}
func (SetTool) event()       {}
func (SetColor) event()      {}
func (SetFontSize) event()   {}
func (SetPixelBlock) event() {}
func (SetWindowMode) event() {}
func (SetWindow) event()     {}

// Effect is work Reduce asks its caller to perform.
type Effect interface{ effect() }

type (
	// PushHistory несет список в состоянии до завершенной правки.
	PushHistory struct{ Previous []shape.Shape }
	// RequestUndo: владелец истории снимает снимок и вызывает Restore.
	RequestUndo struct{}
	// OpenTextEntry asks the host to show a text input anchored at At.
	OpenTextEntry struct{ At r2.Point }
	CloseTextEntry struct{}
)

func (PushHistory) effect()    {}
func (RequestUndo) effect()    {}
func (OpenTextEntry) effect()  {}
func (CloseTextEntry) effect() {}
