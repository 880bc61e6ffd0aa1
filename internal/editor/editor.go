// Package editor is the engine facade a host drives: it owns the shape list,
// the undo history and the compositor, and applies the effects the
// interaction reducer asks for.
package editor

import (
	"fmt"
	"image"
	"log"
	"math"

	"github.com/golang/geo/r2"

	"github.com/ivlev/annotator/internal/compositor"
	"github.com/ivlev/annotator/internal/config"
	"github.com/ivlev/annotator/internal/history"
	"github.com/ivlev/annotator/internal/hittest"
	"github.com/ivlev/annotator/internal/interact"
	"github.com/ivlev/annotator/internal/media"
	"github.com/ivlev/annotator/internal/shape"
)

// Editor is one editing session. Не потокобезопасен: все события и тики
// приходят из одного UI цикла хоста.
type Editor struct {
	media   media.Media
	state   interact.State
	history *history.Manager
	comp    *compositor.Compositor
	env     interact.Env

	textAt *r2.Point
	closed bool
}

// New opens a session over m. The surface size and tool defaults come from cfg.
func New(m media.Media, cfg *config.Config) (*Editor, error) {
	col, err := shape.ParseColor(cfg.Color)
	if err != nil {
		return nil, fmt.Errorf("default color: %w", err)
	}
	fonts, err := compositor.NewFontMeasurer(nil)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	opts := compositor.DefaultOptions()
	opts.HandleRadius = cfg.HandleRadius
	opts.DashLength = cfg.HighlightDashPixel

	return &Editor{
		media:   m,
		history: history.New(cfg.HistoryDepth),
		comp:    compositor.New(cfg.Width, cfg.Height, fonts, opts),
		state: interact.State{
			Settings: interact.Settings{
				Tool:       interact.ToolSelect,
				Color:      col,
				FontSize:   cfg.FontSize,
				PixelBlock: cfg.PixelBlockSize,
				FullWindow: cfg.FullDuration,
			},
		},
		env: interact.Env{
			Duration: m.Duration(),
			Measurer: fonts,
			Limits: shape.Limits{
				MinSize:     cfg.MinSize,
				MinFontSize: cfg.MinFontSize,
				MaxFontSize: cfg.MaxFontSize,
			},
			Hit: hittest.Options{
				HandleRadius:   cfg.HandleHitRadius,
				ArrowThreshold: cfg.ArrowHitThreshold,
			},
			WindowSeconds:  cfg.WindowSeconds,
			TextResizeRate: cfg.TextResizeRate,
		},
	}, nil
}

// SetIDSource replaces the provisional id generator.
func (e *Editor) SetIDSource(fn func() shape.ID) { e.env.NewID = fn }

// SetShapes installs a loaded list. History is not touched.
// Окна обрезаются по длительности медиа.
func (e *Editor) SetShapes(list []shape.Shape) {
	list = shape.Clone(list)
	for i := range list {
		list[i].Window = shape.NewWindow(list[i].Window.From, list[i].Window.Until, e.media.Duration())
	}
	e.state = interact.Restore(e.state, list)
}

// Handle feeds one input event through the reducer and applies its effects.
// Эффекты возвращаются, чтобы хост мог открыть поле ввода текста.
func (e *Editor) Handle(ev interact.Event) []interact.Effect {
	if e.closed {
		return nil
	}
	env := e.env
	env.Time = e.media.CurrentTime()

	var effs []interact.Effect
	e.state, effs = interact.Reduce(e.state, ev, env)
	for _, eff := range effs {
		switch x := eff.(type) {
		case interact.PushHistory:
			e.history.Commit(x.Previous)
		case interact.RequestUndo:
			if list, ok := e.history.Undo(); ok {
				e.state = interact.Restore(e.state, list)
			}
		case interact.OpenTextEntry:
			at := x.At
			e.textAt = &at
		case interact.CloseTextEntry:
			e.textAt = nil
		}
	}
	return effs
}

// Tick seeks the media to t and redraws the surface. A time outside the
// media is clamped. Если кадр не декодирован, рисуется заглушка.
func (e *Editor) Tick(t float64) *image.RGBA {
	if e.closed {
		return e.comp.Surface()
	}
	if err := e.media.Seek(t); err != nil {
		if math.IsNaN(t) {
			t = e.media.CurrentTime()
		}
		if err := e.media.Seek(min(max(t, 0), e.media.Duration())); err != nil {
			log.Printf("[!] Seek %.3fs: %v", t, err)
		}
	}
	frame, err := e.media.Frame()
	if err != nil {
		frame = nil
	}
	return e.comp.Render(compositor.Scene{
		Frame:    frame,
		Time:     e.media.CurrentTime(),
		Shapes:   e.state.Shapes,
		Selected: e.state.Selected,
		Preview:  e.state.Session.Preview,
	})
}

// ConfirmIDs swaps provisional ids for the ids the store assigned, in the
// в текущем списке и во всех снимках истории.
func (e *Editor) ConfirmIDs(assigned map[shape.ID]shape.ID) {
	if len(assigned) == 0 {
		return
	}
	rename := func(s shape.Shape) shape.Shape {
		if id, ok := assigned[s.ID]; ok {
			s.ID = id
		}
		return s
	}
	list := make([]shape.Shape, len(e.state.Shapes))
	for i, s := range e.state.Shapes {
		list[i] = rename(s)
	}
	e.state.Shapes = list
	if id, ok := assigned[e.state.Selected]; ok {
		e.state.Selected = id
	}
	if id, ok := assigned[e.state.Session.Target]; ok {
		e.state.Session.Target = id
	}
	if before := e.state.Session.Before; before != nil {
		renamed := make([]shape.Shape, len(before))
		for i, s := range before {
			renamed[i] = rename(s)
		}
		e.state.Session.Before = renamed
	}
	e.history.Rewrite(rename)
}

func (e *Editor) Shapes() []shape.Shape { return shape.Clone(e.state.Shapes) }

func (e *Editor) Selected() shape.ID { return e.state.Selected }

func (e *Editor) Settings() interact.Settings { return e.state.Settings }

func (e *Editor) Mode() interact.Mode {
	if e.state.Session.Idle() {
		return interact.ModeIdle
	}
	return e.state.Session.Mode
}

// TextEntry reports where the host should show a text input, if anywhere.
func (e *Editor) TextEntry() (r2.Point, bool) {
	if e.textAt == nil {
		return r2.Point{}, false
	}
	return *e.textAt, true
}

func (e *Editor) HistoryLen() int { return e.history.Len() }

func (e *Editor) Surface() *image.RGBA { return e.comp.Surface() }

func (e *Editor) Measurer() shape.Measurer { return e.comp.Fonts() }

func (e *Editor) Duration() float64 { return e.media.Duration() }

// Close ends the session. Последующие события игнорируются.
func (e *Editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.media.Close()
}
