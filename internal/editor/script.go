package editor

import (
	"fmt"
	"os"

	"github.com/golang/geo/r2"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/annotator/internal/interact"
	"github.com/ivlev/annotator/internal/shape"
)

// Script is a recorded sequence of editor inputs for headless replay.
type Script struct {
	Version string `yaml:"version"`
	Steps   []Step `yaml:"steps"`
}

// Step is one input. Задано ровно одно действие; Tick может идти вместе с
// ним и применяется первым.
type Step struct {
	Tick *float64 `yaml:"tick,omitempty"`

	Tool       string       `yaml:"tool,omitempty"`
	Down       *Point       `yaml:"down,omitempty"`
	Move       *Point       `yaml:"move,omitempty"`
	Up         *Point       `yaml:"up,omitempty"`
	Key        string       `yaml:"key,omitempty"` // delete, undo, escape
	Text       *string      `yaml:"text,omitempty"`
	Color      string       `yaml:"color,omitempty"`
	FontSize   float64      `yaml:"font_size,omitempty"`
	PixelBlock int          `yaml:"pixel_block,omitempty"`
	WindowMode string       `yaml:"window_mode,omitempty"` // full, short
	Window     *WindowRange `yaml:"window,omitempty"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type WindowRange struct {
	From  float64 `yaml:"from"`
	Until float64 `yaml:"until"`
}

func (p Point) r2() r2.Point { return r2.Point{X: p.X, Y: p.Y} }

// Event converts the action of s. У шага только с tick события нет.
func (s Step) Event() (interact.Event, error) {
	var events []interact.Event
	add := func(ev interact.Event) { events = append(events, ev) }

	if s.Tool != "" {
		tool := interact.Tool(s.Tool)
		if !tool.Valid() {
			return nil, fmt.Errorf("unknown tool %q", s.Tool)
		}
		add(interact.SetTool{Tool: tool})
	}
	if s.Down != nil {
		add(interact.PointerDown{At: s.Down.r2()})
	}
	if s.Move != nil {
		add(interact.PointerMove{At: s.Move.r2()})
	}
	if s.Up != nil {
		add(interact.PointerUp{At: s.Up.r2()})
	}
	switch s.Key {
	case "":
	case "delete", "backspace":
		add(interact.KeyDelete{})
	case "undo":
		add(interact.KeyUndo{})
	case "escape":
		add(interact.KeyEscape{})
	default:
		return nil, fmt.Errorf("unknown key %q", s.Key)
	}
	if s.Text != nil {
		add(interact.TextConfirm{Text: *s.Text})
	}
	if s.Color != "" {
		c, err := shape.ParseColor(s.Color)
		if err != nil {
			return nil, err
		}
		add(interact.SetColor{Color: c})
	}
	if s.FontSize != 0 {
		add(interact.SetFontSize{Size: s.FontSize})
	}
	if s.PixelBlock != 0 {
		add(interact.SetPixelBlock{Size: s.PixelBlock})
	}
	switch s.WindowMode {
	case "":
	case "full":
		add(interact.SetWindowMode{Full: true})
	case "short":
		add(interact.SetWindowMode{Full: false})
	default:
		return nil, fmt.Errorf("unknown window mode %q", s.WindowMode)
	}
	if s.Window != nil {
		add(interact.SetWindow{From: s.Window.From, Until: s.Window.Until})
	}

	switch len(events) {
	case 0:
		return nil, nil
	case 1:
		return events[0], nil
	}
	return nil, fmt.Errorf("step sets %d actions", len(events))
}

// Replay feeds every step of sc to the editor.
func (e *Editor) Replay(sc *Script) error {
	for i, step := range sc.Steps {
		if step.Tick != nil {
			e.Tick(*step.Tick)
		}
		ev, err := step.Event()
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if ev != nil {
			e.Handle(ev)
		}
	}
	return nil
}

func WriteScript(sc *Script, path string) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func ReadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	return &sc, nil
}
