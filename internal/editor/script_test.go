package editor

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/annotator/internal/interact"
	"github.com/ivlev/annotator/internal/media"
	"github.com/ivlev/annotator/internal/shape"
)

const overlapScript = `version: "1"
steps:
  - tick: 1
  - tool: rectangle
  - down: {x: 10, y: 10}
  - move: {x: 110, y: 60}
  - up: {x: 110, y: 60}
  - down: {x: 20, y: 20}
  - up: {x: 120, y: 70}
  - tool: select
  - key: escape
  - down: {x: 50, y: 40}
  - up: {x: 50, y: 40}
`

func TestReplayOverlapSelectsFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(overlapScript), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := ReadScript(path)
	if err != nil {
		t.Fatalf("ReadScript failed: %v", err)
	}

	ed := newTestEditor(t, media.NewClip(10, movingChecker(320, 240)))
	if err := ed.Replay(sc); err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	shapes := ed.Shapes()
	if len(shapes) != 2 {
		t.Fatalf("Expected 2 shapes, got %d", len(shapes))
	}
	if ed.Selected() != shapes[0].ID {
		t.Errorf("Expected first rectangle selected, got %q", ed.Selected())
	}
	if shapes[0].Window != (shape.Window{From: 1, Until: 6}) {
		t.Errorf("Tick should set the creation time, got %+v", shapes[0].Window)
	}
}

func TestStepEvent(t *testing.T) {
	text := "hi"
	tests := []struct {
		step Step
		want interact.Event
	}{
		{Step{Key: "undo"}, interact.KeyUndo{}},
		{Step{Key: "backspace"}, interact.KeyDelete{}},
		{Step{Text: &text}, interact.TextConfirm{Text: "hi"}},
		{Step{WindowMode: "full"}, interact.SetWindowMode{Full: true}},
		{Step{Window: &WindowRange{From: 2, Until: 5}}, interact.SetWindow{From: 2, Until: 5}},
		{Step{PixelBlock: 4}, interact.SetPixelBlock{Size: 4}},
	}
	for _, tt := range tests {
		got, err := tt.step.Event()
		if err != nil || got != tt.want {
			t.Errorf("%+v: got %v, %v; want %v", tt.step, got, err, tt.want)
		}
	}

	tick := 2.0
	if ev, err := (Step{Tick: &tick}).Event(); ev != nil || err != nil {
		t.Errorf("Tick-only step should have no event, got %v, %v", ev, err)
	}
}

func TestStepEventErrors(t *testing.T) {
	bad := []Step{
		{Tool: "lasso"},
		{Key: "f1"},
		{Color: "chartreuse"},
		{WindowMode: "half"},
		{Key: "undo", Tool: "select"},
	}
	for _, s := range bad {
		if _, err := s.Event(); err == nil {
			t.Errorf("%+v: expected error", s)
		}
	}
}

func TestReplayReportsStep(t *testing.T) {
	ed := newTestEditor(t, media.NewStill(image.NewRGBA(image.Rect(0, 0, 320, 240))))
	err := ed.Replay(&Script{Steps: []Step{{Key: "undo"}, {Tool: "lasso"}}})
	if err == nil || !strings.Contains(err.Error(), "step 2") {
		t.Errorf("Expected error for step 2, got %v", err)
	}
}

func TestScriptWriteRead(t *testing.T) {
	text := "note"
	sc := &Script{Version: "1", Steps: []Step{
		{Tool: "text"},
		{Down: &Point{X: 5, Y: 6}},
		{Text: &text},
	}}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := WriteScript(sc, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadScript(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Steps) != 3 || *got.Steps[2].Text != "note" || got.Steps[1].Down.Y != 6 {
		t.Errorf("Unexpected script %+v", got)
	}
}
