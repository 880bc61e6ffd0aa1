package main

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/annotator/internal/persist"
)

const drawScript = `version: "1"
steps:
  - tool: rectangle
  - down: {x: 10, y: 10}
  - up: {x: 110, y: 60}
  - tool: text
  - down: {x: 40, y: 120}
  - text: "Look here"
  - tool: mosaic
  - down: {x: 150, y: 20}
  - up: {x: 250, y: 90}
`

func writeFixtures(t *testing.T) (dir, input, script string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "photo.png")
	f, err := os.Create(input)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 320, 240))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	script = filepath.Join(dir, "draw.yaml")
	if err := os.WriteFile(script, []byte(drawScript), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, input, script
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestReplayThenRender(t *testing.T) {
	for _, storeName := range []string{"store", "overlays.db"} {
		t.Run(storeName, func(t *testing.T) {
			dir, input, script := writeFixtures(t)
			storePath := filepath.Join(dir, storeName)
			common := []string{"--store", storePath, "--width", "320", "--height", "240"}

			final := filepath.Join(dir, "final.png")
			if err := runCLI(t, append([]string{"replay", input, script, "-o", final}, common...)...); err != nil {
				t.Fatalf("replay failed: %v", err)
			}
			if _, err := os.Stat(final); err != nil {
				t.Errorf("Final frame not written: %v", err)
			}

			store, err := openStore(storePath)
			if err != nil {
				t.Fatal(err)
			}
			recs, err := store.LoadOverlays(context.Background(), "photo")
			store.Close()
			if err != nil {
				t.Fatal(err)
			}
			if len(recs) != 3 {
				t.Fatalf("Expected 3 records, got %d", len(recs))
			}
			if recs[0].Type != persist.TypeShape || recs[1].Type != persist.TypeText || recs[2].Type != persist.TypeMosaic {
				t.Errorf("Unexpected types %s %s %s", recs[0].Type, recs[1].Type, recs[2].Type)
			}

			// Пустой повтор ничего не пересохраняет.
			empty := filepath.Join(dir, "empty.yaml")
			os.WriteFile(empty, []byte("version: \"1\"\nsteps: []\n"), 0644)
			if err := runCLI(t, append([]string{"replay", input, empty}, common...)...); err != nil {
				t.Fatalf("second replay failed: %v", err)
			}
			store, _ = openStore(storePath)
			recs, _ = store.LoadOverlays(context.Background(), "photo")
			store.Close()
			if len(recs) != 3 {
				t.Errorf("Unchanged shapes were saved again: %d records", len(recs))
			}

			frame := filepath.Join(dir, "frame.png")
			if err := runCLI(t, append([]string{"render", input, "-o", frame}, common...)...); err != nil {
				t.Fatalf("render failed: %v", err)
			}
			f, err := os.Open(frame)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil || img.Bounds().Dx() != 320 {
				t.Errorf("Unexpected render output: %v", err)
			}

			if err := runCLI(t, append([]string{"list", "photo"}, common...)...); err != nil {
				t.Errorf("list failed: %v", err)
			}
		})
	}
}

func TestReplayRejectsBadScript(t *testing.T) {
	dir, input, _ := writeFixtures(t)
	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("steps:\n  - tool: lasso\n"), 0644)
	err := runCLI(t, "replay", input, bad, "--store", filepath.Join(dir, "s"))
	if err == nil || !strings.Contains(err.Error(), "lasso") {
		t.Errorf("Expected unknown tool error, got %v", err)
	}
}

func TestMediaIDFor(t *testing.T) {
	if got := mediaIDFor("", "/data/My Clip.mp4"); got != "My Clip" {
		t.Errorf("Unexpected id %q", got)
	}
	if got := mediaIDFor("abc", "/data/x.png"); got != "abc" {
		t.Errorf("Explicit id ignored: %q", got)
	}
}

func TestOverlayTable(t *testing.T) {
	out := overlayTable([]persist.Record{
		{ID: "7", Type: persist.TypeShape, StartSec: 1, EndSec: 3, Config: persist.RecordConfig{Shape: persist.ShapeCircle, Width: 40, Height: 40, Color: "#ff0000"}},
		{ID: "8", Type: persist.TypeText, Config: persist.RecordConfig{Text: "hi", FontSize: 24}},
	})
	for _, want := range []string{"shape/circle", "1.00-3.00", "#ff0000", `"hi" @ 24px`} {
		if !strings.Contains(out, want) {
			t.Errorf("Table is missing %q:\n%s", want, out)
		}
	}
}

func TestDefaultOutput(t *testing.T) {
	got := defaultOutput("/in/My Talk.mp4")
	if !strings.HasPrefix(got, filepath.Join("output", "My_Talk_")) || filepath.Ext(got) != ".mp4" {
		t.Errorf("Unexpected output path %q", got)
	}
	if defaultQuality("h264_nvenc") != 28 || defaultQuality("libx264") != 23 {
		t.Error("Unexpected default quality")
	}
}

func TestResolveInput(t *testing.T) {
	dir, input, _ := writeFixtures(t)

	got, err := resolveInput(dir)
	if err != nil {
		t.Fatalf("resolveInput failed: %v", err)
	}
	if got != input {
		t.Errorf("Expected %s, got %s", input, got)
	}
	if got, _ := resolveInput(input); got != input {
		t.Errorf("File path must pass through, got %s", got)
	}
	if _, err := resolveInput(t.TempDir()); err == nil {
		t.Error("Expected error for a directory without media")
	}
}
