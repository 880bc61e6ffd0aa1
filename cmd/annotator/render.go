package main

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/annotator/internal/compositor"
)

func newRenderCommand(ctx *cliContext) *cobra.Command {
	var at float64
	var out string

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Composite the stored overlays over one frame and write a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			shapes, err := s.adapter.Load(cmd.Context(), s.mediaID)
			if err != nil {
				return err
			}
			s.editor.SetShapes(shapes)
			fmt.Printf("[*] %s: загружено фигур: %d\n", s.mediaID, len(shapes))

			surface := s.editor.Tick(at)
			if err := writePNG(out, surface); err != nil {
				return err
			}
			fmt.Printf("[+] Кадр %.2fs сохранен: %s\n", s.media.CurrentTime(), out)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&at, "time", "t", 0, "Playback time in seconds")
	cmd.Flags().StringVarP(&out, "out", "o", "frame.png", "Output PNG path")
	return cmd
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := compositor.EncodePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
