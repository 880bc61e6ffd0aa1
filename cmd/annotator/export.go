package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/annotator/internal/media"
	"github.com/ivlev/annotator/internal/system"
	"github.com/ivlev/annotator/internal/video"
)

func newExportCommand(ctx *cliContext) *cobra.Command {
	var out string
	var duration float64
	var workers int

	cmd := &cobra.Command{
		Use:   "export <input>",
		Short: "Burn the stored overlays into a video with ffmpeg",
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
			if len(shapes) == 0 {
				log.Printf("[!] %s: в хранилище нет фигур, видео будет без аннотаций", s.mediaID)
			}

			var src video.FrameSource = video.MediaFrames{Media: s.media}
			if v, ok := s.media.(*media.Video); ok {
				src = video.DecodedVideo{Path: v.Path()}
				duration = v.Duration()
			}
			if duration <= 0 {
				return fmt.Errorf("для неподвижного изображения нужна --duration")
			}

			cfg := ctx.cfg
			p := cfg.ExportParams(duration)
			if workers > 0 {
				p.Workers = workers
			}
			// yuv420p требует четных размеров.
			if p.Width%2 != 0 || p.Height%2 != 0 {
				log.Printf("[!] Размер %dx%d нечетный, округляем вверх", p.Width, p.Height)
				p.Width += p.Width % 2
				p.Height += p.Height % 2
			}
			if p.Encoder == "auto" {
				p.Encoder = system.GetBestH264Encoder()
				if p.Encoder != "libx264" {
					fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", p.Encoder)
				}
				p.Quality = defaultQuality(p.Encoder)
			}

			if out == "" {
				out = defaultOutput(s.input)
			}
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			exporter := video.NewExporter(&video.FFmpegEncoder{})
			if err := exporter.Export(runCtx, src, shapes, out, p); err != nil {
				return fmt.Errorf("ошибка экспорта: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output video (default: output/<name>_<timestamp>.mp4)")
	cmd.Flags().Float64Var(&duration, "duration", 5, "Duration in seconds for still input")
	cmd.Flags().IntVar(&workers, "workers", 0, "Render workers (default: physical cores)")
	return cmd
}

func defaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}

func defaultOutput(input string) string {
	base := filepath.Base(input)
	name := strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s.mp4", name, timestamp))
}
