package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/ivlev/annotator/internal/config"
)

// VideoEncoder opens an output stream that accepts composited frames in order.
type VideoEncoder interface {
	Open(ctx context.Context, out string, p config.ExportParams) (FrameWriter, error)
}

type FrameWriter interface {
	WriteFrame(img *image.RGBA) error
	// Close дописывает поток и ждет завершения энкодера.
	Close() error
}

type FFmpegEncoder struct{}

func (e *FFmpegEncoder) Open(ctx context.Context, out string, p config.ExportParams) (FrameWriter, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", buildFFmpegArgs(out, p)...)
	w := &ffmpegWriter{cmd: cmd}
	cmd.Stderr = &w.log

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	w.stdin = stdin
	return w, nil
}

func buildFFmpegArgs(out string, p config.ExportParams) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-framerate", fmt.Sprintf("%d", p.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", p.Encoder,
	}

	// Качество в зависимости от энкодера
	switch p.Encoder {
	case "h264_videotoolbox":
		bitrate := p.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", p.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", p.Quality), "-preset", "medium")
	}

	return append(args, out)
}

type ffmpegWriter struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	log   bytes.Buffer
}

func (w *ffmpegWriter) WriteFrame(img *image.RGBA) error {
	if err := writeRawRGBA(w.stdin, img); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	return nil
}

func (w *ffmpegWriter) Close() error {
	w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, w.log.String())
	}
	return nil
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix[:bounds.Dx()*bounds.Dy()*4])
	return err
}
