package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"os/exec"

	"github.com/ivlev/annotator/internal/config"
	"github.com/ivlev/annotator/internal/media"
	"github.com/ivlev/annotator/internal/system"
)

// Frame is one input frame of the export timeline.
type Frame struct {
	Index int
	// Время медиа, на которое считается видимость оверлеев.
	Time  float64
	Image image.Image

	pooled bool
}

func (f Frame) release() {
	if f.pooled {
		if img, ok := f.Image.(*image.RGBA); ok {
			system.PutImage(img)
		}
	}
}

// FrameSource emits the frames of an export in index order. Останавливается
// по ctx.Done.
type FrameSource interface {
	Frames(ctx context.Context, p config.ExportParams, out chan<- Frame) error
}

// FrameCount is the number of output frames for p.
func FrameCount(p config.ExportParams) int {
	n := int(math.Round(p.Duration * float64(p.FPS)))
	return max(n, 1)
}

// MediaFrames seeks a media handle frame by frame. Картинка отдает один и
// тот же кадр на время 0 всю длительность.
type MediaFrames struct {
	Media media.Media
}

func (s MediaFrames) Frames(ctx context.Context, p config.ExportParams, out chan<- Frame) error {
	for i := 0; i < FrameCount(p); i++ {
		t := math.Min(float64(i)/float64(p.FPS), s.Media.Duration())
		if err := s.Media.Seek(t); err != nil {
			return fmt.Errorf("seek %.3f: %w", t, err)
		}
		img, err := s.Media.Frame()
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		select {
		case out <- Frame{Index: i, Time: s.Media.CurrentTime(), Image: img}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// DecodedVideo декодирует все видео одним процессом ffmpeg, сразу в
// выходном размере.
type DecodedVideo struct {
	Path string
}

func (s DecodedVideo) Frames(ctx context.Context, p config.ExportParams, out chan<- Frame) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", decodeArgs(s.Path, p)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	rect := image.Rect(0, 0, p.Width, p.Height)
	var sendErr error
	for i := 0; ; i++ {
		img := system.GetImage(rect)
		if _, err := io.ReadFull(stdout, img.Pix[:p.Width*p.Height*4]); err != nil {
			system.PutImage(img)
			break
		}
		f := Frame{Index: i, Time: float64(i) / float64(p.FPS), Image: img, pooled: true}
		select {
		case out <- f:
			continue
		case <-ctx.Done():
			f.release()
			sendErr = ctx.Err()
		}
		break
	}
	io.Copy(io.Discard, stdout)
	if err := cmd.Wait(); err != nil && sendErr == nil {
		return fmt.Errorf("ffmpeg decode error: %w, output: %s", err, stderr.String())
	}
	return sendErr
}

func decodeArgs(path string, p config.ExportParams) []string {
	return []string{
		"-v", "error",
		"-i", path,
		"-vf", fmt.Sprintf("scale=%d:%d,fps=%d", p.Width, p.Height, p.FPS),
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	}
}
