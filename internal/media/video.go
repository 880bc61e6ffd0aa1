package media

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log"
	"os/exec"

	"github.com/ivlev/annotator/internal/system"
)

// Video decodes frames of a video file on demand with ffmpeg. Кадр
// последнего запрошенного времени кэшируется для перерисовки на паузе.
type Video struct {
	path     string
	duration float64
	width    int
	height   int
	now      float64

	cachedAt float64
	cached   *image.RGBA
}

// OpenVideo probes duration and frame size with ffprobe.
func OpenVideo(path string) (*Video, error) {
	duration, err := system.ProbeDuration(path)
	if err != nil {
		return nil, err
	}
	w, h, err := system.ProbeSize(path)
	if err != nil {
		return nil, err
	}
	return &Video{path: path, duration: duration, width: w, height: h, cachedAt: -1}, nil
}

func (v *Video) Duration() float64    { return v.duration }
func (v *Video) CurrentTime() float64 { return v.now }
func (v *Video) Size() (int, int)     { return v.width, v.height }
func (v *Video) Path() string         { return v.path }

func (v *Video) Seek(t float64) error {
	if err := checkRange(t, v.duration); err != nil {
		return err
	}
	v.now = t
	return nil
}

// Frame decodes the frame at CurrentTime. Ошибка декодирования отдается как
// ErrNotReady, вызывающий рисует заглушку.
func (v *Video) Frame() (image.Image, error) {
	if v.cached != nil && v.cachedAt == v.now {
		return v.cached, nil
	}
	img, err := v.decode(v.now)
	if err != nil {
		log.Printf("[!] Кадр %.3fs не декодирован: %v", v.now, err)
		return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	v.cached, v.cachedAt = img, v.now
	return img, nil
}

// tailGuard отступ от конца файла: по -ss <duration> ffmpeg не отдает ни одного кадра.
const tailGuard = 0.05

// decodeTime: позиция -ss для кадра на t. Самый конец файла отображается
// на его последний кадр.
func decodeTime(t, duration float64) float64 {
	if t > duration-tailGuard {
		return max(duration-tailGuard, 0)
	}
	return t
}

func (v *Video) decode(t float64) (*image.RGBA, error) {
	cmd := exec.Command("ffmpeg", decodeArgs(v.path, decodeTime(t, v.duration))...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, v.width, v.height))
	_, readErr := io.ReadFull(stdout, img.Pix)
	io.Copy(io.Discard, stdout)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg wait error: %w, output: %s", err, stderr.String())
	}
	if readErr != nil {
		return nil, fmt.Errorf("read frame: %w", readErr)
	}
	return img, nil
}

func (v *Video) Close() error {
	v.cached = nil
	return nil
}

func decodeArgs(path string, t float64) []string {
	return []string{
		"-v", "error",
		"-ss", fmt.Sprintf("%f", t),
		"-i", path,
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	}
}
