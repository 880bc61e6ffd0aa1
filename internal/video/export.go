// Package video burns overlays into every frame of a media timeline and
// pipes the result to an encoder.
package video

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/annotator/internal/compositor"
	"github.com/ivlev/annotator/internal/config"
	"github.com/ivlev/annotator/internal/shape"
	"github.com/ivlev/annotator/internal/system"
)

type Exporter struct {
	Encoder VideoEncoder
	Options compositor.Options
	// TTF is the overlay font, nil for the bundled one. Каждый воркер парсит
	// свою копию: у face свой кэш глифов.
	TTF []byte
	// Без вывода прогресса.
	Quiet bool
}

func NewExporter(enc VideoEncoder) *Exporter {
	return &Exporter{Encoder: enc, Options: compositor.DefaultOptions()}
}

// Export renders shapes over every frame of src.
//
// Пайплайн: src -> frames -> render workers -> rendered -> writer.
// Writer восстанавливает порядок кадров перед энкодером.
func (x *Exporter) Export(ctx context.Context, src FrameSource, shapes []shape.Shape, out string, p config.ExportParams) error {
	if p.Width <= 0 || p.Height <= 0 || p.FPS <= 0 {
		return fmt.Errorf("invalid export size %dx%d @ %d fps", p.Width, p.Height, p.FPS)
	}
	workers := p.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers()
	}
	shapes = shape.Clone(shapes)
	total := FrameCount(p)
	start := time.Now()

	if !x.Quiet {
		fmt.Printf("[*] Экспорт: %dx%d @ %d FPS | Кадров: %d | Потоков: %d\n", p.Width, p.Height, p.FPS, total, workers)
	}

	g, ctx := errgroup.WithContext(ctx)
	frames := make(chan Frame, workers)
	rendered := make(chan Frame, workers)

	g.Go(func() error {
		defer close(frames)
		return src.Frames(ctx, p, frames)
	})

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return x.render(ctx, shapes, p, frames, rendered)
		})
	}
	go func() {
		wg.Wait()
		close(rendered)
	}()

	g.Go(func() error {
		return x.write(ctx, rendered, out, p, total)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if !x.Quiet {
		fmt.Printf("[+] Готово: %s за %.2fs\n", out, time.Since(start).Seconds())
	}
	return nil
}

func (x *Exporter) render(ctx context.Context, shapes []shape.Shape, p config.ExportParams, in <-chan Frame, out chan<- Frame) error {
	fonts, err := compositor.NewFontMeasurer(x.TTF)
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	comp := compositor.New(p.Width, p.Height, fonts, x.Options)

	for f := range in {
		surface := comp.Render(compositor.Scene{Frame: f.Image, Time: f.Time, Shapes: shapes})
		f.release()

		img := system.GetImage(surface.Rect)
		copy(img.Pix, surface.Pix)
		select {
		case out <- Frame{Index: f.Index, Time: f.Time, Image: img, pooled: true}:
		case <-ctx.Done():
			system.PutImage(img)
			return ctx.Err()
		}
	}
	return nil
}

func (x *Exporter) write(ctx context.Context, in <-chan Frame, out string, p config.ExportParams, total int) error {
	fw, err := x.Encoder.Open(ctx, out, p)
	if err != nil {
		return err
	}

	pending := make(map[int]Frame)
	next := 0
	for f := range in {
		pending[f.Index] = f
		for {
			nf, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			err := fw.WriteFrame(nf.Image.(*image.RGBA))
			nf.release()
			if err != nil {
				fw.Close()
				return fmt.Errorf("frame %d: %w", next, err)
			}
			next++
			if !x.Quiet && (next%p.FPS == 0 || next == total) {
				fmt.Printf("[>] Кадров: %d/%d\n", next, total)
			}
		}
	}
	// Прерванный конвейер: ошибку вернет тот, кто его прервал.
	if ctx.Err() != nil {
		fw.Close()
		return ctx.Err()
	}
	if len(pending) > 0 {
		fw.Close()
		return fmt.Errorf("frame %d never arrived", next)
	}
	return fw.Close()
}
