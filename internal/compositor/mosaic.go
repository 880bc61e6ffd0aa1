package compositor

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/ivlev/annotator/internal/system"
)

// pixelate renders the region of frame under dst (surface coordinates) as
// blocks of roughly blockSize pixels and writes them into surface at dst.
//
// Область берется из исходного кадра, а не с поверхности: фигуры,
// нарисованные раньше, в мозаику не попадают.
func pixelate(surface *image.RGBA, frame image.Image, dst image.Rectangle, blockSize int) {
	dst = dst.Intersect(surface.Bounds())
	if dst.Empty() || frame == nil {
		return
	}
	if blockSize < 1 {
		blockSize = 1
	}

	fb := frame.Bounds()
	sb := surface.Bounds()
	scaleX := float64(fb.Dx()) / float64(sb.Dx())
	scaleY := float64(fb.Dy()) / float64(sb.Dy())
	src := image.Rect(
		fb.Min.X+int(math.Floor(float64(dst.Min.X-sb.Min.X)*scaleX)),
		fb.Min.Y+int(math.Floor(float64(dst.Min.Y-sb.Min.Y)*scaleY)),
		fb.Min.X+int(math.Ceil(float64(dst.Max.X-sb.Min.X)*scaleX)),
		fb.Min.Y+int(math.Ceil(float64(dst.Max.Y-sb.Min.Y)*scaleY)),
	).Intersect(fb)
	if src.Empty() {
		return
	}

	w, h := dst.Dx(), dst.Dy()
	sample := system.GetImage(image.Rect(0, 0, w, h))
	defer system.PutImage(sample)
	draw.ApproxBiLinear.Scale(sample, sample.Bounds(), frame, src, draw.Src, nil)

	small := system.GetImage(image.Rect(0, 0, max(1, w/blockSize), max(1, h/blockSize)))
	defer system.PutImage(small)
	draw.ApproxBiLinear.Scale(small, small.Bounds(), sample, sample.Bounds(), draw.Src, nil)

	draw.NearestNeighbor.Scale(surface, dst, small, small.Bounds(), draw.Src, nil)
}
