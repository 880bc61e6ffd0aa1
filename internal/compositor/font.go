package compositor

import (
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontMeasurer measures and renders text with one TrueType font.
// Face кэшируется на каждый округленный размер.
type FontMeasurer struct {
	mu    sync.Mutex
	font  *truetype.Font
	faces map[float64]font.Face
}

// NewFontMeasurer parses ttf, or the bundled Go Regular font when ttf is nil.
func NewFontMeasurer(ttf []byte) (*FontMeasurer, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{font: f, faces: make(map[float64]font.Face)}, nil
}

// Face возвращает face для size в пикселях поверхности.
func (m *FontMeasurer) Face(size float64) font.Face {
	key := math.Round(size*4) / 4
	m.mu.Lock()
	defer m.mu.Unlock()
	if face, ok := m.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(m.font, &truetype.Options{
		Size:    key,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	m.faces[key] = face
	return face
}

// TextWidth implements shape.Measurer.
func (m *FontMeasurer) TextWidth(text string, size float64) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	adv := font.MeasureString(m.Face(size), text)
	return float64(adv) / 64
}
