package media

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// OpenPDFPage rasterizes one page of a PDF document as a still frame.
func OpenPDFPage(path string, page, dpi int) (*Still, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer doc.Close()

	if page < 0 || page >= doc.NumPage() {
		return nil, fmt.Errorf("pdf %s: page %d of %d", path, page, doc.NumPage())
	}
	if dpi <= 0 {
		dpi = 150
	}
	img, err := doc.ImageDPI(page, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	return NewStill(img), nil
}

// PDFPageCount возвращает число страниц документа.
func PDFPageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.NumPage(), nil
}
