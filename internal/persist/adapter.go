// Package persist maps the shape list to and from the overlay records of a
// document store.
package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivlev/annotator/internal/shape"
)

// ErrNotFound is returned by a store that has nothing saved for a media id.
var ErrNotFound = errors.New("overlays not found")

// Store is the document store holding overlay records per media id.
type Store interface {
	LoadOverlays(ctx context.Context, mediaID string) ([]Record, error)
	// SaveOverlays дописывает recs и возвращает выданные id в том же порядке.
	SaveOverlays(ctx context.Context, mediaID string, recs []Record) ([]string, error)
	MediaIDs(ctx context.Context) ([]string, error)
	Close() error
}

// Adapter вызывается только на явных загрузке и сохранении, состояние
// редактора он не трогает.
type Adapter struct {
	store    Store
	defaults Defaults
	measurer shape.Measurer
	duration float64
}

// NewAdapter wraps store. Loaded windows are clamped to [0, duration]; у
// статичной картинки (duration 0) все окна схлопываются в [0,0].
// m (может быть nil) измеряет текст при сохранении.
func NewAdapter(store Store, d Defaults, m shape.Measurer, duration float64) *Adapter {
	return &Adapter{store: store, defaults: d, measurer: m, duration: duration}
}

// Load returns the stored shapes of mediaID in their saved order.
func (a *Adapter) Load(ctx context.Context, mediaID string) ([]shape.Shape, error) {
	recs, err := a.store.LoadOverlays(ctx, mediaID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load overlays %s: %w", mediaID, err)
	}

	shapes := make([]shape.Shape, 0, len(recs))
	for _, rec := range recs {
		s, err := FromRecord(rec, a.defaults)
		if err != nil {
			return nil, fmt.Errorf("load overlays %s: %w", mediaID, err)
		}
		s.Window = shape.NewWindow(s.Window.From, s.Window.Until, a.duration)
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// Save stores only the shapes carrying a provisional id and returns the
// mapping from provisional to assigned id. Если новых фигур нет, хранилище
// не вызывается.
func (a *Adapter) Save(ctx context.Context, mediaID string, shapes []shape.Shape) (map[shape.ID]shape.ID, error) {
	var pending []shape.ID
	var recs []Record
	for _, s := range shapes {
		if !s.ID.Provisional() {
			continue
		}
		rec := ToRecord(s, a.measurer)
		rec.ID = ""
		pending = append(pending, s.ID)
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return map[shape.ID]shape.ID{}, nil
	}

	ids, err := a.store.SaveOverlays(ctx, mediaID, recs)
	if err != nil {
		return nil, fmt.Errorf("save overlays %s: %w", mediaID, err)
	}
	if len(ids) != len(pending) {
		return nil, fmt.Errorf("save overlays %s: store returned %d ids for %d records", mediaID, len(ids), len(pending))
	}

	assigned := make(map[shape.ID]shape.ID, len(ids))
	for i, id := range ids {
		assigned[pending[i]] = shape.ID(id)
	}
	return assigned, nil
}
