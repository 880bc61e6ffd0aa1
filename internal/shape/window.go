package shape

// Window is the closed time interval, in seconds, during which a shape is shown.
type Window struct {
	From  float64
	Until float64
}

// NewWindow обрезает обе границы до [0, duration] и упорядочивает их.
func NewWindow(from, until, duration float64) Window {
	if duration < 0 {
		duration = 0
	}
	from = clamp(from, 0, duration)
	until = clamp(until, 0, duration)
	if until < from {
		from, until = until, from
	}
	return Window{From: from, Until: until}
}

// DefaultWindow is the window of a shape created at time t:
// [t, t+length] или все медиа целиком.
func DefaultWindow(t, length, duration float64, full bool) Window {
	if full {
		return NewWindow(0, duration, duration)
	}
	return NewWindow(t, t+length, duration)
}

// Обе границы включительно.
func (w Window) Contains(t float64) bool {
	return t >= w.From && t <= w.Until
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
