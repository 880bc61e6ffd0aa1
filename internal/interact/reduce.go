package interact

import (
	"github.com/golang/geo/r2"

	"github.com/ivlev/annotator/internal/hittest"
	"github.com/ivlev/annotator/internal/shape"
)

// Reduce applies ev to st. The returned state never aliases the input list.
func Reduce(st State, ev Event, env Env) (State, []Effect) {
	switch e := ev.(type) {
	case PointerDown:
		return pointerDown(st, e.At, env)
	case PointerMove:
		return pointerMove(st, e.At, env), nil
	case PointerUp:
		return pointerUp(st, e.At, env)
	case KeyDelete:
		return deleteSelected(st)
	case KeyUndo:
		if !st.Session.Idle() {
			return st, nil
		}
		return st, []Effect{RequestUndo{}}
	case KeyEscape:
		return escape(st)
	case TextConfirm:
		return confirmText(st, e.Text, env)
	case SetWindow:
		return setWindow(st, e, env)
	}
	if !st.Session.Idle() {
		// Настройки инструмента меняются только между жестами.
		return st, nil
	}
	switch e := ev.(type) {
	case SetTool:
		if e.Tool.Valid() {
			st.Settings.Tool = e.Tool
		}
	case SetColor:
		st.Settings.Color = e.Color
	case SetFontSize:
		if e.Size > 0 {
			st.Settings.FontSize = clampFont(e.Size, env.limits())
		}
	case SetPixelBlock:
		if e.Size > 0 {
			st.Settings.PixelBlock = e.Size
		}
	case SetWindowMode:
		st.Settings.FullWindow = e.Full
	}
	return st, nil
}

func pointerDown(st State, p r2.Point, env Env) (State, []Effect) {
	if !st.Session.Idle() {
		return st, nil
	}
	tool := st.Settings.Tool
	switch {
	case tool == ToolText:
		st.Session = Session{Mode: ModeAddingText, Start: p, Pointer: p}
		return st, []Effect{OpenTextEntry{At: p}}

	case tool.draws():
		preview := shape.Shape{
			Color: st.Settings.Color,
			Body:  shape.Preview(shape.Kind(tool), p, p, st.Settings.PixelBlock),
		}
		st.Session = Session{Mode: ModeDrawing, Start: p, Pointer: p, Preview: &preview}
		return st, nil
	}

	res := hittest.Resolve(st.Shapes, st.Selected, p, env.Time, env.Measurer, env.hit())
	if !res.Hit() {
		st.Selected = ""
		return st, nil
	}
	target := st.Shapes[res.Index]
	st.Selected = res.ID
	sess := Session{
		Target:  res.ID,
		Handle:  res.Handle,
		Start:   p,
		Pointer: p,
		Before:  shape.Clone(st.Shapes),
	}
	if res.Handle == shape.HandleNone {
		sess.Mode = ModeDragging
		sess.Offset = p.Sub(target.Origin())
		st.Session = sess
		return st, nil
	}
	switch b := target.Body.(type) {
	case shape.Rectangle, shape.Mosaic:
		sess.Mode = ModeResizeCorner
	case shape.Circle:
		sess.Mode = ModeResizeRadial
	case shape.Arrow:
		sess.Mode = ModeResizeEndpoint
	case shape.Text:
		sess.Mode = ModeResizeText
		sess.StartFontSize = b.FontSize
		sess.StartX = p.X
	default:
		return st, nil
	}
	st.Session = sess
	return st, nil
}

func pointerMove(st State, p r2.Point, env Env) State {
	sess := st.Session
	sess.Pointer = p
	switch sess.Mode {
	case ModeDrawing:
		if sess.Preview != nil {
			preview := *sess.Preview
			preview.Body = shape.Preview(preview.Kind(), sess.Start, p, st.Settings.PixelBlock)
			sess.Preview = &preview
		}
	case ModeDragging, ModeResizeCorner, ModeResizeRadial, ModeResizeText, ModeResizeEndpoint:
		i := shape.IndexOf(st.Shapes, sess.Target)
		if i < 0 {
			st.Session = Session{Mode: ModeIdle}
			return st
		}
		st.Shapes = replace(st.Shapes, i, follow(st.Shapes[i], sess, p, env))
	}
	st.Session = sess
	return st
}

// follow считает целевую фигуру для позиции p в текущем жесте.
func follow(s shape.Shape, sess Session, p r2.Point, env Env) shape.Shape {
	switch sess.Mode {
	case ModeDragging:
		return s.MoveTo(p.Sub(sess.Offset))
	case ModeResizeCorner:
		return shape.ResizeCorner(s, sess.Handle, p, env.limits())
	case ModeResizeRadial:
		return shape.ResizeRadial(s, p, env.limits())
	case ModeResizeText:
		return shape.ResizeText(s, sess.StartFontSize, sess.StartX, p.X, env.textRate(), env.limits())
	case ModeResizeEndpoint:
		return shape.MoveEndpoint(s, sess.Handle, p)
	}
	return s
}

func pointerUp(st State, p r2.Point, env Env) (State, []Effect) {
	switch st.Session.Mode {
	case ModeDrawing:
		st = pointerMove(st, p, env)
		preview := st.Session.Preview
		st.Session = Session{Mode: ModeIdle}
		if preview == nil || shape.Degenerate(preview.Body) {
			return st, nil
		}
		s := shape.Normalize(*preview, env.limits())
		s.ID = env.newID()
		s.Window = shape.DefaultWindow(env.Time, env.window(), env.Duration, st.Settings.FullWindow)
		previous := shape.Clone(st.Shapes)
		st.Shapes = append(shape.Clone(st.Shapes), s)
		st.Selected = s.ID
		return st, []Effect{PushHistory{Previous: previous}}

	case ModeDragging, ModeResizeCorner, ModeResizeRadial, ModeResizeText, ModeResizeEndpoint:
		st = pointerMove(st, p, env)
		before := st.Session.Before
		target := st.Session.Target
		st.Session = Session{Mode: ModeIdle}
		if unchanged(before, st.Shapes, target) {
			return st, nil
		}
		return st, []Effect{PushHistory{Previous: before}}
	}
	return st, nil
}

func unchanged(before, after []shape.Shape, id shape.ID) bool {
	i, j := shape.IndexOf(before, id), shape.IndexOf(after, id)
	if i < 0 || j < 0 {
		return i == j
	}
	return before[i] == after[j]
}

func confirmText(st State, text string, env Env) (State, []Effect) {
	if st.Session.Mode != ModeAddingText {
		return st, nil
	}
	anchor := st.Session.Start
	st.Session = Session{Mode: ModeIdle}
	if text == "" {
		return st, []Effect{CloseTextEntry{}}
	}
	s := shape.Normalize(shape.Shape{
		ID:     env.newID(),
		Color:  st.Settings.Color,
		Window: shape.DefaultWindow(env.Time, env.window(), env.Duration, st.Settings.FullWindow),
		Body:   shape.Text{Origin: anchor, Content: text, FontSize: st.Settings.FontSize},
	}, env.limits())
	previous := shape.Clone(st.Shapes)
	st.Shapes = append(shape.Clone(st.Shapes), s)
	st.Selected = s.ID
	return st, []Effect{CloseTextEntry{}, PushHistory{Previous: previous}}
}

func escape(st State) (State, []Effect) {
	switch st.Session.Mode {
	case ModeAddingText:
		st.Session = Session{Mode: ModeIdle}
		return st, []Effect{CloseTextEntry{}}
	case ModeDrawing:
		st.Session = Session{Mode: ModeIdle}
	case ModeDragging, ModeResizeCorner, ModeResizeRadial, ModeResizeText, ModeResizeEndpoint:
		st.Shapes = st.Session.Before
		st.Session = Session{Mode: ModeIdle}
	default:
		st.Selected = ""
	}
	return st, nil
}

func deleteSelected(st State) (State, []Effect) {
	if !st.Session.Idle() || st.Selected == "" {
		return st, nil
	}
	i := shape.IndexOf(st.Shapes, st.Selected)
	if i < 0 {
		st.Selected = ""
		return st, nil
	}
	previous := shape.Clone(st.Shapes)
	next := make([]shape.Shape, 0, len(st.Shapes)-1)
	next = append(next, st.Shapes[:i]...)
	next = append(next, st.Shapes[i+1:]...)
	st.Shapes = next
	st.Selected = ""
	return st, []Effect{PushHistory{Previous: previous}}
}

func setWindow(st State, e SetWindow, env Env) (State, []Effect) {
	if !st.Session.Idle() || st.Selected == "" {
		return st, nil
	}
	i := shape.IndexOf(st.Shapes, st.Selected)
	if i < 0 {
		return st, nil
	}
	s := st.Shapes[i]
	w := shape.NewWindow(e.From, e.Until, env.Duration)
	if w == s.Window {
		return st, nil
	}
	s.Window = w
	previous := shape.Clone(st.Shapes)
	st.Shapes = replace(st.Shapes, i, s)
	return st, []Effect{PushHistory{Previous: previous}}
}

func replace(list []shape.Shape, i int, s shape.Shape) []shape.Shape {
	out := shape.Clone(list)
	out[i] = s
	return out
}

func clampFont(v float64, lim shape.Limits) float64 {
	if lim.MaxFontSize <= 0 {
		return v
	}
	if v < lim.MinFontSize {
		return lim.MinFontSize
	}
	if v > lim.MaxFontSize {
		return lim.MaxFontSize
	}
	return v
}
