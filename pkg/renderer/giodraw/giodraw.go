// Package giodraw replays renderer draw lists as Gio operations.
package giodraw

import (
	"image"

	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer"
)

// labelPadding surrounds text that has a background box, in pixels
const labelPadding = 2

var theme = material.NewTheme()

func init() {
	theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
}

// Frame renders r at the size of gtx and replays the result
func Frame(gtx layout.Context, r *renderer.Renderer) layout.Dimensions {
	size := gtx.Constraints.Max
	Draw(gtx, r.Render(size.X, size.Y))
	return layout.Dimensions{Size: size}
}

// Draw replays every command of dl in order
func Draw(gtx layout.Context, dl *renderer.DrawList) {
	for _, c := range dl.Commands {
		switch c.Kind {
		case renderer.KindClear:
			paint.FillShape(gtx.Ops, c.Color.NRGBA(), clip.Rect{Max: gtx.Constraints.Max}.Op())
		case renderer.KindLine:
			drawLine(gtx, c)
		case renderer.KindCircle:
			bounds := rect(c.X0-c.R, c.Y0-c.R, c.X0+c.R, c.Y0+c.R)
			drawEllipse(gtx, c, bounds)
		case renderer.KindOval:
			drawEllipse(gtx, c, rect(c.X0, c.Y0, c.X1, c.Y1))
		case renderer.KindRect:
			drawRect(gtx, c)
		case renderer.KindText:
			drawText(gtx, c)
		}
	}
}

func rect(x0, y0, x1, y1 float64) image.Rectangle {
	return image.Rect(int(x0), int(y0), int(x1+0.5), int(y1+0.5))
}

func drawLine(gtx layout.Context, c renderer.Command) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(float32(c.X0), float32(c.Y0)))
	path.LineTo(f32.Pt(float32(c.X1), float32(c.Y1)))

	stroke := clip.Stroke{
		Path:  path.End(),
		Width: float32(c.Width),
	}.Op()
	paint.FillShape(gtx.Ops, c.Color.NRGBA(), stroke)
}

func drawEllipse(gtx layout.Context, c renderer.Command, bounds image.Rectangle) {
	e := clip.Ellipse(bounds)
	if c.Fill {
		paint.FillShape(gtx.Ops, c.Color.NRGBA(), e.Op(gtx.Ops))
		return
	}
	stroke := clip.Stroke{Path: e.Path(gtx.Ops), Width: float32(c.Width)}.Op()
	paint.FillShape(gtx.Ops, c.Color.NRGBA(), stroke)
}

func drawRect(gtx layout.Context, c renderer.Command) {
	r := clip.Rect(rect(c.X0, c.Y0, c.X1, c.Y1))
	if c.Fill {
		paint.FillShape(gtx.Ops, c.Color.NRGBA(), r.Op())
		return
	}
	stroke := clip.Stroke{Path: r.Path(), Width: float32(c.Width)}.Op()
	paint.FillShape(gtx.Ops, c.Color.NRGBA(), stroke)
}

// drawText lays the label out once to measure it, then draws it centred
// on (X0, Y0) over its optional background box.
func drawText(gtx layout.Context, c renderer.Command) {
	if c.Text == "" {
		return
	}
	lbl := material.Label(theme, unit.Sp(float32(c.Size)), c.Text)
	lbl.Color = c.Color.NRGBA()
	lbl.MaxLines = 1

	tgtx := gtx
	tgtx.Constraints = layout.Constraints{Max: image.Pt(1<<16, 1<<16)}
	macro := op.Record(gtx.Ops)
	dims := lbl.Layout(tgtx)
	call := macro.Stop()

	off := image.Pt(int(c.X0)-dims.Size.X/2, int(c.Y0)-dims.Size.Y/2)
	defer op.Offset(off).Push(gtx.Ops).Pop()
	if c.Background.A > 0 {
		box := image.Rectangle{
			Min: image.Pt(-labelPadding, -labelPadding),
			Max: dims.Size.Add(image.Pt(labelPadding, labelPadding)),
		}
		paint.FillShape(gtx.Ops, c.Background.NRGBA(), clip.Rect(box).Op())
	}
	call.Add(gtx.Ops)
}
