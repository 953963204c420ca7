// Package raster paints renderer draw lists into RGBA images without a
// window, for snapshots and headless export.
package raster

import (
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer"
)

// kappa places cubic control points for a quarter ellipse
const kappa = 0.5522847498

const labelPadding = 2

// Canvas is an RGBA image with a reusable rasterizer
type Canvas struct {
	Image *image.RGBA
	ras   *vector.Rasterizer
	face  font.Face
}

// NewCanvas creates a transparent w x h canvas
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		Image: image.NewRGBA(image.Rect(0, 0, w, h)),
		ras:   vector.NewRasterizer(w, h),
		face:  basicfont.Face7x13,
	}
}

// Render paints a complete draw list into a new image
func Render(dl *renderer.DrawList) *image.RGBA {
	c := NewCanvas(dl.Width, dl.Height)
	c.Draw(dl)
	return c.Image
}

// EncodePNG paints dl and writes it as PNG
func EncodePNG(w io.Writer, dl *renderer.DrawList) error {
	return png.Encode(w, Render(dl))
}

// Draw paints every command of dl over the canvas
func (c *Canvas) Draw(dl *renderer.DrawList) {
	for _, cmd := range dl.Commands {
		switch cmd.Kind {
		case renderer.KindClear:
			draw.Draw(c.Image, c.Image.Bounds(), image.NewUniform(cmd.Color.NRGBA()), image.Point{}, draw.Src)
		case renderer.KindLine:
			c.line(cmd)
		case renderer.KindCircle:
			c.ellipse(cmd, cmd.X0, cmd.Y0, cmd.R, cmd.R)
		case renderer.KindOval:
			c.ellipse(cmd, (cmd.X0+cmd.X1)/2, (cmd.Y0+cmd.Y1)/2, (cmd.X1-cmd.X0)/2, (cmd.Y1-cmd.Y0)/2)
		case renderer.KindRect:
			c.rect(cmd)
		case renderer.KindText:
			c.text(cmd)
		}
	}
}

func (c *Canvas) begin() {
	b := c.Image.Bounds()
	c.ras.Reset(b.Dx(), b.Dy())
}

func (c *Canvas) paint(col board.Color) {
	c.ras.Draw(c.Image, c.Image.Bounds(), image.NewUniform(col.NRGBA()), image.Point{})
}

// line fills the quad covering a segment of the given width
func (c *Canvas) line(cmd renderer.Command) {
	dx, dy := cmd.X1-cmd.X0, cmd.Y1-cmd.Y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	w := math.Max(cmd.Width, 1) / 2
	nx, ny := -dy/l*w, dx/l*w

	c.begin()
	c.ras.MoveTo(float32(cmd.X0+nx), float32(cmd.Y0+ny))
	c.ras.LineTo(float32(cmd.X1+nx), float32(cmd.Y1+ny))
	c.ras.LineTo(float32(cmd.X1-nx), float32(cmd.Y1-ny))
	c.ras.LineTo(float32(cmd.X0-nx), float32(cmd.Y0-ny))
	c.ras.ClosePath()
	c.paint(cmd.Color)
}

// ellipsePath adds an ellipse as four cubic arcs. reverse winds it the
// other way so it cuts a hole out of an enclosing path.
func (c *Canvas) ellipsePath(cx, cy, rx, ry float64, reverse bool) {
	if reverse {
		ry = -ry
	}
	kx, ky := kappa*rx, kappa*ry
	f := func(v float64) float32 { return float32(v) }

	c.ras.MoveTo(f(cx+rx), f(cy))
	c.ras.CubeTo(f(cx+rx), f(cy+ky), f(cx+kx), f(cy+ry), f(cx), f(cy+ry))
	c.ras.CubeTo(f(cx-kx), f(cy+ry), f(cx-rx), f(cy+ky), f(cx-rx), f(cy))
	c.ras.CubeTo(f(cx-rx), f(cy-ky), f(cx-kx), f(cy-ry), f(cx), f(cy-ry))
	c.ras.CubeTo(f(cx+kx), f(cy-ry), f(cx+rx), f(cy-ky), f(cx+rx), f(cy))
	c.ras.ClosePath()
}

func (c *Canvas) ellipse(cmd renderer.Command, cx, cy, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		return
	}
	c.begin()
	if cmd.Fill {
		c.ellipsePath(cx, cy, rx, ry, false)
	} else {
		h := math.Max(cmd.Width, 1) / 2
		c.ellipsePath(cx, cy, rx+h, ry+h, false)
		if rx > h && ry > h {
			c.ellipsePath(cx, cy, rx-h, ry-h, true)
		}
	}
	c.paint(cmd.Color)
}

func (c *Canvas) rectPath(x0, y0, x1, y1 float64, reverse bool) {
	pts := [4][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	if reverse {
		pts[1], pts[3] = pts[3], pts[1]
	}
	c.ras.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		c.ras.LineTo(float32(p[0]), float32(p[1]))
	}
	c.ras.ClosePath()
}

func (c *Canvas) rect(cmd renderer.Command) {
	if cmd.X1 <= cmd.X0 || cmd.Y1 <= cmd.Y0 {
		return
	}
	c.begin()
	if cmd.Fill {
		c.rectPath(cmd.X0, cmd.Y0, cmd.X1, cmd.Y1, false)
	} else {
		h := math.Max(cmd.Width, 1) / 2
		c.rectPath(cmd.X0-h, cmd.Y0-h, cmd.X1+h, cmd.Y1+h, false)
		if cmd.X1-cmd.X0 > 2*h && cmd.Y1-cmd.Y0 > 2*h {
			c.rectPath(cmd.X0+h, cmd.Y0+h, cmd.X1-h, cmd.Y1-h, true)
		}
	}
	c.paint(cmd.Color)
}

// text draws with a fixed bitmap face; Size is not honoured
func (c *Canvas) text(cmd renderer.Command) {
	if cmd.Text == "" {
		return
	}
	m := c.face.Metrics()
	w := font.MeasureString(c.face, cmd.Text).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	x := int(cmd.X0) - w/2
	y := int(cmd.Y0) - h/2

	if cmd.Background.A > 0 {
		box := image.Rect(x-labelPadding, y-labelPadding, x+w+labelPadding, y+h+labelPadding)
		draw.Draw(c.Image, box, image.NewUniform(cmd.Background.NRGBA()), image.Point{}, draw.Over)
	}
	d := font.Drawer{
		Dst:  c.Image,
		Src:  image.NewUniform(cmd.Color.NRGBA()),
		Face: c.face,
		Dot:  fixed.P(x, y+m.Ascent.Ceil()),
	}
	d.DrawString(cmd.Text)
}
