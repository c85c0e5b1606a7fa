package diagram

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Layout constants, in unscaled pixels.
const (
	cellWidth  = 120
	margin     = 40
	titleSpace = 30
	height     = 200
	wireY      = titleSpace + 80
)

// MaxScale is the largest scale factor Render applies.
const MaxScale = 8

var (
	background = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ink        = color.RGBA{0x1f, 0x23, 0x28, 0xff}
	muted      = color.RGBA{0x57, 0x60, 0x6a, 0xff}
)

// Diagram is a rendered circuit, encodable as PNG.
type Diagram struct {
	img *image.RGBA
}

// Ext implements artifact.Artifact.
func (d *Diagram) Ext() string { return ".png" }

// Encode implements artifact.Artifact.
func (d *Diagram) Encode(w io.Writer) error {
	return png.Encode(w, d.img)
}

// Image returns the rendered image.
func (d *Diagram) Image() image.Image { return d.img }

// Render draws c. scale enlarges the result by an integer factor and is
// clamped to 1..MaxScale.
func Render(c *Circuit, scale int) *Diagram {
	scale = min(max(scale, 1), MaxScale)

	width := 2*margin + cellWidth*len(c.Elements)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	cv := &canvas{img: img}
	if c.Title != "" {
		cv.text(margin, 22, c.Title, ink)
	}

	cv.dot(margin, wireY)
	for i, el := range c.Elements {
		x0 := margin + i*cellWidth
		cv.element(el, x0)
		mid := x0 + cellWidth/2
		if el.Label != "" {
			cv.textCentered(mid, wireY-34, el.Label, ink)
		}
		if el.Value != "" {
			cv.textCentered(mid, wireY+48, el.Value, muted)
		}
	}
	cv.dot(width-margin, wireY)

	if scale <= 1 {
		return &Diagram{img: img}
	}
	big := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	xdraw.NearestNeighbor.Scale(big, big.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return &Diagram{img: big}
}

type canvas struct {
	img *image.RGBA
}

func (c *canvas) element(el Element, x0 int) {
	x1 := x0 + cellWidth
	mid := x0 + cellWidth/2
	y := wireY

	switch el.Kind {
	case Resistor:
		c.hline(x0, mid-30, y)
		c.zigzag(mid-30, mid+30, y, 10, 6)
		c.hline(mid+30, x1, y)
	case Capacitor:
		c.hline(x0, mid-6, y)
		c.thickV(mid-6, y-18, y+18)
		c.thickV(mid+6, y-18, y+18)
		c.hline(mid+6, x1, y)
	case Inductor:
		c.hline(x0, mid-32, y)
		for i := 0; i < 4; i++ {
			c.arc(mid-24+i*16, y, 8)
		}
		c.hline(mid+32, x1, y)
	case Diode:
		c.hline(x0, mid-12, y)
		c.line(mid-12, y-14, mid-12, y+14)
		c.line(mid-12, y-14, mid+12, y)
		c.line(mid-12, y+14, mid+12, y)
		c.thickV(mid+12, y-14, y+14)
		c.hline(mid+12, x1, y)
	case Source:
		c.hline(x0, mid-20, y)
		c.circle(mid, y, 20)
		c.line(mid-12, y-4, mid-4, y-4)
		c.line(mid-8, y-8, mid-8, y)
		c.line(mid+4, y-4, mid+12, y-4)
		c.hline(mid+20, x1, y)
	case Ground:
		c.hline(x0, x1, y)
		c.line(mid, y, mid, y+24)
		c.line(mid-14, y+24, mid+14, y+24)
		c.line(mid-9, y+30, mid+9, y+30)
		c.line(mid-4, y+36, mid+4, y+36)
	default:
		c.hline(x0, x1, y)
	}
}

func (c *canvas) set(x, y int, col color.Color) {
	c.img.Set(x, y, col)
}

func (c *canvas) hline(x0, x1, y int) {
	for x := x0; x <= x1; x++ {
		c.set(x, y, ink)
		c.set(x, y+1, ink)
	}
}

func (c *canvas) thickV(x, y0, y1 int) {
	for dx := -1; dx <= 1; dx++ {
		c.line(x+dx, y0, x+dx, y1)
	}
}

// line draws a 1px segment with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) zigzag(x0, x1, y, amp, teeth int) {
	step := float64(x1-x0) / float64(teeth)
	px, py := x0, y
	for i := 1; i <= teeth; i++ {
		nx := x0 + int(math.Round(step*float64(i)))
		ny := y - amp
		if i%2 == 0 {
			ny = y + amp
		}
		if i == teeth {
			ny = y
		}
		c.line(px, py, nx, ny)
		px, py = nx, ny
	}
}

// arc draws the upper half of a circle centred on (cx, cy).
func (c *canvas) arc(cx, cy, r int) {
	for deg := 0; deg <= 180; deg++ {
		rad := float64(deg) * math.Pi / 180
		x := cx + int(math.Round(float64(r)*math.Cos(rad)))
		y := cy - int(math.Round(float64(r)*math.Sin(rad)))
		c.set(x, y, ink)
	}
}

func (c *canvas) circle(cx, cy, r int) {
	for deg := 0; deg < 360; deg++ {
		rad := float64(deg) * math.Pi / 180
		x := cx + int(math.Round(float64(r)*math.Cos(rad)))
		y := cy + int(math.Round(float64(r)*math.Sin(rad)))
		c.set(x, y, ink)
	}
}

func (c *canvas) dot(cx, cy int) {
	for dy := -3; dy <= 3; dy++ {
		for dx := -3; dx <= 3; dx++ {
			if dx*dx+dy*dy <= 9 {
				c.set(cx+dx, cy+dy, ink)
			}
		}
	}
}

func (c *canvas) text(x, y int, s string, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func (c *canvas) textCentered(cx, y int, s string, col color.Color) {
	w := font.MeasureString(basicfont.Face7x13, s).Round()
	c.text(cx-w/2, y, s, col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
