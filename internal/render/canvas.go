package render

// Stroke layers, lowest priority first. A cell takes the color of the highest
// layer that set one of its dots.
type layer uint8

const (
	layerNone layer = iota
	layerBorder
	layerMesh
	layerOutline
	layerActive
)

// canvas is a braille dot buffer: every terminal cell holds 2x4 micro-pixels.
type canvas struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	layer [][]layer // strongest stroke layer per cell
}

func newCanvas(w, h int) *canvas {
	m := make([][]uint8, h)
	l := make([][]layer, h)
	for i := range m {
		m[i] = make([]uint8, w)
		l[i] = make([]layer, w)
	}
	return &canvas{w: w, h: h, m: m, layer: l}
}

// dotBits indexes the braille bit of micro-pixel (rx, ry) inside its cell.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (c *canvas) setPixel(mx, my int, l layer) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= c.h || cx >= c.w {
		return
	}
	c.m[cy][cx] |= dotBits[rx][ry]
	if l > c.layer[cy][cx] {
		c.layer[cy][cx] = l
	}
}

// line draws on the microgrid using Bresenham. Endpoints far outside the
// grid are clipped first so zoomed-in strokes stay cheap.
func (c *canvas) line(x0, y0, x1, y1 int, l layer) {
	if !clipLine(&x0, &y0, &x1, &y1, c.w*2, c.h*4) {
		return
	}
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.setPixel(x0, y0, l)
		if x0 == x1 && y0 == y1 {
			break
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

// glyph returns the braille rune for a cell, or ' ' when no dot is set.
func (c *canvas) glyph(x, y int) rune {
	mask := c.m[y][x]
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}

// clipLine is Cohen-Sutherland against [-1, w] x [-1, h]. The one-pixel
// margin keeps Bresenham's rounding at the edge identical to the unclipped line.
func clipLine(x0, y0, x1, y1 *int, w, h int) bool {
	const (
		left = 1 << iota
		right
		bottom
		top
	)
	xmin, ymin := -1.0, -1.0
	xmax, ymax := float64(w), float64(h)
	code := func(x, y float64) int {
		c := 0
		if x < xmin {
			c |= left
		} else if x > xmax {
			c |= right
		}
		if y < ymin {
			c |= top
		} else if y > ymax {
			c |= bottom
		}
		return c
	}
	ax, ay, bx, by := float64(*x0), float64(*y0), float64(*x1), float64(*y1)
	ca, cb := code(ax, ay), code(bx, by)
	for {
		switch {
		case ca|cb == 0:
			*x0, *y0, *x1, *y1 = int(ax), int(ay), int(bx), int(by)
			return true
		case ca&cb != 0:
			return false
		}
		out := ca
		if out == 0 {
			out = cb
		}
		var x, y float64
		switch {
		case out&bottom != 0:
			x, y = ax+(bx-ax)*(ymax-ay)/(by-ay), ymax
		case out&top != 0:
			x, y = ax+(bx-ax)*(ymin-ay)/(by-ay), ymin
		case out&right != 0:
			x, y = xmax, ay+(by-ay)*(xmax-ax)/(bx-ax)
		default:
			x, y = xmin, ay+(by-ay)*(xmin-ax)/(bx-ax)
		}
		if out == ca {
			ax, ay = x, y
			ca = code(ax, ay)
		} else {
			bx, by = x, y
			cb = code(bx, by)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
