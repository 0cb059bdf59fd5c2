package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanvasDots(t *testing.T) {
	c := newCanvas(2, 1)
	assert.Equal(t, ' ', c.glyph(0, 0))

	c.setPixel(0, 0, layerBorder)
	assert.Equal(t, rune(0x2801), c.glyph(0, 0))

	c.setPixel(1, 3, layerBorder)
	assert.Equal(t, rune(0x2881), c.glyph(0, 0))

	c.setPixel(2, 0, layerActive)
	assert.Equal(t, rune(0x2801), c.glyph(1, 0))
	assert.Equal(t, layerActive, c.layer[0][1])

	// out of range is ignored
	c.setPixel(-1, 0, layerBorder)
	c.setPixel(4, 0, layerBorder)
	c.setPixel(0, 4, layerBorder)
}

func TestCanvasLayerPriority(t *testing.T) {
	c := newCanvas(1, 1)
	c.setPixel(0, 0, layerActive)
	c.setPixel(1, 1, layerBorder)
	assert.Equal(t, layerActive, c.layer[0][0])
}

func TestCanvasLine(t *testing.T) {
	c := newCanvas(4, 1)
	c.line(0, 0, 7, 0, layerBorder)
	for x := 0; x < 4; x++ {
		assert.Equal(t, rune(0x2809), c.glyph(x, 0))
	}
}

func TestCanvasLineClipped(t *testing.T) {
	c := newCanvas(4, 2)
	c.line(-1_000_000, 3, 1_000_000, 3, layerMesh)
	for x := 0; x < 4; x++ {
		assert.NotEqual(t, ' ', c.glyph(x, 0))
	}

	c = newCanvas(4, 2)
	c.line(-100, -100, -50, -10, layerMesh)
	for x := 0; x < 4; x++ {
		assert.Equal(t, ' ', c.glyph(x, 0))
	}
}

func TestClipLine(t *testing.T) {
	x0, y0, x1, y1 := -10, 5, 20, 5
	assert.True(t, clipLine(&x0, &y0, &x1, &y1, 8, 8))
	assert.Equal(t, [4]int{-1, 5, 8, 5}, [4]int{x0, y0, x1, y1})

	x0, y0, x1, y1 = 20, 20, 30, 30
	assert.False(t, clipLine(&x0, &y0, &x1, &y1, 8, 8))
}
