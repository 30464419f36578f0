package st7796s

import (
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/st7796s/imagergb"
)

// wireChunk bounds the RGB565 scratch used to send a Depth8 buffer.
const wireChunk = 4096

// ColorDepth selects how pixels are stored in the frame buffer.
type ColorDepth uint8

const (
	// Depth16 stores RGB565, two bytes per pixel, high byte first.
	Depth16 ColorDepth = iota
	// Depth8 stores RGB332, one byte per pixel. Pixels are expanded to
	// RGB565 while being sent.
	Depth8
)

// BytesPerPixel returns the storage size of one pixel.
func (d ColorDepth) BytesPerPixel() int {
	if d == Depth8 {
		return 1
	}
	return 2
}

func (d ColorDepth) String() string {
	switch d {
	case Depth16:
		return "RGB565"
	case Depth8:
		return "RGB332"
	default:
		return "ColorDepth(?)"
	}
}

// FrameSink accepts pixel writes and reports its geometry.
type FrameSink interface {
	draw.Image
	SetPixel(x, y int, c color.Color) bool
}

// FrameBuffer holds the full panel image between refreshes.
//
// The backing slice is width*height*BytesPerPixel long and never resized.
type FrameBuffer struct {
	depth ColorDepth
	img   draw.Image
	pix   []byte
	// wire holds RGB565 expansions of a Depth8 buffer, at most wireChunk
	// bytes at a time.
	wire []byte
}

var _ FrameSink = (*FrameBuffer)(nil)

// NewFrameBuffer returns a zeroed buffer of w×h pixels.
func NewFrameBuffer(w, h int, depth ColorDepth) *FrameBuffer {
	r := image.Rect(0, 0, w, h)
	fb := &FrameBuffer{depth: depth}
	if depth == Depth8 {
		img := imagergb.NewImage332(r)
		fb.img, fb.pix = img, img.Pix
		fb.wire = make([]byte, min(wireChunk, 2*len(img.Pix)))
	} else {
		img := imagergb.NewImage565(r)
		fb.img, fb.pix = img, img.Pix
	}
	return fb
}

// ColorModel returns the storage color model.
func (fb *FrameBuffer) ColorModel() color.Model {
	return fb.img.ColorModel()
}

// Bounds returns the buffer bounds, anchored at (0, 0).
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return fb.img.Bounds()
}

// At returns the stored color at (x, y).
func (fb *FrameBuffer) At(x, y int) color.Color {
	return fb.img.At(x, y)
}

// Set stores c at (x, y). Coordinates outside the buffer are ignored.
func (fb *FrameBuffer) Set(x, y int, c color.Color) {
	fb.img.Set(x, y, c)
}

// SetPixel stores c at (x, y) and reports whether the pixel was inside the
// buffer.
func (fb *FrameBuffer) SetPixel(x, y int, c color.Color) bool {
	if !(image.Point{X: x, Y: y}.In(fb.Bounds())) {
		return false
	}
	fb.img.Set(x, y, c)
	return true
}

// Depth returns the storage format.
func (fb *FrameBuffer) Depth() ColorDepth {
	return fb.depth
}

// Len returns the buffer size in bytes.
func (fb *FrameBuffer) Len() int {
	return len(fb.pix)
}

// Pix returns the backing slice in storage format.
func (fb *FrameBuffer) Pix() []byte {
	return fb.pix
}

// Clear zero-fills the buffer.
func (fb *FrameBuffer) Clear() {
	clear(fb.pix)
}

// stream passes the buffer to fn as big-endian RGB565 in row-major order.
// A Depth16 buffer is passed in one call straight from the backing slice. A
// Depth8 buffer is expanded into the scratch slice and passed in pieces; fn
// must not keep the slice after it returns.
func (fb *FrameBuffer) stream(fn func(p []byte) error) error {
	if fb.depth != Depth8 {
		return fn(fb.pix)
	}
	px := fb.pix
	for len(px) != 0 {
		n := min(len(px), len(fb.wire)/2)
		for i, b := range px[:n] {
			fb.wire[2*i], fb.wire[2*i+1] = imagergb.RGB332(b).Expand().BigEndian()
		}
		if err := fn(fb.wire[:2*n]); err != nil {
			return err
		}
		px = px[n:]
	}
	return nil
}
