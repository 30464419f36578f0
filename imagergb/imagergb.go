// Package imagergb provides packed RGB565 and RGB332 color formats for the
// ST7796S display controller.
package imagergb

import (
	"image"
	"image/color"
)

// RGB565 is a 16-bit color: 5 bits red, 6 bits green, 5 bits blue.
type RGB565 uint16

// RGB565FromRGB quantizes 8-bit channels to RGB565 by truncation.
func RGB565FromRGB(r, g, b uint8) RGB565 {
	return RGB565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// Channels returns the raw 5-bit red, 6-bit green and 5-bit blue fields.
func (c RGB565) Channels() (r, g, b uint8) {
	return uint8(c >> 11), uint8(c>>5) & 0x3F, uint8(c) & 0x1F
}

// BigEndian returns the two bytes sent to the controller, high byte first.
func (c RGB565) BigEndian() (hi, lo byte) {
	return byte(c >> 8), byte(c)
}

// RGBA implements color.Color.
//
// Each field is replicated into the low bits so full scale maps to 0xFFFF.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r5, g6, b5 := c.Channels()
	r8 := uint32(r5<<3 | r5>>2)
	g8 := uint32(g6<<2 | g6>>4)
	b8 := uint32(b5<<3 | b5>>2)
	return r8 * 0x101, g8 * 0x101, b8 * 0x101, 0xFFFF
}

// RGB332 is an 8-bit color: 3 bits red, 3 bits green, 2 bits blue.
type RGB332 uint8

// RGB332FromRGB quantizes 8-bit channels to RGB332 by truncation.
func RGB332FromRGB(r, g, b uint8) RGB332 {
	return RGB332((r>>5)<<5 | (g>>5)<<2 | b>>6)
}

// Channels returns the raw 3-bit red, 3-bit green and 2-bit blue fields.
func (c RGB332) Channels() (r, g, b uint8) {
	return uint8(c>>5) & 0x07, uint8(c>>2) & 0x07, uint8(c) & 0x03
}

// scaled returns the fields rescaled to 8 bits.
func (c RGB332) scaled() (r, g, b uint8) {
	r3, g3, b2 := c.Channels()
	return uint8(uint16(r3) * 255 / 7), uint8(uint16(g3) * 255 / 7), uint8(uint16(b2) * 255 / 3)
}

// Expand converts the color back into the controller's RGB565 format.
func (c RGB332) Expand() RGB565 {
	return RGB565FromRGB(c.scaled())
}

// RGBA implements color.Color.
func (c RGB332) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.scaled()
	return uint32(r8) * 0x101, uint32(g8) * 0x101, uint32(b8) * 0x101, 0xFFFF
}

// to8 converts any color.Color to 8-bit non-premultiplied channels.
func to8(c color.Color) (r, g, b uint8) {
	if n, ok := c.(color.RGBA); ok && n.A == 0xFF {
		return n.R, n.G, n.B
	}
	r16, g16, b16, _ := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)
}

func toRGB565(c color.Color) color.Color {
	if v, ok := c.(RGB565); ok {
		return v
	}
	return RGB565FromRGB(to8(c))
}

func toRGB332(c color.Color) color.Color {
	if v, ok := c.(RGB332); ok {
		return v
	}
	return RGB332FromRGB(to8(c))
}

// RGB565Model converts colors to RGB565.
var RGB565Model = color.ModelFunc(toRGB565)

// RGB332Model converts colors to RGB332.
var RGB332Model = color.ModelFunc(toRGB332)

// Image565 is an image stored as big-endian RGB565, two bytes per pixel.
type Image565 struct {
	Pix    []byte          // Pixel data, high byte first
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewImage565 creates a new Image565 with the specified bounds.
func NewImage565(r image.Rectangle) *Image565 {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image565{Rect: r}
	}
	return &Image565{
		Pix:    make([]byte, 2*w*h),
		Stride: 2 * w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Image565) ColorModel() color.Model {
	return RGB565Model
}

// Bounds returns the image bounds.
func (p *Image565) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
func (p *Image565) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the RGB565 color of the pixel at (x, y).
func (p *Image565) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	i := p.PixOffset(x, y)
	return RGB565(p.Pix[i])<<8 | RGB565(p.Pix[i+1])
}

// Set sets the color of the pixel at (x, y).
func (p *Image565) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, RGB565Model.Convert(c).(RGB565))
}

// SetRGB565 sets the pixel at (x, y) without color model conversion.
func (p *Image565) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i], p.Pix[i+1] = c.BigEndian()
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *Image565) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

// Image332 is an image stored as RGB332, one byte per pixel.
type Image332 struct {
	Pix    []byte          // Pixel data
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewImage332 creates a new Image332 with the specified bounds.
func NewImage332(r image.Rectangle) *Image332 {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image332{Rect: r}
	}
	return &Image332{
		Pix:    make([]byte, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Image332) ColorModel() color.Model {
	return RGB332Model
}

// Bounds returns the image bounds.
func (p *Image332) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
func (p *Image332) At(x, y int) color.Color {
	return p.RGB332At(x, y)
}

// RGB332At returns the RGB332 color of the pixel at (x, y).
func (p *Image332) RGB332At(x, y int) RGB332 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	return RGB332(p.Pix[p.PixOffset(x, y)])
}

// Set sets the color of the pixel at (x, y).
func (p *Image332) Set(x, y int, c color.Color) {
	p.SetRGB332(x, y, RGB332Model.Convert(c).(RGB332))
}

// SetRGB332 sets the pixel at (x, y) without color model conversion.
func (p *Image332) SetRGB332(x, y int, c RGB332) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = byte(c)
}

// PixOffset returns the index of the pixel at (x, y).
func (p *Image332) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}
