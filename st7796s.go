// Package st7796s controls a ST7796S color TFT display via SPI.
//
// The ST7796S drives panels of up to 320x480 pixels. The driver keeps a frame
// buffer in RGB565 or RGB332 and sends it in full on every Update.
//
// See the examples for how to use this package.
package st7796s

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/st7796s/imagergb"
)

// Errors returned by Dev operations.
var (
	ErrHalted     = errors.New("st7796s: halted")
	ErrNotReady   = errors.New("st7796s: not initialized")
	ErrBufferSize = errors.New("st7796s: invalid buffer size")
)

const (
	maxDim = 480

	resetHold   = time.Millisecond
	resetPulse  = 10 * time.Millisecond
	resetSettle = 100 * time.Millisecond
	sleepSettle = 120 * time.Millisecond
)

// Opts is the configuration for the ST7796S display.
type Opts struct {
	// Panel dimensions in pixels
	W int // Width (default: 320, ≤480)
	H int // Height (default: 480, ≤480)

	// Offset of the visible area in controller RAM
	ColStart int
	RowStart int

	// Frame buffer storage format
	Depth ColorDepth

	UseBGR       bool     // Panel has a BGR color filter
	InvertColors bool     // Enable display inversion after init
	Rotation     Rotation // MADCTL orientation, 0-7

	// Optional control lines, nil if not connected
	RST gpio.PinOut // Reset, active low
	BL  gpio.PinOut // Backlight, active high
	CS  gpio.PinOut // Chip select driven in software; nil uses the SPI controller's

	// Logger receives driver logs; nil uses the global zerolog logger.
	Logger *zerolog.Logger
}

// DefaultOpts is a 320x480 panel in RGB565.
var DefaultOpts = Opts{
	W: 320,
	H: 480,
}

// State is the initialization progress of a Dev.
type State uint8

// Initialization states, in order.
const (
	StateUninitialized State = iota
	StateResetting
	StateRunningInitTable
	StateConfigured
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateResetting:
		return "resetting"
	case StateRunningInitTable:
		return "running-init-table"
	case StateConfigured:
		return "configured"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Dev is the device handle for the ST7796S display.
type Dev struct {
	// Communication
	t   Transport
	rst gpio.PinOut
	bl  gpio.PinOut

	clk clockwork.Clock
	log zerolog.Logger

	// Display geometry
	opts   Opts
	rect   image.Rectangle
	window Window

	buffer *FrameBuffer

	// State
	state    State
	rotation Rotation
	halted   bool
}

var _ display.Drawer = (*Dev)(nil)

// NewSPI creates a new ST7796S device connected via SPI.
//
// The SPI port is configured for 8MHz, Mode0 (CPOL=0, CPHA=0), 8-bit transfers.
// The dc (Data/Command) GPIO pin must be provided.
//
// opts can be nil to use DefaultOpts.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if dc == nil {
		return nil, errors.New("st7796s: dc pin is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := initTable.Validate(); err != nil {
		return nil, err
	}

	c, err := p.Connect(8*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7796s: connect: %w", err)
	}

	t := newSPITransport(c, dc, opts.CS)
	if err := t.idle(); err != nil {
		return nil, err
	}
	d := newDev(t, opts, clockwork.NewRealClock())
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (o *Opts) validate() error {
	if o.W <= 0 || o.W > maxDim {
		return errors.New("st7796s: width must be between 1 and 480")
	}
	if o.H <= 0 || o.H > maxDim {
		return errors.New("st7796s: height must be between 1 and 480")
	}
	if o.ColStart < 0 || o.RowStart < 0 || o.ColStart+o.W > maxDim || o.RowStart+o.H > maxDim {
		return errors.New("st7796s: visible area exceeds controller RAM")
	}
	if o.Rotation > 7 {
		return errors.New("st7796s: rotation must be between 0 and 7")
	}
	if o.Depth != Depth16 && o.Depth != Depth8 {
		return errors.New("st7796s: unknown color depth")
	}
	return nil
}

func newDev(t Transport, opts *Opts, clk clockwork.Clock) *Dev {
	l := log.Logger
	if opts.Logger != nil {
		l = *opts.Logger
	}
	return &Dev{
		t:        t,
		rst:      opts.RST,
		bl:       opts.BL,
		clk:      clk,
		log:      l.With().Str("device", "st7796s").Logger(),
		opts:     *opts,
		rect:     image.Rect(0, 0, opts.W, opts.H),
		window:   newWindow(opts.ColStart, opts.RowStart, opts.W, opts.H),
		rotation: opts.Rotation,
	}
}

// Init resets the controller and brings it to the ready state: hardware
// reset, init table, color mode, orientation, inversion, a fresh zeroed frame
// buffer and the backlight.
func (d *Dev) Init() error {
	d.halted = false
	d.state = StateUninitialized
	d.setState(StateResetting)
	if err := d.reset(); err != nil {
		return err
	}
	d.clk.Sleep(resetSettle)
	d.dumpConfig()

	d.setState(StateRunningInitTable)
	if err := runCommandTable(d.t, d.clk, initTable); err != nil {
		return err
	}
	if err := sendCommand(d.t, cmdCOLMOD, ColorMode(16)); err != nil {
		return fmt.Errorf("st7796s: color mode: %w", err)
	}
	if err := sendCommand(d.t, cmdMADCTL, d.madctl(d.rotation)); err != nil {
		return fmt.Errorf("st7796s: memory access control: %w", err)
	}
	if d.opts.InvertColors {
		if err := d.t.Command(cmdINVON); err != nil {
			return fmt.Errorf("st7796s: inversion: %w", err)
		}
	}
	d.setState(StateConfigured)

	d.buffer = NewFrameBuffer(d.opts.W, d.opts.H, d.opts.Depth)
	d.log.Debug().Int("length", d.buffer.Len()).Msg("frame buffer allocated")
	if err := d.setBacklight(true); err != nil {
		return err
	}
	d.setState(StateReady)
	return nil
}

// reset pulses the reset line if one is connected.
func (d *Dev) reset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("st7796s: failed to pull RST high: %w", err)
	}
	d.clk.Sleep(resetHold)
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("st7796s: failed to pull RST low: %w", err)
	}
	d.clk.Sleep(resetPulse)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("st7796s: failed to pull RST high: %w", err)
	}
	return nil
}

func (d *Dev) setState(s State) {
	d.log.Debug().Stringer("from", d.state).Stringer("to", s).Msg("state transition")
	d.state = s
}

func (d *Dev) dumpConfig() {
	d.log.Debug().
		Int("width", d.opts.W).
		Int("height", d.opts.H).
		Int("col_start", d.opts.ColStart).
		Int("row_start", d.opts.RowStart).
		Stringer("depth", d.opts.Depth).
		Int("buffer_size", d.BufferLength()).
		Str("rst", pinName(d.rst)).
		Str("bl", pinName(d.bl)).
		Str("cs", pinName(d.opts.CS)).
		Msg("configuration")
}

func pinName(p gpio.PinOut) string {
	if p == nil {
		return "none"
	}
	return p.String()
}

func (d *Dev) madctl(r Rotation) byte {
	m := r.MADCTL()
	if d.opts.UseBGR {
		m |= madBGR
	}
	return m
}

// State returns the initialization state.
func (d *Dev) State() State {
	return d.state
}

// Update sends the whole frame buffer to the display.
func (d *Dev) Update() error {
	if d.halted {
		return ErrHalted
	}
	if d.state != StateReady {
		return ErrNotReady
	}
	d.log.Trace().Stringer("window", d.window).Msg("update")
	return writeFrame(d.t, d.buffer, d.window)
}

// SetPixel stores c at (x, y) in the frame buffer. It reports false if the
// coordinates are outside the panel or the device is not initialized.
func (d *Dev) SetPixel(x, y int, c color.Color) bool {
	if d.buffer == nil {
		return false
	}
	return d.buffer.SetPixel(x, y, c)
}

// Buffer returns the frame buffer, or nil before Init.
func (d *Dev) Buffer() *FrameBuffer {
	return d.buffer
}

// BufferLength returns the frame buffer size in bytes.
func (d *Dev) BufferLength() int {
	return d.opts.W * d.opts.H * d.opts.Depth.BytesPerPixel()
}

// Window returns the controller RAM window written by Update.
func (d *Dev) Window() Window {
	return d.window
}

// ColorModel returns the color model of the frame buffer.
func (d *Dev) ColorModel() color.Model {
	if d.opts.Depth == Depth8 {
		return imagergb.RGB332Model
	}
	return imagergb.RGB565Model
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw draws src into the frame buffer and sends the whole frame.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}
	if d.state != StateReady {
		return ErrNotReady
	}
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}
	draw.Draw(d.buffer, dst, src, sp, draw.Src)
	return d.Update()
}

// Write replaces the frame buffer with pixels, in the buffer's storage
// format, and sends it.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, ErrHalted
	}
	if len(pixels) != d.BufferLength() {
		return 0, ErrBufferSize
	}
	if d.state != StateReady {
		return 0, ErrNotReady
	}
	copy(d.buffer.Pix(), pixels)
	if err := d.Update(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Invert inverts the display colors.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return ErrHalted
	}
	cmd := byte(cmdINVOFF)
	if invert {
		cmd = cmdINVON
	}
	return d.t.Command(cmd)
}

// SetRotation changes the panel orientation. Width and height are not
// swapped; configure Opts.W and Opts.H for the orientation in use.
func (d *Dev) SetRotation(r Rotation) error {
	if d.halted {
		return ErrHalted
	}
	if r > 7 {
		return errors.New("st7796s: rotation must be between 0 and 7")
	}
	if err := sendCommand(d.t, cmdMADCTL, d.madctl(r)); err != nil {
		return err
	}
	d.rotation = r
	return nil
}

// Rotation returns the current orientation.
func (d *Dev) Rotation() Rotation {
	return d.rotation
}

// SetBacklight switches the backlight. It does nothing if no backlight pin
// is connected.
func (d *Dev) SetBacklight(on bool) error {
	if d.halted {
		return ErrHalted
	}
	return d.setBacklight(on)
}

func (d *Dev) setBacklight(on bool) error {
	if d.bl == nil {
		return nil
	}
	if err := d.bl.Out(gpio.Level(on)); err != nil {
		return fmt.Errorf("st7796s: backlight: %w", err)
	}
	return nil
}

// DisplayOn turns the panel output on or off. RAM content is kept.
func (d *Dev) DisplayOn(on bool) error {
	if d.halted {
		return ErrHalted
	}
	cmd := byte(cmdDISPOFF)
	if on {
		cmd = cmdDISPON
	}
	return d.t.Command(cmd)
}

// Sleep enters or leaves sleep mode and waits for the controller to settle.
func (d *Dev) Sleep(sleep bool) error {
	if d.halted {
		return ErrHalted
	}
	cmd := byte(cmdSLPOUT)
	if sleep {
		cmd = cmdSLPIN
	}
	if err := d.t.Command(cmd); err != nil {
		return err
	}
	d.clk.Sleep(sleepSettle)
	return nil
}

// SetTearingEffect enables the tearing effect output line, signalling
// vertical blanking only.
func (d *Dev) SetTearingEffect(on bool) error {
	if d.halted {
		return ErrHalted
	}
	if !on {
		return d.t.Command(cmdTEOFF)
	}
	return sendCommand(d.t, cmdTEON, 0x00)
}

// Halt turns the display and backlight off and puts the controller to sleep.
// After calling Halt, the display will not respond to further commands
// until Init is called again.
func (d *Dev) Halt() error {
	d.halted = true
	if err := d.t.Command(cmdDISPOFF); err != nil {
		return err
	}
	if err := d.t.Command(cmdSLPIN); err != nil {
		return err
	}
	return d.setBacklight(false)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("st7796s.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}
