// Package st7796s controls a ST7796S color TFT display via SPI.
//
// The ST7796S is a 262K color TFT controller with 320×480 pixels of RAM.
// This driver implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 16-bit RGB565 on the wire, sent high byte first
// - Frame buffer in RGB565 (2 bytes per pixel) or RGB332 (1 byte per pixel)
// - Eight canonical orientations selected through MADCTL
// - Optional RGB/BGR panel order and display inversion
// - Full-frame refresh: every Update rewrites the whole window
//
// # Hardware Connection
//
// Connect the ST7796S display to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCK         → SPI Clock (SCLK)
//	SDI/MOSI    → SPI Data (MOSI)
//	DC/RS       → GPIO (any available pin)
//	CS          → SPI Chip Select, or any GPIO passed as Opts.CS
//	RST         → Optional: GPIO for hardware reset
//	LED/BL      → Optional: GPIO for backlight control
//
// # Basic Usage
//
// Example of creating and using the display:
//
//	package main
//
//	import (
//		"image/color"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/st7796s"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		spiBus, _ := spireg.Open("")
//		dcPin := gpioreg.ByName("GPIO25")
//
//		dev, _ := st7796s.NewSPI(spiBus, dcPin, &st7796s.Opts{
//			W:   320,
//			H:   480,
//			RST: gpioreg.ByName("GPIO27"),
//			BL:  gpioreg.ByName("GPIO18"),
//		})
//		defer dev.Halt()
//
//		for y := 0; y < 480; y++ {
//			for x := 0; x < 320; x++ {
//				dev.SetPixel(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xFF})
//			}
//		}
//		dev.Update()
//	}
//
// # Initialization
//
// NewSPI runs Init, which walks these states:
//
//	Uninitialized → Resetting → RunningInitTable → Configured → Ready
//
// If Opts.RST is set the reset line is pulsed (high, 1ms, low, 10ms, high).
// After a 100ms settle the built-in command table is sent, followed by the
// color mode (RGB565), the orientation and, if requested, display inversion.
// The frame buffer is then allocated and zeroed, and the backlight switched on
// if Opts.BL is set. Missing optional pins are skipped silently.
//
// # Frame Buffer
//
// The buffer is W×H×2 bytes in RGB565 or W×H bytes in RGB332 (Opts.Depth).
// SetPixel and Draw write into it; Update sends it. With Depth8 every byte is
// expanded back to RGB565 while sending, a few kilobytes at a time, since the
// controller is always run in 16-bit mode.
//
// A refresh is one bus transaction. With Opts.CS set, chip select is pulled
// low once before the column address and released after the last pixel byte.
// Without it, the SPI controller frames each transfer.
//
// Pixels outside the panel are dropped: SetPixel returns false and the buffer
// is untouched.
//
// # Rotation
//
// Opts.Rotation and SetRotation pick one of eight MADCTL values:
//
//	0 → 0x44 (MX|MH)             4 → 0xD4 (MY|MX|ML|MH)
//	1 → 0x20 (MV)                5 → 0x64 (MX|MV|MH)
//	2 → 0x90 (MY|ML)             6 → 0x00
//	3 → 0xF4 (MY|MX|MV|ML|MH)    7 → 0xB0 (MY|MV|ML)
//
// The BGR bit (0x08) is added when Opts.UseBGR is set. Width and height are
// not swapped automatically.
//
// # Command Tables
//
// CommandTable is the compact init format: a record count, then per record
// an opcode, an argument count with bit 7 flagging a trailing delay byte, the
// arguments and the delay in milliseconds (255 means 500ms).
//
// # Compatibility with periph.io
//
// This driver implements the display.Drawer interface from periph.io:
// https://pkg.go.dev/periph.io/x/conn/v3/display
package st7796s
