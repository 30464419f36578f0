// Package imagergb provides the two packed color formats understood by the
// ST7796S display controller family.
//
// RGB565 is the controller's native 16-bit format: 5 bits red, 6 bits green
// and 5 bits blue. On the wire every pixel is sent high byte first.
//
//	bit  15 14 13 12 11 10 9 8 7 6 5 4 3 2 1 0
//	     R4 R3 R2 R1 R0 G5 G4 G3 G2 G1 G0 B4 B3 B2 B1 B0
//
// RGB332 is a reduced 8-bit format (3 bits red, 3 bits green, 2 bits blue)
// used to halve frame buffer memory. The controller never sees it directly:
// each pixel is expanded back to RGB565 before transmission.
//
// This package provides:
//
// - RGB565 and RGB332: color types with lossless-to-themselves round trips
// - RGB565Model and RGB332Model: color models for standard Go colors
// - Image565 and Image332: draw.Image implementations backed by packed bytes
//
// Example usage:
//
//	img := imagergb.NewImage565(image.Rect(0, 0, 320, 480))
//	img.SetRGB565(10, 20, imagergb.RGB565FromRGB(0xFF, 0x80, 0x00))
//	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
package imagergb
