package st7796s

// Controller opcodes.
const (
	cmdNOP     = 0x00
	cmdSWRESET = 0x01 // Software reset
	cmdRDDID   = 0x04 // Read display ID
	cmdRDDST   = 0x09 // Read display status
	cmdSLPIN   = 0x10 // Sleep in
	cmdSLPOUT  = 0x11 // Sleep out
	cmdPTLON   = 0x12 // Partial mode on
	cmdNORON   = 0x13 // Normal display mode on
	cmdINVOFF  = 0x20 // Display inversion off
	cmdINVON   = 0x21 // Display inversion on
	cmdDISPOFF = 0x28 // Display off
	cmdDISPON  = 0x29 // Display on
	cmdCASET   = 0x2A // Column address set
	cmdRASET   = 0x2B // Row address set
	cmdRAMWR   = 0x2C // Memory write
	cmdRAMRD   = 0x2E // Memory read
	cmdPTLAR   = 0x30 // Partial area
	cmdTEOFF   = 0x34 // Tearing effect line off
	cmdTEON    = 0x35 // Tearing effect line on
	cmdMADCTL  = 0x36 // Memory data access control
	cmdCOLMOD  = 0x3A // Interface pixel format

	// Vendor registers. Payloads are opaque and carried by the init table.
	cmdFRMCTR1 = 0xB1
	cmdFRMCTR2 = 0xB2
	cmdFRMCTR3 = 0xB3
	cmdINVCTR  = 0xB4 // Display inversion control
	cmdDFUNCTR = 0xB6 // Display function control
	cmdETMOD   = 0xB7 // Entry mode set
	cmdPWCTR1  = 0xC0
	cmdPWCTR2  = 0xC1
	cmdPWCTR3  = 0xC2
	cmdPWCTR4  = 0xC3
	cmdPWCTR5  = 0xC4
	cmdVMCTR   = 0xC5 // VCOM control
	cmdGMCTRP1 = 0xE0 // Positive gamma correction
	cmdGMCTRN1 = 0xE1 // Negative gamma correction
	cmdDOCA    = 0xE8 // Display output ctrl adjust
	cmdCSCON   = 0xF0 // Command set control
)

// MADCTL bits.
const (
	madMY  = 0x80 // Row address order (mirror Y)
	madMX  = 0x40 // Column address order (mirror X)
	madMV  = 0x20 // Row/column exchange
	madML  = 0x10 // Vertical refresh order
	madBGR = 0x08 // BGR color filter panel
	madMH  = 0x04 // Horizontal refresh order
	madRGB = 0x00
)

// COLMOD codes.
const (
	colmodRGB444 = 0x33
	colmodRGB565 = 0x55
	colmodRGB666 = 0x66
)

// Rotation selects one of the eight canonical MADCTL orientations.
type Rotation uint8

// rotationTable maps a Rotation to its MADCTL value.
var rotationTable = [8]byte{
	madMX | madMH,
	madMV,
	madMY | madML,
	madMV | madMX | madMY | madMH | madML,
	madMX | madMH | madMY | madML,
	madMV | madMX | madMH,
	0,
	madMV | madMY | madML,
}

// MADCTL returns the memory access control byte for r, without the color
// order bit. Only the low three bits of r are used.
func (r Rotation) MADCTL() byte {
	return rotationTable[r&7]
}

// ColorMode returns the COLMOD code for a color depth in bits per pixel.
func ColorMode(bpp int) byte {
	if bpp > 16 {
		return colmodRGB666
	}
	return colmodRGB565
}

// initTable is the power-on sequence for ST7796S panels.
var initTable = CommandTable{
	16,
	cmdSWRESET, tableDelay, 120,
	cmdSLPOUT, tableDelay, 120,
	cmdCSCON, 1, 0xC3, // Enable extension command 2 part I
	cmdCSCON, 1, 0x96, // Enable extension command 2 part II
	cmdINVCTR, 1, 0x01, // 1-dot inversion
	cmdDFUNCTR, 3,
	0x80, // Bypass
	0x02, // Source S1 to S960, gate G1 to G480, scan cycle 2
	0x3B, // LCD drive line 8*(59+1)
	cmdDOCA, 8,
	0x40, 0x8A, 0x00, 0x00,
	0x29, // Source equalizing period 22.5us
	0x19, // Gate start 25 Tclk
	0xA5, // Gate end 37 Tclk, gate driver EQ on
	0x33,
	cmdPWCTR2, 1, 0x06, // VAP(GVDD)=3.85+(vcom+offset)
	cmdPWCTR3, 1, 0xA7, // Source driving current low, gamma driving current high
	cmdVMCTR, 1 | tableDelay, 0x18, 120, // VCOM=0.9
	cmdGMCTRP1, 14,
	0xF0, 0x09, 0x0B, 0x06, 0x04, 0x15, 0x2F,
	0x54, 0x42, 0x3C, 0x17, 0x14, 0x18, 0x1B,
	cmdGMCTRN1, 14 | tableDelay,
	0xE0, 0x09, 0x0B, 0x06, 0x04, 0x03, 0x2B,
	0x43, 0x42, 0x3B, 0x16, 0x14, 0x17, 0x1B,
	120,
	cmdCSCON, 1, 0x3C, // Disable extension command 2 part I
	cmdCSCON, 1, 0x69, // Disable extension command 2 part II
	cmdSLPOUT, tableDelay, 120,
	cmdDISPON, tableDelay, 20,
}
