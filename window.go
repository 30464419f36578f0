package st7796s

import "fmt"

// Window is the controller RAM rectangle written by a refresh, inclusive on
// both ends.
type Window struct {
	X0, X1 uint16
	Y0, Y1 uint16
}

// newWindow returns the window covering a w×h panel whose visible area starts
// at column colStart and row rowStart of controller RAM.
func newWindow(colStart, rowStart, w, h int) Window {
	return Window{
		X0: uint16(colStart),
		X1: uint16(colStart + w - 1),
		Y0: uint16(rowStart),
		Y1: uint16(rowStart + h - 1),
	}
}

// columns returns the CASET payload.
func (w Window) columns() [4]byte {
	return [4]byte{byte(w.X0 >> 8), byte(w.X0), byte(w.X1 >> 8), byte(w.X1)}
}

// rows returns the RASET payload.
func (w Window) rows() [4]byte {
	return [4]byte{byte(w.Y0 >> 8), byte(w.Y0), byte(w.Y1 >> 8), byte(w.Y1)}
}

func (w Window) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", w.X0, w.Y0, w.X1, w.Y1)
}

// writeFrame sets the address window and streams the whole buffer into
// controller RAM, all within one transaction.
func writeFrame(t Transport, fb *FrameBuffer, w Window) error {
	return t.Transaction(func() error {
		cols := w.columns()
		if err := sendCommand(t, cmdCASET, cols[:]...); err != nil {
			return fmt.Errorf("st7796s: column address: %w", err)
		}
		rows := w.rows()
		if err := sendCommand(t, cmdRASET, rows[:]...); err != nil {
			return fmt.Errorf("st7796s: row address: %w", err)
		}
		if err := t.Command(cmdRAMWR); err != nil {
			return fmt.Errorf("st7796s: memory write: %w", err)
		}
		if err := fb.stream(t.Block); err != nil {
			return fmt.Errorf("st7796s: pixel data: %w", err)
		}
		return nil
	})
}
