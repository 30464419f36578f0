package st7796s

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// Transport frames controller commands and data on the bus.
//
// Outside a Transaction every call is one bus transaction: chip select stays
// asserted from the first byte to the last, and the data/command line is set
// before it starts. Inside a Transaction the calls share one chip select
// assertion and only switch the data/command line.
type Transport interface {
	// Transaction runs fn with chip select asserted once around every call fn
	// makes. Nested transactions join the outer one.
	Transaction(fn func() error) error
	// Command sends one opcode byte with the data/command line low.
	Command(c byte) error
	// Data sends one argument byte with the data/command line high.
	Data(b byte) error
	// Block sends p as data in a single transaction.
	Block(p []byte) error
}

// sendCommand sends an opcode followed by its arguments in one transaction.
func sendCommand(t Transport, c byte, args ...byte) error {
	return t.Transaction(func() error {
		if err := t.Command(c); err != nil {
			return err
		}
		switch len(args) {
		case 0:
			return nil
		case 1:
			return t.Data(args[0])
		default:
			return t.Block(args)
		}
	})
}

// spiTransport implements Transport over a periph.io SPI connection.
type spiTransport struct {
	c  spi.Conn
	dc gpio.PinOut
	// cs is driven by software when set, otherwise the SPI controller's
	// hardware chip select frames each transfer.
	cs gpio.PinOut
	// held is set while a Transaction keeps cs asserted.
	held bool
	// maxTxSize is the largest single transfer the connection accepts.
	maxTxSize int
	one       [1]byte
}

func newSPITransport(c spi.Conn, dc, cs gpio.PinOut) *spiTransport {
	// Get the maxTxSize from the conn if it implements the conn.Limits
	// interface, otherwise use 4096 bytes.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize <= 0 {
		maxTxSize = 4096
	}
	return &spiTransport{c: c, dc: dc, cs: cs, maxTxSize: maxTxSize}
}

func (s *spiTransport) Command(c byte) error {
	if err := s.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("st7796s: DC low: %w", err)
	}
	s.one[0] = c
	return s.framed(func() error {
		if err := s.c.Tx(s.one[:], nil); err != nil {
			return err
		}
		if err := s.dc.Out(gpio.High); err != nil {
			return fmt.Errorf("st7796s: DC high: %w", err)
		}
		return nil
	})
}

func (s *spiTransport) Data(b byte) error {
	if err := s.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("st7796s: DC high: %w", err)
	}
	s.one[0] = b
	return s.framed(func() error {
		return s.c.Tx(s.one[:], nil)
	})
}

func (s *spiTransport) Block(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if err := s.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("st7796s: DC high: %w", err)
	}
	return s.framed(func() error {
		return s.write(p)
	})
}

// Transaction runs fn with the software chip select asserted throughout.
// Without one, each transfer is framed by the SPI controller; connect
// Opts.CS to hold chip select across a whole frame.
func (s *spiTransport) Transaction(fn func() error) error {
	if s.held {
		return fn()
	}
	return s.framed(func() error {
		s.held = true
		defer func() { s.held = false }()
		return fn()
	})
}

// framed runs fn with chip select asserted, unless a Transaction already
// holds it.
func (s *spiTransport) framed(fn func() error) (err error) {
	if s.cs == nil || s.held {
		return fn()
	}
	if err := s.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("st7796s: CS low: %w", err)
	}
	defer func() {
		if csErr := s.cs.Out(gpio.High); err == nil && csErr != nil {
			err = fmt.Errorf("st7796s: CS high: %w", csErr)
		}
	}()
	return fn()
}

// write sends p as one SPI transaction. Payloads larger than maxTxSize are
// split into packets that keep the hardware chip select asserted.
func (s *spiTransport) write(p []byte) error {
	if len(p) <= s.maxTxSize {
		return s.c.Tx(p, nil)
	}
	pkts := make([]spi.Packet, 0, (len(p)+s.maxTxSize-1)/s.maxTxSize)
	for len(p) != 0 {
		var chunk []byte
		if len(p) > s.maxTxSize {
			chunk, p = p[:s.maxTxSize], p[s.maxTxSize:]
		} else {
			chunk, p = p, nil
		}
		pkts = append(pkts, spi.Packet{W: chunk, KeepCS: len(p) != 0})
	}
	return s.c.TxPackets(pkts)
}

// idle puts the control lines in their between-transaction state.
func (s *spiTransport) idle() error {
	if err := s.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("st7796s: DC high: %w", err)
	}
	if s.cs != nil {
		if err := s.cs.Out(gpio.High); err != nil {
			return fmt.Errorf("st7796s: CS high: %w", err)
		}
	}
	return nil
}
