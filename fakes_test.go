package st7796s

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"go.uber.org/goleak"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errBus = errors.New("bus fault")

// events is an ordered log shared by the fakes below.
type events struct {
	list []string
}

func (e *events) add(format string, args ...any) {
	e.list = append(e.list, fmt.Sprintf(format, args...))
}

// recordingTransport logs every framed operation.
type recordingTransport struct {
	ev *events
	// failOn makes Command return errBus for that opcode.
	failOn *byte
	// scopes logs the outermost Transaction as "begin" and "end".
	scopes bool
	depth  int
}

func (r *recordingTransport) Transaction(fn func() error) error {
	r.depth++
	if r.scopes && r.depth == 1 {
		r.ev.add("begin")
	}
	err := fn()
	if r.scopes && r.depth == 1 {
		r.ev.add("end")
	}
	r.depth--
	return err
}

func (r *recordingTransport) Command(c byte) error {
	if r.failOn != nil && *r.failOn == c {
		return errBus
	}
	r.ev.add("cmd %02x", c)
	return nil
}

func (r *recordingTransport) Data(b byte) error {
	r.ev.add("data %02x", b)
	return nil
}

func (r *recordingTransport) Block(p []byte) error {
	r.ev.add("block %x", p)
	return nil
}

// recordingClock logs sleeps instead of blocking.
type recordingClock struct {
	clockwork.Clock
	ev *events
}

func (c *recordingClock) Sleep(d time.Duration) {
	c.ev.add("sleep %v", d)
}

// recPin is a gpiotest pin that logs level changes.
type recPin struct {
	*gpiotest.Pin
	ev *events
}

func newRecPin(name string, ev *events) *recPin {
	return &recPin{Pin: &gpiotest.Pin{N: name}, ev: ev}
}

func (p *recPin) Out(l gpio.Level) error {
	p.ev.add("%s %s", p.N, l)
	return p.Pin.Out(l)
}

// fakeConn is a spi.Conn that logs transfers.
type fakeConn struct {
	ev    *events
	limit int
}

func (c *fakeConn) String() string       { return "fakeConn" }
func (c *fakeConn) Duplex() conn.Duplex  { return conn.Half }
func (c *fakeConn) MaxTxSize() int       { return c.limit }
func (c *fakeConn) Halt() error          { return nil }
func (c *fakeConn) Tx(w, r []byte) error { c.ev.add("tx %x", w); return nil }

func (c *fakeConn) TxPackets(pkts []spi.Packet) error {
	for _, p := range pkts {
		c.ev.add("pkt %x keep=%t", p.W, p.KeepCS)
	}
	return nil
}

// fakePort is a spi.Port handing out a fakeConn.
type fakePort struct {
	conn  *fakeConn
	freq  physic.Frequency
	mode  spi.Mode
	bits  int
	fails bool
}

func (p *fakePort) String() string                      { return "fakePort" }
func (p *fakePort) LimitSpeed(f physic.Frequency) error { return nil }

func (p *fakePort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if p.fails {
		return nil, errBus
	}
	p.freq, p.mode, p.bits = f, mode, bits
	return p.conn, nil
}

// newTestDev returns an uninitialized Dev wired to recording fakes.
func newTestDev(opts *Opts) (*Dev, *recordingTransport, *events) {
	ev := &events{}
	tr := &recordingTransport{ev: ev}
	nop := zerolog.Nop()
	if opts.Logger == nil {
		opts.Logger = &nop
	}
	clk := &recordingClock{Clock: clockwork.NewFakeClock(), ev: ev}
	return newDev(tr, opts, clk), tr, ev
}

// tableEvents renders the operations runCommandTable performs for t.
func tableEvents(t *testing.T, table CommandTable) []string {
	t.Helper()
	cmds, err := table.Commands()
	if err != nil {
		t.Fatalf("Commands() error = %v", err)
	}
	ev := &events{}
	for _, c := range cmds {
		ev.add("cmd %02x", c.Op)
		switch len(c.Args) {
		case 0:
		case 1:
			ev.add("data %02x", c.Args[0])
		default:
			ev.add("block %x", c.Args)
		}
		if c.Delay > 0 {
			ev.add("sleep %v", c.Delay)
		}
	}
	return ev.list
}
