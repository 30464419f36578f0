package st7796s

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	tableDelay    = 0x80 // Argument count flag: a delay byte follows the arguments
	tableLongWait = 255  // Delay byte meaning 500ms
)

// CommandTable is a compact controller command list.
//
// Byte 0 holds the number of records. Each record is an opcode, an argument
// count whose high bit flags a trailing delay, the arguments, and the delay in
// milliseconds if flagged. A delay of 255 means 500ms.
type CommandTable []byte

// Command is one decoded CommandTable record.
type Command struct {
	Op   byte
	Args []byte
	// HasDelay is set when the record carries a delay byte, even a zero one.
	HasDelay bool
	Delay    time.Duration
}

// Commands decodes the table. It fails if the table is truncated, holds fewer
// records than declared, or has trailing bytes.
func (t CommandTable) Commands() ([]Command, error) {
	if len(t) == 0 {
		return nil, errors.New("st7796s: empty command table")
	}
	n := int(t[0])
	cmds := make([]Command, 0, n)
	i := 1
	for r := 0; r < n; r++ {
		if i+2 > len(t) {
			return nil, fmt.Errorf("st7796s: command table truncated in record %d header", r)
		}
		c := Command{Op: t[i], HasDelay: t[i+1]&tableDelay != 0}
		argc := int(t[i+1] &^ tableDelay)
		i += 2
		if i+argc > len(t) {
			return nil, fmt.Errorf("st7796s: command table record %d (0x%02X) wants %d args, %d left", r, c.Op, argc, len(t)-i)
		}
		if argc > 0 {
			c.Args = t[i : i+argc]
		}
		i += argc
		if c.HasDelay {
			if i >= len(t) {
				return nil, fmt.Errorf("st7796s: command table record %d (0x%02X) missing delay", r, c.Op)
			}
			ms := time.Duration(t[i])
			if t[i] == tableLongWait {
				ms = 500
			}
			c.Delay = ms * time.Millisecond
			i++
		}
		cmds = append(cmds, c)
	}
	if i != len(t) {
		return nil, fmt.Errorf("st7796s: command table has %d trailing bytes", len(t)-i)
	}
	return cmds, nil
}

// Validate reports whether the table is well formed.
func (t CommandTable) Validate() error {
	_, err := t.Commands()
	return err
}

// runCommandTable sends every record of table in order, sleeping after the
// records that carry a delay.
func runCommandTable(tr Transport, clk clockwork.Clock, table CommandTable) error {
	cmds, err := table.Commands()
	if err != nil {
		return err
	}
	for _, c := range cmds {
		if err := sendCommand(tr, c.Op, c.Args...); err != nil {
			return fmt.Errorf("st7796s: command 0x%02X: %w", c.Op, err)
		}
		if c.Delay > 0 {
			clk.Sleep(c.Delay)
		}
	}
	return nil
}
