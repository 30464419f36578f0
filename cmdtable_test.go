package st7796s

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCommandTableDecode(t *testing.T) {
	table := CommandTable{
		3,
		0x01, tableDelay, 120,
		0xF0, 1, 0xC3,
		0xE0, 2 | tableDelay, 0xAA, 0xBB, 255,
	}

	cmds, err := table.Commands()
	require.NoError(t, err)
	assert.Equal(t, []Command{
		{Op: 0x01, HasDelay: true, Delay: 120 * time.Millisecond},
		{Op: 0xF0, Args: []byte{0xC3}},
		{Op: 0xE0, Args: []byte{0xAA, 0xBB}, HasDelay: true, Delay: 500 * time.Millisecond},
	}, cmds)
}

func TestCommandTableZeroDelay(t *testing.T) {
	table := CommandTable{
		2,
		0x11, tableDelay, 0,
		0x29, 0,
	}

	cmds, err := table.Commands()
	require.NoError(t, err)
	assert.Equal(t, []Command{
		{Op: 0x11, HasDelay: true},
		{Op: 0x29},
	}, cmds)
	assert.Equal(t, len(table), recordBytes(cmds))

	ev := &events{}
	tr := &recordingTransport{ev: ev}
	clk := &recordingClock{Clock: clockwork.NewFakeClock(), ev: ev}
	require.NoError(t, runCommandTable(tr, clk, table))
	assert.Equal(t, []string{"cmd 11", "cmd 29"}, ev.list)
}

func TestCommandTableMalformed(t *testing.T) {
	tests := []struct {
		name  string
		table CommandTable
	}{
		{"empty", CommandTable{}},
		{"missing record", CommandTable{2, 0x01, 0}},
		{"truncated header", CommandTable{1, 0x01}},
		{"truncated args", CommandTable{1, 0xF0, 3, 0x01, 0x02}},
		{"missing delay", CommandTable{1, 0x11, tableDelay}},
		{"trailing bytes", CommandTable{1, 0x29, 0, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.table.Validate())
		})
	}
}

func TestInitTableLayout(t *testing.T) {
	require.NoError(t, initTable.Validate())

	cmds, err := initTable.Commands()
	require.NoError(t, err)
	assert.Len(t, cmds, 16)

	assert.Equal(t, len(initTable), recordBytes(cmds))
	assert.Equal(t, 86, len(initTable))

	assert.Equal(t, byte(cmdSWRESET), cmds[0].Op)
	assert.Equal(t, 120*time.Millisecond, cmds[0].Delay)
	assert.Equal(t, byte(cmdDISPON), cmds[15].Op)
	assert.Equal(t, 20*time.Millisecond, cmds[15].Delay)
	assert.Equal(t, []byte{0x18}, cmds[9].Args)
	assert.Equal(t, 120*time.Millisecond, cmds[9].Delay)
	assert.Len(t, cmds[11].Args, 14)
}

// recordBytes returns the encoded size of cmds: the count byte plus opcode,
// count, args and optional delay per record.
func recordBytes(cmds []Command) int {
	total := 1
	for _, c := range cmds {
		total += 2 + len(c.Args)
		if c.HasDelay {
			total++
		}
	}
	return total
}

func TestRunCommandTable(t *testing.T) {
	ev := &events{}
	tr := &recordingTransport{ev: ev}
	clk := &recordingClock{Clock: clockwork.NewFakeClock(), ev: ev}

	table := CommandTable{
		3,
		0x11, tableDelay, 255,
		0x36, 1, 0x48,
		0xB6, 3, 0x80, 0x02, 0x3B,
	}
	require.NoError(t, runCommandTable(tr, clk, table))
	assert.Equal(t, []string{
		"cmd 11",
		"sleep 500ms",
		"cmd 36",
		"data 48",
		"cmd b6",
		"block 80023b",
	}, ev.list)
}

func TestRunCommandTableStopsOnError(t *testing.T) {
	ev := &events{}
	fail := byte(0x36)
	tr := &recordingTransport{ev: ev, failOn: &fail}
	clk := &recordingClock{Clock: clockwork.NewFakeClock(), ev: ev}

	table := CommandTable{3, 0x11, 0, 0x36, 1, 0x48, 0x29, 0}
	err := runCommandTable(tr, clk, table)
	require.ErrorIs(t, err, errBus)
	assert.Equal(t, []string{"cmd 11"}, ev.list)
}

func TestRunCommandTableRejectsMalformed(t *testing.T) {
	ev := &events{}
	tr := &recordingTransport{ev: ev}
	clk := &recordingClock{Clock: clockwork.NewFakeClock(), ev: ev}

	err := runCommandTable(tr, clk, CommandTable{2, 0x11, 0})
	require.Error(t, err)
	assert.Empty(t, ev.list, "nothing may be sent from a malformed table")
}

type genRecord struct {
	op    byte
	args  []byte
	delay *byte
}

func recordGen() *rapid.Generator[genRecord] {
	return rapid.Custom(func(t *rapid.T) genRecord {
		r := genRecord{
			op:   rapid.Byte().Draw(t, "op"),
			args: rapid.SliceOfN(rapid.Byte(), 0, 127).Draw(t, "args"),
		}
		if rapid.Bool().Draw(t, "hasDelay") {
			d := rapid.Byte().Draw(t, "delay")
			r.delay = &d
		}
		return r
	})
}

// TestPropertyCommandTableConsumesExactly checks that decoding an encoded
// table yields the same records and accounts for every byte.
func TestPropertyCommandTableConsumesExactly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		recs := rapid.SliceOfN(recordGen(), 0, 20).Draw(t, "records")

		table := CommandTable{byte(len(recs))}
		for _, r := range recs {
			count := byte(len(r.args))
			if r.delay != nil {
				count |= tableDelay
			}
			table = append(table, r.op, count)
			table = append(table, r.args...)
			if r.delay != nil {
				table = append(table, *r.delay)
			}
		}

		cmds, err := table.Commands()
		if err != nil {
			t.Fatalf("Commands() error = %v", err)
		}
		if len(cmds) != len(recs) {
			t.Fatalf("decoded %d records, want %d", len(cmds), len(recs))
		}
		for i, r := range recs {
			c := cmds[i]
			if c.Op != r.op || len(c.Args) != len(r.args) {
				t.Fatalf("record %d = %+v, want op %#x with %d args", i, c, r.op, len(r.args))
			}
			for j := range r.args {
				if c.Args[j] != r.args[j] {
					t.Fatalf("record %d arg %d = %#x, want %#x", i, j, c.Args[j], r.args[j])
				}
			}
			want := time.Duration(0)
			if r.delay != nil {
				want = time.Duration(*r.delay) * time.Millisecond
				if *r.delay == 255 {
					want = 500 * time.Millisecond
				}
			}
			if c.Delay != want || c.HasDelay != (r.delay != nil) {
				t.Fatalf("record %d delay = %v (flag %t), want %v", i, c.Delay, c.HasDelay, want)
			}
		}
		if got := recordBytes(cmds); got != len(table) {
			t.Fatalf("records account for %d bytes, table has %d", got, len(table))
		}

		// Dropping the last byte must always be detected.
		if len(recs) > 0 {
			if err := table[:len(table)-1].Validate(); err == nil {
				t.Fatalf("truncated table validated")
			}
		}
	})
}
