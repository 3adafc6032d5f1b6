package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vmTestCase runs a chunk of Forth source through a fresh VM and asserts on
// its stdout, mirroring gothird's vmTestCase builder (now gone, see
// DESIGN.md's "Deleted teacher files") but rebuilt against this VM's
// cold-start/QUIT-driven run loop instead of FIRST/THIRD's opcode program.
type vmTestCase struct {
	name   string
	source string
	expect string
	trace  bool
}

func (tc vmTestCase) run(t *testing.T) {
	t.Helper()
	var out bytes.Buffer
	var opts []VMOption
	if tc.trace {
		opts = append(opts, WithLogf(func(mess string, args ...interface{}) {
			t.Logf(mess, args...)
		}))
	}
	vm := New(append(opts,
		WithInput(strings.NewReader(tc.source+" BYE")),
		WithOutput(&out),
	)...)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := vm.Run(ctx)
	require.NoError(t, err, "output so far: %q", out.String())
	assert.Equal(t, tc.expect, out.String())
}

func TestVMScenarios(t *testing.T) {
	for _, tc := range []vmTestCase{
		{
			name:   "arithmetic and dot",
			source: `2 3 + .`,
			expect: "5 ",
		},
		{
			name:   "stack shuffling",
			source: `1 2 SWAP - .`,
			expect: "1 ",
		},
		{
			name:   "colon definition",
			source: `: SQUARE DUP * ; 7 SQUARE .`,
			expect: "49 ",
		},
		{
			name:   "if/then/else both arms",
			source: `: SIGNUM DUP 0< IF DROP -1 ELSE 0> IF 1 ELSE 0 THEN THEN ; -5 SIGNUM . 0 SIGNUM . 5 SIGNUM .`,
			expect: "-1 0 1 ",
		},
		{
			name:   "do loop sums 0..4",
			source: `: SUM5 0 5 0 DO I + LOOP ;  SUM5 .`,
			expect: "10 ",
		},
		{
			name:   "?do with empty range does not wrap",
			source: `: NOOP0 0 0 ?DO I . LOOP ;  NOOP0  123 .`,
			expect: "123 ",
		},
		{
			name:   "begin until countdown",
			source: `: CDOWN BEGIN DUP . 1- DUP 0= UNTIL DROP ;  3 CDOWN`,
			expect: "3 2 1 ",
		},
		{
			name:   "variable and fetch/store",
			source: `VARIABLE V  42 V !  V @ .`,
			expect: "42 ",
		},
		{
			name:   "constant",
			source: `100 CONSTANT HUNDRED  HUNDRED .`,
			expect: "100 ",
		},
		{
			name:   "create/does> building a simple array-like word",
			source: `: ARR CREATE , DOES> @ ;  5 ARR FIVE  FIVE .`,
			expect: "5 ",
		},
		{
			name:   "dot-quote prints literal text",
			source: `." hello"`,
			expect: "hello",
		},
		{
			name:   "s-quote plus type",
			source: `: GREET S" hi" TYPE ;  GREET`,
			expect: "hi",
		},
		{
			name:   "recurse computes factorial",
			source: `: FACT DUP 1 > IF DUP 1- RECURSE * THEN ;  5 FACT .`,
			expect: "120 ",
		},
		{
			name:   "leave exits loop early",
			source: `: FIND3 10 0 DO I 3 = IF I LEAVE THEN LOOP ;  FIND3 .`,
			expect: "3 ",
		},
	} {
		t.Run(tc.name, tc.run)
	}
}
