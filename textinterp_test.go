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

func TestTextInterpreterWords(t *testing.T) {
	for _, tc := range []vmTestCase{
		{
			name:   "dot-quote prints interpretively",
			source: `." hello"`,
			expect: "hello",
		},
		{
			name:   "dot-quote compiled into a definition",
			source: `: GREET ." hi there" ;  GREET`,
			expect: "hi there",
		},
		{
			name:   "s-quote interpreted pushes an address and length",
			source: `S" ab" TYPE`,
			expect: "ab",
		},
		{
			name:   "char pushes the first letter of the next word",
			source: `CHAR A EMIT`,
			expect: "A",
		},
		{
			name:   "bracket-char compiles a literal character",
			source: `: STAR [CHAR] * EMIT ;  STAR`,
			expect: "*",
		},
		{
			name:   "abort-quote fires only when its flag is true",
			source: `: CHECK ( n -- )  0= ABORT" was zero" ." ok" ;  5 CHECK`,
			expect: "ok",
		},
		{
			name:   "evaluate runs a string as Forth source",
			source: `S" 3 4 + ." EVALUATE`,
			expect: "7 ",
		},
	} {
		t.Run(tc.name, tc.run)
	}
}

// ABORT" actually firing unwinds QUIT's loop and prints an error line, the
// ABORT discipline described in textinterp.go; that error text lands on
// the VM's output stream rather than becoming a Go error, so it is
// asserted with Contains instead of the exact-match harness.
func TestAbortQuoteFires(t *testing.T) {
	var out bytes.Buffer
	vm := New(
		WithInput(strings.NewReader(`: CHECK  0= ABORT" was zero" ." ok" ;  0 CHECK BYE`)),
		WithOutput(&out),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, vm.Run(ctx))
	assert.Contains(t, out.String(), "was zero")
}

func TestUndefinedWordReportsAndRecovers(t *testing.T) {
	var out bytes.Buffer
	vm := New(
		WithInput(strings.NewReader(`BOGUS-WORD 1 2 + . BYE`)),
		WithOutput(&out),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, vm.Run(ctx))
	assert.Contains(t, out.String(), "?")
	assert.Contains(t, out.String(), "3 ")
}

// An undefined word reports as the token immediately followed by "?" --
// no space -- then the interpreter recovers and keeps going on the same
// line.
func TestUndefinedWordWireFormat(t *testing.T) {
	var out bytes.Buffer
	vm := New(
		WithInput(strings.NewReader(`FOO 1 2 + . BYE`)),
		WithOutput(&out),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, vm.Run(ctx))
	assert.Equal(t, "FOO?\n3 ", out.String())
}
