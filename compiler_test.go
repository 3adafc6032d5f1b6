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

func TestDictionaryBuildingWords(t *testing.T) {
	for _, tc := range []vmTestCase{
		{
			name:   "marker forgets everything defined after it",
			source: `: FOO 1 ;  MARKER FORGET-FOO  : FOO 2 ;  FORGET-FOO  FOO .`,
			expect: "1 ",
		},
		{
			name:   "tick and execute run a looked-up word",
			source: `5 ' DUP EXECUTE + .`,
			expect: "10 ",
		},
		{
			name:   "to-body reaches a variable's storage cell",
			source: `VARIABLE W  1 W !  ' W >BODY @ .`,
			expect: "1 ",
		},
		{
			name:   "value and to update a named cell",
			source: `0 VALUE COUNTER  5 TO COUNTER  COUNTER .`,
			expect: "5 ",
		},
		{
			name:   "word and count round-trip a scanned token",
			source: `: FIRSTCHAR BL WORD COUNT DROP C@ ;  FIRSTCHAR ABC  EMIT`,
			expect: "A",
		},
	} {
		t.Run(tc.name, tc.run)
	}
}

func TestWordsListsDefinedWords(t *testing.T) {
	var out bytes.Buffer
	vm := New(
		WithInput(strings.NewReader(`WORDS BYE`)),
		WithOutput(&out),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, vm.Run(ctx))
	assert.Contains(t, out.String(), "DUP")
	assert.Contains(t, out.String(), "SWAP")
}
