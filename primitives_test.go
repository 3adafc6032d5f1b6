package main

import "testing"

func TestStackAndArithmeticPrimitives(t *testing.T) {
	for _, tc := range []vmTestCase{
		{
			name:   "rot and over",
			source: `1 2 3 ROT . . .`,
			expect: "1 3 2 ",
		},
		{
			name:   "over duplicates the second item",
			source: `1 2 OVER . . .`,
			expect: "1 2 1 ",
		},
		{
			name:   "question-dup only duplicates a nonzero top",
			source: `0 ?DUP . 5 ?DUP . .`,
			expect: "0 5 5 ",
		},
		{
			name:   "to-r and r-from round-trip through the return stack",
			source: `42 >R 1 2 + R> + .`,
			expect: "45 ",
		},
		{
			name:   "um-star multiplies into a double and um-slash-mod divides back",
			source: `6 7 UM* 6 UM/MOD . .`,
			expect: "7 0 ",
		},
		{
			name:   "unsigned comparisons treat negative cells as large",
			source: `-1 1 U> .`,
			expect: "-1 ",
		},
		{
			name:   "invert and and/or/xor",
			source: `5 3 AND . 5 3 OR . 5 3 XOR . 0 INVERT 0= .`,
			expect: "1 7 6 0 ",
		},
		{
			name:   "fetch and store round-trip through a variable",
			source: `VARIABLE X  77 X !  X @ .`,
			expect: "77 ",
		},
		{
			name:   "depth reports the parameter stack height",
			source: `1 2 3 DEPTH .`,
			expect: "3 ",
		},
		{
			name:   "hex prints and decimal restores base 10",
			source: `HEX FF . DECIMAL BASE @ .`,
			expect: "FF 10 ",
		},
	} {
		t.Run(tc.name, tc.run)
	}
}
