package main

import "testing"

func TestControlFlowWords(t *testing.T) {
	for _, tc := range []vmTestCase{
		{
			name:   "while/repeat counts up to a limit",
			source: `: UPTO5 0 BEGIN DUP 5 < WHILE DUP . 1+ REPEAT DROP ;  UPTO5`,
			expect: "0 1 2 3 4 ",
		},
		{
			name:   "plus-loop with a step of two",
			source: `: EVENS 10 0 DO I . 2 +LOOP ;  EVENS`,
			expect: "0 2 4 6 8 ",
		},
		{
			name:   "nested do loops use I and J",
			source: `: PAIRS 2 0 DO 2 0 DO J I + . LOOP LOOP ;  PAIRS`,
			expect: "0 1 1 2 ",
		},
		{
			name:   "leave unwinds the loop control stack cleanly",
			source: `: UPTO10 10 0 DO I 4 = IF LEAVE THEN I . LOOP ;  UPTO10  : UPTO2 2 0 DO I . LOOP ;  UPTO2`,
			expect: "0 1 2 3 0 1 ",
		},
	} {
		t.Run(tc.name, tc.run)
	}
}
