package main

import (
	"fmt"
	"strings"
)

// logging provides the VM's TRACE hook, unchanged in shape from gothird's
// core.go logging type: a nil-able logfn, and a logf helper that left-pads
// the leading "mark" column so trace output lines up.
type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
