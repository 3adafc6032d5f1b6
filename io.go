package main

import (
	"io"
	"strings"

	"github.com/wa1tnr/camelforth-rp2040-a/internal/fileinput"
	"github.com/wa1tnr/camelforth-rp2040-a/internal/flushio"
	"github.com/wa1tnr/camelforth-rp2040-a/internal/runeio"
)

// ioCore is the VM's character-I/O port: a queue of input sources (the
// bootstrap kernel text, then whatever the caller supplies -- typically
// stdin) feeding KEY/WORD/PARSE, and a flush-before-block output writer
// feeding EMIT/TYPE. Grounded on gothird's Core/ioCore, generalized to
// name the Forth-visible operations it backs instead of FIRST's.
type ioCore struct {
	fileinput.Input
	out     flushio.WriteFlusher
	closers []io.Closer
}

func (ioc *ioCore) Close() (err error) {
	for i := len(ioc.closers) - 1; i >= 0; i-- {
		if cerr := ioc.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// readRune blocks for the next input rune, flushing pending output first so
// a REPL prompt is always visible before the terminal blocks on read.
func (vm *VM) readRune() (rune, error) {
	if vm.out != nil {
		if err := vm.out.Flush(); err != nil {
			return 0, err
		}
	}
	r, _, err := vm.Input.ReadRune()
	for r == 0 && err == nil {
		r, _, err = vm.Input.ReadRune()
	}
	return r, err
}

func (vm *VM) writeRune(r rune) error {
	_, err := runeio.WriteANSIRune(vm.out, r)
	return err
}

// keyReady reports whether a subsequent KEY is expected to return
// immediately. Go's io.Reader offers no portable non-blocking peek, so this
// is a best-effort approximation: true while further input sources are
// queued behind the current one. Input still unread in the current source
// is not counted, so it reports false while the last source is being read.
func (vm *VM) keyReady() bool {
	return len(vm.Input.Queue) > 0
}

// scanWord reads and returns the next blank-delimited token from input,
// skipping leading whitespace/control characters -- this is CamelForth's
// WORD, implemented natively (like gothird's scan()) rather than through
// the textual bootstrap, since it is the one primitive the rest of the
// text interpreter depends on to get off the ground.
//
// It also records, in vm.atLineEnd, whether the delimiter that closed the
// token was a newline (or EOF) -- QUIT uses this to know when a line's
// worth of input has actually been drained, so it can print its "ok "
// prompt once per line rather than once per word.
func (vm *VM) scanWord() string {
	vm.atLineEnd = false
	var sb strings.Builder
	for {
		r, err := vm.readRune()
		if err != nil {
			vm.halt(err)
		}
		if !isSpaceOrControl(r) {
			sb.WriteRune(r)
			break
		}
	}
	for {
		r, err := vm.readRune()
		if err == io.EOF {
			vm.atLineEnd = true
			break
		} else if err != nil {
			vm.halt(err)
		} else if isSpaceOrControl(r) {
			if r == '\n' {
				vm.atLineEnd = true
			}
			break
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isSpaceOrControl(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r < 0x20
}
