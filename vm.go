package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wa1tnr/camelforth-rp2040-a/internal/panicerr"
)

// User variable indices. CamelForth keeps these in a small fixed vector so
// that Forth code can reach them with plain @ / ! once DOUSER hands back
// their address -- no extra primitives needed. Cells 0..31 of the data
// space ARE this vector (userBase is 0), per forth.h's USERSIZE=32.
const (
	uU0 = iota
	uTOIN    // >IN, offset into the current input line
	uBASE    // numeric I/O radix
	uSTATE   // 0 interpreting, -1 compiling
	uDP      // dictionary pointer (HERE)
	uSOURCE  // 'SOURCE, address of the current input buffer
	uLATEST  // most recently defined word (still hidden while its colon definition is open)
	uHP      // HOLD pointer, used by <# # #>
	uLP      // LEAVE-stack pointer (compile-time DO..LOOP bookkeeping)
	uNEWEST  // word currently being defined (pre-REVEAL), for RECURSE
	userSize = 32
)

const (
	padBase  = userSize       // 32
	padSize  = 84
	holdBase = padBase + padSize  // 116
	holdSize = 34
	dictBase = holdBase + holdSize // 150, where HERE starts
)

// VM implements the CamelForth-style inner interpreter: a direct-threaded
// dispatch loop over a flat Cell data space, a parameter stack, a return
// stack, and (at compile time only) a leave stack for DO..LOOP's LEAVE.
type VM struct {
	ioCore
	logging
	symbols

	data dataSpace

	ps cellStack
	rs cellStack
	ls cellStack

	ip uint // instruction pointer: address of the next xt to fetch

	memLimit uint

	atLineEnd bool // set by scanWord when the token's delimiter was a newline or EOF

	xtOf map[Cell]Cell // native primitive tag -> its dictionary xt, filled in by header()
}

// primXT returns the dictionary xt of a native primitive registered during
// cold start, given its internal tag constant. Compiled threads must store
// real xts: execXT dispatches on `tag := vm.data.load(xt)`, and a bare tag
// constant (0..~140) numerically collides with the low data-space
// addresses (user variables, PAD, HOLD) rather than any dictionary header,
// so every compile site that appends a call to a native primitive has to
// go through this instead of `Cell(pWhatever)` directly.
func (vm *VM) primXT(tag Cell) Cell {
	xt, ok := vm.xtOf[tag]
	if !ok {
		vm.halt(fmt.Errorf("primitive %v not yet registered", tag))
	}
	return xt
}

func New(opts ...VMOption) *VM {
	vm := &VM{
		ps: newCellStack("parameter", paramStackSize),
		rs: newCellStack("return", retStackSize),
		ls: newCellStack("leave", leaveStackSize),
	}
	defaultOptions.apply(vm)
	VMOptions(opts...).apply(vm)
	return vm
}

// Run drives the VM to completion, isolating it in its own goroutine so
// that a bad primitive's panic (or runtime.Goexit from a hostile test)
// comes back as a plain error instead of taking down the host process --
// the same isolation gothird's internal/panicerr provides for its VM.
func (vm *VM) Run(ctx context.Context) error {
	err := panicerr.Recover("VM", func() error {
		return vm.run(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, errByte) {
		return nil
	}
	var he haltError
	if errors.As(err, &he) {
		err = he.error
		if err == nil || errors.Is(err, errByte) {
			return nil
		}
	}
	return err
}

func (vm *VM) run(ctx context.Context) error {
	vm.cold()
	return vm.exec(ctx)
}

// cold performs CamelForth's COLD: lay down the data-space layout, compile
// every native primitive's header, then feed the bootstrap kernel source
// (the rest of the standard library, expressed as literal Forth text)
// in front of the live input queue, and hand control to the native QUIT
// loop, which interprets the kernel text first and the live input after it.
func (vm *VM) cold() {
	vm.userSet(uDP, dictBase)
	vm.userSet(uBASE, 10)
	vm.userSet(uSTATE, 0)
	vm.userSet(uTOIN, 0)
	vm.userSet(uLATEST, 0)
	vm.userSet(uNEWEST, 0)
	vm.userSet(uHP, holdBase+holdSize)

	vm.compilePrimitives()
	vm.compileExtras()
	vm.compileControlFlow()
	vm.compileTextInterp()
	vm.defineLayoutConstants()
	vm.bootstrap()

	entry, _, ok := vm.find("QUIT")
	if !ok {
		vm.halt(errors.New("QUIT missing from bootstrap kernel"))
	}
	vm.execXT(entry + cfaOffset)
}

// defineLayoutConstants exposes the fixed memory regions computed in Go
// (PAD, the end of the HOLD area) as ordinary Forth CONSTANTs, so
// kernel.go's numeric-output words don't need their own copies of these
// addresses.
func (vm *VM) defineLayoutConstants() {
	vm.header("PAD", kindDocon)
	vm.comma(Cell(padBase))
	vm.header("HOLD-END", kindDocon)
	vm.comma(Cell(holdBase + holdSize))
}

func (vm *VM) userGet(idx int) Cell   { return vm.data.load(uint(idx)) }
func (vm *VM) userSet(idx int, v Cell) { vm.data.cStorAt(uint(idx), v) }

// exec runs NEXT in a loop until ctx is done or a primitive halts the VM.
func (vm *VM) exec(ctx context.Context) error {
	for {
		vm.step()
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// step fetches the xt at ip, advances ip, and dispatches it: the NEXT of
// the inner interpreter (spec section 4.1).
func (vm *VM) step() {
	xt := uint(vm.data.load(vm.ip))
	vm.ip++
	if vm.logfn != nil {
		vm.logf(fmt.Sprintf("@%v", vm.ip-1), "%s r:%v s:%v", vm.codeName(xt), vm.rs.values(), vm.ps.values())
	}
	vm.execXT(xt)
}

// execXT performs one dispatch of the code-field sum type described in
// dict.go: PRIMITIVE calls straight into Go, ENTER pushes a return frame,
// transfers ip into the called word's body, and drives NEXT until that
// frame pops again so the call has fully run by the time execXT returns,
// and the DO-family runtime handlers push the appropriate address before
// (for DOBUILDS) chaining into the DOES> part.
func (vm *VM) execXT(xt uint) {
	tag := vm.data.load(xt)
	switch {
	case tag < Cell(numPrimitives):
		primitiveTable[tag](vm)
	case tag < Cell(numAllPrimitives):
		extraPrimitiveTable[tag](vm)
	case tag < Cell(numCompilerPrimitives):
		controlFlowTable[tag](vm)
	case tag < Cell(numTextPrimitives):
		textPrimitiveTable[tag](vm)
	case tag == kindEnter:
		// Entering a colon word's thread has to run it to completion right
		// here: callers outside the inner interpreter (QUIT's native
		// EXECUTE-style dispatch, EXECUTE itself) call execXT once and expect the word to have
		// finished by the time it returns, not merely for ip to have been
		// repointed at its body. Driving NEXT until the return-stack depth
		// this call pushed has unwound again gives every kindEnter
		// invocation that same run-to-completion behavior, however deep
		// the nesting of colon words calling colon words goes.
		depth := vm.rs.depth()
		vm.rs.push(Cell(vm.ip))
		vm.ip = xt + 1
		for vm.rs.depth() > depth {
			vm.step()
		}
	case tag == kindDocon:
		vm.ps.push(vm.data.load(xt + 1))
	case tag == kindDovar, tag == kindDocreate, tag == kindDorom:
		vm.ps.push(Cell(xt + 1))
	case tag == kindDouser:
		idx := vm.data.load(xt + 1)
		vm.ps.push(idx)
	case tag == kindDobuilds:
		// The stored DOES> address is the start of a thread inside the
		// defining word, not an xt, so it is run the way kindEnter runs a
		// body: push a return frame and drive NEXT until it pops again.
		vm.ps.push(Cell(xt + 2))
		depth := vm.rs.depth()
		vm.rs.push(Cell(vm.ip))
		vm.ip = uint(vm.data.load(xt + 1))
		for vm.rs.depth() > depth {
			vm.step()
		}
	case tag == kindMarker:
		// MARKER's payload holds the dictionary state as of just before it
		// was defined; executing it forgets every word defined since,
		// itself included.
		savedHere := uint(vm.data.load(xt + 1))
		savedLatest := uint(vm.data.load(xt + 2))
		vm.setHere(savedHere)
		vm.setLatest(savedLatest)
		vm.setNewest(savedLatest)
	default:
		vm.halt(fmt.Errorf("invalid code field tag %v @%v", tag, xt))
	}
}

func (vm *VM) halt(err error) {
	func() {
		defer func() { recover() }()
		if vm.out != nil {
			vm.out.Flush()
		}
	}()
	func() {
		defer func() { recover() }()
		vm.logf("#", "halt: %v", err)
	}()
	panic(haltError{err})
}
