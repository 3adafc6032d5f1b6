package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// The outer text interpreter. Real CamelForth targets implement QUIT,
// INTERPRET, NUMBER? and ABORT natively rather than bootstrapping them from
// Forth source, precisely because QUIT's loop is what makes bootstrapped
// source text runnable in the first place -- a QUIT written in Forth would
// need a QUIT already running to compile it. kernel.go's text therefore
// builds only on top of this native loop: numeric output, VALUE/TO, and
// small stack and arithmetic conveniences.
const (
	pQuit = numCompilerPrimitives + iota
	pAbort
	pAbortQuote
	pAbortQuoteRun
	pDotQuote
	pDotQuoteRun
	pSQuote
	pSQuoteRun
	pEvaluate
	pChar
	pBracketChar
	pParen
	pBackslash

	numTextPrimitives
)

var textPrimitiveNames = map[Cell]string{
	pQuit:          "QUIT",
	pAbort:         "ABORT",
	pAbortQuote:    `ABORT"`,
	pAbortQuoteRun: "(abort\")",
	pDotQuote:      `."`,
	pDotQuoteRun:   `(.")`,
	pSQuote:        `S"`,
	pSQuoteRun:     `(s")`,
	pEvaluate:      "EVALUATE",
	pChar:          "CHAR",
	pBracketChar:   "[CHAR]",
	pParen:         "(",
	pBackslash:     "\\",
}

var textPrimitiveTable = map[Cell]func(vm *VM){
	pQuit:          (*VM).pQuitPrim,
	pAbort:         (*VM).pAbortPrim,
	pAbortQuote:    (*VM).cfAbortQuote,
	pAbortQuoteRun: (*VM).pAbortQuoteRunFn,
	pDotQuote:      (*VM).cfDotQuote,
	pDotQuoteRun:   (*VM).pDotQuoteRunFn,
	pSQuote:        (*VM).cfSQuote,
	pSQuoteRun:     (*VM).pSQuoteRunFn,
	pEvaluate:      (*VM).pEvaluatePrim,
	pChar:          (*VM).pCharPrim,
	pBracketChar:   (*VM).cfBracketChar,
	pParen:         (*VM).pParenComment,
	pBackslash:     (*VM).pBackslashComment,
}

var textImmediate = map[Cell]bool{
	pAbortQuote:  true,
	pDotQuote:    true,
	pSQuote:      true,
	pBracketChar: true,
	pParen:       true,
	pBackslash:   true,
}

func (vm *VM) compileTextInterp() {
	for code := Cell(numCompilerPrimitives); code < numTextPrimitives; code++ {
		h := vm.header(textPrimitiveNames[code], code)
		if textImmediate[code] {
			vm.setImmediate(h)
		}
	}
}

// pQuitPrim is the REPL: read a word, interpret or compile it, and on any
// non-fatal error print a message and keep going with clear stacks -- the
// classic ABORT discipline. BYE and end-of-input unwind past this loop
// instead of being swallowed, so the process actually exits.
func (vm *VM) pQuitPrim() {
	vm.rs.reset()
	vm.userSet(uSTATE, 0)
	for {
		vm.interpretOneSafely()
	}
}

func (vm *VM) interpretOneSafely() {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		he, ok := r.(haltError)
		if !ok {
			panic(r)
		}
		if errors.Is(he.error, errByte) || errors.Is(he.error, io.EOF) {
			panic(r)
		}
		if !errors.Is(he.error, errAbortQuoteFired) {
			fmt.Fprintf(vm.out, "%v\n", he.error)
		}
		vm.ps.reset()
		vm.rs.reset()
		vm.userSet(uSTATE, 0)
	}()
	name := vm.scanWord()
	if name == "" {
		return
	}
	vm.interpretWord(name)
	// The "ok " prompt marks the end of a line's worth of interpreted
	// input, and only while interpreting -- a line ending mid-definition
	// gets no prompt, matching a real Forth console's feedback. The
	// kernel's own bootstrap text is loaded through this same loop but
	// never prompts, since nothing is listening on a console yet.
	if vm.atLineEnd && vm.userGet(uSTATE) == 0 && vm.Input.Last.Name != "<kernel>" {
		for _, r := range "ok " {
			if err := vm.writeRune(r); err != nil {
				vm.halt(err)
			}
		}
	}
}

// interpretWord is INTERPRET's per-token decision: execute immediately
// while interpreting (STATE=0) or for any IMMEDIATE word, otherwise append
// a call; numbers follow the same execute-or-compile-as-literal split.
func (vm *VM) interpretWord(name string) {
	if w, immediate, ok := vm.find(name); ok {
		xt := w + cfaOffset
		if vm.userGet(uSTATE) == 0 || immediate {
			vm.execXT(xt)
		} else {
			vm.comma(Cell(xt))
		}
		return
	}
	n, ok := vm.parseNumber(name)
	if !ok {
		vm.halt(wordNotFoundError(name))
	}
	if vm.userGet(uSTATE) == 0 {
		vm.ps.push(n)
	} else {
		vm.comma(vm.primXT(pLit))
		vm.comma(n)
	}
}

func (vm *VM) parseNumber(s string) (Cell, bool) {
	if s == "" {
		return 0, false
	}
	base := int(vm.userGet(uBASE))
	neg := false
	i := 0
	if s[0] == '-' && len(s) > 1 {
		neg = true
		i = 1
	}
	var n int64
	for ; i < len(s); i++ {
		d, ok := digitValue(rune(s[i]), base)
		if !ok {
			return 0, false
		}
		n = n*int64(base) + int64(d)
	}
	if neg {
		n = -n
	}
	return Cell(n), true
}

func digitValue(r rune, base int) (int, bool) {
	var d int
	switch {
	case r >= '0' && r <= '9':
		d = int(r - '0')
	case r >= 'A' && r <= 'Z':
		d = int(r-'A') + 10
	case r >= 'a' && r <= 'z':
		d = int(r-'a') + 10
	default:
		return 0, false
	}
	if d >= base {
		return 0, false
	}
	return d, true
}

func (vm *VM) pAbortPrim() {
	vm.ps.reset()
	vm.rs.reset()
	vm.userSet(uSTATE, 0)
}

// scanQuoted reads runes up to (and consuming) the next '"', skipping
// exactly one leading delimiter space -- ANS's `ccc"` parsing convention
// for ."/S"/ABORT".
func (vm *VM) scanQuoted() string {
	var sb strings.Builder
	r, err := vm.readRune()
	if err == nil && r == ' ' {
		r, err = vm.readRune()
	}
	for err == nil && r != '"' {
		sb.WriteRune(r)
		r, err = vm.readRune()
	}
	if err != nil {
		vm.halt(err)
	}
	return sb.String()
}

// compileQuotedString lays down a branch-around, a counted string (format
// matching compiler.go's countedString), and returns the string's address
// -- the common shape shared by ."/S"/ABORT"'s compile-time halves.
func (vm *VM) compileQuotedString(s string) uint {
	orig := vm.compileBranch(vm.primXT(pBranch))
	addr := vm.here()
	vm.comma(Cell(len([]rune(s))))
	for _, r := range s {
		vm.comma(Cell(r))
	}
	vm.resolveBranch(orig, vm.here())
	return addr
}

func (vm *VM) cfAbortQuote() {
	addr := vm.compileQuotedString(vm.scanQuoted())
	vm.comma(vm.primXT(pLit))
	vm.comma(Cell(addr))
	vm.comma(vm.primXT(pAbortQuoteRun))
}

// errAbortQuoteFired marks a halt already fully handled (message printed,
// stacks cleared) by pAbortQuoteRunFn -- interpretOneSafely's recovery
// must not print anything more for it, just resume the QUIT loop.
var errAbortQuoteFired = errors.New("")

func (vm *VM) pAbortQuoteRunFn() {
	addr := uint(vm.ps.pop())
	flag := vm.ps.pop()
	if flag == 0 {
		return
	}
	for _, r := range vm.countedString(addr) {
		if err := vm.writeRune(r); err != nil {
			vm.halt(err)
		}
	}
	vm.writeRune('\n')
	vm.ps.reset()
	vm.rs.reset()
	vm.userSet(uSTATE, 0)
	// ABORT" unwinds like ABORT all the way back to QUIT's loop, not just
	// back to the caller -- the rest of the current definition (and
	// anything that called it) never runs.
	vm.halt(errAbortQuoteFired)
}

// cfDotQuote has both interpretation and compilation semantics, like ANS's
// ."  : while interpreting it prints the text straight away, and while
// compiling it lays down the branch-around/counted-string/print sequence
// that runs the same print later.
func (vm *VM) cfDotQuote() {
	s := vm.scanQuoted()
	if vm.userGet(uSTATE) == 0 {
		for _, r := range s {
			if err := vm.writeRune(r); err != nil {
				vm.halt(err)
			}
		}
		return
	}
	addr := vm.compileQuotedString(s)
	vm.comma(vm.primXT(pLit))
	vm.comma(Cell(addr))
	vm.comma(vm.primXT(pDotQuoteRun))
}

func (vm *VM) pDotQuoteRunFn() {
	addr := uint(vm.ps.pop())
	for _, r := range vm.countedString(addr) {
		if err := vm.writeRune(r); err != nil {
			vm.halt(err)
		}
	}
}

// cfSQuote also has both interpretation and compilation semantics: while
// interpreting, it lays the string down as a transient counted string in
// PAD and pushes its (c-addr, u) pair directly; while compiling, it defers
// that same work to run time via pSQuoteRunFn.
func (vm *VM) cfSQuote() {
	s := vm.scanQuoted()
	if vm.userGet(uSTATE) == 0 {
		addr := uint(padBase)
		vm.data.cStorAt(addr, Cell(len([]rune(s))))
		for i, r := range []rune(s) {
			vm.data.cStorAt(addr+1+uint(i), Cell(r))
		}
		vm.ps.push(Cell(addr + 1))
		vm.ps.push(Cell(len([]rune(s))))
		return
	}
	addr := vm.compileQuotedString(s)
	vm.comma(vm.primXT(pLit))
	vm.comma(Cell(addr))
	vm.comma(vm.primXT(pSQuoteRun))
}

// pSQuoteRunFn turns a counted-string address into the usual ( c-addr u )
// pair, with c-addr pointing at the first character cell (past the length
// cell COUNT would otherwise have to strip).
func (vm *VM) pSQuoteRunFn() {
	addr := uint(vm.ps.pop())
	n := vm.data.cCellAt(addr)
	vm.ps.push(Cell(addr + 1))
	vm.ps.push(n)
}

// pEvaluatePrim runs a string as Forth source by splicing it in front of
// the pending input queue: the next scanWord calls drain it before falling
// through to whatever was queued already. A simplified but faithful
// rendition of EVALUATE's "switch input source" semantics -- see
// DESIGN.md.
func (vm *VM) pEvaluatePrim() {
	n := int(vm.ps.pop())
	addr := uint(vm.ps.pop())
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteRune(rune(vm.data.cCellAt(addr + uint(i))))
	}
	vm.Queue = append([]io.Reader{strings.NewReader(sb.String() + " ")}, vm.Queue...)
}

func (vm *VM) pCharPrim() {
	name := vm.scanWord()
	if name == "" {
		vm.halt(errors.New("CHAR: missing name"))
	}
	vm.ps.push(Cell([]rune(name)[0]))
}

// pParenComment is "(": discard input up to and including the next ")",
// the same at compile time or interpret time -- a comment has no semantics
// beyond being skipped.
func (vm *VM) pParenComment() {
	for {
		r, err := vm.readRune()
		if err != nil || r == ')' {
			return
		}
	}
}

// pBackslashComment is "\": discard input to the end of the current line.
func (vm *VM) pBackslashComment() {
	for {
		r, err := vm.readRune()
		if err != nil || r == '\n' {
			return
		}
	}
}

func (vm *VM) cfBracketChar() {
	name := vm.scanWord()
	if name == "" {
		vm.halt(errors.New("[CHAR]: missing name"))
	}
	vm.comma(vm.primXT(pLit))
	vm.comma(Cell([]rune(name)[0]))
}
