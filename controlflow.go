package main

// Control-flow compiling words. Real Forth systems compile IF/THEN/BEGIN/
// DO and friends out of ?branch/branch plus plain HERE/,/! arithmetic, and
// the "compile-time stack" they thread orig/dest addresses through is just
// the ordinary parameter stack -- these words run interpretively (that's
// what IMMEDIATE means) while another definition is mid-compile, so they
// can push and pop vm.ps exactly like any other word. CamelForth ports
// that count every byte put this set in the primitive kernel rather than
// bootstrapping it from source text; this implementation follows that and
// keeps kernel.go for the higher-level word set built on top of it.
const (
	pIf = numAllPrimitives + iota
	pThen
	pElse
	pBegin
	pUntil
	pAgain
	pWhile
	pRepeat
	pDo
	pQDo
	pLoop
	pPlusLoop
	pLeave
	pRecurse
	pPostpone
	pBracketTick
	pCompileComma
	pXQDo

	numCompilerPrimitives
)

var controlFlowNames = map[Cell]string{
	pIf:            "IF",
	pThen:          "THEN",
	pElse:          "ELSE",
	pBegin:         "BEGIN",
	pUntil:         "UNTIL",
	pAgain:         "AGAIN",
	pWhile:         "WHILE",
	pRepeat:        "REPEAT",
	pDo:            "DO",
	pQDo:           "?DO",
	pLoop:          "LOOP",
	pPlusLoop:      "+LOOP",
	pLeave:         "LEAVE",
	pRecurse:       "RECURSE",
	pPostpone:      "POSTPONE",
	pBracketTick:   "[']",
	pCompileComma:  "COMPILE,",
	pXQDo:          "(?DO)",
}

var controlFlowTable = map[Cell]func(vm *VM){
	pIf:           (*VM).cfIf,
	pThen:         (*VM).cfThen,
	pElse:         (*VM).cfElse,
	pBegin:        (*VM).cfBegin,
	pUntil:        (*VM).cfUntil,
	pAgain:        (*VM).cfAgain,
	pWhile:        (*VM).cfWhile,
	pRepeat:       (*VM).cfRepeat,
	pDo:           (*VM).cfDo,
	pQDo:          (*VM).cfQDo,
	pLoop:         (*VM).cfLoop,
	pPlusLoop:     (*VM).cfPlusLoop,
	pLeave:        (*VM).cfLeave,
	pRecurse:      (*VM).cfRecurse,
	pPostpone:     (*VM).cfPostpone,
	pBracketTick:  (*VM).cfBracketTick,
	pCompileComma: (*VM).cfCompileComma,
	pXQDo:         (*VM).pXQDoFn,
}

func (vm *VM) compileControlFlow() {
	for code := Cell(numAllPrimitives); code < numCompilerPrimitives; code++ {
		h := vm.header(controlFlowNames[code], code)
		vm.setImmediate(h)
	}
}

// ,branch compiles xt followed by a zero placeholder offset cell, and
// returns the placeholder's address (an "orig", in ANS terms) for later
// resolution by resolveBranch.
func (vm *VM) compileBranch(xt Cell) uint {
	vm.comma(xt)
	orig := vm.here()
	vm.comma(0)
	return orig
}

// resolveBranch patches the placeholder at orig so the branch there lands
// on target, using the cell-relative-to-the-offset-cell-itself convention
// that primitives.go's pBranch/pQBranch use.
func (vm *VM) resolveBranch(orig uint, target uint) {
	vm.data.cStorAt(orig, Cell(target)-Cell(orig))
}

func (vm *VM) cfIf() { vm.ps.push(Cell(vm.compileBranch(vm.primXT(pQBranch)))) }

func (vm *VM) cfThen() {
	orig := uint(vm.ps.pop())
	vm.resolveBranch(orig, vm.here())
}

func (vm *VM) cfElse() {
	orig1 := uint(vm.ps.pop())
	orig2 := vm.compileBranch(vm.primXT(pBranch))
	vm.resolveBranch(orig1, vm.here())
	vm.ps.push(Cell(orig2))
}

func (vm *VM) cfBegin() { vm.ps.push(Cell(vm.here())) }

func (vm *VM) cfUntil() {
	dest := uint(vm.ps.pop())
	vm.comma(vm.primXT(pQBranch))
	here := vm.here()
	vm.comma(Cell(dest) - Cell(here))
}

func (vm *VM) cfAgain() {
	dest := uint(vm.ps.pop())
	vm.comma(vm.primXT(pBranch))
	here := vm.here()
	vm.comma(Cell(dest) - Cell(here))
}

func (vm *VM) cfWhile() {
	dest := vm.ps.pop()
	orig := vm.compileBranch(vm.primXT(pQBranch))
	vm.ps.push(Cell(orig))
	vm.ps.push(dest)
}

func (vm *VM) cfRepeat() {
	dest := uint(vm.ps.pop())
	orig := uint(vm.ps.pop())
	vm.comma(vm.primXT(pBranch))
	here := vm.here()
	vm.comma(Cell(dest) - Cell(here))
	vm.resolveBranch(orig, vm.here())
}

// leaveMark is a sentinel pushed onto the leave stack by DO/?DO so LOOP
// knows where its own LEAVE fixups start.
const leaveMark Cell = -1

func (vm *VM) cfDo() {
	vm.comma(vm.primXT(pXDo))
	vm.ls.push(leaveMark)
	vm.ps.push(Cell(vm.here()))
}

// cfQDo differs from cfDo by compiling a runtime start=limit test ((?do))
// followed by a ?branch that skips straight to after LOOP/+LOOP, so that
// "0 0 ?DO ... LOOP" runs zero times instead of wrapping all the way
// around the index's 32-bit range like a bare DO would.
func (vm *VM) cfQDo() {
	vm.comma(vm.primXT(pXQDo))
	orig := vm.compileBranch(vm.primXT(pQBranch))
	vm.ls.push(leaveMark)
	vm.ls.push(Cell(orig))
	vm.ps.push(Cell(vm.here()))
}

func (vm *VM) pXQDoFn() {
	start := vm.ps.pop()
	limit := vm.ps.pop()
	if start == limit {
		vm.ps.push(0)
		return
	}
	vm.rs.push(limit)
	vm.rs.push(start)
	vm.ps.push(Cell(-1))
}

func (vm *VM) cfLoop() {
	dest := uint(vm.ps.pop())
	vm.comma(vm.primXT(pXLoop))
	here := vm.here()
	vm.comma(Cell(dest) - Cell(here))
	vm.resolveLeaves()
}

func (vm *VM) cfPlusLoop() {
	dest := uint(vm.ps.pop())
	vm.comma(vm.primXT(pXPlusLoop))
	here := vm.here()
	vm.comma(Cell(dest) - Cell(here))
	vm.resolveLeaves()
}

func (vm *VM) resolveLeaves() {
	target := vm.here()
	for {
		orig := vm.ls.pop()
		if orig == leaveMark {
			break
		}
		vm.resolveBranch(uint(orig), target)
	}
}

// cfLeave compiles an UNLOOP before its branch: LEAVE's jump lands past
// LOOP/+LOOP's own runtime word entirely, so it has to drop the loop's
// limit/index pair off the return stack itself instead of relying on the
// loop-exit path that it is skipping over.
func (vm *VM) cfLeave() {
	vm.comma(vm.primXT(pUnloop))
	orig := vm.compileBranch(vm.primXT(pBranch))
	vm.ls.push(Cell(orig))
}

// cfRecurse compiles a direct call to the word currently being defined
// (uNEWEST), letting a colon definition call itself before REVEAL makes
// its name visible to FIND.
func (vm *VM) cfRecurse() {
	w := uint(vm.userGet(uNEWEST))
	vm.comma(Cell(w + cfaOffset))
}

// cfPostpone compiles the compile-time behavior of the following word: if
// it is IMMEDIATE, its xt is compiled to run now (deferred to be compiled
// itself, i.e. its xt is appended as a call); otherwise its xt is simply
// compiled the way COMPILE, always does. This collapses ANS's separate
// immediate/non-immediate POSTPONE cases into one, since every word this
// VM can name is reached by address either way.
func (vm *VM) cfPostpone() {
	name := vm.scanWord()
	w, _, ok := vm.find(name)
	if !ok {
		vm.halt(wordNotFoundError(name))
	}
	vm.comma(Cell(w + cfaOffset))
}

func (vm *VM) cfBracketTick() {
	name := vm.scanWord()
	w, _, ok := vm.find(name)
	if !ok {
		vm.halt(wordNotFoundError(name))
	}
	vm.comma(vm.primXT(pLit))
	vm.comma(Cell(w + cfaOffset))
}

// cfCompileComma is COMPILE, ( xt -- ): append a call to xt into the
// definition under construction.
func (vm *VM) cfCompileComma() { vm.comma(vm.ps.pop()) }
