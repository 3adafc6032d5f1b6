package main

// Dictionary-building primitives. CamelForth's assembly kernel implements
// exactly this set (,  C,  ALLOT  HERE  '  WORD  FIND  COUNT  TYPE  :  ;
// CREATE  DOES>  VARIABLE  CONSTANT  USER  IMMEDIATE  HIDE  REVEAL) in
// machine code rather than bootstrapped Forth, because they reach into
// dictionary internals (header layout, DP, LATEST) that a higher-level
// colon definition has no business touching directly. Control flow
// (controlflow.go) and the text interpreter (textinterp.go) are native as
// well; the rest of the standard library, such as numeric output, is
// ordinary Forth text fed in by kernel.go.
const (
	pComma = numPrimitives + iota
	pCComma
	pAllot
	pHere
	pTick
	pWord
	pFind
	pCount
	pType
	pColon
	pSemi
	pCreate
	pDoes
	pVariable
	pConstant
	pUser
	pImmediate
	pHide
	pReveal
	pLeftBracket
	pRightBracket
	pLiteral
	pToBody
	pLatest
	pState
	pBase
	pDepth
	pHP
	pWords
	pMarker

	numAllPrimitives
)

// extraPrimitiveNames covers the indices above numPrimitives; compileExtras
// lays their headers down the same way compilePrimitives does for the
// CamelForth-enumerated set.
var extraPrimitiveNames = map[Cell]string{
	pComma:       ",",
	pCComma:      "C,",
	pAllot:       "ALLOT",
	pHere:        "HERE",
	pTick:        "'",
	pWord:        "WORD",
	pFind:        "FIND",
	pCount:       "COUNT",
	pType:        "TYPE",
	pColon:       ":",
	pSemi:        ";",
	pCreate:      "CREATE",
	pDoes:        "DOES>",
	pVariable:    "VARIABLE",
	pConstant:    "CONSTANT",
	pUser:        "USER",
	pImmediate:   "IMMEDIATE",
	pHide:        "HIDE",
	pReveal:      "REVEAL",
	pLeftBracket: "[",
	pRightBracket: "]",
	pLiteral:     "LITERAL",
	pToBody:      ">BODY",
	pLatest:      "LATEST",
	pState:       "STATE",
	pBase:        "BASE",
	pDepth:       "DEPTH",
	pHP:          "HP",
	pWords:       "WORDS",
	pMarker:      "MARKER",
}

var extraPrimitiveTable = map[Cell]func(vm *VM){
	pComma:        (*VM).pComma,
	pCComma:       (*VM).pComma,
	pAllot:        (*VM).pAllot,
	pHere:         (*VM).pHerePrim,
	pTick:         (*VM).pTickPrim,
	pWord:         (*VM).pWordPrim,
	pFind:         (*VM).pFindPrim,
	pCount:        (*VM).pCount,
	pType:         (*VM).pType,
	pColon:        (*VM).pColon,
	pSemi:         (*VM).pSemi,
	pCreate:       (*VM).pCreatePrim,
	pDoes:         (*VM).pDoesPrim,
	pVariable:     (*VM).pVariablePrim,
	pConstant:     (*VM).pConstantPrim,
	pUser:         (*VM).pUserPrim,
	pImmediate:    (*VM).pImmediatePrim,
	pHide:         (*VM).pHidePrim,
	pReveal:       (*VM).pRevealPrim,
	pLeftBracket:  (*VM).pLeftBracket,
	pRightBracket: (*VM).pRightBracket,
	pLiteral:      (*VM).pLiteralPrim,
	pToBody:       (*VM).pToBodyPrim,
	pLatest:       (*VM).pLatestPrim,
	pState:        (*VM).pStatePrim,
	pBase:         (*VM).pBasePrim,
	pDepth:        (*VM).pDepthPrim,
	pHP:           (*VM).pHPPrim,
	pWords:        (*VM).pWordsPrim,
	pMarker:       (*VM).pMarkerPrim,
}

// immediateExtras names the extra words that must run at compile time
// rather than be compiled into the word under construction.
var immediateExtras = map[Cell]bool{
	pSemi:         true,
	pLeftBracket:  true,
	pRightBracket: true,
	pLiteral:      true,
}

func (vm *VM) compileExtras() {
	for code := Cell(numPrimitives); code < numAllPrimitives; code++ {
		h := vm.header(extraPrimitiveNames[code], code)
		if immediateExtras[code] {
			vm.setImmediate(h)
		}
	}
}

func (vm *VM) pComma()  { vm.data.cStorAt(vm.here(), vm.ps.pop()); vm.setHere(vm.here() + 1) }
func (vm *VM) pAllot()  { vm.setHere(uint(Cell(vm.here()) + vm.ps.pop())) }
func (vm *VM) pHerePrim() { vm.ps.push(Cell(vm.here())) }

func (vm *VM) pTickPrim() {
	name := vm.scanWord()
	addr, _, ok := vm.find(name)
	if !ok {
		vm.halt(wordNotFoundError(name))
	}
	vm.ps.push(Cell(addr + cfaOffset))
}

// pWordPrim scans the next blank-delimited token and lays it down as a
// counted string (length cell, then one cell per character) in PAD,
// returning PAD's address -- CamelForth's WORD. The delimiter argument is
// popped to match ANS's ( char "<chars>ccc<char>" -- c-addr ) stack effect,
// but otherwise ignored: scanWord always treats whitespace as the delimiter.
func (vm *VM) pWordPrim() {
	vm.ps.pop()
	w := vm.scanWord()
	addr := uint(padBase)
	vm.data.cStorAt(addr, Cell(len(w)))
	for i, r := range []rune(w) {
		vm.data.cStorAt(addr+1+uint(i), Cell(r))
	}
	vm.ps.push(Cell(addr))
}

func (vm *VM) pCount() {
	addr := uint(vm.ps.pop())
	n := vm.data.cCellAt(addr)
	vm.ps.push(Cell(addr + 1))
	vm.ps.push(n)
}

func (vm *VM) countedString(addr uint) string {
	n := int(vm.data.cCellAt(addr))
	rs := make([]rune, n)
	for i := 0; i < n; i++ {
		rs[i] = rune(vm.data.cCellAt(addr + 1 + uint(i)))
	}
	return string(rs)
}

func (vm *VM) pFindPrim() {
	addr := uint(vm.ps.pop())
	name := vm.countedString(addr)
	w, immediate, ok := vm.find(name)
	if !ok {
		vm.ps.push(Cell(addr))
		vm.ps.push(0)
		return
	}
	vm.ps.push(Cell(w + cfaOffset))
	if immediate {
		vm.ps.push(1)
	} else {
		vm.ps.push(-1)
	}
}

func (vm *VM) pType() {
	n := int(vm.ps.pop())
	addr := uint(vm.ps.pop())
	for i := 0; i < n; i++ {
		if err := vm.writeRune(rune(vm.data.cCellAt(addr + uint(i)))); err != nil {
			vm.halt(err)
		}
	}
}

// pColon implements ":": scan the new word's name, lay down its header as
// kindEnter, and hide it from FIND until ";" reveals it -- a colon
// definition is invisible to recursive lookups of its own (unqualified)
// name until the closing ";"; RECURSE reaches it through NEWEST instead.
func (vm *VM) pColon() {
	name := vm.scanWord()
	h := vm.header(name, kindEnter)
	vm.hide(h)
	vm.userSet(uSTATE, -1)
}

func (vm *VM) pSemi() {
	vm.comma(vm.primXT(pExit))
	vm.reveal(vm.newest())
	vm.userSet(uSTATE, 0)
}

// pCreatePrim implements "CREATE name": same header shape as a variable,
// but with no payload cell of its own -- the defining word that called
// CREATE is responsible for laying down whatever follows.
func (vm *VM) pCreatePrim() {
	name := vm.scanWord()
	vm.header(name, kindDocreate)
}

// pDoesPrim is DOES>'s run-time action, compiled like any ordinary word
// into the defining word that contains it (e.g. "CREATE ... DOES> ...").
// By the time it runs, vm.ip already points just past DOES>'s own cell --
// exactly the body of Forth code that should run whenever the word CREATEd
// earlier is later invoked. It rewrites that word's code field to
// kindDobuilds with this address as its DOES-xt, then unwinds out of the
// defining word's own invocation via EXIT, the classic CREATE/DOES>
// two-stage trick (see dict.go's kindDobuilds case in execXT).
func (vm *VM) pDoesPrim() {
	doesXT := vm.ip
	w := vm.newest()
	vm.data.cStorAt(w+cfaOffset, kindDobuilds)
	vm.data.cStorAt(w+cfaOffset+1, Cell(doesXT))
	vm.ip = uint(vm.rs.pop())
}

func (vm *VM) pVariablePrim() {
	name := vm.scanWord()
	vm.header(name, kindDovar)
	vm.comma(0)
}

func (vm *VM) pConstantPrim() {
	v := vm.ps.pop()
	name := vm.scanWord()
	vm.header(name, kindDocon)
	vm.comma(v)
}

// pUserPrim implements "n USER name": name becomes a DOUSER word whose
// body cell holds the user-variable index n (see vm.go's uXXX constants);
// since userBase is 0 the index doubles as the address DOUSER pushes.
func (vm *VM) pUserPrim() {
	idx := vm.ps.pop()
	name := vm.scanWord()
	vm.header(name, kindDouser)
	vm.comma(idx)
}

func (vm *VM) pImmediatePrim() { vm.setImmediate(vm.newest()) }
func (vm *VM) pHidePrim()      { vm.hide(vm.newest()) }
func (vm *VM) pRevealPrim()    { vm.reveal(vm.newest()) }

func (vm *VM) pLeftBracket()  { vm.userSet(uSTATE, 0) }
func (vm *VM) pRightBracket() { vm.userSet(uSTATE, -1) }

// pLiteralPrim is IMMEDIATE: while compiling, "name LITERAL" compiles the
// number currently on the stack as a LIT followed by its value.
func (vm *VM) pLiteralPrim() {
	v := vm.ps.pop()
	vm.comma(vm.primXT(pLit))
	vm.comma(v)
}

func (vm *VM) pToBodyPrim() { vm.ps.push(Cell(vm.toBody(uint(vm.ps.pop())))) }
func (vm *VM) pLatestPrim() { vm.ps.push(Cell(vm.latest() + cfaOffset)) }
func (vm *VM) pStatePrim()  { vm.ps.push(Cell(uSTATE)) }
func (vm *VM) pBasePrim()   { vm.ps.push(Cell(uBASE)) }
func (vm *VM) pDepthPrim()  { vm.ps.push(Cell(vm.ps.depth())) }
func (vm *VM) pHPPrim()     { vm.ps.push(Cell(uHP)) }

// pWordsPrim lists every visible (non-hidden) word, newest first, for
// interactive exploration -- a diagnostic, not part of the tested
// contract.
func (vm *VM) pWordsPrim() {
	n := 0
	for w := vm.latest(); w != 0; w = uint(vm.data.load(w + lfaOffset)) {
		if vm.data.load(w+flagsOffset)&flagHidden != 0 {
			continue
		}
		name := vm.string(uint(vm.data.load(w + nfaOffset)))
		for _, r := range name {
			vm.writeRune(r)
		}
		vm.writeRune(' ')
		n++
		if n%8 == 0 {
			vm.writeRune('\n')
		}
	}
	vm.writeRune('\n')
}

// pMarkerPrim implements "MARKER name": the new word remembers HERE and
// LATEST as they stood just before it was created, so executing it later
// forgets every definition made since -- including MARKER's own entry.
func (vm *VM) pMarkerPrim() {
	savedHere := Cell(vm.here())
	savedLatest := Cell(vm.latest())
	name := vm.scanWord()
	vm.header(name, kindMarker)
	vm.comma(savedHere)
	vm.comma(savedLatest)
}
