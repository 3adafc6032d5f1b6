package main

import (
	"fmt"
)

// Primitive indices, in the order CamelForth-in-C's forth.c lists its
// CODE(...) functions (see original_source/.../forth.c). ENTER is
// deliberately not among them -- it is a code-field kind (dict.go), not a
// callable primitive, since a colon definition has no Go function body.
const (
	pExit = iota
	pExecute
	pLit
	pDup
	pQDup
	pDrop
	pSwap
	pOver
	pRot
	pNip
	pTuck
	pToR
	pRFrom
	pRFetch
	pSPFetch
	pSPStore
	pRPFetch
	pRPStore
	pFetch
	pStore
	pCFetch
	pCStore
	pPlus
	pPlusStore
	pMPlus
	pMinus
	pMult
	pDiv
	pAnd
	pOr
	pXor
	pInvert
	pNegate
	pOnePlus
	pOneMinus
	pSwapBytes
	pTwoStar
	pTwoSlash
	pLShift
	pRShift
	pZeroEqual
	pZeroLess
	pEqual
	pNotEqual
	pLess
	pGreater
	pULess
	pUGreater
	pBranch
	pQBranch
	pXPlusLoop
	pXLoop
	pXDo
	pI
	pJ
	pUnloop
	pUMStar
	pUMSlashMod
	pFill
	pCMove
	pCMoveUp
	pSkip
	pScan
	pSEqual
	pKey
	pEmit
	pKeyQ
	pDot
	pDotHH
	pDotHHHH
	pDotS
	pDump
	pBye

	numPrimitives
)

var primitiveNames = [numPrimitives]string{
	pExit: "EXIT", pExecute: "EXECUTE", pLit: "LIT",
	pDup: "DUP", pQDup: "?DUP", pDrop: "DROP", pSwap: "SWAP", pOver: "OVER",
	pRot: "ROT", pNip: "NIP", pTuck: "TUCK",
	pToR: ">R", pRFrom: "R>", pRFetch: "R@",
	pSPFetch: "SP@", pSPStore: "SP!", pRPFetch: "RP@", pRPStore: "RP!",
	pFetch: "@", pStore: "!", pCFetch: "C@", pCStore: "C!",
	pPlus: "+", pPlusStore: "+!", pMPlus: "M+", pMinus: "-", pMult: "*", pDiv: "/",
	pAnd: "AND", pOr: "OR", pXor: "XOR", pInvert: "INVERT", pNegate: "NEGATE",
	pOnePlus: "1+", pOneMinus: "1-", pSwapBytes: "><",
	pTwoStar: "2*", pTwoSlash: "2/", pLShift: "LSHIFT", pRShift: "RSHIFT",
	pZeroEqual: "0=", pZeroLess: "0<", pEqual: "=", pNotEqual: "<>",
	pLess: "<", pGreater: ">", pULess: "U<", pUGreater: "U>",
	pBranch: "BRANCH", pQBranch: "?BRANCH",
	pXPlusLoop: "(+LOOP)", pXLoop: "(LOOP)", pXDo: "(DO)",
	pI: "I", pJ: "J", pUnloop: "UNLOOP",
	pUMStar: "UM*", pUMSlashMod: "UM/MOD",
	pFill: "FILL", pCMove: "CMOVE", pCMoveUp: "CMOVE>",
	pSkip: "SKIP", pScan: "SCAN", pSEqual: "S=",
	pKey: "KEY", pEmit: "EMIT", pKeyQ: "KEY?",
	pDot: ".", pDotHH: ".HH", pDotHHHH: ".HHHH", pDotS: ".S", pDump: "DUMP",
	pBye: "BYE",
}

var primitiveTable [numPrimitives]func(vm *VM)

func init() {
	primitiveTable = [numPrimitives]func(vm *VM){
		pExit:    (*VM).pExit,
		pExecute: (*VM).pExecute,
		pLit:     (*VM).pLit,
		pDup:     (*VM).pDup,
		pQDup:    (*VM).pQDup,
		pDrop:    (*VM).pDrop,
		pSwap:    (*VM).pSwap,
		pOver:    (*VM).pOver,
		pRot:     (*VM).pRot,
		pNip:     (*VM).pNip,
		pTuck:    (*VM).pTuck,
		pToR:     (*VM).pToR,
		pRFrom:   (*VM).pRFrom,
		pRFetch:  (*VM).pRFetch,
		pSPFetch: (*VM).pSPFetch,
		pSPStore: (*VM).pSPStore,
		pRPFetch: (*VM).pRPFetch,
		pRPStore: (*VM).pRPStore,
		pFetch:   (*VM).pFetch,
		pStore:   (*VM).pStore,
		pCFetch:  (*VM).pFetch,  // cells are the addressable unit; see DESIGN.md
		pCStore:  (*VM).pStore,
		pPlus:      (*VM).pPlus,
		pPlusStore: (*VM).pPlusStore,
		pMPlus:     (*VM).pMPlus,
		pMinus:     (*VM).pMinus,
		pMult:      (*VM).pMult,
		pDiv:       (*VM).pDiv,
		pAnd:       (*VM).pAnd,
		pOr:        (*VM).pOr,
		pXor:       (*VM).pXor,
		pInvert:    (*VM).pInvert,
		pNegate:    (*VM).pNegate,
		pOnePlus:   (*VM).pOnePlus,
		pOneMinus:  (*VM).pOneMinus,
		pSwapBytes: (*VM).pSwapBytes,
		pTwoStar:   (*VM).pTwoStar,
		pTwoSlash:  (*VM).pTwoSlash,
		pLShift:    (*VM).pLShift,
		pRShift:    (*VM).pRShift,
		pZeroEqual: (*VM).pZeroEqual,
		pZeroLess:  (*VM).pZeroLess,
		pEqual:     (*VM).pEqual,
		pNotEqual:  (*VM).pNotEqual,
		pLess:      (*VM).pLess,
		pGreater:   (*VM).pGreater,
		pULess:     (*VM).pULess,
		pUGreater:  (*VM).pUGreater,
		pBranch:    (*VM).pBranch,
		pQBranch:   (*VM).pQBranch,
		pXPlusLoop: (*VM).pXPlusLoop,
		pXLoop:     (*VM).pXLoop,
		pXDo:       (*VM).pXDo,
		pI:         (*VM).pI,
		pJ:         (*VM).pJ,
		pUnloop:    (*VM).pUnloop,
		pUMStar:     (*VM).pUMStar,
		pUMSlashMod: (*VM).pUMSlashMod,
		pFill:    (*VM).pFill,
		pCMove:   (*VM).pCMove,
		pCMoveUp: (*VM).pCMoveUp,
		pSkip:    (*VM).pSkip,
		pScan:    (*VM).pScan,
		pSEqual:  (*VM).pSEqual,
		pKey:     (*VM).pKey,
		pEmit:    (*VM).pEmit,
		pKeyQ:    (*VM).pKeyQ,
		pDot:      (*VM).pDot,
		pDotHH:    (*VM).pDotHH,
		pDotHHHH:  (*VM).pDotHHHH,
		pDotS:     (*VM).pDotS,
		pDump:     (*VM).pDump,
		pBye:      (*VM).pBye,
	}
}

// compilePrimitives lays down a dictionary header for every native
// primitive so that FIND/WORD/the text interpreter can reach them by name,
// exactly as gothird's compileBuiltins does for its much smaller word set.
func (vm *VM) compilePrimitives() {
	for code := Cell(0); code < Cell(numPrimitives); code++ {
		vm.header(primitiveNames[code], code)
	}
}

// -- stack manipulation --

func (vm *VM) pExit() { vm.ip = uint(vm.rs.pop()) }

func (vm *VM) pExecute() { vm.execXT(uint(vm.ps.pop())) }

func (vm *VM) pLit() {
	vm.ps.push(vm.data.load(vm.ip))
	vm.ip++
}

func (vm *VM) pDup()  { vm.ps.push(vm.ps.top()) }
func (vm *VM) pQDup() { if v := vm.ps.top(); v != 0 { vm.ps.push(v) } }
func (vm *VM) pDrop() { vm.ps.pop() }
func (vm *VM) pSwap() { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(b); vm.ps.push(a) }
func (vm *VM) pOver() { vm.ps.push(vm.ps.pick(1)) }
func (vm *VM) pRot() {
	c, b, a := vm.ps.pop(), vm.ps.pop(), vm.ps.pop()
	vm.ps.push(b)
	vm.ps.push(c)
	vm.ps.push(a)
}
func (vm *VM) pNip()  { b := vm.ps.pop(); vm.ps.pop(); vm.ps.push(b) }
func (vm *VM) pTuck() { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(b); vm.ps.push(a); vm.ps.push(b) }

func (vm *VM) pToR()    { vm.rs.push(vm.ps.pop()) }
func (vm *VM) pRFrom()  { vm.ps.push(vm.rs.pop()) }
func (vm *VM) pRFetch() { vm.ps.push(vm.rs.top()) }

// SP@/SP!/RP@/RP! work in terms of stack depth rather than a literal data-
// space address, since the parameter/return stacks are Go slices, not
// cell-addressed memory; see DESIGN.md.
func (vm *VM) pSPFetch() { vm.ps.push(Cell(vm.ps.depth())) }
func (vm *VM) pSPStore() {
	n := int(vm.ps.pop())
	if n < 0 {
		n = 0
	}
	if n < len(vm.ps.s) {
		vm.ps.s = vm.ps.s[:n]
	}
}
func (vm *VM) pRPFetch() { vm.ps.push(Cell(vm.rs.depth())) }
func (vm *VM) pRPStore() {
	n := int(vm.ps.pop())
	if n < 0 {
		n = 0
	}
	if n < len(vm.rs.s) {
		vm.rs.s = vm.rs.s[:n]
	}
}

// -- memory --

func (vm *VM) pFetch() { vm.ps.push(vm.data.cCellAt(uint(vm.ps.pop()))) }
func (vm *VM) pStore() {
	addr := uint(vm.ps.pop())
	vm.data.cStorAt(addr, vm.ps.pop())
}

// -- arithmetic / logic --

func (vm *VM) pPlus()  { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(a + b) }
func (vm *VM) pPlusStore() {
	addr := uint(vm.ps.pop())
	n := vm.ps.pop()
	vm.data.cStorAt(addr, vm.data.cCellAt(addr)+n)
}
func (vm *VM) pMPlus() {
	n := vm.ps.pop()
	hi, lo := vm.ps.pop(), vm.ps.pop()
	d := int64(hi)<<32 | int64(uint32(lo))
	d += int64(n)
	vm.ps.push(Cell(uint32(d)))
	vm.ps.push(Cell(d >> 32))
}
func (vm *VM) pMinus() { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(a - b) }
func (vm *VM) pMult()  { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(a * b) }
func (vm *VM) pDiv()   { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(a / b) }
func (vm *VM) pAnd()   { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(a & b) }
func (vm *VM) pOr()    { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(a | b) }
func (vm *VM) pXor()   { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(a ^ b) }
func (vm *VM) pInvert() { vm.ps.push(^vm.ps.pop()) }
func (vm *VM) pNegate() { vm.ps.push(-vm.ps.pop()) }
func (vm *VM) pOnePlus()  { vm.ps.push(vm.ps.pop() + 1) }
func (vm *VM) pOneMinus() { vm.ps.push(vm.ps.pop() - 1) }
func (vm *VM) pSwapBytes() {
	u := asUint32(vm.ps.pop())
	vm.ps.push(fromUint32(u<<8&0xff00ff00 | u>>8&0x00ff00ff))
}
func (vm *VM) pTwoStar()  { vm.ps.push(vm.ps.pop() << 1) }
func (vm *VM) pTwoSlash() { vm.ps.push(vm.ps.pop() >> 1) }
func (vm *VM) pLShift() {
	n := uint(vm.ps.pop())
	vm.ps.push(fromUint32(asUint32(vm.ps.pop()) << n))
}
func (vm *VM) pRShift() {
	n := uint(vm.ps.pop())
	vm.ps.push(fromUint32(asUint32(vm.ps.pop()) >> n))
}

func (vm *VM) pZeroEqual() { vm.ps.push(boolCell(vm.ps.pop() == 0)) }
func (vm *VM) pZeroLess()  { vm.ps.push(boolCell(vm.ps.pop() < 0)) }
func (vm *VM) pEqual()     { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(boolCell(a == b)) }
func (vm *VM) pNotEqual()  { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(boolCell(a != b)) }
func (vm *VM) pLess()      { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(boolCell(a < b)) }
func (vm *VM) pGreater()   { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(boolCell(a > b)) }
func (vm *VM) pULess()     { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(boolCell(asUint32(a) < asUint32(b))) }
func (vm *VM) pUGreater()  { b, a := vm.ps.pop(), vm.ps.pop(); vm.ps.push(boolCell(asUint32(a) > asUint32(b))) }

// -- branching / looping --

func (vm *VM) pBranch() {
	offset := vm.data.load(vm.ip)
	vm.ip = uint(Cell(vm.ip) + offset)
}
func (vm *VM) pQBranch() {
	if vm.ps.pop() == 0 {
		vm.pBranch()
	} else {
		vm.ip++
	}
}

func (vm *VM) pXDo() {
	start, limit := vm.ps.pop(), vm.ps.pop()
	vm.rs.push(limit)
	vm.rs.push(start)
}

func (vm *VM) pXLoop() {
	idx := vm.rs.pop() + 1
	limit := vm.rs.pop()
	if idx == limit {
		vm.ip++
		return
	}
	vm.rs.push(limit)
	vm.rs.push(idx)
	vm.pBranch()
}

func (vm *VM) pXPlusLoop() {
	n := vm.ps.pop()
	idx := vm.rs.pop()
	limit := vm.rs.pop()
	newIdx := idx + n
	var done bool
	if n >= 0 {
		done = idx < limit && newIdx >= limit
	} else {
		done = idx >= limit && newIdx < limit
	}
	if done {
		vm.ip++
		return
	}
	vm.rs.push(limit)
	vm.rs.push(newIdx)
	vm.pBranch()
}

func (vm *VM) pI() { vm.ps.push(vm.rs.pick(0)) }
func (vm *VM) pJ() { vm.ps.push(vm.rs.pick(2)) }
func (vm *VM) pUnloop() {
	vm.rs.pop()
	vm.rs.pop()
}

// -- double-cell --

func (vm *VM) pUMStar() {
	b, a := vm.ps.pop(), vm.ps.pop()
	p := uint64(asUint32(a)) * uint64(asUint32(b))
	vm.ps.push(fromUint32(uint32(p)))
	vm.ps.push(fromUint32(uint32(p >> 32)))
}

func (vm *VM) pUMSlashMod() {
	u := asUint32(vm.ps.pop())
	hi, lo := asUint32(vm.ps.pop()), asUint32(vm.ps.pop())
	ud := uint64(hi)<<32 | uint64(lo)
	if u == 0 {
		vm.halt(fmt.Errorf("UM/MOD divide by zero"))
	}
	q, r := ud/uint64(u), ud%uint64(u)
	vm.ps.push(fromUint32(uint32(r)))
	vm.ps.push(fromUint32(uint32(q)))
}

// -- block / string --

func (vm *VM) pFill() {
	ch := vm.ps.pop()
	count := int(vm.ps.pop())
	addr := uint(vm.ps.pop())
	for i := 0; i < count; i++ {
		vm.data.cStorAt(addr+uint(i), ch)
	}
}

func (vm *VM) pCMove() {
	count := int(vm.ps.pop())
	dst := uint(vm.ps.pop())
	src := uint(vm.ps.pop())
	for i := 0; i < count; i++ {
		vm.data.cStorAt(dst+uint(i), vm.data.cCellAt(src+uint(i)))
	}
}

func (vm *VM) pCMoveUp() {
	count := int(vm.ps.pop())
	dst := uint(vm.ps.pop())
	src := uint(vm.ps.pop())
	for i := count - 1; i >= 0; i-- {
		vm.data.cStorAt(dst+uint(i), vm.data.cCellAt(src+uint(i)))
	}
}

func (vm *VM) pSkip() {
	ch := vm.ps.pop()
	count := int(vm.ps.pop())
	addr := uint(vm.ps.pop())
	for count > 0 && vm.data.cCellAt(addr) == ch {
		addr++
		count--
	}
	vm.ps.push(Cell(addr))
	vm.ps.push(Cell(count))
}

func (vm *VM) pScan() {
	ch := vm.ps.pop()
	count := int(vm.ps.pop())
	addr := uint(vm.ps.pop())
	for count > 0 && vm.data.cCellAt(addr) != ch {
		addr++
		count--
	}
	vm.ps.push(Cell(addr))
	vm.ps.push(Cell(count))
}

func (vm *VM) pSEqual() {
	len2 := int(vm.ps.pop())
	addr2 := uint(vm.ps.pop())
	len1 := int(vm.ps.pop())
	addr1 := uint(vm.ps.pop())
	eq := len1 == len2
	for i := 0; eq && i < len1; i++ {
		eq = vm.data.cCellAt(addr1+uint(i)) == vm.data.cCellAt(addr2+uint(i))
	}
	vm.ps.push(boolCell(eq))
}

// -- terminal I/O --

func (vm *VM) pKey() {
	r, err := vm.readRune()
	if err != nil {
		vm.halt(err)
	}
	vm.ps.push(Cell(r))
}

func (vm *VM) pEmit() {
	if err := vm.writeRune(rune(vm.ps.pop())); err != nil {
		vm.halt(err)
	}
}

func (vm *VM) pKeyQ() { vm.ps.push(boolCell(vm.keyReady())) }

// -- diagnostics (not part of the testable contract; see SPEC_FULL.md) --

func (vm *VM) pDot() {
	fmt.Fprintf(vm.out, "%d ", vm.ps.pop())
}
func (vm *VM) pDotHH() {
	fmt.Fprintf(vm.out, "%02x ", uint8(vm.ps.pop()))
}
func (vm *VM) pDotHHHH() {
	fmt.Fprintf(vm.out, "%08x ", asUint32(vm.ps.pop()))
}
func (vm *VM) pDotS() {
	fmt.Fprintf(vm.out, "%v ", vm.ps.values())
}
func (vm *VM) pDump() {
	vmDumper{vm: vm, out: vm.out}.dump()
}

func (vm *VM) pBye() { vm.halt(errByte) }
