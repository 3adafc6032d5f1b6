package main

import (
	"io"
	"strings"
)

// kernelText is the standard library built on top of the native
// primitives: numeric output, a handful of double/cell conveniences, and
// VALUE/TO. Everything that has to reach into dictionary
// internals directly (',', CREATE, DOES>, IF/THEN, QUIT...) is a native
// primitive instead (see compiler.go, controlflow.go, textinterp.go);
// this text is ordinary Forth, exactly the way CamelForth's own fbase.frt
// layers its high-level words over a small assembly kernel.
const kernelText = `
32 CONSTANT BL
: SPACE  BL EMIT ;
: SPACES  ( n -- )  0 ?DO SPACE LOOP ;
: CR  10 EMIT ;
: NOT  0= ;
: 0>  0 > ;
: 0<>  0= NOT ;
: CELLS  ;
: CELL+  1+ ;
: CHARS  ;
: CHAR+  1+ ;
: 2DUP  OVER OVER ;
: 2DROP  DROP DROP ;
: 2SWAP  ROT >R ROT R> ;
: 2OVER  >R >R 2DUP R> R> 2SWAP ;
: MIN  2DUP > IF SWAP THEN DROP ;
: MAX  2DUP < IF SWAP THEN DROP ;
: ABS  DUP 0< IF NEGATE THEN ;
: DECIMAL  10 BASE ! ;
: HEX  16 BASE ! ;

: <#  HOLD-END HP ! ;
: HOLD  ( char -- )  HP @ 1- DUP HP ! C! ;
: #  ( u -- u' )
  0 BASE @ UM/MOD  ( rem quot )
  SWAP DUP 9 > IF 7 + THEN 48 + HOLD
;
: #S  ( u -- 0 )  BEGIN # DUP 0= UNTIL ;
: SIGN  ( n -- )  0< IF 45 HOLD THEN ;
: #>  ( u -- c-addr u )  DROP HP @ HOLD-END OVER - ;
: U.  ( u -- )  <# #S #> TYPE SPACE ;
: .  ( n -- )  DUP 0< IF 45 EMIT NEGATE THEN U. ;

: VALUE  ( n "name" -- )  CONSTANT ;
: TO  ( n "name" -- )  ' >BODY !  ;

: RECURSIVE  ( -- )  REVEAL ;

: ALIGNED  ;
: ALIGN  ;
`

// kernelSource wraps the bootstrap text as a named io.Reader, so
// fileinput.Input's nameOf sees "<kernel>" as the source of every line it
// reads from -- pQuitPrim's "ok " prompt uses that name to stay silent
// while the kernel itself is loading.
type kernelSource struct{ *strings.Reader }

func (kernelSource) Name() string { return "<kernel>" }

func (kernelSource) newReader() kernelSource {
	return kernelSource{strings.NewReader(kernelText)}
}

// bootstrap splices the kernel's source text in front of whatever input
// the caller supplied, so QUIT sees it first regardless of how the VM was
// constructed -- New(...).Run(ctx) alone is enough to get a working
// system, the same guarantee gothird's thirdKernel gives FIRST/THIRD.
func (vm *VM) bootstrap() {
	var ks kernelSource
	vm.Queue = append([]io.Reader{ks.newReader()}, vm.Queue...)
}
