package main

import (
	"fmt"
	"io"
	"strconv"
)

// vmDumper renders a snapshot of the VM's data space for the -dump CLI flag
// and the diagnostic-only DUMP word, adapted from gothird's dumper.go to
// this VM's header layout (link/nfa/flags/cfa, see dict.go) instead of
// gothird's single-word vmCode scheme.
type vmDumper struct {
	vm  *VM
	out io.Writer

	addrWidth int
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  here: %v  latest: %v\n", dump.vm.here(), dump.vm.latest())

	dump.dumpStacks()
	dump.dumpDict()
}

func (dump *vmDumper) dumpStacks() {
	fmt.Fprintf(dump.out, "  ps: %v\n", dump.vm.ps.values())
	fmt.Fprintf(dump.out, "  rs: %v\n", dump.vm.rs.values())
}

func (dump *vmDumper) dumpDict() {
	if dump.addrWidth == 0 {
		dump.addrWidth = len(strconv.Itoa(int(dump.vm.here()))) + 1
	}

	var words []uint
	for w := dump.vm.latest(); w != 0; w = uint(dump.vm.data.load(w + lfaOffset)) {
		words = append(words, w)
	}

	fmt.Fprintf(dump.out, "# Dictionary (newest first)\n")
	for _, w := range words {
		name := dump.vm.string(uint(dump.vm.data.load(w + nfaOffset)))
		flags := dump.vm.data.load(w + flagsOffset)
		tag := dump.vm.data.load(w + cfaOffset)

		fmt.Fprintf(dump.out, "  @% *v : %-16s cfa=%v", dump.addrWidth, w, name, tag)
		if flags&flagImmediate != 0 {
			fmt.Fprint(dump.out, " immediate")
		}
		if flags&flagHidden != 0 {
			fmt.Fprint(dump.out, " hidden")
		}
		fmt.Fprintln(dump.out)
	}

	fmt.Fprintf(dump.out, "# Data Space [0,%v)\n", dump.vm.here())
	dump.dumpMem()
}

func (dump *vmDumper) dumpMem() {
	const perLine = 8
	here := dump.vm.here()
	for addr := uint(0); addr < here; addr += perLine {
		fmt.Fprintf(dump.out, "  @% *v ", dump.addrWidth, addr)
		for i := uint(0); i < perLine && addr+i < here; i++ {
			fmt.Fprintf(dump.out, "%v ", dump.vm.data.load(addr+i))
		}
		fmt.Fprintln(dump.out)
	}
}
