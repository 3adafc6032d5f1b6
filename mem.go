package main

import (
	"errors"

	"github.com/wa1tnr/camelforth-rp2040-a/internal/mem"
)

// dataSpace is the VM's addressable memory: the dictionary, all user
// variables, PAD/HOLD, and every CREATEd body live here as a flat,
// growable space of Cells addressed by cell index (never by Go pointer).
// It is grounded on gothird's internal/mem.Ints paged core: addresses are
// plain integers, loads past the allocated high-water mark read back as 0,
// and stores lazily grow the backing pages -- there is no static RAM/ROM
// split, resolving the spec's Open Question that way (see DESIGN.md).
type dataSpace struct {
	mem.Ints
}

var errOOM = errors.New("dictionary space exhausted")

func (d *dataSpace) load(addr uint) Cell {
	v, err := d.Load(addr)
	if err != nil {
		panic(haltError{err})
	}
	return Cell(v)
}

func (d *dataSpace) loadInto(addr uint, buf []int) {
	if err := d.LoadInto(addr, buf); err != nil {
		panic(haltError{err})
	}
}

func (d *dataSpace) stor(addr uint, val Cell) {
	if err := d.Stor(addr, int(val)); err != nil {
		panic(haltError{errOOM})
	}
}

func (d *dataSpace) storMany(addr uint, vals ...Cell) {
	ivals := make([]int, len(vals))
	for i, v := range vals {
		ivals[i] = int(v)
	}
	if err := d.Stor(addr, ivals...); err != nil {
		panic(haltError{errOOM})
	}
}

// cCellAt/cStorAt name the two primitives @ and ! in CamelForth terms: a
// cell fetch/store at a cell address, with no byte-level aliasing.
func (d *dataSpace) cCellAt(addr uint) Cell    { return d.load(addr) }
func (d *dataSpace) cStorAt(addr uint, v Cell) { d.stor(addr, v) }

type memLimitError = mem.LimitError
