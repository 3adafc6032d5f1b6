/*
Command camelforth-rp2040-a is a self-hosted Forth system: a direct-threaded
inner interpreter, a dictionary/defining-word layer, and a text
interpreter/compiler, modeled on the CamelForth reference kernel.

The standard library above the native primitives is not hand-built into the
dictionary -- it is literal Forth source text (kernel.go) fed through the
system's own text interpreter at cold start, the same bootstrapping trick
as FIRST/THIRD's thirdKernel.
*/
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/wa1tnr/camelforth-rp2040-a/internal/logio"
)

func main() {
	var (
		memLimit uint
		timeout  time.Duration
		trace    bool
		dump     bool
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "enable memory limit (cells)")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable TRACE logging of the inner interpreter")
	flag.BoolVar(&dump, "dump", false, "print a dictionary/memory dump after execution")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	var opts []VMOption
	if trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}

	vm := New(append(opts,
		WithMemLimit(memLimit),
		WithInput(os.Stdin),
		WithOutput(os.Stdout),
	)...)

	if dump {
		lw := &logio.Writer{Logf: log.Leveledf("DUMP")}
		defer lw.Close()
		defer vmDumper{vm: vm, out: lw}.dump()
	}

	defer log.Unwrap()

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log.ErrorIf(vm.Run(ctx))
}
