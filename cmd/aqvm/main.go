package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/aqlang/aq-runtime/bytecode"
	"github.com/aqlang/aq-runtime/errors"
	"github.com/aqlang/aq-runtime/runtime"
)

// Exit codes shared with other AQ embedders.
const (
	exitUsage    = -1
	exitOpen     = -2
	exitBadMagic = -3
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive inspector (step through the program)")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: aqvm [-i] [-v] <bytecode-file>")
		os.Exit(exitUsage)
	}
	file := flag.Arg(0)

	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			runtime.SetLogger(l)
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open file %s: %v\n", file, err)
		os.Exit(exitOpen)
	}

	rt := runtime.New()
	if err := rt.RegisterFunc("print", runtime.Print(os.Stdout)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	inst, err := rt.Load(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindBadMagic}) {
			os.Exit(exitBadMagic)
		}
		os.Exit(exitOpen)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		img, _ := bytecode.ParseImage(data)
		if err := runInteractive(inst, img, file); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := inst.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
