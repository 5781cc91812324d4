// Command gi is the interpreter's command line front end: it reads a
// script (or standard input), runs it, and optionally renders its AST
// and/or CFG as graph-description text.
//
// teris-io/cli (the flag library this command is built on, grounded on
// the its-hmny-nand2tetris example repo's own cmd/ tree) exposes only
// long `--name` options in every pack example; there is no demonstrated
// short-flag facility to ground a literal `-A`/`-a`/... getopt surface
// on, so each flag below is named after its single letter and invoked
// as `--A`, `--a`, and so on — same semantics as the specification's
// short-flag table, spelled the way this library actually supports.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"github.com/mvezie/gi/dot"
	"github.com/mvezie/gi/interp"
)

const version = "gi 1.0.0"

var description = strings.ReplaceAll(`
gi interprets a small Go-like imperative language: source is scanned,
parsed into an AST, lowered to a control-flow graph and executed by
walking it, optionally through a JIT backend. With no script argument it
reads from standard input.
`, "\n", " ")

var app = cli.New(description).
	WithArg(cli.NewArg("inputs", "The script file to run, followed by its own arguments").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("A", "Write the AST as graph-description text to this file (- for stdout)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("a", "Print the AST graph description to standard output (no viewer is started)").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("C", "Write the CFG as graph-description text to this file (- for stdout)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("c", "Print the CFG graph description to standard output (no viewer is started)").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("n", "Compile only; do not execute").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("p", "Set the interpreter's Parallel option (used only by RunAll; a single script run is not affected)").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("v", "Trace each instruction during execution").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("V", "Print version and exit").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("x", "Execute via the JIT backend instead of the tree walk").
		WithType(cli.TypeBool)).
	WithAction(run)

func main() { os.Exit(app.Run(os.Args, os.Stdout)) }

func run(args []string, options map[string]string) int {
	if _, ok := options["V"]; ok {
		fmt.Println(version)
		return 0
	}

	var scriptPath string
	var scriptArgs []string
	if len(args) > 0 {
		scriptPath, scriptArgs = args[0], args[1:]
	}

	src, err := readSource(scriptPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gi:", err)
		return 1
	}

	_, noExec := options["n"]
	_, jit := options["x"]
	_, parallel := options["p"]
	_, trace := options["v"]

	i := interp.New(interp.Options{
		Args:     scriptArgs,
		JIT:      jit,
		Parallel: parallel,
		Trace:    trace,
	})

	if noExec {
		if err := compileOnly(i, src); err != nil {
			fmt.Fprintln(os.Stderr, "gi:", err)
			return 1
		}
	} else if _, err := i.Eval(src); err != nil {
		fmt.Fprintln(os.Stderr, "gi:", err)
		return 1
	}

	if astPath, ok := options["A"]; ok {
		if err := writeGraph(astPath, dot.AST(i.LastAST())); err != nil {
			fmt.Fprintln(os.Stderr, "gi:", err)
			return 1
		}
	}
	if cfgPath, ok := options["C"]; ok {
		if err := writeGraph(cfgPath, dot.CFG(i.LastAST(), i.Entries())); err != nil {
			fmt.Fprintln(os.Stderr, "gi:", err)
			return 1
		}
	}
	if _, ok := options["a"]; ok {
		pipeToViewer(dot.AST(i.LastAST()))
	}
	if _, ok := options["c"]; ok {
		pipeToViewer(dot.CFG(i.LastAST(), i.Entries()))
	}

	return 0
}

// compileOnly parses and lowers src without running it, so -A/-C still
// have a tree to render under -n.
func compileOnly(i *interp.Interpreter, src string) error {
	_, err := i.Parse(src)
	return err
}

func readSource(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func writeGraph(path, graph string) error {
	if path == "-" {
		_, err := fmt.Fprint(os.Stdout, graph)
		return err
	}
	return os.WriteFile(path, []byte(graph), 0o644)
}

func pipeToViewer(graph string) {
	fmt.Fprint(os.Stdout, graph)
}
