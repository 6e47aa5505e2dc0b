package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"rewind/builtins"
	"rewind/interp"
	"rewind/memory"
	"rewind/parser"
	"rewind/trace"
	"rewind/types"
)

const helpText = `Commands:
  n     step forward
  b     step backward
  o     step over (skip call internals)
  O     step back over
  r     rewind to the start
  p     print the current machine state
  out   print accumulated output
  q     quit
`

// limitsFile is the YAML schema accepted by -limits
type limitsFile struct {
	HeapCapacity   int `yaml:"heap_capacity"`
	SnapshotBudget int `yaml:"snapshot_budget"`
	StringMax      int `yaml:"string_max"`
}

func main() {
	limitsPath := flag.String("limits", "", "YAML file overriding heap/snapshot/string limits")
	traceEnabled := flag.Bool("trace", false, "Enable execution tracing on stderr")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern (glob, e.g. 'fact' or 'do_*')")
	batch := flag.Bool("batch", false, "Run to completion and print output without the stepper")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: rewind [flags] prog.c [input tokens...]\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	limits, err := loadLimits(*limitsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rewind: %v\n", err)
		os.Exit(1)
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "rewind: %v\n", err)
		os.Exit(1)
	}

	program, err := parser.Parse(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "rewind: %v\n", err)
		os.Exit(1)
	}

	ip := interp.New(program, limits)
	for _, arg := range flag.Args()[1:] {
		ip.PushInput(arg)
	}

	if *traceEnabled {
		tracer := trace.NewConsole(os.Stderr)
		if *traceFilter != "" {
			filters := strings.Split(*traceFilter, ",")
			for i := range filters {
				filters[i] = strings.TrimSpace(filters[i])
			}
			tracer = tracer.WithFilters(filters)
		}
		ip.SetTracer(tracer)
	}

	runErr := ip.Run()

	if *batch || !term.IsTerminal(int(os.Stdin.Fd())) {
		for _, line := range ip.Output() {
			fmt.Println(line)
		}
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "rewind: %v\n", runErr)
			os.Exit(1)
		}
		fmt.Printf("returned %s\n", ip.ReturnValue().String())
		return
	}

	runStepper(ip, runErr)
}

// loadLimits reads the optional -limits YAML file
func loadLimits(path string) (interp.Limits, error) {
	var limits interp.Limits
	if path == "" {
		return limits, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return limits, err
	}
	var lf limitsFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return limits, fmt.Errorf("%s: %w", path, err)
	}

	limits.HeapCapacity = lf.HeapCapacity
	limits.SnapshotBudget = lf.SnapshotBudget
	if lf.StringMax > 0 {
		builtins.MaxHeapString = lf.StringMax
	}
	return limits, nil
}

// runStepper drives the interactive time-travel prompt over a finished run
func runStepper(ip *interp.Interpreter, runErr *types.RuntimeError) {
	if runErr != nil {
		fmt.Printf("program failed: %v\n", runErr)
	} else {
		fmt.Printf("program finished, returned %s\n", ip.ReturnValue().String())
	}
	fmt.Printf("%d history steps recorded. Type ? for help.\n", ip.HistoryLen())

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	for {
		line, err := ln.Prompt(fmt.Sprintf("[%d/%d] ", ip.HistoryPosition(), ip.HistoryLen()-1))
		if err != nil {
			fmt.Println()
			return
		}
		cmd := strings.TrimSpace(line)
		if cmd == "" {
			continue
		}
		ln.AppendHistory(cmd)

		switch cmd {
		case "n":
			report(ip.StepForward(), ip)
		case "b":
			report(ip.StepBackward(), ip)
		case "o":
			report(ip.StepOver(), ip)
		case "O":
			report(ip.StepBackOver(), ip)
		case "r":
			report(ip.RewindToStart(), ip)
		case "p":
			printState(ip)
		case "out":
			for _, l := range ip.Output() {
				fmt.Println(l)
			}
		case "?", "help":
			fmt.Print(helpText)
		case "q", "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q, type ? for help\n", cmd)
		}
	}
}

func report(err *types.RuntimeError, ip *interp.Interpreter) {
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	fmt.Printf("at %s\n", ip.Location())
}

// printState dumps the stack and heap as of the current history position
func printState(ip *interp.Interpreter) {
	fmt.Printf("location: %s\n", ip.Location())

	frames := ip.Stack().Frames()
	if len(frames) == 0 {
		fmt.Println("stack: empty")
	}
	for idx := len(frames) - 1; idx >= 0; idx-- {
		frame := frames[idx]
		fmt.Printf("frame %d: %s\n", idx, frame.FunctionName)
		for _, name := range frame.InsertionOrder {
			v, ok := frame.GetVar(name)
			if !ok {
				continue
			}
			state := ""
			if !v.Init.IsInitialized() {
				state = " (uninitialized)"
			}
			fmt.Printf("  %s %s = %s%s\n", v.Type.String(), name, v.Value.String(), state)
		}
	}

	allocs := ip.Heap().Allocations()
	if len(allocs) == 0 {
		fmt.Println("heap: empty")
		return
	}
	addrs := make([]uint64, 0, len(allocs))
	for addr := range allocs {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	fmt.Println("heap:")
	for _, addr := range addrs {
		block := allocs[addr]
		state := "allocated"
		if block.State == memory.Tombstone {
			state = "freed"
		}
		fmt.Printf("  0x%x: %d bytes, %s\n", addr, block.Size, state)
	}
}
