package main

import (
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"
	"strings"

	"go.creack.net/intcode/asm"
	"go.creack.net/intcode/op"
)

func run(input, output string, format, labels bool) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if format {
		out, err := asm.Format(input, string(data))
		if err != nil {
			return fmt.Errorf("failed to format: %w", err)
		}
		fmt.Print(out)
		return nil
	}

	prog, pr, err := asm.Compile(input, string(data))
	if err != nil {
		return fmt.Errorf("failed to compile: %w", err)
	}
	if labels {
		addrs := pr.Labels()
		for _, name := range slices.Sorted(maps.Keys(addrs)) {
			fmt.Printf("%-16s %04d\n", name, addrs[name])
		}
		return nil
	}

	if output == "-" {
		fmt.Println(prog.String())
		return nil
	}
	if err := os.WriteFile(output, []byte(prog.String()+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func main() {
	log.SetFlags(0)
	output := flag.String("o", "", "output file, default to <input>"+op.ProgramExt+", - for stdout")
	format := flag.Bool("fmt", false, "print the formatted source, do not output compiled file")
	labels := flag.Bool("labels", false, "print the label addresses, do not output compiled file")
	flag.Parse()
	input := flag.Arg(0)
	if input == "" {
		tmp := strings.Split(os.Args[0], "/")
		binName := tmp[len(tmp)-1]
		fmt.Fprintf(os.Stderr, "usage: %s <%s path> [options]\n", binName, op.AssemblySrcExt)
		flag.PrintDefaults()
		return
	}
	if *output == "" {
		*output = strings.TrimSuffix(input, op.AssemblySrcExt) + op.ProgramExt
	}

	if err := run(input, *output, *format, *labels); err != nil {
		log.Fatalf("fail: %s.", err)
	}
}
