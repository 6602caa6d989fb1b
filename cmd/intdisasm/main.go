package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.creack.net/intcode/assets"
	"go.creack.net/intcode/disasm"
	"go.creack.net/intcode/op"
	"go.creack.net/intcode/program"
)

func main() {
	raw := flag.Bool("raw", false, "always disassemble, even when the program matches a known source")
	flag.Parse()
	f := flag.Arg(0)
	if f == "" {
		tmp := strings.Split(os.Args[0], "/")
		binName := tmp[len(tmp)-1]
		fmt.Fprintf(os.Stderr, "usage: %s <%s path> [options]\n", binName, op.ProgramExt)
		flag.PrintDefaults()
		return
	}
	p, err := program.Load(f)
	if err != nil {
		log.Fatalf("failed to load program %q: %s", f, err)
	}
	if *raw {
		fmt.Print(disasm.Format(disasm.Disassemble(p)))
		return
	}
	if name, _, ok := assets.Lookup(p); ok {
		log.Printf("Found match in known sources: %s.", name)
	}
	fmt.Print(disasm.Disasm(p))
}
