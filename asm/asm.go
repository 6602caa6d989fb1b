// Package asm assembles Intcode source into programs.
//
// Source has one statement per line:
//
//	; comment
//	start:  in   @0           ; relative mode
//	        add  x, #1, x      ; # is immediate mode
//	        jt   #1, start
//	x:      .data 0, start+2
//
// Labels resolve to absolute addresses.
package asm

import (
	"fmt"
	"os"

	"go.creack.net/intcode/asm/parser"
	"go.creack.net/intcode/program"
)

// Compile parses and encodes the input. The returned parser program gives
// access to the label addresses.
func Compile(inputName, inputData string) (program.Program, *parser.Program, error) {
	// Parse the input.
	p := parser.NewParser(inputName, inputData)
	if err := p.Parse(); err != nil {
		return nil, nil, fmt.Errorf("failed to parse: %w", err)
	}

	// Encode the program.
	pr := parser.NewProgram(p)
	prog, err := pr.Encode()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode program: %w", err)
	}
	return prog, pr, nil
}

// Assemble returns the program encoded from the source.
func Assemble(inputName, inputData string) (program.Program, error) {
	prog, _, err := Compile(inputName, inputData)
	return prog, err
}

// AssembleFile assembles the source file at path.
func AssembleFile(path string) (program.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Assemble(path, string(data))
}

// Format parses the input and returns it normalized.
func Format(inputName, inputData string) (string, error) {
	p := parser.NewParser(inputName, inputData)
	if err := p.Parse(); err != nil {
		return "", fmt.Errorf("failed to parse: %w", err)
	}
	return p.Format(), nil
}
