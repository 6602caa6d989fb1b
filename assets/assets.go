// Package assets embeds sample programs, some with the assembly source
// they were built from.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"go.creack.net/intcode/op"
	"go.creack.net/intcode/program"
)

//go:embed programs
var files embed.FS

const dir = "programs"

// Names returns the names of the embedded programs, sorted.
func Names() []string {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		// Should never happen, the directory is embedded.
		panic(fmt.Errorf("failed to read embedded programs: %w", err))
	}
	var out []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), op.ProgramExt); ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// Program returns the named embedded program.
func Program(name string) (program.Program, error) {
	data, err := files.ReadFile(path.Join(dir, name+op.ProgramExt))
	if err != nil {
		return nil, fmt.Errorf("unknown example %q: %w", name, err)
	}
	p, err := program.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse example %q: %w", name, err)
	}
	return p, nil
}

// Source returns the assembly source of the named program, if embedded.
func Source(name string) (string, bool) {
	data, err := files.ReadFile(path.Join(dir, name+op.AssemblySrcExt))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// known maps the digest of the programs with a source to their name.
var known = sync.OnceValue(func() map[program.Digest]string {
	out := map[program.Digest]string{}
	for _, name := range Names() {
		if _, ok := Source(name); !ok {
			continue
		}
		p, err := Program(name)
		if err != nil {
			continue
		}
		out[p.Digest()] = name
	}
	return out
})

// Lookup returns the name and source of p when it is one of the embedded
// programs with a known source.
func Lookup(p program.Program) (name, src string, ok bool) {
	name, ok = known()[p.Digest()]
	if !ok {
		return "", "", false
	}
	src, ok = Source(name)
	return name, src, ok
}
