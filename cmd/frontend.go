package cmd

import (
	"fmt"
	"runtime"

	"dbpc/ast"
	"dbpc/cmds"
	"dbpc/generate"
)

// Frontend parses a source file into a syntax tree.  The command index is
// provided so the parser can recognise multi-word command names; it must not
// be mutated.  The returned tree must already have had the post-processing
// passes applied.
type Frontend func(path string, index *cmds.Index) (*ast.Block, error)

// frontend is the registered surface-syntax frontend.
var frontend Frontend

// RegisterFrontend installs the surface-syntax frontend.  The frontend is
// built and distributed separately from the compiler core; it registers
// itself at program initialization.
func RegisterFrontend(f Frontend) {
	frontend = f
}

// parseFile parses a source file through the registered frontend.
func parseFile(path string, index *cmds.Index) (*ast.Block, error) {
	if frontend == nil {
		return nil, fmt.Errorf("no surface-syntax frontend has been registered")
	}

	return frontend(path, index)
}

// hostTarget derives the default target triple from the host machine.
func hostTarget() generate.TargetTriple {
	target := generate.TargetTriple{Arch: generate.ArchX86_64, Platform: generate.PlatformLinux}

	if arch, ok := generate.ParseArch(runtime.GOARCH); ok {
		target.Arch = arch
	}

	if platform, ok := generate.ParsePlatform(runtime.GOOS); ok {
		target.Platform = platform
	}

	return target
}
