// Package cmd is the top-level "driver" package for the compiler: it contains
// the command-line surface, the compiler state, and the wiring of the CLI
// actions to the various phases of the compiler.
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"dbpc/ast"
	"dbpc/cmds"
	"dbpc/generate"
	"dbpc/ir"
	"dbpc/report"
	"dbpc/sem"
)

// Compiler represents the overall state and configuration of one compiler
// invocation.  All CLI actions operate on this state in dependency order:
// loading runs first, then parsing, then conversion; the configuration
// actions only need to run before output.
type Compiler struct {
	// cmdIndex is the command index built up from the loaded catalogues.
	cmdIndex *cmds.Index

	// plugins are the plugins declared by the loaded catalogues in
	// declaration order.
	plugins []*cmds.Plugin

	// srcPath is the path to the source file being compiled.
	srcPath string

	// block is the parsed program.
	block *ast.Block

	// program is the converted program.
	program *ir.Program

	// outputType is the kind of output to produce.
	outputType generate.OutputType

	// target is the target triple to compile for.
	target generate.TargetTriple
}

// NewCompiler creates a compiler with the default configuration: object file
// output for the host target.
func NewCompiler() *Compiler {
	return &Compiler{
		cmdIndex:   cmds.NewIndex(),
		outputType: generate.OutputObjectFile,
		target:     hostTarget(),
	}
}

// LoadCommands loads a command catalogue file into the index.
func (c *Compiler) LoadCommands(path string) bool {
	plugins, err := cmds.LoadCatalogue(c.cmdIndex, path)
	if err != nil {
		report.ReportStdError(path, err)
		return false
	}

	c.plugins = append(c.plugins, plugins...)
	report.DisplayInfoMessage("commands", "loaded "+path)
	return true
}

// ParseSource parses the source file through the registered frontend.  The
// catalogue must be loaded first: the parser needs the command index to
// recognise command names.
func (c *Compiler) ParseSource(path string) bool {
	// The catalogue must be conflict-free before any of its names are
	// trusted.
	if conflict := c.cmdIndex.FindConflicts(); conflict != nil {
		report.ReportStdError(path, conflict)
		return false
	}

	block, err := parseFile(path, c.cmdIndex)
	if err != nil {
		report.ReportStdError(path, err)
		return false
	}

	c.srcPath = path
	c.block = block
	return true
}

// CheckSemantics converts the parsed program into typed IR.
func (c *Compiler) CheckSemantics() bool {
	if c.block == nil {
		report.ReportFatal("no source file has been parsed")
	}

	absPath, err := filepath.Abs(c.srcPath)
	if err != nil {
		absPath = c.srcPath
	}

	converter := sem.NewConverter(c.cmdIndex, absPath, c.srcPath)
	c.program = converter.GenerateProgram(c.block)
	if c.program == nil {
		return false
	}

	report.DisplayInfoMessage("semantic", "program converted")
	return true
}

// SetOutputType selects the kind of output to produce.
func (c *Compiler) SetOutputType(name string) bool {
	outputType, ok := generate.ParseOutputType(name)
	if !ok {
		report.ReportStdError("codegen", fmt.Errorf("unknown output type `%s`", name))
		return false
	}

	c.outputType = outputType
	return true
}

// SetTarget selects the target architecture and platform.
func (c *Compiler) SetTarget(archName, platformName string) bool {
	arch, ok := generate.ParseArch(archName)
	if !ok {
		report.ReportStdError("codegen", fmt.Errorf("unknown architecture `%s`", archName))
		return false
	}

	platform, ok := generate.ParsePlatform(platformName)
	if !ok {
		report.ReportStdError("codegen", fmt.Errorf("unknown platform `%s`", platformName))
		return false
	}

	c.target = generate.TargetTriple{Arch: arch, Platform: platform}
	return true
}

// Output generates and writes the compilation output.
func (c *Compiler) Output(outputName string) bool {
	if c.program == nil {
		report.ReportFatal("no program has been converted")
	}

	// Executables on Windows carry an .exe suffix.
	if c.outputType == generate.OutputExecutable && c.target.Platform == generate.PlatformWindows &&
		!strings.HasSuffix(outputName, ".exe") {
		outputName += ".exe"
	}

	mod, err := generate.Generate(c.program, c.plugins, c.target)
	if err != nil {
		// A missing core plugin is unrecoverable.
		report.ReportFatal("%s", err)
	}

	if err := generate.EmitModule(mod, c.outputType, outputName, c.target); err != nil {
		report.ReportStdError(outputName, err)
		return false
	}

	report.DisplayInfoMessage("codegen", "created output file `"+outputName+"`")
	return true
}

// DumpCommands lists every loaded command to the console.
func (c *Compiler) DumpCommands() bool {
	for _, command := range c.cmdIndex.Commands() {
		report.DisplayInfoMessage("commands", command.DBSymbol+" "+command.TypeInfo()+" ("+command.Plugin.Name+")")
	}

	return true
}
