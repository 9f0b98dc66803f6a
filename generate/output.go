package generate

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"

	llir "github.com/llir/llvm/ir"
)

// OutputType enumerates the kinds of compilation output.
type OutputType int

const (
	OutputLLVMIR = OutputType(iota)
	OutputLLVMBitcode
	OutputObjectFile
	OutputExecutable
)

// ParseOutputType parses an output type name from the CLI surface.
func ParseOutputType(name string) (OutputType, bool) {
	switch name {
	case "llvm-ir":
		return OutputLLVMIR, true
	case "llvm-bc":
		return OutputLLVMBitcode, true
	case "obj":
		return OutputObjectFile, true
	case "exe":
		return OutputExecutable, true
	}

	return 0, false
}

// EmitModule writes the module to the output path in the requested output
// form.  Textual IR is written directly; bitcode, object files, and
// executables are produced by driving the LLVM toolchain (`llvm-as`, `llc`,
// `clang`) on the textual IR.
func EmitModule(mod *llir.Module, outputType OutputType, outputPath string, triple TargetTriple) error {
	if outputType == OutputLLVMIR {
		return writeIRFile(mod, outputPath)
	}

	// All the remaining forms start from a textual IR file in a scratch
	// directory.
	scratchDir, err := ioutil.TempDir("", "dbpc")
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratchDir)

	irPath := filepath.Join(scratchDir, "program.ll")
	if err := writeIRFile(mod, irPath); err != nil {
		return err
	}

	switch outputType {
	case OutputLLVMBitcode:
		return runTool("llvm-as", irPath, "-o", outputPath)
	case OutputObjectFile:
		return runTool("llc", "-filetype=obj", "-mtriple="+triple.LLVMTriple(), irPath, "-o", outputPath)
	case OutputExecutable:
		objPath := filepath.Join(scratchDir, "program.o")
		if err := runTool("llc", "-filetype=obj", "-mtriple="+triple.LLVMTriple(), irPath, "-o", objPath); err != nil {
			return err
		}
		return runTool("clang", "-target", triple.LLVMTriple(), objPath, "-o", outputPath)
	}

	return fmt.Errorf("unknown output type %d", outputType)
}

// writeIRFile writes the module as textual LLVM IR.
func writeIRFile(mod *llir.Module, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(mod.String())
	return err
}

// runTool invokes an external LLVM tool, surfacing its stderr on failure.
func runTool(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %s\n%s", name, err, output)
	}

	return nil
}
