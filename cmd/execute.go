package cmd

import (
	"fmt"
	"os"

	"dbpc/argdef"
	"dbpc/report"

	"github.com/ComedicChimera/olive"
)

// Version is the compiler's version string.
const Version = "0.1.0"

// Execute is the main entry point for the `dbpc` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("dbpc", "dbpc is a compiler for DarkBASIC programs", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false,
		[]string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a source file", true)
	buildCmd.AddPrimaryArg("source-path", "the path to the source file to compile", true)
	buildCmd.AddStringArg("commands", "c", "the path to the command catalogue to load", true)
	buildCmd.AddStringArg("output", "o", "the path to write compilation output to", false)
	buildCmd.AddStringArg("outmode", "m", "the kind of output to produce (llvm-ir, llvm-bc, obj, exe)", false)
	buildCmd.AddStringArg("arch", "a", "the target architecture (i386, x86_64, aarch64)", false)
	buildCmd.AddStringArg("platform", "p", "the target platform (windows, macos, linux)", false)
	buildCmd.AddFlag("dump-commands", "dc", "list every loaded command overload")

	cli.AddSubcommand("version", "print the dbpc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		fmt.Println("argument error:", err)
		os.Exit(1)
	}

	// process the inputted command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		report.InitReporter(logLevelOf(result.Arguments["loglevel"].(string)))
		execBuildCommand(subResult)
	case "version":
		fmt.Println("dbpc version", Version)
	}
}

// execBuildCommand translates the parsed build command line into action
// invocations and executes them through the action table.
func execBuildCommand(result *olive.ArgParseResult) {
	c := NewCompiler()

	table, warnings, registry, err := buildActionTable(c)
	if err != nil {
		report.ReportFatal("invalid argument definition: %s", err)
	}

	for _, warning := range warnings {
		report.DisplayInfoMessage("argdef", warning)
	}

	var invocations []argdef.Invocation

	cataloguePath := result.Arguments["commands"].(string)
	invocations = append(invocations, argdef.Invocation{
		Action: actionIndex(table, "load-commands"),
		Args:   []string{cataloguePath},
	})

	if result.HasFlag("dump-commands") {
		invocations = append(invocations, argdef.Invocation{Action: actionIndex(table, "dump-commands")})
	}

	srcPath, _ := result.PrimaryArg()
	invocations = append(invocations, argdef.Invocation{
		Action: actionIndex(table, "parse-dba"),
		Args:   []string{srcPath},
	})

	if outmode, ok := result.Arguments["outmode"]; ok {
		invocations = append(invocations, argdef.Invocation{
			Action: actionIndex(table, "set-output-type"),
			Args:   []string{outmode.(string)},
		})
	}

	archName, hasArch := result.Arguments["arch"]
	platformName, hasPlatform := result.Arguments["platform"]
	if hasArch || hasPlatform {
		host := hostTarget()
		arch, platform := host.ArchName(), host.PlatformName()
		if hasArch {
			arch = archName.(string)
		}
		if hasPlatform {
			platform = platformName.(string)
		}

		invocations = append(invocations, argdef.Invocation{
			Action: actionIndex(table, "set-target"),
			Args:   []string{arch, platform},
		})
	}

	outputPath := "out"
	if output, ok := result.Arguments["output"]; ok {
		outputPath = output.(string)
	}
	invocations = append(invocations, argdef.Invocation{
		Action: actionIndex(table, "output"),
		Args:   []string{outputPath},
	})

	if err := argdef.Execute(table, registry, invocations); err != nil {
		report.ReportFatal("%s", err)
	}
}

// logLevelOf maps a log level name to its reporter constant.
func logLevelOf(name string) int {
	switch name {
	case "silent":
		return report.LogLevelSilent
	case "error":
		return report.LogLevelError
	case "warn":
		return report.LogLevelWarn
	default:
		return report.LogLevelVerbose
	}
}
