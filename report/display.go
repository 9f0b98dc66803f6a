package report

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	errorColorFG = pterm.FgRed
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	warnColorFG  = pterm.FgYellow
	warnStyleBG  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	noteColorFG  = pterm.FgCyan
	infoColorFG  = pterm.FgLightGreen
)

// displayCompileMessage prints a positioned compile message of the given kind
// ("error", "warning" or "note") to the console.  Messages are of the form:
//
//	file:line:col: kind: message
//
// Lines and columns are displayed one-indexed.
func displayCompileMessage(kind, absPath, reprPath string, span *TextSpan, message string) {
	var style *pterm.Style
	var color pterm.Color
	switch kind {
	case "error":
		style, color = errorStyleBG, errorColorFG
	case "warning":
		style, color = warnStyleBG, warnColorFG
	default:
		style, color = pterm.NewStyle(pterm.BgCyan, pterm.FgBlack), noteColorFG
	}

	if span == nil {
		fmt.Printf("%s: ", reprPath)
	} else {
		fmt.Printf("%s:%d:%d: ", reprPath, span.StartLine+1, span.StartCol+1)
	}

	style.Print(kind)
	color.Println(" " + message)
}

// displayFatal prints a fatal error message to the console.
func displayFatal(message string) {
	errorStyleBG.Print("fatal error")
	errorColorFG.Println(" " + message)
}

// displayICE prints an internal compiler error to the console.
func displayICE(message string) {
	errorStyleBG.Print("internal compiler error")
	errorColorFG.Println(" " + message)
	errorColorFG.Println("this is a bug in the compiler, please report it")
}

// displayStdError prints a standard Go error to the console.
func displayStdError(reprPath string, err error) {
	fmt.Printf("%s: ", reprPath)
	errorStyleBG.Print("error")
	errorColorFG.Println(" " + err.Error())
}

// DisplayInfoMessage prints a tagged informational message to the console.
// It is only displayed at the verbose log level.
func DisplayInfoMessage(tag, message string) {
	if rep.logLevel == LogLevelVerbose {
		infoColorFG.Printf("[%s] ", tag)
		fmt.Println(message)
	}
}
