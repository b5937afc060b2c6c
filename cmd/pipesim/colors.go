package main

import "github.com/fatih/color"

// Color palette for CLI output.
var (
	colorAddr      = color.New(color.FgCyan)
	colorInstr     = color.New(color.FgYellow)
	colorReg       = color.New(color.FgGreen)
	colorValue     = color.New(color.FgWhite, color.Bold)
	colorHex       = color.New(color.FgMagenta)
	colorError     = color.New(color.FgRed, color.Bold)
	colorSuccess   = color.New(color.FgGreen)
	colorHeader    = color.New(color.FgWhite, color.Bold, color.Underline)
	colorStall     = color.New(color.FgRed, color.Bold)
	colorForward   = color.New(color.FgYellow, color.Bold)
	colorFlush     = color.New(color.FgMagenta, color.Bold)
	colorHiBlack   = color.New(color.FgHiBlack)
)
