package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sey1tayd/CORG-Simulator/engine"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <file>",
	Short: "Assemble a source file and print its instruction words",
	Args:  cobra.ExactArgs(1),
	Run:   runAssemble,
}

func init() {
	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, args []string) {
	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, colorError.Sprint(err))
		os.Exit(1)
	}

	words, errs := engine.Assemble(string(source))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, colorError.Sprint(e))
		}
		os.Exit(2)
	}

	for i, w := range words {
		fmt.Printf("%s %s  %s\n",
			colorAddr.Sprintf("%3d", i),
			colorHex.Sprintf("0x%04x", w),
			colorInstr.Sprint(engine.Disassemble(w)),
		)
	}
}
