package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sey1tayd/CORG-Simulator/engine"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <hexword>",
	Short: "Disassemble a single 16-bit instruction word",
	Args:  cobra.ExactArgs(1),
	Run:   runDisasm,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}

func runDisasm(cmd *cobra.Command, args []string) {
	word, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		fmt.Fprintln(os.Stderr, colorError.Sprintf("invalid instruction word %q: %v", args[0], err))
		os.Exit(1)
	}
	fmt.Println(colorInstr.Sprint(engine.Disassemble(uint16(word))))
}
