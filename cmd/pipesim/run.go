package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sey1tayd/CORG-Simulator/config"
	"github.com/Sey1tayd/CORG-Simulator/engine"
)

var (
	runCycles  int
	runRate    int
	runTrace   bool
	runLogFile string
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Load a program and tick the pipeline",
	Args:  cobra.ExactArgs(1),
	Run:   runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVarP(&runCycles, "cycles", "n", 50, "number of cycles to run")
	runCmd.Flags().IntVarP(&runRate, "rate", "r", 0, "ticks per second, 1-100 (default: the configured rate, 1 if unset)")
	runCmd.Flags().BoolVarP(&runTrace, "trace", "t", false, "print a snapshot after every tick")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "additionally log each tick's cycle, pc, stall and pc_src to this file as JSON")
}

func runRun(cmd *cobra.Command, args []string) {
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

	v := viper.New()
	v.BindPFlag("rate", cmd.Flags().Lookup("rate"))
	v.BindPFlag("trace", cmd.Flags().Lookup("trace"))
	v.BindPFlag("log_file", cmd.Flags().Lookup("log-file"))
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, colorError.Sprint(err))
		os.Exit(3)
	}
	if runRate > 0 {
		cfg.RateHz = runRate
	}
	if !cfg.Color {
		color.NoColor = true
	}

	logger, closeLog, err := newTraceLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, colorError.Sprint(err))
		os.Exit(3)
	}
	defer closeLog()

	eng := engine.New()
	if err := eng.Load(words); err != nil {
		fmt.Fprintln(os.Stderr, colorError.Sprint(err))
		os.Exit(4)
	}

	var tickInterval time.Duration
	if cfg.RateHz > 0 {
		tickInterval = time.Second / time.Duration(cfg.RateHz)
	}

	for i := 0; i < runCycles; i++ {
		eng.Tick()
		snap := eng.Snapshot()

		logger.Info("tick", "cycle", snap.Cycle, "pc", snap.PC, "stall", snap.Hazard.Stall, "pc_src", snap.Hazard.PCSrc)

		if cfg.Trace {
			printTrace(snap)
		}
		if tickInterval > 0 {
			time.Sleep(tickInterval)
		}
	}

	fmt.Println(colorSuccess.Sprintf("ran %d cycles", runCycles))
}

func newTraceLogger(path string) (*slog.Logger, func(), error) {
	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, nil)}
	closeFn := func() {}

	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, nil))
		closeFn = func() { f.Close() }
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

func printTrace(snap engine.Snapshot) {
	fmt.Printf("%s cycle=%d pc=%s\n",
		colorHeader.Sprint("tick"),
		snap.Cycle,
		colorAddr.Sprintf("%d", snap.PC),
	)
	fmt.Printf("  IF:%s ID:%s EX:%s MEM:%s WB:%s\n",
		colorInstr.Sprint(snap.Occupancy.IF),
		colorInstr.Sprint(snap.Occupancy.ID),
		colorInstr.Sprint(snap.Occupancy.EX),
		colorInstr.Sprint(snap.Occupancy.MEM),
		colorInstr.Sprint(snap.Occupancy.WB),
	)
	if snap.Hazard.Stall {
		fmt.Println("  " + colorStall.Sprint("STALL"))
	}
	if snap.Hazard.PCSrc {
		fmt.Println("  " + colorFlush.Sprint("FLUSH"))
	}
	if snap.Hazard.ForwardA != 0 || snap.Hazard.ForwardB != 0 {
		fmt.Printf("  %s forwardA=%d forwardB=%d\n", colorForward.Sprint("FORWARD"), snap.Hazard.ForwardA, snap.Hazard.ForwardB)
	}
	for i, v := range snap.Registers {
		fmt.Printf("  %s=%s", colorReg.Sprintf("r%d", i), colorValue.Sprintf("%d", v))
	}
	fmt.Println()
}
