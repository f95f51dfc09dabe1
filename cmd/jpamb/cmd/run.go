package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"jpamb/internal/analyzer"
	"jpamb/internal/casefile"
	"jpamb/internal/concrete"
	"jpamb/internal/config"
	"jpamb/internal/jvm"
	"jpamb/internal/loader"
	"jpamb/internal/supervisor"
)

var recordPath string

var runCmd = &cobra.Command{
	Use:   "run <methodid> [args...]",
	Short: "Run the concrete interpreter once on explicit arguments",
	Long: `run executes the method's bytecode with the given arguments under the
concrete interpreter and prints the single terminal outcome observed,
bounded by the configured step cap and wall-clock deadline.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&bytecodeDir, "bytecode-dir", ".", "directory of JSON opcode files, one per method")
	runCmd.Flags().StringVar(&recordPath, "record", "", "append the observed outcome to this case file")
}

func runRun(cmd *cobra.Command, args []string) error {
	method, err := jvm.ParseMethodID(args[0])
	if err != nil {
		return fmt.Errorf("parsing method id: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	values, err := parseArgs(method, args[1:])
	if err != nil {
		return err
	}

	prog := loader.NewCache(loader.NewFileLoader(bytecodeDir))

	result := supervisor.Run(context.Background(), cfg.Deadline, func(cancelled func() bool) (string, error) {
		outcome, err := analyzer.RunConcrete(prog, method, nil, values, cfg.StepCap, cancelled)
		return string(outcome), err
	})
	if result.Err != nil {
		return fmt.Errorf("running %s: %w", method, result.Err)
	}

	fmt.Println(result.Outcome)

	if recordPath != "" {
		if err := casefile.Append(recordPath, casefile.Case{Method: method, Outcome: concrete.Outcome(result.Outcome)}); err != nil {
			return fmt.Errorf("recording outcome: %w", err)
		}
	}
	return nil
}

func parseArgs(method jvm.MethodID, raw []string) ([]jvm.Value, error) {
	if len(raw) != method.Params.Len() {
		return nil, fmt.Errorf("method takes %d argument(s), got %d", method.Params.Len(), len(raw))
	}
	values := make([]jvm.Value, len(raw))
	for i, s := range raw {
		t := method.Params.At(i)
		switch {
		case t.IsInt():
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			values[i] = jvm.IntValue(n)
		case t.Kind == jvm.KindBoolean:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			values[i] = jvm.BoolValue(b)
		default:
			return nil, fmt.Errorf("argument %d: unsupported param type %s for the run command", i, t)
		}
	}
	return values, nil
}
