package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"jpamb/internal/analyzer"
	"jpamb/internal/casefile"
	"jpamb/internal/config"
	"jpamb/internal/jvm"
	"jpamb/internal/loader"
	"jpamb/internal/report"
)

var (
	bytecodeDir string
	kFlag       string
	casesPath   string
	jsonOutput  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <methodid>",
	Short: "Run the abstract interpreter over a method and print its outcome set",
	Long: `analyze parses a method identifier, loads its opcodes, and runs the
worklist-based abstract interpreter to predict the set of terminal
outcomes reachable from some input. The analysis starts every integer
parameter at ⊤; the interval reported beside each integer parameter is
[min K, max K] (⊤ when K is empty).

The source-side constants interface (the set K of integer literals in
the method body) is, per the external-interfaces contract, produced by
a collaborator outside this tool; --k stands in for that collaborator
on the command line.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&bytecodeDir, "bytecode-dir", ".", "directory of JSON opcode files, one per method")
	analyzeCmd.Flags().StringVar(&kFlag, "k", "", "comma-separated integer literal set K (e.g. \"0,10\")")
	analyzeCmd.Flags().StringVar(&casesPath, "cases", "", "cross-check against a recorded case file")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of plain text")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	method, err := jvm.ParseMethodID(args[0])
	if err != nil {
		return fmt.Errorf("parsing method id: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	k, err := parseK(kFlag)
	if err != nil {
		return fmt.Errorf("parsing --k: %w", err)
	}

	paramTypes := make([]jvm.Type, method.Params.Len())
	for i := range paramTypes {
		paramTypes[i] = method.Params.At(i)
	}

	prog := loader.NewCache(loader.NewFileLoader(bytecodeDir))

	result, err := analyzer.Analyze(prog, method, k, paramTypes, cfg.PassCap)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", method, err)
	}

	lines := report.Build(result.Outcomes, nil)

	if casesPath != "" {
		cases, err := casefile.Read(casesPath)
		if err != nil {
			return fmt.Errorf("reading cases: %w", err)
		}
		predicted := map[string][]string{method.Key(): result.Outcomes}
		for _, m := range casefile.CrossCheck(cases, predicted) {
			fmt.Printf("mismatch: %s expected %q, predicted %v\n", m.Method, m.Expected, m.Got)
		}
	}

	if jsonOutput {
		out, err := report.FormatJSON(lines)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	fmt.Println(report.FormatText(lines))
	for _, pi := range result.ParamIntervals {
		fmt.Printf("param %d (%s): %s\n", pi.Index, pi.Type, pi.Interval)
	}
	return nil
}

func parseK(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	k := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		k[i] = n
	}
	return k, nil
}
