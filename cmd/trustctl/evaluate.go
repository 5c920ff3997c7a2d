package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/listinghub/listinghub/internal/trust"
)

var (
	evaluateFile         string
	evaluateNow          string
	evaluateOverrideMode string
	evaluateFormat       string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score and classify every fixture in a YAML file",
	Long: `Score and classify every fixture in a YAML file.

Each fixture is a named snapshot of user signals. The output shows the trust
score, membership and experience tiers and the progress towards the next tier.

Examples:
  trustctl evaluate -f testdata/fixtures.yaml
  trustctl evaluate -f fixtures.yaml --now 2026-03-01T12:00:00Z --format text
  trustctl evaluate -f fixtures.yaml --override-mode floor`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateFile, "file", "f", "", "YAML fixture file (required)")
	evaluateCmd.Flags().StringVar(&evaluateNow, "now", "", "Evaluation instant, RFC3339 (default: current time)")
	evaluateCmd.Flags().StringVar(&evaluateOverrideMode, "override-mode", string(trust.OverrideReplace), "Premium override mode (replace, floor)")
	evaluateCmd.Flags().StringVar(&evaluateFormat, "format", "json", "Output format (json, text)")
	_ = evaluateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(evaluateCmd)
}

// fixtureFile is the YAML document layout.
type fixtureFile struct {
	Fixtures []fixture `yaml:"fixtures"`
}

type fixture struct {
	Name    string            `yaml:"name"`
	Signals trust.UserSignals `yaml:"signals"`
}

type result struct {
	Name       string           `json:"name"`
	Evaluation trust.Evaluation `json:"evaluation"`
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	now := time.Now()
	if evaluateNow != "" {
		parsed, err := time.Parse(time.RFC3339, evaluateNow)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		now = parsed
	}
	mode, err := trust.ParseOverrideMode(evaluateOverrideMode)
	if err != nil {
		return err
	}

	fixtures, err := loadFixtures(evaluateFile)
	if err != nil {
		return err
	}
	results := evaluate(fixtures, trust.NewClassifier(mode), now)
	return render(cmd.OutOrStdout(), evaluateFormat, results)
}

func loadFixtures(path string) ([]fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var doc fixtureFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if len(doc.Fixtures) == 0 {
		return nil, fmt.Errorf("no fixtures in %s", path)
	}
	return doc.Fixtures, nil
}

func evaluate(fixtures []fixture, c trust.Classifier, now time.Time) []result {
	out := make([]result, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, result{Name: f.Name, Evaluation: c.Evaluate(f.Signals.Normalized(), now)})
	}
	return out
}

func render(w io.Writer, format string, results []result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "text":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSCORE\tMEMBERSHIP\tEXPERIENCE\tNEXT\tPROGRESS")
		for _, r := range results {
			e := r.Evaluation
			next := "-"
			if e.Progress.HasNext() {
				next = string(e.Progress.NextLevel)
			}
			membership := string(e.Membership)
			if e.PremiumActive {
				membership += " (override)"
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%.0f%%\n", r.Name, e.Score, membership, e.Experience, next, e.Progress.Percent)
			for _, req := range e.Progress.Unmet {
				fmt.Fprintf(tw, "\t\t\t\t\t%s\n", req.Description)
			}
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want json or text)", format)
	}
}
