// CLI tool to evaluate a weight goal offline with the same rules as POST /api/plan.
// Usage: go run ./cmd/plan evaluate --current-weight 80 --height 180 --age 30 --sex M \
//
//	--target-weight 75 --target-date 2026-12-31 [--narrative]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lg/fitpal-go-api/narrative"
	"lg/fitpal-go-api/plan"
)

func main() {
	loadEnv(os.Stderr)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnv reads .env when present and reports to w when it is not.
func loadEnv(w io.Writer) {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(w, "No .env loaded (%v), using environment\n", err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fitpal-plan",
		Short:         "Evaluate calorie plans for weight goals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newEvaluateCmd())
	return rootCmd
}

type evaluateOptions struct {
	currentWeight float64
	height        float64
	age           int
	sex           string
	targetWeight  float64
	targetDate    string
	today         string
	narrative     bool
	timeout       time.Duration
}

func newEvaluateCmd() *cobra.Command {
	var opts evaluateOptions

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compute a daily calorie target or explain why the goal is unsafe",
		Long: `Evaluate a weight goal and print the result as JSON.

With --narrative, a feasible plan is sent to OpenAI (OPENAI_API_KEY, OPENAI_BASE_URL, LLM_MODEL)
for a diet and training narrative. A narrative failure is reported in ai_plan_error.

Example: fitpal-plan evaluate --current-weight 80 --height 180 --age 30 --sex M --target-weight 75 --target-date 2026-12-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var gen narrative.Generator
			if opts.narrative {
				gen = narrative.NewOpenAIGenerator(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL"),
					os.Getenv("LLM_MODEL"), opts.timeout)
			}
			return runEvaluate(cmd.Context(), cmd.OutOrStdout(), opts, gen)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.currentWeight, "current-weight", 0, "Current body weight in kg")
	f.Float64Var(&opts.height, "height", 0, "Height in cm")
	f.IntVar(&opts.age, "age", 0, "Age in years")
	f.StringVar(&opts.sex, "sex", "", "Biological sex: M or F")
	f.Float64Var(&opts.targetWeight, "target-weight", 0, "Target body weight in kg")
	f.StringVar(&opts.targetDate, "target-date", "", "Target date, YYYY-MM-DD")
	f.StringVar(&opts.today, "today", "", "Evaluation date, YYYY-MM-DD (default: today)")
	f.BoolVar(&opts.narrative, "narrative", false, "Attach a generated diet and training plan")
	f.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Narrative request timeout")
	for _, name := range []string{"current-weight", "height", "age", "sex", "target-weight", "target-date"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

type evaluateOutput struct {
	plan.Result
	AIPlan      *narrative.Plan `json:"ai_plan,omitempty"`
	AIPlanError string          `json:"ai_plan_error,omitempty"`
}

// runEvaluate validates opts, evaluates the goal and writes indented JSON to out.
// gen may be nil to skip the narrative.
func runEvaluate(ctx context.Context, out io.Writer, opts evaluateOptions, gen narrative.Generator) error {
	var evalOpts []plan.Option
	if opts.today != "" {
		today, err := time.Parse("2006-01-02", opts.today)
		if err != nil {
			return fmt.Errorf("invalid --today, expected YYYY-MM-DD: %w", err)
		}
		evalOpts = append(evalOpts, plan.WithClock(func() time.Time { return today }))
	}
	evaluator := plan.NewEvaluator(plan.DefaultConfig(), evalOpts...)

	targetDate, err := time.Parse("2006-01-02", opts.targetDate)
	if err != nil {
		return fmt.Errorf("invalid --target-date, expected YYYY-MM-DD: %w", err)
	}
	sex, err := plan.ParseSex(opts.sex)
	if err != nil {
		return err
	}
	in := plan.GoalInput{
		CurrentWeightKG: opts.currentWeight,
		HeightCM:        opts.height,
		AgeYears:        opts.age,
		Sex:             sex,
		TargetWeightKG:  opts.targetWeight,
		TargetDate:      targetDate,
	}
	if err := in.Validate(evaluator.Today()); err != nil {
		return err
	}

	result, err := evaluator.Evaluate(in)
	if err != nil {
		return err
	}

	output := evaluateOutput{Result: result}
	if gen != nil && result.Feasible {
		p, err := gen.Generate(ctx, result)
		if err != nil {
			output.AIPlanError = strings.TrimSpace(err.Error())
		} else {
			output.AIPlan = p
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
