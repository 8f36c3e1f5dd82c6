package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/finmentor/backend/services"
	"github.com/spf13/cobra"
)

// IntentCase is one labelled message for the intent parser
type IntentCase struct {
	ID           int     `json:"id"`
	Input        string  `json:"input"`
	Months       int     `json:"months"`
	GoalType     string  `json:"goal_type"`
	GoalAmount   float64 `json:"goal_amount"`
	StatedIncome float64 `json:"stated_income"`
}

type IntentCases struct {
	Cases []IntentCase `json:"cases"`
}

type EvalResult struct {
	ID       int             `json:"id"`
	Input    string          `json:"input"`
	Pass     bool            `json:"pass"`
	Errors   []string        `json:"errors,omitempty"`
	Got      services.Intent `json:"got"`
	Expected IntentCase      `json:"expected"`
}

func evalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [cases.json]",
		Short: "Score the intent parser against labelled messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to load cases: %w", err)
			}
			var cases IntentCases
			if err := json.Unmarshal(data, &cases); err != nil {
				return fmt.Errorf("failed to parse cases: %w", err)
			}

			out := cmd.OutOrStdout()
			results, passed := evaluateIntents(cases.Cases)
			for _, r := range results {
				status := "✓"
				if !r.Pass {
					status = "✗"
				}
				fmt.Fprintf(out, "%s Q%d: %s\n", status, r.ID, r.Input)
				for _, e := range r.Errors {
					fmt.Fprintf(out, "   %s\n", e)
				}
			}

			total := len(results)
			fmt.Fprintf(out, "\n=== Summary ===\n")
			fmt.Fprintf(out, "Total: %d, Passed: %d, Failed: %d\n", total, passed, total-passed)
			if total > 0 {
				fmt.Fprintf(out, "Pass Rate: %.1f%%\n", float64(passed)/float64(total)*100)
			}

			if path, _ := cmd.Flags().GetString("out"); path != "" {
				resultData, _ := json.MarshalIndent(results, "", "  ")
				if err := os.WriteFile(path, resultData, 0o644); err != nil {
					return fmt.Errorf("failed to save results: %w", err)
				}
				fmt.Fprintf(out, "\nResults saved to %s\n", path)
			}

			if passed < total {
				return fmt.Errorf("%d of %d cases failed", total-passed, total)
			}
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "", "Write detailed results as JSON")

	return cmd
}

func evaluateIntents(cases []IntentCase) ([]EvalResult, int) {
	results := make([]EvalResult, 0, len(cases))
	passed := 0
	for _, c := range cases {
		got := services.ParseIntent(c.Input)

		var errs []string
		if got.Months != c.Months {
			errs = append(errs, fmt.Sprintf("months: expected %d, got %d", c.Months, got.Months))
		}
		if want := strings.TrimSpace(c.GoalType); want != "" && got.GoalType != want {
			errs = append(errs, fmt.Sprintf("goal: expected %s, got %s", want, got.GoalType))
		}
		if got.GoalAmount != c.GoalAmount {
			errs = append(errs, fmt.Sprintf("amount: expected %.0f, got %.0f", c.GoalAmount, got.GoalAmount))
		}
		if got.StatedIncome != c.StatedIncome {
			errs = append(errs, fmt.Sprintf("income: expected %.0f, got %.0f", c.StatedIncome, got.StatedIncome))
		}

		r := EvalResult{ID: c.ID, Input: c.Input, Pass: len(errs) == 0, Errors: errs, Got: got, Expected: c}
		if r.Pass {
			passed++
		}
		results = append(results, r)
	}
	return results, passed
}
