// Command coach runs the FinMentor engines from a terminal, without a server
// or database.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/finmentor/backend/config"
	"github.com/finmentor/backend/logger"
	"github.com/finmentor/backend/services"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "coach",
		Short:        "FinMentor - budgeting coach on the command line",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(splitCmd())
	rootCmd.AddCommand(hustleCmd())
	rootCmd.AddCommand(evalCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the coach a question",
		Example: `  coach ask "I earn 50000. I want to buy a car in 12 months"
  coach ask --income 30000 "how can I save more?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			income, _ := cmd.Flags().GetFloat64("income")
			useAI, _ := cmd.Flags().GetBool("ai")

			advisor, closeFn, err := newAdvisor(cmd.Context(), useAI)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			reply := advisor.Reply(ctx, services.AdviceRequest{
				Message: strings.Join(args, " "),
				Income:  income,
			})
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}

	cmd.Flags().Float64P("income", "i", 0, "Monthly income in rupees")
	cmd.Flags().Bool("ai", false, "Let Gemini answer questions no template covers (needs GEMINI_API_KEY)")

	return cmd
}

// newAdvisor builds the advisor, with the Gemini fallback when asked for
func newAdvisor(ctx context.Context, useAI bool) (*services.Advisor, func(), error) {
	log := logger.New("warn", "text")
	log.SetOutput(os.Stderr)
	if !useAI {
		return services.NewAdvisor(nil, log), func() {}, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.HasGemini() {
		return nil, nil, fmt.Errorf("--ai needs GEMINI_API_KEY")
	}
	gemini, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, nil, err
	}
	return services.NewAdvisor(gemini, log), func() { _ = gemini.Close() }, nil
}

func splitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split [income]",
		Short: "Split a monthly income 50/30/20",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var income float64
			if _, err := fmt.Sscanf(strings.ReplaceAll(args[0], ",", ""), "%g", &income); err != nil || income <= 0 {
				return fmt.Errorf("income must be a positive number, got %q", args[0])
			}

			split := services.SplitBudget(income)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Income:        %12.2f\n", split.Income)
			fmt.Fprintf(out, "Needs   (50%%): %12.2f\n", split.Needs)
			fmt.Fprintf(out, "Wants   (30%%): %12.2f\n", split.Wants)
			fmt.Fprintf(out, "Savings (20%%): %12.2f\n", split.Savings)

			pdfPath, _ := cmd.Flags().GetString("pdf")
			if pdfPath == "" {
				return nil
			}
			pdf, err := services.BudgetReport(split, time.Now())
			if err != nil {
				return err
			}
			if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(out, "\nReport written to %s\n", pdfPath)
			return nil
		},
	}

	cmd.Flags().String("pdf", "", "Also write a PDF report to this path")

	return cmd
}
