package main

import (
	"fmt"
	"strings"

	"github.com/finmentor/backend/services"
	"github.com/spf13/cobra"
)

func hustleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hustle [skills]",
		Short: "Suggest side hustles for a comma separated skills list",
		Example: `  coach hustle "video editing, canva" --hours 8
  coach hustle "python" --generate "Web Development Projects"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skills := strings.Join(args, " ")
			hours, _ := cmd.Flags().GetFloat64("hours")
			title, _ := cmd.Flags().GetString("generate")
			out := cmd.OutOrStdout()

			matcher := services.NewSideHustleMatcher()

			if title != "" {
				guide := matcher.Generate(title, skills, hours)
				fmt.Fprintln(out, guide.GigDescription)
				fmt.Fprintln(out, "\nSteps:")
				for i, step := range guide.Steps {
					fmt.Fprintf(out, "  %d. %s\n", i+1, step)
				}
				fmt.Fprintf(out, "\nResume: %s\n", guide.ResumeSnippet)
				return nil
			}

			for _, s := range matcher.Suggest(skills, hours) {
				fmt.Fprintf(out, "%-32s %3d%%  ~₹%d/month\n", s.Title, s.Suitability, s.EstMonthly)
				if len(s.Matched) > 0 {
					fmt.Fprintf(out, "  matched: %s\n", strings.Join(s.Matched, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64P("hours", "H", services.DefaultHoursPerWeek, "Hours available per week")
	cmd.Flags().StringP("generate", "g", "", "Generate a gig guide for this idea instead")

	return cmd
}
