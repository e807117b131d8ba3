// Package main implements planctl, the classical planner's CLI: a
// collaborator for loading a YAML problem file, running A*, and printing
// the resulting plan or validating the problem without searching.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iamthegreatdestroyer/classical-planner/internal/problemfile"
	"github.com/iamthegreatdestroyer/classical-planner/pkg/planner"
)

var (
	heuristicName string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "planctl drives the classical planning core from the command line",
	Long: `planctl loads a YAML domain/problem file and either grounds it
(validate) or grounds it and searches for a plan (plan).`,
}

var planCmd = &cobra.Command{
	Use:   "plan [problem-file]",
	Short: "Ground a problem and search for a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := problemfile.LoadFile(args[0])
		if err != nil {
			return err
		}

		heur, err := planner.Heuristics.Get(heuristicName)
		if err != nil {
			return fmt.Errorf("unknown heuristic %q: %w", heuristicName, err)
		}

		plan, stats, err := planner.Plan(p, planner.WithHeuristic(heur))
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if plan == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no plan found: goal is unreachable")
			return nil
		}

		for i, step := range planner.Render(plan) {
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i+1, step)
		}
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "\nheuristic=%s states_expanded=%d elapsed=%s plan_length=%d\n",
				heuristicName, stats.Expanded, stats.Elapsed, stats.PlanLen)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [problem-file]",
	Short: "Ground a domain/problem file without searching, surfacing schema errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := problemfile.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d ground actions, %d symbolic goals, %d numeric goals\n",
			len(p.GroundActions), len(p.SymbolicGoals), len(p.NumericGoals))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print search statistics alongside the plan")
	planCmd.Flags().StringVar(&heuristicName, "heuristic", "monotone", "heuristic to guide search: null, monotone, or subgoal-max")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
