package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinyland-lab/reclaim/pathutil"
	"github.com/tinyland-lab/reclaim/pipeline"
)

func newAnalyzeCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Report stale projects, git repo health, and cross-project duplicate dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			pl := pipeline.New(nil, state.logger)
			report, err := pl.Run(cmd.Context(), pipelineConfig(state.cfg))
			if err != nil {
				return err
			}

			if len(report.Stale) > 0 {
				fmt.Println("Stale projects (no recent activity):")
				for _, s := range report.Stale {
					fmt.Printf("  %-10s %10s  %s (idle %s)\n", s.Project.Kind, pathutil.HumanizeBytes(s.CleanableSize), s.Project.Path, s.Age.Round(24*3600*1e9))
				}
			}

			var gcCandidates int
			for _, h := range report.GitHealth {
				if h.RecommendGC {
					gcCandidates++
					fmt.Printf("git gc recommended: %s (%s loose objects)\n", h.ProjectPath, pathutil.HumanizeBytes(h.LooseObjectBytes))
				}
			}

			if len(report.DependencyDupes) > 0 {
				fmt.Println("\nDuplicate dependency estimates:")
				for _, d := range report.DependencyDupes {
					fmt.Printf("  %-18s %d projects, ~%s reclaimable (%s)\n", d.Kind, d.ProjectCount, pathutil.HumanizeBytes(d.EstimatedSavings), d.Heuristic)
				}
			}

			fmt.Printf("\n%d stale projects, %d repos recommend gc, %d duplicate-dependency kinds flagged\n",
				len(report.Stale), gcCandidates, len(report.DependencyDupes))
			return nil
		},
	}
}
