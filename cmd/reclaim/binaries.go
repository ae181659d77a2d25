package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinyland-lab/reclaim/binanalysis"
	"github.com/tinyland-lab/reclaim/pathutil"
)

func newBinariesCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "binaries",
		Short: "Find duplicate language runtime and package manager installs",
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer := binanalysis.New(state.cfg.Scan.Workers)
			instances, err := analyzer.ProbeAll(cmd.Context())
			if err != nil {
				return err
			}

			groups := binanalysis.GroupDuplicates(instances)
			if len(groups) == 0 {
				fmt.Println("no duplicate command installs found")
			}
			for _, g := range groups {
				fmt.Printf("%s: %d installs, ~%s reclaimable\n", g.Command, len(g.Instances), pathutil.HumanizeBytes(g.BytesReclaim))
				for _, inst := range g.Instances {
					marker := " "
					if inst.Active {
						marker = "*"
					}
					fmt.Printf("  %s %-10s %-12s %s\n", marker, inst.Version, inst.Source, inst.Resolved)
				}
				fmt.Printf("  recommendation: %s\n", g.Recommend)
			}

			unused := binanalysis.DetectUnusedManagers(instances)
			if len(unused) > 0 {
				fmt.Println("\nInstalled but unused version managers:")
				for _, item := range unused {
					fmt.Printf("  %s (%s)\n", item.Path, item.Description)
				}
			}

			stale := binanalysis.DetectStaleConfigs()
			if len(stale) > 0 {
				fmt.Println("\nStale shell config:")
				for _, item := range stale {
					fmt.Printf("  %s: %s\n", item.Name, item.Description)
				}
			}
			return nil
		},
	}
}
