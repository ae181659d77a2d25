package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinyland-lab/reclaim/pathutil"
	"github.com/tinyland-lab/reclaim/pipeline"
)

func newScanCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Discover project artifacts under the configured roots",
		RunE: func(cmd *cobra.Command, args []string) error {
			bus := pipeline.NewBus(0)
			bus.Subscribe("cli", func(ev pipeline.Event) {
				if ev.Type == pipeline.EventProjectFound {
					p := ev.Payload.(pipeline.ProjectFoundPayload)
					state.logger.Debug("project found", "path", p.Path, "kind", p.Kind, "cleanable", pathutil.HumanizeBytes(p.CleanableBytes))
				}
			})
			defer bus.Close()

			pl := pipeline.New(bus, state.logger)
			report, err := pl.Run(cmd.Context(), pipelineConfig(state.cfg))
			if err != nil {
				return err
			}

			var total int64
			for _, proj := range report.Projects {
				total += proj.TotalCleanableBytes()
				fmt.Printf("%-9s %10s  %s\n", proj.Kind, pathutil.HumanizeBytes(proj.TotalCleanableBytes()), proj.Path)
			}
			fmt.Printf("\n%d projects, %s reclaimable\n", len(report.Projects), pathutil.HumanizeBytes(total))

			if errs := report.Progress.Errors(); len(errs) > 0 {
				fmt.Printf("%d errors encountered during scan (use --verbose for detail)\n", len(errs))
			}
			return nil
		},
	}
}
