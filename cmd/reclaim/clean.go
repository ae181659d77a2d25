package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinyland-lab/reclaim/delete"
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
	"github.com/tinyland-lab/reclaim/pipeline"
)

func newCleanCmd(state *appState) *cobra.Command {
	var method string
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete reclaimable artifacts found by a scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if method == "" {
				method = state.cfg.Clean.Method
			}
			deleteMethod := parseDeleteMethod(method)

			pl := pipeline.New(nil, state.logger)
			report, err := pl.Run(cmd.Context(), pipelineConfig(state.cfg))
			if err != nil {
				return err
			}

			var artifacts []model.Artifact
			projectGit := make(map[string]model.GitStatus)
			projectLastActive := make(map[string]time.Time)
			for _, proj := range report.Projects {
				projectGit[proj.Path] = proj.Git
				projectLastActive[proj.Path] = proj.LastActive
				for _, a := range proj.Artifacts {
					if a.EffectiveSafety() == model.SafetyNeverAuto {
						continue
					}
					artifacts = append(artifacts, a)
				}
			}
			for _, item := range report.HomeArtifacts {
				artifacts = append(artifacts, item.ToArtifact())
			}
			for _, item := range report.UnusedManagers {
				artifacts = append(artifacts, item.ToArtifact())
			}

			var total int64
			for _, a := range artifacts {
				if a.EffectiveSafety() == model.SafetyNeverAuto {
					continue
				}
				total += a.Bytes
			}

			fmt.Printf("%d artifacts, %s reclaimable using method %q\n", len(artifacts), pathutil.HumanizeBytes(total), deleteMethod)

			if deleteMethod != delete.MethodDryRun && !assumeYes {
				if !confirm(fmt.Sprintf("Proceed with %s deletion of %s?", deleteMethod, pathutil.HumanizeBytes(total))) {
					fmt.Println("aborted")
					return nil
				}
			}

			var store *delete.TrashStore
			if deleteMethod == delete.MethodTrash {
				dir := state.cfg.Clean.TrashDir
				if dir == "" {
					dir, err = delete.DefaultTrashDir()
					if err != nil {
						return err
					}
				}
				store, err = delete.NewTrashStore(dir)
				if err != nil {
					return err
				}
			}

			deleter := delete.New(store, state.logger)
			progress := &model.Progress{}

			if err := pl.Clean(cmd.Context(), deleter, artifacts, projectGit, projectLastActive, parseProtectionLevel(state.cfg.Clean.ProtectionLevel), deleteMethod, progress); err != nil {
				return err
			}

			snap := progress.Snapshot()
			fmt.Printf("freed %s across %d items\n", pathutil.HumanizeBytes(snap.BytesFreed), snap.ItemsDone)
			if errs := progress.Errors(); len(errs) > 0 {
				fmt.Printf("%d items could not be removed (use --verbose for detail)\n", len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "", "deletion method: dry-run, trash, permanent (default: from config)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
