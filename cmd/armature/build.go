package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/chazu/armature/pkg/config"
	"github.com/chazu/armature/pkg/report"
)

var buildCmd = &cobra.Command{
	Use:   "build FILE",
	Short: "Compile a robot description and print its report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := session(cmd)
		if err != nil {
			return err
		}
		return runBuild(ctx, cfg, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(ctx context.Context, cfg config.Config, path string, w io.Writer) error {
	r, err := compile(ctx, cfg, path)
	if err != nil {
		return err
	}
	return report.Encode(w, report.FromRobot(r), cfg.Format)
}
