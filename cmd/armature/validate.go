package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chazu/armature/pkg/config"
	"github.com/chazu/armature/pkg/description"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a robot description without building it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := session(cmd)
		if err != nil {
			return err
		}
		return runValidate(ctx, cfg, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate prints every finding and fails when any is blocking.
func runValidate(ctx context.Context, cfg config.Config, path string, w io.Writer) error {
	rd, err := loadDescription(ctx, cfg, path)
	if err != nil {
		return err
	}

	res := description.Validate(rd)
	for _, e := range res.Errors {
		fmt.Fprintf(w, "✗ %v\n", e)
	}
	for _, e := range res.Warnings {
		fmt.Fprintf(w, "! %v\n", e)
	}
	if !res.OK() {
		return fmt.Errorf("%s: %d validation error(s)", path, len(res.Errors))
	}
	fmt.Fprintf(w, "✓ %s: robot %q with %d joints\n", path, rd.Name, rd.JointCount())
	return nil
}
