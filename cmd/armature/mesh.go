package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chazu/armature/pkg/config"
	"github.com/chazu/armature/pkg/kernel/sdfx"
	"github.com/chazu/armature/pkg/tessellate"
)

var meshCmd = &cobra.Command{
	Use:   "mesh FILE",
	Short: "Tessellate the collision geometry of every link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := session(cmd)
		if err != nil {
			return err
		}
		return runMesh(ctx, cfg, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(meshCmd)
}

func runMesh(ctx context.Context, cfg config.Config, path string, w io.Writer) error {
	r, err := compile(ctx, cfg, path)
	if err != nil {
		return err
	}
	meshes, err := tessellate.Tessellate(r, sdfx.NewWithCells(cfg.MeshCells))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINK\tVERTICES\tTRIANGLES")
	for _, m := range meshes {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", m.LinkName, m.VertexCount(), m.TriangleCount())
	}
	return tw.Flush()
}
