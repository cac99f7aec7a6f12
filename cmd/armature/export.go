package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/armature/pkg/config"
	"github.com/chazu/armature/pkg/ctxlog"
	"github.com/chazu/armature/pkg/description"
	"github.com/chazu/armature/pkg/engine"
	"github.com/chazu/armature/pkg/kernel"
	"github.com/chazu/armature/pkg/kernel/sdfx"
	"github.com/chazu/armature/pkg/robot"
	"github.com/chazu/armature/pkg/tessellate"
)

// colorPalette is a default palette used for links without a graphics color.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON mesh format consumed by viewers.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	LinkName string    `json:"linkName"`
	Color    string    `json:"color"`
}

// ExportError is a JSON-serializable evaluation, validation, or build error.
type ExportError struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ExportResult is the full result of exporting one program.
type ExportResult struct {
	Robot    string        `json:"robot"`
	Meshes   []MeshData    `json:"meshes"`
	Errors   []ExportError `json:"errors"`
	Warnings []ExportError `json:"warnings"`
}

// exporter runs the whole pipeline, from source to colored meshes, and
// reports every failure in the result instead of returning it.
type exporter struct {
	engine *engine.Engine
	kernel kernel.Kernel
	opts   []robot.Option
	logger *slog.Logger
}

func newExporter(cfg config.Config, logger *slog.Logger) *exporter {
	return &exporter{
		engine: engine.NewEngine(engine.WithTimeout(cfg.EvalTimeout), engine.WithLogger(logger)),
		kernel: sdfx.NewWithCells(cfg.MeshCells),
		opts:   robotOptions(cfg, logger),
		logger: logger,
	}
}

// Export evaluates source and returns mesh data and errors.
func (x *exporter) Export(source string) ExportResult {
	result := ExportResult{
		Meshes:   []MeshData{},
		Errors:   []ExportError{},
		Warnings: []ExportError{},
	}

	// Step 1: Evaluate the program into a robot description.
	rd, evalErrs, err := x.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		x.logger.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, ExportError{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, ExportError{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}
	result.Robot = rd.Name

	// Step 2: Validation warnings are reported; errors stop the export.
	res := description.Validate(rd)
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, ExportError{Message: w.Error()})
	}
	if !res.OK() {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, ExportError{Message: e.Error()})
		}
		return result
	}

	// Step 3: Build the kinematic tree.
	r, err := robot.Build(rd, x.opts...)
	if err != nil {
		result.Errors = append(result.Errors, ExportError{Message: "build failed: " + err.Error()})
		return result
	}

	// Step 4: Tessellate collision geometry.
	meshes, err := tessellate.Tessellate(r, x.kernel)
	if err != nil {
		x.logger.Error("tessellate failed", "robot", r.Name(), "err", err)
		result.Errors = append(result.Errors, ExportError{Message: "tessellation failed: " + err.Error()})
		return result
	}

	colors := linkColors(r)
	for i, m := range meshes {
		color := colors[m.LinkName]
		if color == "" {
			color = colorPalette[i%len(colorPalette)]
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			LinkName: m.LinkName,
			Color:    color,
		})
	}
	return result
}

// linkColors maps link names to their declared graphics color.
func linkColors(r *robot.Robot) map[string]string {
	colors := make(map[string]string)
	r.Walk(func(j *robot.Joint) {
		l := j.Link()
		if l == nil || l.Graphics() == nil || l.Graphics().Color == "" {
			return
		}
		colors[l.Name()] = l.Graphics().Color
	})
	return colors
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write tessellated link geometry as JSON for a viewer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := session(cmd)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		result := newExporter(cfg, ctxlog.FromContext(ctx)).Export(string(src))

		out := cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("output"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("%s: export produced %d error(s)", args[0], len(result.Errors))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write JSON to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
