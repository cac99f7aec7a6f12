package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/armature/pkg/collision"
	"github.com/chazu/armature/pkg/config"
	"github.com/chazu/armature/pkg/ctxlog"
	"github.com/chazu/armature/pkg/description"
	"github.com/chazu/armature/pkg/engine"
	"github.com/chazu/armature/pkg/kernel/sdfx"
	"github.com/chazu/armature/pkg/robot"
)

// session loads the configuration and attaches a logger to the command's
// context.
func session(cmd *cobra.Command) (context.Context, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	logger := ctxlog.New(cmd.ErrOrStderr(), cfg.Verbose)
	return ctxlog.WithLogger(cmd.Context(), logger), cfg, nil
}

// loadDescription evaluates the program at path. Evaluation errors are
// joined into the returned error, one per line.
func loadDescription(ctx context.Context, cfg config.Config, path string) (*description.RobotDescription, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)
	eng := engine.NewEngine(engine.WithTimeout(cfg.EvalTimeout), engine.WithLogger(logger))
	rd, evalErrs, err := eng.EvaluateContext(ctx, string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = fmt.Errorf("%s: %w", path, e)
		}
		return nil, errors.Join(errs...)
	}
	return rd, nil
}

func robotOptions(cfg config.Config, logger *slog.Logger) []robot.Option {
	estimator := collision.NewEstimator(sdfx.NewWithCells(cfg.ContactCells), logger)
	return []robot.Option{
		robot.WithDamping(cfg.EnableDamping),
		robot.WithJointLimits(cfg.EnableLimits),
		robot.WithLogger(logger),
		robot.WithContactEstimator(estimator),
	}
}

// compile evaluates and builds the robot at path.
func compile(ctx context.Context, cfg config.Config, path string) (*robot.Robot, error) {
	rd, err := loadDescription(ctx, cfg, path)
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	r, err := robot.Build(rd, robotOptions(cfg, logger)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("built robot", "file", path, "robot", r.Name(), "joints", r.JointCount())
	return r, nil
}
