package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/proxypatch/cmd/proxypatch/opts"
	"github.com/walteh/proxypatch/pkg/apipath"
	"github.com/walteh/proxypatch/pkg/log"
	"github.com/walteh/proxypatch/pkg/operation"
	"github.com/walteh/proxypatch/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 patchOperations builds one patch operation per configured target
func patchOperations(ctx context.Context, o *opts.RootOpts, dryRun bool) ([]*operation.PatchOperation, *status.Manager, error) {
	plan, err := apipath.NewPlan(o.Config.PlanOptions())
	if err != nil {
		return nil, nil, errors.Errorf("building plan: %w", err)
	}

	files, err := status.New(o.Config.Root)
	if err != nil {
		return nil, nil, errors.Errorf("creating file manager: %w", err)
	}

	targets, err := files.Expand(ctx, o.Config.Targets)
	if err != nil {
		return nil, nil, errors.Errorf("expanding targets: %w", err)
	}

	ops := make([]*operation.PatchOperation, 0, len(targets))
	for _, target := range targets {
		op, err := operation.NewPatchOperation(operation.Options{
			Plan:   plan,
			Files:  files,
			Logger: log.FromContext(ctx),
			Target: target,
			Backup: o.Config.Backup,
			Force:  o.Force,
			DryRun: dryRun,
		})
		if err != nil {
			return nil, nil, errors.Errorf("creating operation for %s: %w", target, err)
		}
		ops = append(ops, op)
	}
	return ops, files, nil
}

// 🏃 runOperations runs ops with the configured runner
func runOperations(ctx context.Context, o *opts.RootOpts, ops []*operation.PatchOperation) error {
	all := make([]operation.Operation, len(ops))
	for i, op := range ops {
		all[i] = op
	}
	runner := operation.NewRunner(zerolog.Ctx(ctx), o.Config.Async, o.Config.Concurrency)
	return runner.Run(ctx, all...)
}
