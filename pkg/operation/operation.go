// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/proxypatch/pkg/apipath"
	"github.com/walteh/proxypatch/pkg/log"
	"github.com/walteh/proxypatch/pkg/status"
	"github.com/walteh/proxypatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a unit of work the runner can execute
type Operation interface {
	Execute(ctx context.Context) error
}

// 💾 Files is the file access an operation needs: reading and writing targets
// and recording what happened to them
type Files interface {
	status.FileManager
	status.StatusReporter
}

var _ Files = (*status.Manager)(nil)

// 🔧 Options contains configuration for an operation
type Options struct {
	// Plan is the patch plan to apply
	Plan *apipath.Plan
	// Files resolves, reads and writes targets under the root directory
	Files Files
	// Logger receives user facing lines
	Logger *log.Logger
	// Target is the file to patch, relative to the root directory
	Target string
	// Backup keeps <target>.bak before writing
	Backup bool
	// Force patches a file that already carries the patch
	Force bool
	// DryRun computes the change without writing
	DryRun bool
}

// 🏗️ BaseOperation holds the options shared by operations
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation checks the options and wraps them
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Plan == nil {
		return BaseOperation{}, errors.Errorf("plan is required")
	}
	if opts.Files == nil {
		return BaseOperation{}, errors.Errorf("file manager is required")
	}
	if opts.Logger == nil {
		return BaseOperation{}, errors.Errorf("logger is required")
	}
	if opts.Target == "" {
		return BaseOperation{}, errors.Errorf("target is required")
	}
	return BaseOperation{Options: opts}, nil
}

// 📊 Result is what a patch operation did to its target
type Result struct {
	Target string
	Status status.FileStatus
	// Replacement is nil when the pipeline did not run
	Replacement *text.ReplacementResult
}

// 🔄 PatchOperation applies the plan to a single target
type PatchOperation struct {
	BaseOperation

	mu     sync.Mutex
	result Result
}

var _ Operation = (*PatchOperation)(nil)

// 🏭 NewPatchOperation creates a patch operation for opts.Target
func NewPatchOperation(opts Options) (*PatchOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &PatchOperation{
		BaseOperation: base,
		result:        Result{Target: opts.Target},
	}, nil
}

// Result returns the outcome of the last Execute
func (op *PatchOperation) Result() Result {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.result
}

// 🏃 Execute reads the target, runs every step and writes the result back
func (op *PatchOperation) Execute(ctx context.Context) error {
	content, mode, err := op.Files.ReadFile(ctx, op.Target)
	if err != nil {
		op.finish(ctx, status.StatusFailed, nil, err)
		return errors.Errorf("reading target: %w", err)
	}

	if !op.Force && op.Plan.IsApplied(string(content)) {
		op.Logger.Warningf("%s: already patched, skipping (use --force to reapply)", op.Target)
		op.finish(ctx, status.StatusAlreadyPatched, nil, nil)
		return nil
	}

	result := op.Plan.Pipeline().Apply(ctx, string(content))
	for _, step := range result.Steps {
		op.Logger.LogStep(ctx, op.Target, step.Name, step.Matches)
	}

	if op.DryRun {
		op.finish(ctx, status.StatusDryRun, result, nil)
		return nil
	}

	if !result.WasModified {
		op.finish(ctx, status.StatusUnchanged, result, nil)
		return nil
	}

	if op.Backup {
		if err := op.Files.BackupFile(ctx, op.Target); err != nil {
			op.finish(ctx, status.StatusFailed, result, err)
			return errors.Errorf("backing up target: %w", err)
		}
	}

	if err := op.Files.WriteFileAtomic(ctx, op.Target, result.ModifiedContent, mode); err != nil {
		if op.Backup {
			op.restore(ctx)
		}
		op.finish(ctx, status.StatusFailed, result, err)
		return errors.Errorf("writing target: %w", err)
	}

	op.finish(ctx, status.StatusPatched, result, nil)
	return nil
}

// restore puts the backup taken before a failed write back in place
func (op *PatchOperation) restore(ctx context.Context) {
	if err := op.Files.RestoreFile(ctx, op.Target); err != nil {
		op.Logger.Warningf("%s: restoring backup: %v", op.Target, err)
		return
	}
	zerolog.Ctx(ctx).Debug().Str("path", op.Target).Msg("restored backup after failed write")
}

// finish records the outcome with the file manager and the logger
func (op *PatchOperation) finish(ctx context.Context, st status.FileStatus, result *text.ReplacementResult, err error) {
	info := status.FileInfo{
		Path:   op.Target,
		Status: st,
		Error:  err,
	}
	row := log.FileOperation{
		Path:      op.Target,
		Status:    st.String(),
		IsSkipped: st == status.StatusAlreadyPatched || st == status.StatusUnchanged,
		IsDryRun:  st == status.StatusDryRun,
		IsFailed:  st == status.StatusFailed,
	}
	if result != nil {
		info.Before = status.Checksum(result.OriginalContent)
		info.After = status.Checksum(result.ModifiedContent)
		info.Replacements = result.ReplacementCount
		row.IsModified = result.WasModified
		row.Replacements = result.ReplacementCount
		row.Unmatched = len(result.Unmatched())
	}

	op.mu.Lock()
	op.result = Result{Target: op.Target, Status: st, Replacement: result}
	op.mu.Unlock()

	op.Files.TrackFile(ctx, info)
	op.Logger.LogFile(ctx, row)
}
