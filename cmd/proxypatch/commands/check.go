package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/proxypatch/cmd/proxypatch/opts"
	"github.com/walteh/proxypatch/pkg/log"
	"github.com/walteh/proxypatch/pkg/status"
	"github.com/walteh/proxypatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// CheckOptions controls what check prints and when it fails
type CheckOptions struct {
	Diff   bool
	Strict bool
}

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var checkOpts CheckOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show what the patch would change without writing",
		Long: `Check runs every step against the targets without touching them.
It will:
1. Print each target with its status
2. Print a table of steps and how often each matched
3. With --diff, print the lines the patch would change
4. Print a summary of every target with its checksums
5. With --strict, fail when any step matched nothing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Check(cmd.Context(), o, cmd.OutOrStdout(), checkOpts)
		},
	}

	cmd.Flags().BoolVar(&checkOpts.Diff, "diff", false, "print a line diff of the change")
	cmd.Flags().BoolVar(&checkOpts.Strict, "strict", false, "fail when any step matches nothing")

	return cmd
}

// Check runs the plan in dry run mode and reports per step results to out
func Check(ctx context.Context, o *opts.RootOpts, out io.Writer, checkOpts CheckOptions) error {
	logger := log.FromContext(ctx)
	logger.Header("check " + strings.Join(o.Config.Targets, ", "))

	ops, files, err := patchOperations(ctx, o, true)
	if err != nil {
		return err
	}

	if err := runOperations(ctx, o, ops); err != nil {
		return err
	}

	unmatched := 0
	for _, op := range ops {
		info, err := files.GetFileInfo(ctx, op.Target)
		if err != nil {
			return errors.Errorf("reading status: %w", err)
		}
		fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint(info.Path), color.New(color.Faint).Sprintf("(%s)", info.Status))

		result := op.Result()
		if result.Replacement == nil {
			continue
		}

		table, err := stepTable(result.Replacement)
		if err != nil {
			return errors.Errorf("rendering step table: %w", err)
		}
		fmt.Fprintln(out, table)

		unmatched += len(result.Replacement.Unmatched())

		if checkOpts.Diff && result.Replacement.WasModified {
			fmt.Fprint(out, text.LineDiff(string(result.Replacement.OriginalContent), string(result.Replacement.ModifiedContent)))
		}
	}

	summary, err := fileTable(files.ListFiles(ctx))
	if err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}
	fmt.Fprintln(out, summary)
	logger.Infof("%d targets checked, %d steps matched nothing", len(ops), unmatched)

	if checkOpts.Strict && unmatched > 0 {
		return errors.Errorf("strict: %d steps matched nothing", unmatched)
	}
	return nil
}

func stepTable(result *text.ReplacementResult) (string, error) {
	data := pterm.TableData{{"step", "kind", "matches"}}
	for _, s := range result.Steps {
		data = append(data, []string{s.Name, s.Kind.String(), strconv.Itoa(s.Matches)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func fileTable(files []status.FileInfo) (string, error) {
	data := pterm.TableData{{"target", "status", "replacements", "before", "after"}}
	for _, f := range files {
		data = append(data, []string{f.Path, f.Status.String(), strconv.Itoa(f.Replacements), shortSum(f.Before), shortSum(f.After)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func shortSum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
