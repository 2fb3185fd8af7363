package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/proxypatch/cmd/proxypatch/opts"
	"github.com/walteh/proxypatch/pkg/apipath"
	"github.com/walteh/proxypatch/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewPlanCmd creates a new plan command
func NewPlanCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "List the steps the patch runs, in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Plan(cmd.Context(), o, cmd.OutOrStdout())
		},
	}
}

// Plan prints the configured options and the ordered steps to out
func Plan(ctx context.Context, o *opts.RootOpts, out io.Writer) error {
	log.FromContext(ctx).Header("plan")

	plan, err := apipath.NewPlan(o.Config.PlanOptions())
	if err != nil {
		return errors.Errorf("building plan: %w", err)
	}

	po := plan.Options()
	fmt.Fprintf(out, "%s -> %s (%s, %s)\n", po.LegacyPrefix, po.BasePath, po.EnvVar, po.Helper)

	data := pterm.TableData{{"#", "step", "kind", "description"}}
	for i, step := range plan.Steps() {
		data = append(data, []string{strconv.Itoa(i + 1), step.Name(), step.Kind().String(), step.Description()})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering plan: %w", err)
	}
	fmt.Fprintln(out, table)
	return nil
}
