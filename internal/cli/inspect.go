package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/junction/pkg/pipeline"
)

// inspectOpts holds the flags for the inspect command.
type inspectOpts struct {
	policy string
	budget int
	plain  bool
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse every connection of a run",
		Long: `Run the connection process and browse each connection in order: the two
boxes, their squared distance, what the connection did to the circuits, and
how many circuits remain. Results are never read from the cache.

With --plain the steps are printed as a table instead.`,
		Example: `  junction inspect input.txt
  junction inspect --policy unify --plain input.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts := pipeline.Options{Policy: opts.policy, Trace: true}
			if cmd.Flags().Changed("budget") {
				popts.Budget, popts.HasBudget = opts.budget, true
			}
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), args, popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.policy, "policy", "p", pipeline.DefaultPolicy, "stopping policy: budget or unify")
	cmd.Flags().IntVarP(&opts.budget, "budget", "n", 0, "number of connections (overrides the input's budget line)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print the steps instead of opening the browser")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, out io.Writer, args []string, popts pipeline.Options, opts inspectOpts) error {
	res, err := c.execute(ctx, args, popts, true)
	if err != nil {
		return err
	}

	last := 0
	if n := len(res.Steps); n > 0 && res.Last != nil {
		last = res.Steps[n-1].Ordinal
	}
	rows := NewStepRows(res.Input.Points, res.Steps)
	title := fmt.Sprintf("%s run · answer %d", res.Policy, res.Answer)
	m := NewStepListModel(title, rows, last)

	if opts.plain {
		m.Height = len(rows)
		_, err := fmt.Fprintln(out, m.View())
		return err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
