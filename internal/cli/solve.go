package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/junction/pkg/connect"
	pkgio "github.com/matzehuels/junction/pkg/io"
	"github.com/matzehuels/junction/pkg/pipeline"
)

// solveOpts holds the flags shared by the budget and unify commands.
type solveOpts struct {
	budget  int
	json    bool
	refresh bool
}

// budgetCommand creates the budget command.
func (c *CLI) budgetCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "budget [file]",
		Short: "Make a fixed number of connections and multiply the three largest circuit sizes",
		Long: `Connect the closest pairs of junction boxes, one pair per connection, until
the budget is spent. Connecting two boxes that already share a circuit still
uses up a connection. Prints the product of the sizes of the three largest
circuits.

The budget comes from --budget, or from a first input line without a comma.`,
		Example: `  junction budget input.txt
  junction budget --budget 1000 input.txt
  cat input.txt | junction budget --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts := pipeline.Options{Policy: connect.NameBudget}
			if cmd.Flags().Changed("budget") {
				popts.Budget, popts.HasBudget = opts.budget, true
			}
			return c.runSolve(cmd.Context(), cmd.OutOrStdout(), args, popts, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.budget, "budget", "n", 0, "number of connections (overrides the input's budget line)")
	addSolveFlags(cmd, &opts)
	return cmd
}

// unifyCommand creates the unify command.
func (c *CLI) unifyCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "unify [file]",
		Short: "Connect until one circuit remains and multiply the X coordinates of the last pair",
		Long: `Connect the closest pairs of junction boxes until every box belongs to a
single circuit. Prints the product of the X coordinates of the two boxes
whose connection completed the circuit. A budget line in the input is
ignored.`,
		Example: `  junction unify input.txt
  junction unify -v input.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), cmd.OutOrStdout(), args, pipeline.Options{Policy: connect.NameUnify}, opts)
		},
	}

	addSolveFlags(cmd, &opts)
	return cmd
}

func addSolveFlags(cmd *cobra.Command, opts *solveOpts) {
	cmd.Flags().BoolVar(&opts.json, "json", false, "write the full run report as JSON instead of the answer")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
}

// runSolve executes a run and writes its answer (or report) to out.
func (c *CLI) runSolve(ctx context.Context, out io.Writer, args []string, popts pipeline.Options, opts solveOpts) error {
	res, err := c.execute(ctx, args, popts, opts.refresh)
	if err != nil {
		return err
	}

	if opts.json {
		return pkgio.WriteJSON(res.Report(), out)
	}
	if _, err := fmt.Fprintln(out, strconv.FormatInt(res.Answer, 10)); err != nil {
		return err
	}

	printSuccess("%s answer %s", res.Policy, StyleNumber.Render(strconv.FormatInt(res.Answer, 10)))
	if res.Last != nil {
		a, b := res.Input.Points[res.Last.A], res.Input.Points[res.Last.B]
		printKeyValue("last pair", a.Key+" "+iconArrow+" "+b.Key)
	}
	printStats(res)
	return nil
}

// execute loads the input named by args and runs the pipeline over it.
func (c *CLI) execute(ctx context.Context, args []string, popts pipeline.Options, refresh bool) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)

	in, source, err := c.readInput(args)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded input", "source", source, "points", in.Len(), "budget_line", in.HasBudget)

	runner, err := c.newRunner()
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	popts.Workers = c.workers
	popts.Refresh = refresh
	popts.Logger = logger

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, in, popts)
	if err != nil {
		return nil, err
	}
	prog.done("solved", "boxes", in.Len(), "policy", res.Policy, "cached", res.CacheInfo.ResultHit)
	return res, nil
}
