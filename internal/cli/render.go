package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/junction/pkg/pipeline"
)

// renderOpts holds the flags for the render command.
type renderOpts struct {
	policy   string
	budget   int
	format   string
	output   string
	detailed bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the circuits of a run with Graphviz",
		Long: `Run the connection process and draw the final circuits. Each circuit is a
cluster of its boxes joined by the connections that built it. For a unify
run the last connection is highlighted.

Formats: dot, svg, png. Without --output the rendering is written to stdout.`,
		Example: `  junction render input.txt -o circuits.svg
  junction render --policy unify --format png -o unified.png input.txt
  junction render --format dot input.txt | dot -Tpdf > circuits.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") && c.config.Render.Format != "" {
				opts.format = c.config.Render.Format
			}
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = c.config.Render.Detailed
			}

			popts := pipeline.Options{Policy: opts.policy}
			if cmd.Flags().Changed("budget") {
				popts.Budget, popts.HasBudget = opts.budget, true
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args, popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.policy, "policy", "p", pipeline.DefaultPolicy, "stopping policy: budget or unify")
	cmd.Flags().IntVarP(&opts.budget, "budget", "n", 0, "number of connections (overrides the input's budget line)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.DefaultFormat, "output format: dot, svg or png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label boxes with their index and connections with their weight")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runRender executes a run and writes its rendering to opts.output or out.
func (c *CLI) runRender(ctx context.Context, out io.Writer, args []string, popts pipeline.Options, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	ropts := pipeline.RenderOptions{Format: opts.format, Detailed: opts.detailed}
	if err := ropts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	res, err := c.execute(ctx, args, popts, opts.refresh)
	if err != nil {
		return err
	}

	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", ropts.Format))
	spinner.Start()
	data, err := runner.Render(ctx, res, ropts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d circuits as %s", len(res.Circuits), ropts.Format))
	logger.Debugf("Generated %s: %d bytes", ropts.Format, len(data))

	w, err := openOutput(opts.output, out)
	if err != nil {
		return err
	}
	defer w.Close()

	if _, err := w.Write(data); err != nil {
		return err
	}

	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}

// openOutput opens path for writing, or wraps fallback when path is empty.
func openOutput(path string, fallback io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{fallback}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
