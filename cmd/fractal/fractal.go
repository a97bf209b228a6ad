package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/willbeason/escape-fractal/pkg/escape"
	"github.com/willbeason/escape-fractal/pkg/imageio"
	"github.com/willbeason/escape-fractal/pkg/palette"
	"github.com/willbeason/escape-fractal/pkg/render"
	"github.com/willbeason/escape-fractal/pkg/transforms"
)

const usage = `Renders an escape-time fractal to an image file.

Arguments:
  TYPE        m - Mandelbrot set, j - Julia set, b - Burning Ship set
  RESOLUTION  output image size as WIDTHxHEIGHT, e.g. 500x700
  SCALE       width of the visible window of the complex plane, e.g. 5.0
              (the height follows the image's aspect ratio)
  CENTER      center of the window as X,Y, e.g. 0.3,5.0
  IMAX        maximum iterations before a point counts as inside, e.g. 3000
  FILENAME    output image; the extension picks the format, e.g. fractal.png

Flags go before the arguments so that negative centers such as -0.5,0 are
not mistaken for flags.`

// options are the flags shared by every command.
type options struct {
	julia   complexValue
	palette string
	workers int
	quiet   bool
	verbose bool
}

func mainCmd() *cobra.Command {
	opts := &options{julia: complexValue(transforms.DefaultJuliaC)}

	cmd := &cobra.Command{
		Use:   "fractal TYPE RESOLUTION SCALE CENTER IMAX FILENAME",
		Short: "Render Mandelbrot, Julia and Burning Ship fractals",
		Long:  usage,
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmd(cmd, args, opts)
		},
	}

	cmd.Flags().SetInterspersed(false)

	flags := cmd.PersistentFlags()
	flags.Var(&opts.julia, "julia", "constant c for Julia sets")
	flags.StringVar(&opts.palette, "palette", palette.Default.Name,
		fmt.Sprintf("color palette: one of %s, or hex anchors such as 300:#141441,#3f6efc",
			strings.Join(palette.Names(), ", ")))
	flags.IntVar(&opts.workers, "workers", runtime.NumCPU(), "goroutines rendering rows in parallel")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "print nothing but errors")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log render details to stderr")

	cmd.AddCommand(zoomCmd(opts))

	return cmd
}

// setup parses the positional arguments and applies the shared flags.
func setup(cmd *cobra.Command, args []string, opts *options) (render.Config, error) {
	cfg, err := parseArgs(args)
	if err != nil {
		return render.Config{}, err
	}

	p, err := palette.Lookup(opts.palette)
	if err != nil {
		return render.Config{}, fmt.Errorf("%w: %w", render.ErrInvalidConfig, err)
	}
	cfg.Palette = p
	cfg.JuliaC = complex128(opts.julia)

	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	render.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	if !opts.quiet {
		printDetails(cmd.OutOrStdout(), cfg)
	}

	return cfg, nil
}

func runCmd(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := setup(cmd, args, opts)
	if err != nil {
		return err
	}

	r := render.Renderer{Workers: opts.workers}
	if !opts.quiet {
		r.Progress = progressPrinter(cmd.OutOrStdout())
	}

	return r.RenderTo(cmd.Context(), cfg, imageio.FileEncoder{})
}

// printDetails prints a summary of what is about to be rendered.
func printDetails(w io.Writer, cfg render.Config) {
	fmt.Fprintln(w, "┌─────────────────────────────────────")
	fmt.Fprintf(w, "│ Fractal type:       %s (%s)\n", cfg.Variant, cfg.Variant.Code())
	fmt.Fprintf(w, "│ Dimensions:         %dx%d\n", cfg.Width, cfg.Height)
	fmt.Fprintf(w, "│ Scale:              %.4g x %.4g\n", cfg.View.Width, cfg.View.Height)
	fmt.Fprintf(w, "│ Center:             (%g, %g)\n", cfg.View.CenterX, cfg.View.CenterY)
	if cfg.Variant == escape.Julia {
		fmt.Fprintf(w, "│ Julia constant:     %g\n", cfg.JuliaC)
	}
	fmt.Fprintf(w, "│ Maximum iterations: %d\n", cfg.MaxIterations)
	fmt.Fprintf(w, "│ Palette:            %s\n", cfg.Palette.Name)
	fmt.Fprintf(w, "│ Filename:           %s\n", cfg.Output)
	fmt.Fprintln(w, "└─────────────────────────────────────")
}

// progressPrinter rewrites a single console line as rows complete.
func progressPrinter(w io.Writer) render.ProgressFunc {
	return func(fraction float64) {
		fmt.Fprintf(w, "\r >>>> %6.2f%% done", fraction*100)
		if fraction >= 1 {
			fmt.Fprintln(w)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		stop()
		os.Exit(1)
	}
}
