package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willbeason/escape-fractal/pkg/ffmpeg"
	"github.com/willbeason/escape-fractal/pkg/render"
	"github.com/willbeason/escape-fractal/pkg/zoom"
)

type zoomOptions struct {
	frames  int
	rate    float64
	noVideo bool
	encoder ffmpeg.Encoder
}

func zoomCmd(opts *options) *cobra.Command {
	zopts := &zoomOptions{}

	cmd := &cobra.Command{
		Use:   "zoom TYPE RESOLUTION SCALE CENTER IMAX FILENAME",
		Short: "Render a zoom animation and assemble it into a video",
		Long: usage + `

FILENAME names the animation: "deep.png" writes frames to deep/00000.png,
deep/00001.png, ... and the video to deep.webm. Each frame's scale is the
previous one's multiplied by --rate.`,
		Args: cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runZoom(cmd, args, opts, zopts)
		},
	}

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.IntVar(&zopts.frames, "frames", 300, fmt.Sprintf("number of frames, at most %d", zoom.MaxFrames))
	flags.Float64Var(&zopts.rate, "rate", 0.95, "scale factor applied each frame")
	flags.BoolVar(&zopts.noVideo, "no-video", false, "write the frames but do not run ffmpeg")
	flags.StringVar(&zopts.encoder.Path, "ffmpeg", ffmpeg.DefaultPath, "ffmpeg executable")
	flags.IntVar(&zopts.encoder.FPS, "fps", ffmpeg.DefaultFPS, "video frame rate")
	flags.StringVar(&zopts.encoder.Codec, "codec", ffmpeg.DefaultCodec, "video codec passed to ffmpeg -c:v")
	flags.StringVar(&zopts.encoder.Bitrate, "bitrate", ffmpeg.DefaultBitrate, "video bitrate passed to ffmpeg -b:v")

	return cmd
}

func runZoom(cmd *cobra.Command, args []string, opts *options, zopts *zoomOptions) error {
	// Reject the frame count before printing or creating anything.
	if zopts.frames > zoom.MaxFrames {
		cmd.SilenceUsage = true
		return fmt.Errorf("%w: %d > %d", zoom.ErrTooManyFrames, zopts.frames, zoom.MaxFrames)
	}

	cfg, err := setup(cmd, args, opts)
	if err != nil {
		return err
	}

	plan := zoom.Plan{Frames: zopts.frames, Rate: zopts.rate, Base: cfg}

	s := zoom.Sequencer{Renderer: render.Renderer{Workers: opts.workers}}
	if !zopts.noVideo {
		s.Video = zopts.encoder
	}
	if !opts.quiet {
		out := cmd.OutOrStdout()
		s.Renderer.Progress = progressPrinter(out)
		s.OnFrame = func(n, total int) {
			fmt.Fprintf(out, "frame %d/%d\n", n+1, total)
		}
	}

	res, err := s.Animate(cmd.Context(), plan)
	if err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", len(res.Frames), res.Layout.Dir)
		if res.Video != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", res.Video)
		}
	}
	return nil
}
