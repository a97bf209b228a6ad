// Package ffmpeg assembles numbered frame images into a video by running the
// ffmpeg command-line tool.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrEncoderFailed is returned when ffmpeg cannot be started or exits non-zero.
var ErrEncoderFailed = errors.New("video encoder failed")

const (
	DefaultPath    = "ffmpeg"
	DefaultFPS     = 30
	DefaultCodec   = "libvpx"
	DefaultBitrate = "1M"
)

// A Job is one frame sequence to assemble.
type Job struct {
	// Pattern is the printf-style input pattern, for example "zoom/%05d.png".
	Pattern string

	// Width and Height are the frame size in pixels.
	Width, Height int

	// Output is the video file to create. Existing files are overwritten.
	Output string
}

// Runner executes a command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Encoder turns Jobs into ffmpeg invocations. Zero fields take the defaults.
type Encoder struct {
	Path    string
	FPS     int
	Codec   string
	Bitrate string
	Runner  Runner
}

func (e Encoder) path() string {
	if e.Path == "" {
		return DefaultPath
	}
	return e.Path
}

func (e Encoder) runner() Runner {
	if e.Runner == nil {
		return ExecRunner{}
	}
	return e.Runner
}

// Args returns the ffmpeg arguments for job, not including the program name.
func (e Encoder) Args(job Job) []string {
	fps := e.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	codec := e.Codec
	if codec == "" {
		codec = DefaultCodec
	}
	bitrate := e.Bitrate
	if bitrate == "" {
		bitrate = DefaultBitrate
	}

	return []string{
		"-y",
		"-r", strconv.Itoa(fps),
		"-f", "image2",
		"-s", fmt.Sprintf("%dx%d", job.Width, job.Height),
		"-i", job.Pattern,
		"-c:v", codec,
		"-b:v", bitrate,
		job.Output,
	}
}

// Encode runs ffmpeg for job and waits for it to exit.
func (e Encoder) Encode(ctx context.Context, job Job) error {
	out, err := e.runner().Run(ctx, e.path(), e.Args(job)...)
	if err != nil {
		return fmt.Errorf("%w: %s: %w%s", ErrEncoderFailed, e.path(), err, tail(out, 5))
	}
	return nil
}

// tail formats the last n lines of ffmpeg's output for an error message.
func tail(out []byte, n int) string {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return ""
	}

	lines := strings.Split(string(out), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return "\n" + strings.Join(lines, "\n")
}
