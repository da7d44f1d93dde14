package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// Docker drives the docker CLI. Output is always captured for error
// reporting; verbose additionally streams it to the configured writers.
type Docker struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewDocker creates a Docker runner with default output writers.
func NewDocker(verbose bool) *Docker {
	return &Docker{
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Available pings the docker daemon.
func (d *Docker) Available(ctx context.Context) error {
	if _, err := d.serverVersion(ctx); err != nil {
		return err
	}
	return nil
}

// Version returns the docker server version.
func (d *Docker) Version(ctx context.Context) (string, error) {
	return d.serverVersion(ctx)
}

func (d *Docker) serverVersion(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "docker", "version", "--format", "{{.Server.Version}}")
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return "", &ExecError{
			Op:          "version",
			Output:      errBuf.String(),
			Interrupted: ctx.Err() != nil,
			Err:         err,
		}
	}
	return strings.TrimSpace(out.String()), nil
}

// Build executes docker build with the SPEC_FILE and PORT build args.
func (d *Docker) Build(ctx context.Context, spec BuildSpec) error {
	return d.run(ctx, "build", d.buildArgs(spec))
}

// Tag applies an additional reference to a built image.
func (d *Docker) Tag(ctx context.Context, src, dst string) error {
	return d.run(ctx, "tag", []string{"tag", src, dst})
}

// Push uploads a fully-qualified reference to its registry.
func (d *Docker) Push(ctx context.Context, ref string) error {
	return d.run(ctx, "push", []string{"push", ref})
}

// buildArgs constructs the docker build argument list.
func (d *Docker) buildArgs(spec BuildSpec) []string {
	args := []string{"build"}

	dockerfile := spec.Dockerfile
	if dockerfile == "" {
		dockerfile = "Dockerfile"
	}
	args = append(args, "--file", dockerfile)

	args = append(args,
		"--build-arg", "SPEC_FILE="+spec.SpecFile,
		"--build-arg", "PORT="+strconv.Itoa(spec.Port),
	)

	// Deterministic label order
	keys := make([]string, 0, len(spec.Labels))
	for k := range spec.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--label", fmt.Sprintf("%s=%s", k, spec.Labels[k]))
	}

	args = append(args, "--tag", spec.Tag)

	buildContext := spec.Context
	if buildContext == "" {
		buildContext = "."
	}
	args = append(args, buildContext)

	return args
}

// run executes a docker command, capturing combined output. In verbose
// mode the output is also streamed to the configured writers.
func (d *Docker) run(ctx context.Context, op string, args []string) error {
	var captured bytes.Buffer
	stdout, stderr := io.Writer(&captured), io.Writer(&captured)
	if d.Verbose {
		fmt.Fprintf(d.Stderr, "exec: docker %s\n", strings.Join(args, " "))
		stdout = io.MultiWriter(&captured, d.Stdout)
		stderr = io.MultiWriter(&captured, d.Stderr)
	}

	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return &ExecError{
			Op:          op,
			Output:      captured.String(),
			Interrupted: ctx.Err() != nil,
			Err:         err,
		}
	}
	return nil
}
