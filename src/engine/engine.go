// Package engine abstracts the container engine the pipeline drives.
package engine

import "context"

// BuildSpec describes a single image build. The Dockerfile contract:
// it accepts SPEC_FILE and PORT build arguments and produces an image
// serving the mock API on that port with a /health endpoint.
type BuildSpec struct {
	Tag        string            // image reference to tag the result with
	SpecFile   string            // OpenAPI document path, passed as SPEC_FILE
	Port       int               // mock server listen port, passed as PORT
	Dockerfile string            // defaults to "Dockerfile"
	Context    string            // defaults to "."
	Labels     map[string]string // OCI labels applied to the image
}

// Engine is the capability interface the pipeline depends on. The
// docker implementation execs the docker CLI; tests substitute fakes.
type Engine interface {
	// Available reports whether the engine daemon is reachable.
	// Called before any build is attempted.
	Available(ctx context.Context) error
	// Version returns the engine server version string.
	Version(ctx context.Context) (string, error)
	Build(ctx context.Context, spec BuildSpec) error
	Tag(ctx context.Context, src, dst string) error
	Push(ctx context.Context, ref string) error
}

// ExecError carries the raw output of a failed engine invocation.
// Interrupted marks failures caused by context cancellation rather than
// the engine itself.
type ExecError struct {
	Op          string // "build", "tag", "push", "version"
	Output      string
	Interrupted bool
	Err         error
}

func (e *ExecError) Error() string {
	if e.Interrupted {
		return "docker " + e.Op + " interrupted"
	}
	return "docker " + e.Op + " failed: " + e.Err.Error()
}

func (e *ExecError) Unwrap() error { return e.Err }
