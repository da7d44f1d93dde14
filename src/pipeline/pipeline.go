// Package pipeline sequences validation, build, and push, and maps
// failures to user-facing reports and exit codes.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/prefigure/openapi-mock-build/src/engine"
	"github.com/prefigure/openapi-mock-build/src/image"
	"github.com/prefigure/openapi-mock-build/src/output"
	"github.com/prefigure/openapi-mock-build/src/registry"
	"github.com/prefigure/openapi-mock-build/src/security"
	"github.com/prefigure/openapi-mock-build/src/spec"
)

// Kind classifies terminal pipeline failures. Each kind maps to a
// distinct exit code, stable across runs.
type Kind int

const (
	KindNone Kind = iota
	KindValidationFailed
	KindSecretsFound
	KindInvalidImageName
	KindRegistryFormatSuspect
	KindEngineUnavailable
	KindBuildFailed
	KindPushFailed
)

// Failure is the terminal failure of a run. Exactly the fields relevant
// to its Kind are populated.
type Failure struct {
	Kind        Kind
	Err         error
	Issues      []spec.Issue         // KindValidationFailed
	Secrets     []security.Finding   // KindSecretsFound
	Correction  *registry.Correction // KindRegistryFormatSuspect
	RawOutput   string               // engine failures, shown in verbose mode
	Interrupted bool                 // failure caused by cancellation
}

// Result aggregates one pipeline invocation. Created once per run,
// never mutated after Run returns.
type Result struct {
	ImageRef string // fully-qualified reference of the built image
	Registry string // registry host as supplied
	Pushed   bool
	Info     *spec.Info
	Failure  *Failure
}

// OK reports whether the run completed without failure.
func (r Result) OK() bool { return r.Failure == nil }

// SpecValidator is the capability the pipeline needs from the OpenAPI
// validation layer.
type SpecValidator interface {
	Validate(ctx context.Context, path string) spec.Result
}

// SpecValidatorFunc adapts a plain function to SpecValidator.
type SpecValidatorFunc func(ctx context.Context, path string) spec.Result

func (f SpecValidatorFunc) Validate(ctx context.Context, path string) spec.Result {
	return f(ctx, path)
}

// SecretScanner is the capability the pipeline needs from the secret
// detection layer.
type SecretScanner interface {
	ScanFile(path string) ([]security.Finding, error)
}

// Options are the per-invocation inputs.
type Options struct {
	SpecFile string
	Image    string // name[:tag]
	Registry string // bare host[:port], empty for none
	Push     bool
	Port     int
	Verbose  bool
	Labels   map[string]string // OCI labels applied to the built image
}

// Orchestrator runs the validate → build → push sequence. Every step
// blocks until it completes; no step starts before the previous one
// succeeds; no step is retried.
type Orchestrator struct {
	Validator SpecValidator
	Scanner   SecretScanner // nil disables the secret scan
	Engine    engine.Engine
	Printer   *output.Printer

	// MinEngineVersion, when non-empty, is a semver constraint the
	// engine server version must satisfy (e.g. ">= 20.10.0").
	MinEngineVersion string
}

// Run executes the pipeline and returns its result. The returned
// Result always carries a Failure on any halt; it is never partial
// beyond the step that failed.
func (o *Orchestrator) Run(ctx context.Context, opts Options) Result {
	p := o.Printer
	if p == nil {
		p = output.NewPrinter()
	}
	res := Result{Registry: opts.Registry}
	step := 0

	// Validate
	step++
	p.Step(step, "Validating OpenAPI specification...")
	vres := o.Validator.Validate(ctx, opts.SpecFile)
	if !vres.Valid {
		res.Failure = &Failure{Kind: KindValidationFailed, Issues: vres.Issues}
		return res
	}
	res.Info = vres.Info
	p.Success("OpenAPI specification validation passed")
	if opts.Verbose && vres.Info != nil {
		p.Detail("Title: %s", vres.Info.Title)
		p.Detail("Version: %s", vres.Info.Version)
		p.Detail("Spec Version: %s", vres.Info.SpecVersion)
		p.Detail("Paths: %d", vres.Info.PathCount)
	}

	// Secret scan
	if o.Scanner != nil {
		step++
		p.Step(step, "Scanning specification for secrets...")
		findings, err := o.Scanner.ScanFile(opts.SpecFile)
		if err != nil {
			res.Failure = &Failure{Kind: KindSecretsFound, Err: fmt.Errorf("secret scan: %w", err)}
			return res
		}
		if len(findings) > 0 {
			res.Failure = &Failure{Kind: KindSecretsFound, Secrets: findings}
			return res
		}
		p.Success("No secrets detected in specification")
	}

	// Resolve image reference
	ref, err := image.Parse(opts.Image)
	if err != nil {
		res.Failure = &Failure{Kind: KindInvalidImageName, Err: err}
		return res
	}

	// Registry format check — only when a registry was supplied.
	// Advisory: the correction is surfaced and the run halts; it is
	// never applied silently.
	if opts.Registry != "" {
		step++
		p.Step(step, "Checking registry URL format...")
		if corr := registry.Check(opts.Registry, ref); corr != nil {
			res.Failure = &Failure{Kind: KindRegistryFormatSuspect, Correction: corr}
			return res
		}
		p.Success("Registry URL format looks good")
	}

	// Build — engine availability is checked first, so an unreachable
	// daemon is reported distinctly from a failed build.
	step++
	p.Step(step, "Building container image...")
	if err := o.Engine.Available(ctx); err != nil {
		res.Failure = engineFailure(KindEngineUnavailable, err)
		return res
	}
	if f := o.checkEngineVersion(ctx, p, opts.Verbose); f != nil {
		res.Failure = f
		return res
	}

	localRef := ref.String()
	buildSpec := engine.BuildSpec{
		Tag:      localRef,
		SpecFile: opts.SpecFile,
		Port:     opts.Port,
		Labels:   opts.Labels,
	}
	if err := o.Engine.Build(ctx, buildSpec); err != nil {
		res.Failure = engineFailure(KindBuildFailed, err)
		return res
	}
	p.Success("Container image built successfully")

	// Tag with the fully-qualified reference when pushing to a registry.
	fullRef := ref.WithRegistry(opts.Registry)
	res.ImageRef = fullRef
	if fullRef != localRef {
		if err := o.Engine.Tag(ctx, localRef, fullRef); err != nil {
			res.Failure = engineFailure(KindBuildFailed, err)
			return res
		}
		if opts.Verbose {
			p.Detail("Tagged image: %s", fullRef)
		}
	}

	// Push — only with a registry and push enabled. A failure here is
	// PushFailed by virtue of the step issuing the call, never by
	// parsing engine output.
	if opts.Push && opts.Registry != "" {
		step++
		p.Step(step, "Pushing container image...")
		if err := o.Engine.Push(ctx, fullRef); err != nil {
			res.Failure = engineFailure(KindPushFailed, err)
			return res
		}
		res.Pushed = true
		p.Success("Container image pushed successfully")
	} else {
		p.Skip("Skipping push")
	}

	return res
}

// checkEngineVersion enforces MinEngineVersion. Unparseable server
// versions skip the gate rather than failing the run.
func (o *Orchestrator) checkEngineVersion(ctx context.Context, p *output.Printer, verbose bool) *Failure {
	if o.MinEngineVersion == "" {
		return nil
	}

	raw, err := o.Engine.Version(ctx)
	if err != nil {
		return engineFailure(KindEngineUnavailable, err)
	}
	if verbose {
		p.Detail("Docker version: %s", raw)
	}

	constraint, err := semver.NewConstraint(o.MinEngineVersion)
	if err != nil {
		return nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil
	}
	if !constraint.Check(v) {
		return &Failure{
			Kind: KindEngineUnavailable,
			Err:  fmt.Errorf("docker server version %s does not satisfy %s", raw, o.MinEngineVersion),
		}
	}
	return nil
}

// engineFailure extracts raw output and interruption state from engine
// errors.
func engineFailure(kind Kind, err error) *Failure {
	f := &Failure{Kind: kind, Err: err}
	var execErr *engine.ExecError
	if errors.As(err, &execErr) {
		f.RawOutput = execErr.Output
		f.Interrupted = execErr.Interrupted
	}
	return f
}
