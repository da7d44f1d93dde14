package pipeline

import (
	"fmt"
	"strings"

	"github.com/prefigure/openapi-mock-build/src/registry"
)

// Exit codes, stable across runs for scripting.
const (
	ExitOK                = 0
	ExitValidationFailed  = 1
	ExitRegistrySuspect   = 2
	ExitInvalidImageName  = 3
	ExitEngineUnavailable = 4
	ExitBuildFailed       = 5
	ExitPushFailed        = 6
	ExitSecretsFound      = 7
)

// Report maps a pipeline result to a user-facing message and process
// exit code. Raw engine output appears only when verbose is set.
func Report(res Result, verbose bool) (string, int) {
	if res.OK() {
		return successMessage(res), ExitOK
	}

	f := res.Failure
	switch f.Kind {
	case KindValidationFailed:
		return validationMessage(f), ExitValidationFailed
	case KindSecretsFound:
		return secretsMessage(f), ExitSecretsFound
	case KindInvalidImageName:
		return fmt.Sprintf("✗ Invalid image name: %v", f.Err), ExitInvalidImageName
	case KindRegistryFormatSuspect:
		return suspectMessage(res), ExitRegistrySuspect
	case KindEngineUnavailable:
		return engineMessage("✗ Docker is not available or not running", f, verbose), ExitEngineUnavailable
	case KindBuildFailed:
		return engineMessage("✗ Container build failed", f, verbose), ExitBuildFailed
	case KindPushFailed:
		return engineMessage("✗ Container push failed", f, verbose), ExitPushFailed
	default:
		return fmt.Sprintf("✗ Error: %v", f.Err), ExitValidationFailed
	}
}

func successMessage(res Result) string {
	var b strings.Builder
	b.WriteString("All steps completed successfully.\n")
	fmt.Fprintf(&b, "Image: %s", res.ImageRef)
	if res.Pushed {
		fmt.Fprintf(&b, "\nPushed to: %s", res.Registry)
	}
	return b.String()
}

// validationMessage enumerates every issue collected, not just the first.
func validationMessage(f *Failure) string {
	var b strings.Builder
	b.WriteString("✗ OpenAPI validation failed:")
	for _, issue := range f.Issues {
		if issue.Location != "" {
			fmt.Fprintf(&b, "\n  %s: %s", issue.Location, issue.Message)
		} else {
			fmt.Fprintf(&b, "\n  %s", issue.Message)
		}
	}
	return b.String()
}

func secretsMessage(f *Failure) string {
	if f.Err != nil {
		return fmt.Sprintf("✗ Secret scan failed: %v", f.Err)
	}
	var b strings.Builder
	b.WriteString("✗ Specification contains potential secrets; refusing to bake it into an image:")
	for _, s := range f.Secrets {
		fmt.Fprintf(&b, "\n  line %d: %s (%s)", s.Line, s.Description, s.RuleID)
	}
	b.WriteString("\nRemove the secrets, or re-run with --skip-secrets if these are fixtures.")
	return b.String()
}

// suspectMessage emits the corrected registry/image pair verbatim so the
// user can copy it into a retry.
func suspectMessage(res Result) string {
	corr := res.Failure.Correction
	provider := registry.DetectProvider(corr.Registry)

	var b strings.Builder
	b.WriteString("✗ Registry URL should not include an image path.\n\n")
	fmt.Fprintf(&b, "The -r flag takes only the registry host (%s), not the full image path.\n\n", provider.Describe())
	fmt.Fprintf(&b, "Current registry: %s\n", res.Registry)
	b.WriteString("Suggested fix:\n")
	fmt.Fprintf(&b, "  -r %s\n", corr.Registry)
	fmt.Fprintf(&b, "  -i %s", corr.Image)
	return b.String()
}

func engineMessage(summary string, f *Failure, verbose bool) string {
	var b strings.Builder
	b.WriteString(summary)
	if f.Interrupted {
		b.WriteString(" (interrupted)")
	}
	if f.Err != nil {
		fmt.Fprintf(&b, ": %v", f.Err)
	}
	if verbose && f.RawOutput != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(f.RawOutput, "\n"))
	}
	return b.String()
}
