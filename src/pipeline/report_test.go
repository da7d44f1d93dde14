package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/prefigure/openapi-mock-build/src/registry"
	"github.com/prefigure/openapi-mock-build/src/security"
	"github.com/prefigure/openapi-mock-build/src/spec"
)

func TestReport_ExitCodesAreDistinct(t *testing.T) {
	kinds := []Kind{
		KindValidationFailed,
		KindSecretsFound,
		KindInvalidImageName,
		KindRegistryFormatSuspect,
		KindEngineUnavailable,
		KindBuildFailed,
		KindPushFailed,
	}

	seen := map[int]Kind{}
	for _, kind := range kinds {
		res := Result{Failure: &Failure{
			Kind:       kind,
			Err:        errors.New("boom"),
			Correction: &registry.Correction{Registry: "r", Image: "i"},
		}}
		_, code := Report(res, false)
		if code == ExitOK {
			t.Errorf("kind %v reported exit 0", kind)
		}
		if prev, dup := seen[code]; dup {
			t.Errorf("kinds %v and %v share exit code %d", prev, kind, code)
		}
		seen[code] = kind
	}
}

func TestReport_Success(t *testing.T) {
	msg, code := Report(Result{ImageRef: "registry.com/app:1.0", Registry: "registry.com", Pushed: true}, false)
	if code != ExitOK {
		t.Fatalf("code = %d, want 0", code)
	}
	if !strings.Contains(msg, "registry.com/app:1.0") {
		t.Errorf("message %q missing image ref", msg)
	}
	if !strings.Contains(msg, "Pushed to: registry.com") {
		t.Errorf("message %q missing push confirmation", msg)
	}
}

func TestReport_ValidationEnumeratesEveryIssue(t *testing.T) {
	res := Result{Failure: &Failure{
		Kind: KindValidationFailed,
		Issues: []spec.Issue{
			{Location: "/info/title", Message: "missing required 'info.title' field"},
			{Location: "/paths", Message: "missing required 'paths' object"},
		},
	}}

	msg, code := Report(res, false)
	if code != ExitValidationFailed {
		t.Fatalf("code = %d", code)
	}
	for _, want := range []string{"/info/title", "/paths"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing issue %s", msg, want)
		}
	}
}

func TestReport_SuspectEmitsCorrectionVerbatim(t *testing.T) {
	res := Result{
		Registry: "registry.com/my-namespace/my-api",
		Failure: &Failure{
			Kind:       KindRegistryFormatSuspect,
			Correction: &registry.Correction{Registry: "registry.com", Image: "my-namespace/my-api:latest"},
		},
	}

	msg, code := Report(res, false)
	if code != ExitRegistrySuspect {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(msg, "-r registry.com") {
		t.Errorf("message %q missing registry suggestion", msg)
	}
	if !strings.Contains(msg, "-i my-namespace/my-api:latest") {
		t.Errorf("message %q missing image suggestion", msg)
	}
	if !strings.Contains(msg, "registry.com/my-namespace/my-api") {
		t.Errorf("message %q missing current registry", msg)
	}
}

func TestReport_RawOutputOnlyWhenVerbose(t *testing.T) {
	res := Result{Failure: &Failure{
		Kind:      KindBuildFailed,
		Err:       errors.New("exit status 1"),
		RawOutput: "ERROR: failed to solve: process did not complete",
	}}

	quiet, _ := Report(res, false)
	if strings.Contains(quiet, "failed to solve") {
		t.Errorf("raw output leaked into non-verbose message: %q", quiet)
	}
	if strings.Count(quiet, "\n") > 0 {
		t.Errorf("non-verbose engine failure should be a single line: %q", quiet)
	}

	loud, _ := Report(res, true)
	if !strings.Contains(loud, "failed to solve") {
		t.Errorf("verbose message missing raw output: %q", loud)
	}
}

func TestReport_SecretsListFindings(t *testing.T) {
	res := Result{Failure: &Failure{
		Kind: KindSecretsFound,
		Secrets: []security.Finding{
			{RuleID: "generic-api-key", Description: "Generic API Key", Line: 42},
		},
	}}

	msg, code := Report(res, false)
	if code != ExitSecretsFound {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(msg, "line 42") || !strings.Contains(msg, "generic-api-key") {
		t.Errorf("message %q missing finding detail", msg)
	}
}

func TestReport_InterruptedMention(t *testing.T) {
	res := Result{Failure: &Failure{
		Kind:        KindPushFailed,
		Err:         errors.New("signal: interrupt"),
		Interrupted: true,
	}}

	msg, code := Report(res, false)
	if code != ExitPushFailed {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(msg, "interrupted") {
		t.Errorf("message %q does not mention interruption", msg)
	}
}
