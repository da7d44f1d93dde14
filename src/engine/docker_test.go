package engine

import (
	"reflect"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	d := NewDocker(false)

	args := d.buildArgs(BuildSpec{
		Tag:      "my-api:latest",
		SpecFile: "api.yaml",
		Port:     3000,
	})

	want := []string{
		"build",
		"--file", "Dockerfile",
		"--build-arg", "SPEC_FILE=api.yaml",
		"--build-arg", "PORT=3000",
		"--tag", "my-api:latest",
		".",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("buildArgs = %v\nwant %v", args, want)
	}
}

func TestBuildArgs_LabelsSorted(t *testing.T) {
	d := NewDocker(false)

	args := d.buildArgs(BuildSpec{
		Tag:      "app:1.0",
		SpecFile: "spec.json",
		Port:     8080,
		Labels: map[string]string{
			"org.opencontainers.image.revision":      "abc1234",
			"org.opencontainers.image.source.branch": "main",
		},
	})

	want := []string{
		"build",
		"--file", "Dockerfile",
		"--build-arg", "SPEC_FILE=spec.json",
		"--build-arg", "PORT=8080",
		"--label", "org.opencontainers.image.revision=abc1234",
		"--label", "org.opencontainers.image.source.branch=main",
		"--tag", "app:1.0",
		".",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("buildArgs = %v\nwant %v", args, want)
	}
}

func TestBuildArgs_Overrides(t *testing.T) {
	d := NewDocker(false)

	args := d.buildArgs(BuildSpec{
		Tag:        "app:dev",
		SpecFile:   "openapi/api.yaml",
		Port:       4010,
		Dockerfile: "build/Dockerfile.mock",
		Context:    "build",
	})

	if args[2] != "build/Dockerfile.mock" {
		t.Errorf("dockerfile arg = %q", args[2])
	}
	if args[len(args)-1] != "build" {
		t.Errorf("context arg = %q", args[len(args)-1])
	}
}
