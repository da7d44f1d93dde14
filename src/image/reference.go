// Package image parses and formats container image references.
package image

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation regexes based on OCI Distribution Spec.
var (
	// OCI repository path: lowercase, digits, separators (-, _, ., /), max 256 chars.
	ociNameRe = regexp.MustCompile(`^[a-z0-9]+(?:[._-][a-z0-9]+)*(?:/[a-z0-9]+(?:[._-][a-z0-9]+)*)*$`)

	// OCI tag: alphanumeric, -, _, . — must start with alphanumeric, max 128 chars.
	ociTagRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)
)

// DefaultTag is applied when the image input carries no tag.
const DefaultTag = "latest"

// Reference is a parsed image name and tag, without any registry host.
type Reference struct {
	Name string
	Tag  string
}

// Parse splits an image input of the form name[:tag] into a Reference.
// The tag defaults to "latest". The name must conform to the OCI
// repository character set (lowercase, digits, -, _, ., /).
func Parse(input string) (Reference, error) {
	if input == "" {
		return Reference{}, fmt.Errorf("image name is empty")
	}

	name, tag := splitTag(input)
	if tag == "" {
		tag = DefaultTag
	}

	if name == "" {
		return Reference{}, fmt.Errorf("image %q has empty name", input)
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return Reference{}, fmt.Errorf("image name %q cannot start or end with '/'", name)
	}
	if len(name) > 256 {
		return Reference{}, fmt.Errorf("image name %q exceeds 256 characters", name)
	}
	if !ociNameRe.MatchString(name) {
		return Reference{}, fmt.Errorf("image name %q contains invalid characters (OCI spec: lowercase, digits, -, _, ., /)", name)
	}
	if !ociTagRe.MatchString(tag) {
		return Reference{}, fmt.Errorf("image tag %q contains invalid characters (OCI spec: alphanumeric, -, _, .)", tag)
	}

	return Reference{Name: name, Tag: tag}, nil
}

// splitTag separates name and tag on the last colon. A colon followed by
// a slash belongs to a host:port prefix, not a tag.
func splitTag(input string) (name, tag string) {
	idx := strings.LastIndex(input, ":")
	if idx < 0 || strings.Contains(input[idx+1:], "/") {
		return input, ""
	}
	return input[:idx], input[idx+1:]
}

// String formats the reference as name:tag.
func (r Reference) String() string {
	return r.Name + ":" + r.Tag
}

// WithRegistry formats the fully-qualified reference the container engine
// uses: host/name:tag when a registry host is given, name:tag otherwise.
func (r Reference) WithRegistry(host string) string {
	if host == "" {
		return r.String()
	}
	return host + "/" + r.String()
}
