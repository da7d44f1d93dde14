// Package registry inspects user-supplied registry strings for the most
// common invocation mistake: an image path pasted into the registry flag.
package registry

import (
	"strings"

	"github.com/prefigure/openapi-mock-build/src/image"
)

// Correction is the suggested flag pair for a registry string that
// embeds an image path. Registry never contains a '/'.
type Correction struct {
	Registry string // host[:port] only
	Image    string // namespace/name:tag reassembled from the stray path
}

// Check inspects a registry string for path segments that belong on the
// image side. A registry is host[:port] only; anything after the first
// '/' is treated as a stray namespace/image path when it has two or more
// segments, or a single segment beside an un-namespaced image name.
//
// The result is advisory: callers surface the correction and halt, they
// never apply it silently. A nil return means the registry looks fine.
func Check(registry string, ref image.Reference) *Correction {
	if registry == "" {
		return nil
	}

	host, rest, found := strings.Cut(registry, "/")
	if !found || rest == "" {
		// host or host:port only — never suspect
		return nil
	}

	segments := strings.Split(rest, "/")
	if len(segments) == 1 && strings.Contains(ref.Name, "/") {
		// One extra segment next to a namespaced image reads as a
		// multi-level registry path (registry.com:5000/v2), not a mistake.
		return nil
	}

	return &Correction{
		Registry: host,
		Image:    correctedImage(rest, ref),
	}
}

// correctedImage moves the stray path onto the image side, avoiding a
// duplicated trailing segment when the registry string already ended in
// the image name. The tag is preserved.
func correctedImage(rest string, ref image.Reference) string {
	name := rest
	if rest != ref.Name && !strings.HasSuffix(rest, "/"+ref.Name) {
		name = rest + "/" + ref.Name
	}
	tag := ref.Tag
	if tag == "" {
		tag = image.DefaultTag
	}
	return name + ":" + tag
}
