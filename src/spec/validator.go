// Package spec loads and validates OpenAPI specification documents.
// Structural basics are checked directly so issues carry precise
// locations; full schema conformance for OpenAPI 3.x is delegated to
// kin-openapi.
package spec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Issue is a single validation problem with a JSON-pointer-like location
// into the document. Location is empty when the problem is not tied to a
// specific field (unreadable file, unparseable content).
type Issue struct {
	Location string
	Message  string
}

// Info summarizes a valid document.
type Info struct {
	Title       string
	Version     string
	SpecVersion string
	PathCount   int
}

// Result is the outcome of validating one document. A Result with
// Valid=false always carries at least one Issue. Immutable once produced.
type Result struct {
	Valid  bool
	Format string // "JSON" or "YAML"
	Info   *Info
	Issues []Issue
}

// Validate loads the file at path and validates it as an OpenAPI
// document. It never mutates the file. All issues found are reported,
// in the order the checks and the external validator produce them.
func Validate(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		msg := fmt.Sprintf("reading specification file: %v", err)
		if errors.Is(err, fs.ErrNotExist) {
			msg = fmt.Sprintf("specification file not found: %s", path)
		}
		return invalid("", Issue{Message: msg})
	}

	doc, format, err := decode(path, data)
	if err != nil {
		return invalid(format, Issue{Message: err.Error()})
	}

	issues := structuralIssues(doc)
	if len(issues) > 0 {
		return invalid(format, issues...)
	}

	// Swagger 2.0 gets the structural checks only; the external
	// validator handles OpenAPI 3.x.
	if _, isV3 := doc["openapi"]; isV3 {
		if issues := schemaIssues(ctx, data); len(issues) > 0 {
			return invalid(format, issues...)
		}
	}

	return Result{
		Valid:  true,
		Format: format,
		Info:   extractInfo(doc),
	}
}

func invalid(format string, issues ...Issue) Result {
	return Result{Format: format, Issues: issues}
}

// decode parses the raw bytes as JSON or YAML. The extension decides the
// format; unknown extensions are sniffed, JSON first.
func decode(path string, data []byte) (map[string]any, string, error) {
	var doc map[string]any

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, "YAML", fmt.Errorf("invalid YAML: %v", err)
		}
		return nonEmpty(doc, "YAML")
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, "JSON", fmt.Errorf("invalid JSON: %v", err)
		}
		return nonEmpty(doc, "JSON")
	default:
		if err := json.Unmarshal(data, &doc); err == nil {
			return nonEmpty(doc, "JSON")
		}
		if err := yaml.Unmarshal(data, &doc); err == nil {
			return nonEmpty(doc, "YAML")
		}
		return nil, "", fmt.Errorf("unable to parse file as JSON or YAML: %s", path)
	}
}

func nonEmpty(doc map[string]any, format string) (map[string]any, string, error) {
	if len(doc) == 0 {
		return nil, format, fmt.Errorf("empty specification document")
	}
	return doc, format, nil
}

// structuralIssues checks the fields every OpenAPI/Swagger document must
// have, producing one issue per missing or malformed field.
func structuralIssues(doc map[string]any) []Issue {
	var issues []Issue

	_, hasOpenAPI := doc["openapi"]
	_, hasSwagger := doc["swagger"]
	if !hasOpenAPI && !hasSwagger {
		issues = append(issues, Issue{Location: "/openapi", Message: "missing 'openapi' or 'swagger' version field"})
	}

	switch info := doc["info"].(type) {
	case nil:
		issues = append(issues, Issue{Location: "/info", Message: "missing required 'info' object"})
	case map[string]any:
		if _, ok := info["title"]; !ok {
			issues = append(issues, Issue{Location: "/info/title", Message: "missing required 'info.title' field"})
		}
		if _, ok := info["version"]; !ok {
			issues = append(issues, Issue{Location: "/info/version", Message: "missing required 'info.version' field"})
		}
	default:
		issues = append(issues, Issue{Location: "/info", Message: "'info' field must be an object"})
	}

	switch doc["paths"].(type) {
	case nil:
		issues = append(issues, Issue{Location: "/paths", Message: "missing required 'paths' object"})
	case map[string]any:
	default:
		issues = append(issues, Issue{Location: "/paths", Message: "'paths' field must be an object"})
	}

	return issues
}

// schemaIssues runs the external OpenAPI 3.x validator and translates
// its findings, preserving the order it reports them in.
func schemaIssues(ctx context.Context, data []byte) []Issue {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return []Issue{{Message: fmt.Sprintf("invalid OpenAPI specification: %v", err)}}
	}

	err = doc.Validate(ctx)
	if err == nil {
		return nil
	}

	var multi openapi3.MultiError
	if !errors.As(err, &multi) {
		return []Issue{translate(err)}
	}

	issues := make([]Issue, 0, len(multi))
	for _, e := range multi {
		issues = append(issues, translate(e))
	}
	return issues
}

// translate maps a validator error to the Issue shape, recovering a
// JSON-pointer location when the error carries one.
func translate(err error) Issue {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return Issue{
			Location: "/" + strings.Join(schemaErr.JSONPointer(), "/"),
			Message:  schemaErr.Reason,
		}
	}
	return Issue{Message: err.Error()}
}

func extractInfo(doc map[string]any) *Info {
	out := &Info{}

	if v, ok := doc["openapi"].(string); ok {
		out.SpecVersion = v
	} else if v, ok := doc["swagger"].(string); ok {
		out.SpecVersion = v
	}
	if info, ok := doc["info"].(map[string]any); ok {
		out.Title, _ = info["title"].(string)
		out.Version, _ = info["version"].(string)
	}
	if paths, ok := doc["paths"].(map[string]any); ok {
		out.PathCount = len(paths)
	}
	return out
}
