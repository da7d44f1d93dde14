// Package security scans the specification file for embedded secrets
// before it gets baked into an image.
package security

import (
	"os"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// Finding is one detected secret.
type Finding struct {
	RuleID      string
	Description string
	Line        int
}

// Scanner wraps a gitleaks detector with its default ruleset.
type Scanner struct {
	detector *detect.Detector
}

// NewScanner builds a scanner with the gitleaks default config.
func NewScanner() (*Scanner, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, err
	}
	return &Scanner{detector: d}, nil
}

// ScanFile reports secrets found in the file at path.
func (s *Scanner) ScanFile(path string) ([]Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	hits := s.detector.DetectBytes(data)
	if len(hits) == 0 {
		return nil, nil
	}

	findings := make([]Finding, 0, len(hits))
	for _, h := range hits {
		findings = append(findings, Finding{
			RuleID:      h.RuleID,
			Description: h.Description,
			Line:        h.StartLine + 1, // gitleaks is 0-indexed
		})
	}
	return findings, nil
}
