package registry

import (
	"regexp"
	"strings"
)

// Provider identifies the registry vendor behind a hostname.
type Provider string

const (
	ProviderDockerHub Provider = "docker_hub"
	ProviderECR       Provider = "aws_ecr"
	ProviderGCR       Provider = "gcr"
	ProviderGAR       Provider = "gar"
	ProviderACR       Provider = "acr"
	ProviderGeneric   Provider = "generic"
)

var ecrHostRe = regexp.MustCompile(`^\d+\.dkr\.ecr\.[a-zA-Z0-9-]+\.amazonaws\.com$`)

// DetectProvider classifies a registry host. Used only for user-facing
// hints; push behavior is identical across providers.
func DetectProvider(host string) Provider {
	switch {
	case host == "" || host == "docker.io":
		return ProviderDockerHub
	case ecrHostRe.MatchString(host):
		return ProviderECR
	case host == "gcr.io" || strings.HasSuffix(host, ".gcr.io"):
		return ProviderGCR
	case strings.HasSuffix(host, ".pkg.dev"):
		return ProviderGAR
	case strings.HasSuffix(host, ".azurecr.io"):
		return ProviderACR
	default:
		return ProviderGeneric
	}
}

// Describe returns a short human-readable vendor name.
func (p Provider) Describe() string {
	switch p {
	case ProviderDockerHub:
		return "Docker Hub"
	case ProviderECR:
		return "AWS ECR"
	case ProviderGCR:
		return "Google Container Registry"
	case ProviderGAR:
		return "Google Artifact Registry"
	case ProviderACR:
		return "Azure Container Registry"
	default:
		return "container registry"
	}
}
