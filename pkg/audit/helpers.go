package audit

import (
	"net/http"
	"strings"
)

// apiPrefix is the path prefix of the audited API.
const apiPrefix = "/api/v1/"

// pathSegments splits an API path into the segments after apiPrefix.
// For /api/v1/assets/12 it returns ["assets", "12"].
func pathSegments(path string) []string {
	rest, ok := strings.CutPrefix(path, apiPrefix)
	if !ok {
		return nil
	}
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// extractResourceType returns the collection a request addresses, e.g.
// "assets" or "seed".
func extractResourceType(path string) string {
	parts := pathSegments(path)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// extractResourceID returns the id segment of /api/v1/{collection}/{id}.
// When the path has none, the id is taken from a Location header, which is
// how create responses report the new asset.
func extractResourceID(path string, header http.Header) string {
	if parts := pathSegments(path); len(parts) >= 2 {
		return parts[1]
	}
	if loc := header.Get("Location"); loc != "" {
		if parts := pathSegments(loc); len(parts) >= 2 {
			return parts[1]
		}
	}
	return ""
}

// extractActionVerb names the mutation a request performs.
func extractActionVerb(method, path string) string {
	if extractResourceType(path) == "seed" {
		return "seed"
	}
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut:
		return "update"
	case http.MethodPatch:
		return "patch"
	case http.MethodDelete:
		return "delete"
	default:
		return strings.ToLower(method)
	}
}

// isAuditedRequest reports whether a request mutates the catalog. Reads,
// health checks and the audit API itself are not audited.
func isAuditedRequest(method, path string) bool {
	if isHealthEndpoint(path) || extractResourceType(path) == "audit" {
		return false
	}
	if !strings.HasPrefix(path, apiPrefix) {
		return false
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func isHealthEndpoint(path string) bool {
	switch path {
	case "/livez", "/readyz", "/healthz", "/metrics":
		return true
	}
	return false
}

// outcomeFromStatus maps HTTP status codes to audit outcomes.
func outcomeFromStatus(code int) string {
	if code >= 200 && code < 300 {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
