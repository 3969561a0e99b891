package httputil

import "net/http"

// MergeHeaders returns a new map with base and override merged. Keys are
// canonicalized, so an override replaces a base header regardless of case.
func MergeHeaders(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for _, headers := range []map[string]string{base, override} {
		for key, value := range headers {
			out[http.CanonicalHeaderKey(key)] = value
		}
	}
	return out
}
