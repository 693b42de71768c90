package catalog

import (
	"fmt"
	"strings"
)

// gidPrefix is the namespaced-identifier scheme the catalog API uses.
const gidPrefix = "gid://shopify/"

// NumericID strips the catalog API's namespaced prefix from an identifier
// and returns the bare numeric id the checkout domain expects. Plain
// numeric ids pass through unchanged.
func NumericID(id string) (string, error) {
	raw := id
	if strings.HasPrefix(raw, gidPrefix) {
		rest := strings.TrimPrefix(raw, gidPrefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[i+1:]
		}
		raw = rest
	}
	if raw == "" || !isDigits(raw) {
		return "", fmt.Errorf("identifier %q has no numeric id", id)
	}
	return raw, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
