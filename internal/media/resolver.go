package media

import "strings"

// Resolver turns stored media references into public URLs against a
// configured CDN base. References are stored relative so the CDN can be
// swapped without rewriting rows.
type Resolver struct {
	baseURL string
}

// NewResolver creates a Resolver for the given CDN base URL
func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL resolves a single reference. Already-absolute references pass
// through untouched.
func (r *Resolver) URL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return r.baseURL + "/" + strings.TrimLeft(ref, "/")
}

// URLs resolves a list of references, preserving order
func (r *Resolver) URLs(refs []string) []string {
	urls := make([]string, len(refs))
	for i, ref := range refs {
		urls[i] = r.URL(ref)
	}
	return urls
}
