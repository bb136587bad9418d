// Package tenant maps inbound hosts to partner subdomains and request paths
// to tenant-qualified effective paths. It is the single implementation used
// by both the access gate and the post-login redirect logic.
package tenant

import "strings"

// Resolver extracts partner subdomains from host headers.
type Resolver struct {
	baseDomains []string
	aliases     map[string]string
}

// NewResolver creates a resolver for the given base domains.
// Aliases map legacy subdomain spellings to canonical slugs; nil is allowed.
func NewResolver(baseDomains []string, aliases map[string]string) *Resolver {
	return &Resolver{baseDomains: baseDomains, aliases: aliases}
}

// Subdomain returns the partner subdomain for the given host, or "" when the
// host does not match any configured base domain. The literal "www" label is
// treated as no subdomain. A port suffix on the host is ignored.
func (r *Resolver) Subdomain(host string) string {
	if host == "" {
		return ""
	}
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	for _, base := range r.baseDomains {
		if !strings.HasSuffix(host, "."+base) {
			continue
		}
		rest := strings.TrimSuffix(host, "."+base)
		labels := strings.Split(rest, ".")
		// last label guards against multi-level subdomains
		sub := labels[len(labels)-1]
		if sub == "" || sub == "www" {
			return ""
		}
		return sub
	}
	return ""
}

// CanonicalSlug resolves legacy subdomain aliases to their canonical slug.
func (r *Resolver) CanonicalSlug(raw string) string {
	if canonical, ok := r.aliases[raw]; ok {
		return canonical
	}
	return raw
}

// EffectivePath combines a subdomain with the raw URL path into the
// tenant-qualified path used for both routing rewrite and the
// public/protected classification. The root path collapses its trailing
// empty segment.
func EffectivePath(subdomain, path string) string {
	if subdomain == "" || subdomain == "www" {
		return path
	}
	if path == "/" {
		return "/" + subdomain
	}
	return "/" + subdomain + path
}
