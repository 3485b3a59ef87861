// Package csp builds Content-Security-Policy header values.
package csp

import (
	"strings"
)

// Builder provides a fluent interface for constructing Content-Security-Policy
// headers.
//
// CSP is the primary defense against cross-site scripting and code injection:
// it tells the browser which sources are trusted for each content type.
//
// Example:
//
//	policy := NewBuilder().
//	    DefaultSrc("'self'").
//	    ScriptSrc("'self'").
//	    StyleSrc("'self'", "'unsafe-inline'").
//	    Build()
//	// "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'"
//
// Builder is not thread-safe. Create separate instances for concurrent use.
type Builder struct {
	directives map[string][]string
	reportOnly bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		directives: make(map[string][]string),
	}
}

// DefaultSrc sets the default-src directive, the fallback for any fetch
// directive not set explicitly.
//
// Common source values:
//   - "'self'": same origin only
//   - "'none'": block everything
//   - "'unsafe-inline'", "'unsafe-eval'": inline code and eval (avoid in
//     production)
//   - "https://example.com": a specific origin
//   - "data:": data URIs
func (b *Builder) DefaultSrc(sources ...string) *Builder {
	b.directives["default-src"] = sources
	return b
}

// ScriptSrc sets the script-src directive. This is the directive that
// matters most for XSS: keep it to "'self'" in production.
func (b *Builder) ScriptSrc(sources ...string) *Builder {
	b.directives["script-src"] = sources
	return b
}

// StyleSrc sets the style-src directive.
func (b *Builder) StyleSrc(sources ...string) *Builder {
	b.directives["style-src"] = sources
	return b
}

// ImgSrc sets the img-src directive.
func (b *Builder) ImgSrc(sources ...string) *Builder {
	b.directives["img-src"] = sources
	return b
}

// FontSrc sets the font-src directive.
func (b *Builder) FontSrc(sources ...string) *Builder {
	b.directives["font-src"] = sources
	return b
}

// ConnectSrc sets the connect-src directive, which governs fetch,
// XMLHttpRequest, WebSocket, and EventSource targets.
func (b *Builder) ConnectSrc(sources ...string) *Builder {
	b.directives["connect-src"] = sources
	return b
}

// FrameAncestors sets the frame-ancestors directive. "'none'" prevents all
// framing and is the clickjacking counterpart of X-Frame-Options: DENY.
func (b *Builder) FrameAncestors(sources ...string) *Builder {
	b.directives["frame-ancestors"] = sources
	return b
}

// FormAction sets the form-action directive.
func (b *Builder) FormAction(sources ...string) *Builder {
	b.directives["form-action"] = sources
	return b
}

// BaseURI sets the base-uri directive, preventing injected <base> elements
// from rebasing relative URLs.
func (b *Builder) BaseURI(sources ...string) *Builder {
	b.directives["base-uri"] = sources
	return b
}

// ObjectSrc sets the object-src directive. "'none'" disables plugins.
func (b *Builder) ObjectSrc(sources ...string) *Builder {
	b.directives["object-src"] = sources
	return b
}

// UpgradeInsecureRequests adds the valueless upgrade-insecure-requests
// directive, instructing the browser to rewrite http:// subresource URLs
// to https://.
func (b *Builder) UpgradeInsecureRequests() *Builder {
	b.directives["upgrade-insecure-requests"] = []string{}
	return b
}

// ReportOnly switches the policy to report-only mode: violations are
// reported but not enforced. Useful for trialing a stricter policy.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// directiveOrder fixes the serialization order so the header value is
// deterministic and diffable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"upgrade-insecure-requests",
	"report-uri",
}

// Build serializes the configured directives into a header value.
// Directives are joined with "; "; sources within a directive with spaces.
// Valueless directives (upgrade-insecure-requests) emit just their name.
func (b *Builder) Build() string {
	if len(b.directives) == 0 {
		return ""
	}

	var parts []string
	for _, directive := range directiveOrder {
		sources, exists := b.directives[directive]
		if !exists {
			continue
		}
		if len(sources) == 0 {
			parts = append(parts, directive)
			continue
		}
		parts = append(parts, directive+" "+strings.Join(sources, " "))
	}

	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy should be sent under, depending
// on report-only mode.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// ProductionPolicy returns the site's strict production policy.
//
// Scripts are restricted to the same origin. Inline styles stay allowed
// because the frontend's CSS-in-JS emits them. extraConnectSrc lists the
// external service origins the browser is allowed to call directly (auth
// provider, object storage).
func ProductionPolicy(extraConnectSrc ...string) *Builder {
	connectSrc := append([]string{"'self'"}, extraConnectSrc...)
	return NewBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:", "https:").
		FontSrc("'self'", "data:").
		ConnectSrc(connectSrc...).
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseURI("'self'").
		ObjectSrc("'none'").
		UpgradeInsecureRequests()
}

// DevelopmentPolicy returns the relaxed policy used outside production.
//
// The frontend dev server needs inline scripts and eval for hot reloading,
// so script-src carries 'unsafe-inline' and 'unsafe-eval'. Everything else
// matches the production policy.
func DevelopmentPolicy(extraConnectSrc ...string) *Builder {
	connectSrc := append([]string{"'self'"}, extraConnectSrc...)
	return NewBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'", "'unsafe-inline'", "'unsafe-eval'").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:", "https:").
		FontSrc("'self'", "data:").
		ConnectSrc(connectSrc...).
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseURI("'self'").
		ObjectSrc("'none'").
		UpgradeInsecureRequests()
}
