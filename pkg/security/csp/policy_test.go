package csp

import (
	"strings"
	"testing"
)

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
		want  string
	}{
		{
			name:  "empty builder",
			build: NewBuilder,
			want:  "",
		},
		{
			name: "single directive",
			build: func() *Builder {
				return NewBuilder().DefaultSrc("'self'")
			},
			want: "default-src 'self'",
		},
		{
			name: "multiple directives in fixed order",
			build: func() *Builder {
				return NewBuilder().
					ScriptSrc("'self'").
					DefaultSrc("'self'").
					StyleSrc("'self'", "'unsafe-inline'")
			},
			want: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'",
		},
		{
			name: "valueless directive",
			build: func() *Builder {
				return NewBuilder().DefaultSrc("'self'").UpgradeInsecureRequests()
			},
			want: "default-src 'self'; upgrade-insecure-requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build().Build(); got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuilder_HeaderName(t *testing.T) {
	if got := NewBuilder().HeaderName(); got != "Content-Security-Policy" {
		t.Errorf("HeaderName() = %q, want Content-Security-Policy", got)
	}
	if got := NewBuilder().ReportOnly(true).HeaderName(); got != "Content-Security-Policy-Report-Only" {
		t.Errorf("HeaderName() report-only = %q", got)
	}
}

func TestProductionPolicy(t *testing.T) {
	policy := ProductionPolicy("https://auth.example.edu").Build()

	if strings.Contains(policy, "'unsafe-eval'") {
		t.Error("production policy must not allow eval")
	}
	if strings.Contains(policy, "script-src 'self' 'unsafe-inline'") {
		t.Error("production policy must not allow inline scripts")
	}
	for _, want := range []string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"connect-src 'self' https://auth.example.edu",
		"frame-ancestors 'none'",
		"object-src 'none'",
		"upgrade-insecure-requests",
	} {
		if !strings.Contains(policy, want) {
			t.Errorf("production policy missing %q\npolicy: %s", want, policy)
		}
	}
}

func TestDevelopmentPolicy(t *testing.T) {
	policy := DevelopmentPolicy().Build()

	for _, want := range []string{
		"script-src 'self' 'unsafe-inline' 'unsafe-eval'",
		"frame-ancestors 'none'",
	} {
		if !strings.Contains(policy, want) {
			t.Errorf("development policy missing %q\npolicy: %s", want, policy)
		}
	}
}
