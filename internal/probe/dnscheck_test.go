package probe

import (
	"context"
	"testing"
)

func TestCheckDNS_InvalidName(t *testing.T) {
	for _, in := range []string{"", "   ", "https://example.com"} {
		if got := CheckDNS(context.Background(), in).Class; got != "INVALID_NAME" {
			t.Fatalf("CheckDNS(%q).Class = %q, want INVALID_NAME", in, got)
		}
	}
}

func TestExtractHost(t *testing.T) {
	cases := map[string]string{
		"https://example.com/path": "example.com",
		"http://example.com:8080":  "example.com",
		"example.com":              "example.com",
	}
	for in, want := range cases {
		if got := extractHost(in); got != want {
			t.Fatalf("extractHost(%q) = %q, want %q", in, got, want)
		}
	}
}
