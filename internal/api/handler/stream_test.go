package handler

import (
	"net/http/httptest"
	"testing"
)

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:5173/", "https://scoracle.app"})
	cases := map[string]bool{
		"":                      true,
		"http://localhost:5173": true,
		"HTTPS://Scoracle.app":  true,
		"https://evil.example":  false,
	}
	for origin, want := range cases {
		r := httptest.NewRequest("GET", "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		if got := check(r); got != want {
			t.Fatalf("origin %q: got %v, want %v", origin, got, want)
		}
	}

	open := originChecker([]string{"*"})
	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Origin", "https://anything.example")
	if !open(r) {
		t.Fatalf("wildcard should allow every origin")
	}
	if !originChecker(nil)(r) {
		t.Fatalf("empty list should allow every origin")
	}
}
