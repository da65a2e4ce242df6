// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package users

import (
	"net/http"
	"testing"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "canonical", input: "Bearer abc.def", want: "abc.def", wantOK: true},
		{name: "lowercase scheme", input: "bearer abc", want: "abc", wantOK: true},
		{name: "surrounding whitespace", input: "  Bearer   abc  ", want: "abc", wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "scheme only", input: "Bearer", wantOK: false},
		{name: "scheme and spaces", input: "Bearer    ", wantOK: false},
		{name: "basic auth", input: "Basic dXNlcjpwYXNz", wantOK: false},
		{name: "no separator", input: "Bearerabc", wantOK: false},
		{name: "two tokens", input: "Bearer abc def", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBearer(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseBearer(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBearerFromResponse(t *testing.T) {
	h := http.Header{}
	if _, present, _ := BearerFromResponse(h); present {
		t.Fatalf("present = true for empty header set")
	}
	h.Set("Authorization", "Token xyz")
	if _, present, ok := BearerFromResponse(h); !present || ok {
		t.Fatalf("malformed header: present=%v ok=%v", present, ok)
	}
	h.Set("Authorization", "Bearer T2")
	if tok, present, ok := BearerFromResponse(h); !present || !ok || tok != "T2" {
		t.Fatalf("got %q present=%v ok=%v", tok, present, ok)
	}
}
