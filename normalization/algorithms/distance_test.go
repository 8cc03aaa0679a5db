package algorithms

import (
	"math"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2   string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"caneta azul", "caneta azul", 0},
		{"ação", "acao", 2},
	}

	for _, tt := range tests {
		if got := LevenshteinDistance(tt.s1, tt.s2); got != tt.expected {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, expected %d", tt.s1, tt.s2, got, tt.expected)
		}
	}
}

func TestNormalizedLevenshtein(t *testing.T) {
	if got := NormalizedLevenshtein("", ""); got != 1.0 {
		t.Errorf("two empty strings: got %v, expected 1.0", got)
	}
	if got := NormalizedLevenshtein("abcd", "abcd"); got != 0 {
		t.Errorf("identical strings: got %v, expected 0", got)
	}
	if got := NormalizedLevenshtein("abcd", "abxd"); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("one substitution of four: got %v, expected 0.25", got)
	}
}

func TestJaccardDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected float64
	}{
		{"both empty", nil, nil, 0},
		{"one empty", []string{"a"}, nil, 1},
		{"identical", []string{"a", "b"}, []string{"b", "a"}, 0},
		{"disjoint", []string{"a"}, []string{"b"}, 1},
		{"half overlap", []string{"a", "b"}, []string{"b", "c"}, 1 - 1.0/3},
		{"duplicates ignored", []string{"a", "a", ""}, []string{"a"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JaccardDistance(TokenSet(tt.a), TokenSet(tt.b))
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("JaccardDistance(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
