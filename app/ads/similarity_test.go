package ads

import (
	"math"
	"testing"
)

func TestRatio_Identical(t *testing.T) {
	if r := Ratio("buy now and save big", "buy now and save big"); r != 1.0 {
		t.Errorf("Expected ratio 1.0 for identical strings, got %f", r)
	}
}

func TestRatio_Disjoint(t *testing.T) {
	if r := Ratio("aaaa", "bbbb"); r != 0.0 {
		t.Errorf("Expected ratio 0.0 for disjoint strings, got %f", r)
	}
}

func TestRatio_BothEmpty(t *testing.T) {
	if r := Ratio("", ""); r != 1.0 {
		t.Errorf("Expected ratio 1.0 for two empty strings, got %f", r)
	}
}

func TestRatio_OneEmpty(t *testing.T) {
	if r := Ratio("something", ""); r != 0.0 {
		t.Errorf("Expected ratio 0.0 against empty string, got %f", r)
	}
}

func TestRatio_NearDuplicate(t *testing.T) {
	// One trailing character difference: 2*20/(21+20)
	r := Ratio("buy now and save big!", "buy now and save big")
	expected := 2.0 * 20.0 / 41.0
	if math.Abs(r-expected) > 1e-9 {
		t.Errorf("Expected ratio %f, got %f", expected, r)
	}
	if r < SimilarityThreshold {
		t.Errorf("Near-duplicate ratio %f should reach the threshold", r)
	}
}

func TestRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"a", "a"},
		{"short", "a much longer string that shares little"},
		{"completely different message about shoes", "buy now and save big!"},
	}

	for _, p := range pairs {
		r := Ratio(p[0], p[1])
		if r < 0.0 || r > 1.0 {
			t.Errorf("Ratio(%q, %q) = %f, expected value in [0,1]", p[0], p[1], r)
		}
	}
}

func TestRatio_ExactBoundary(t *testing.T) {
	// Longest match "abc" of 5+5 runes: 2*3/10 = 0.6 exactly.
	if r := Ratio("abcde", "abcxy"); r != 0.6 {
		t.Errorf("Expected ratio exactly 0.6, got %f", r)
	}
}

func TestRatio_LongTranscripts(t *testing.T) {
	// Above the popular-rune pruning cutoff; matching runs must still be
	// counted in full.
	var a, b string
	for i := 0; i < 30; i++ {
		a += "the quick brown fox jumps over the lazy dog "
		b += "the quick brown fox jumps over the lazy dog "
	}
	if r := Ratio(a, b); r != 1.0 {
		t.Errorf("Expected ratio 1.0 for identical long strings, got %f", r)
	}

	b += "and then some entirely new trailing content"
	r := Ratio(a, b)
	if r <= 0.9 || r >= 1.0 {
		t.Errorf("Expected ratio just below 1.0 for a long near-duplicate, got %f", r)
	}
}
