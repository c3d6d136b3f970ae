package syntax

import (
	"sort"
	"strings"
	"testing"
)

func TestComplete_PrefixFilter(t *testing.T) {
	candidates := Complete("vec")

	if len(candidates) == 0 {
		t.Fatal("Expected candidates for prefix 'vec'")
	}

	for _, word := range candidates {
		if !strings.HasPrefix(word, "vec") {
			t.Errorf("Candidate %q does not have prefix 'vec'", word)
		}
	}

	found := false
	for _, word := range candidates {
		if word == "vector-get" {
			found = true
		}
	}
	if !found {
		t.Error("Expected 'vector-get' among the candidates")
	}
}

func TestComplete_EmptyPrefix(t *testing.T) {
	if candidates := Complete(""); candidates != nil {
		t.Errorf("Expected no candidates for empty prefix, got %v", candidates)
	}
}

func TestComplete_NoMatch(t *testing.T) {
	if candidates := Complete("zzz-no-such"); len(candidates) != 0 {
		t.Errorf("Expected no candidates, got %v", candidates)
	}
}

func TestComplete_Sorted(t *testing.T) {
	candidates := Complete("s")

	if !sort.StringsAreSorted(candidates) {
		t.Errorf("Expected sorted candidates, got %v", candidates)
	}
}

func TestComplete_CrossesCategories(t *testing.T) {
	// 'd' matches misc keywords (defun, defblock, declare, defglobal); 'B'
	// matches type constructors. Both tables feed the same candidate pool.
	if len(Complete("def")) < 3 {
		t.Errorf("Expected several 'def' candidates, got %v", Complete("def"))
	}
	if len(Complete("B")) == 0 {
		t.Errorf("Expected type constructor candidates for 'B'")
	}
}

func TestComplete_CustomVocabulary(t *testing.T) {
	SetCustomVocabulary(map[Category][]string{
		Operator: {"vector-swap"},
	})
	defer SetCustomVocabulary(nil)

	found := false
	for _, word := range Complete("vector-sw") {
		if word == "vector-swap" {
			found = true
		}
	}
	if !found {
		t.Error("Expected custom word 'vector-swap' among the candidates")
	}
}
