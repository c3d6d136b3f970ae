package syntax

import "strings"

// Complete returns every vocabulary entry starting with prefix, sorted.
// An empty prefix yields nothing: with no partial token under the cursor
// there is nothing to complete against. The result is always supplementary;
// hosts may merge candidates from other providers.
func Complete(prefix string) []string {
	if prefix == "" {
		return nil
	}

	var candidates []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, prefix) {
			candidates = append(candidates, word)
		}
	}

	return candidates
}
