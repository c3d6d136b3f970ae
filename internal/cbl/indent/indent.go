// Package indent computes structural indentation for CBL source text.
//
// The resolver walks out to the innermost enclosing form, looks the head
// symbol up in the rule table, follows aliases to a terminal policy, and
// turns the policy into a column. Malformed input never produces an error;
// the engine degrades to the generic s-expression default.
package indent

import (
	"github.com/GaloisInc/crucibler-mode/internal/cbl/scanner"
)

// ComputeIndent returns the indentation column for the position pos,
// zero-based and measured from the start of the line. Callers asking for a
// whole line's indentation should pass the offset of the line's first byte.
func ComputeIndent(text string, pos int) int {
	state := scanner.FindEnclosingForm(text, pos)
	if state.Depth == 0 {
		return 0
	}

	formColumn := scanner.Column(text, state.FormStart)

	// A headless form, or one whose head is itself a sub-expression,
	// aligns under the list.
	if state.Head == "" {
		return formColumn + 1
	}

	policy := Resolve(state.Head)

	switch policy.Kind {
	case FixedSpecial:
		complete := len(scanner.CompleteSiblingsBefore(text, state.FormStart, pos))
		if complete < policy.Special {
			// Still filling the special slots: align like a normal
			// argument under the form.
			return formColumn + 1
		}
		return formColumn + policy.Body

	default: // DefaultAlign, None
		if state.LastSibling >= 0 {
			return scanner.Column(text, state.LastSibling)
		}
		return formColumn + 1
	}
}
