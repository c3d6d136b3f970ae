package indent

// Kind discriminates the indentation policies a keyword can carry.
type Kind int

const (
	// DefaultAlign indents under the first argument's column, the generic
	// s-expression default.
	DefaultAlign Kind = iota

	// FixedSpecial marks the first Special sub-forms after the head as
	// special and indents the body at a fixed offset from the form's own
	// column.
	FixedSpecial

	// AliasOf borrows another keyword's resolved policy.
	AliasOf

	// None carries no rule of its own; it behaves like DefaultAlign.
	None
)

// Policy is the indentation rule attached to a keyword.
type Policy struct {
	Kind    Kind
	Special int    // FixedSpecial: sub-forms after the head that are special
	Body    int    // FixedSpecial: body column offset from the form's start
	Target  string // AliasOf: keyword whose policy applies
}

// Special builds a FixedSpecial policy.
func Special(count, bodyOffset int) Policy {
	return Policy{Kind: FixedSpecial, Special: count, Body: bodyOffset}
}

// Alias builds an AliasOf policy.
func Alias(target string) Policy {
	return Policy{Kind: AliasOf, Target: target}
}

// builtinRules maps each CBL special form to its indentation policy.
// Procedure-defining forms treat the name and parameter list as special and
// indent the body three columns in; block, binding and branch forms treat
// their first argument as special and indent the body one column in.
var builtinRules = map[string]Policy{
	"defun":     Special(2, 3),
	"registers": Alias("defun"),

	"defblock":      Special(1, 1),
	"start":         Special(1, 1),
	"the":           Special(1, 1),
	"branch":        Special(1, 1),
	"maybe-branch":  Special(1, 1),
	"let":           Special(1, 1),
	"set-register!": Special(1, 1),
	"case":          Special(1, 1),
}

// customRules holds rules supplied by user configuration. They are installed
// once at startup and are read-only afterwards, the same lifecycle as the
// builtin table.
var customRules map[string]Policy

// SetCustomRules installs user-configured rules. Custom entries shadow
// builtin ones. Call once during startup, before serving requests.
func SetCustomRules(rules map[string]Policy) {
	customRules = rules
}

func lookup(keyword string) (Policy, bool) {
	if policy, ok := customRules[keyword]; ok {
		return policy, true
	}
	policy, ok := builtinRules[keyword]
	return policy, ok
}

// Resolve follows alias chains to a terminal policy. The chase is bounded by
// the table size so a misconfigured cycle degrades to DefaultAlign instead
// of looping. Unknown keywords resolve to DefaultAlign.
func Resolve(keyword string) Policy {
	policy, ok := lookup(keyword)
	if !ok {
		return Policy{Kind: DefaultAlign}
	}

	limit := len(builtinRules) + len(customRules)
	for range limit + 1 {
		if policy.Kind != AliasOf {
			return policy
		}
		policy, ok = lookup(policy.Target)
		if !ok {
			return Policy{Kind: DefaultAlign}
		}
	}

	return Policy{Kind: DefaultAlign}
}

func init() {
	// Every alias in the builtin table must reach a terminal policy.
	for keyword, policy := range builtinRules {
		for range len(builtinRules) {
			if policy.Kind != AliasOf {
				break
			}
			next, ok := builtinRules[policy.Target]
			if !ok {
				panic("indent: alias '" + keyword + "' points at unknown keyword '" + policy.Target + "'")
			}
			policy = next
		}
		if policy.Kind == AliasOf {
			panic("indent: alias cycle through '" + keyword + "'")
		}
	}
}
