package indent

import "testing"

func TestComputeIndent_TopLevel(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty text", ""},
		{"after closed form", "(defun @f () Unit)\n"},
		{"stray closer only", ")\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if col := ComputeIndent(tc.text, len(tc.text)); col != 0 {
				t.Errorf("Expected column 0 at top level, got %d", col)
			}
		})
	}
}

func TestComputeIndent_DefunBody(t *testing.T) {
	// Name, parameters and return type are complete, so the next line is a
	// body line three columns in.
	text := "(defun @f () Unit\n"
	if col := ComputeIndent(text, len(text)); col != 3 {
		t.Errorf("Expected column 3 for defun body, got %d", col)
	}
}

func TestComputeIndent_DefunStillFillingSpecials(t *testing.T) {
	// Only the name is complete; the parameter list is still owed.
	text := "(defun @f\n"
	if col := ComputeIndent(text, len(text)); col != 1 {
		t.Errorf("Expected column 1 while filling specials, got %d", col)
	}
}

func TestComputeIndent_RegistersAliasesDefun(t *testing.T) {
	base := " @f () Unit\n"

	colDefun := ComputeIndent("(defun"+base, len("(defun"+base))
	colRegisters := ComputeIndent("(registers"+base, len("(registers"+base))

	if colDefun != colRegisters {
		t.Errorf(
			"Expected registers to indent like defun: defun=%d registers=%d",
			colDefun, colRegisters,
		)
	}
}

func TestComputeIndent_BlockForms(t *testing.T) {
	tests := []struct {
		name string
		text string
		col  int
	}{
		{"start body", "(start begin:\n", 1},
		{"defblock body", "(defblock loop:\n", 1},
		{"let body", "(let x\n", 1},
		{"branch body", "(branch (< $i n)\n", 1},
		{"case body", "(case u\n", 1},
		{"the body", "(the Integer\n", 1},
		{"maybe-branch body", "(maybe-branch m\n", 1},
		{"nested block keeps offset from its own column", "  (start begin:\n", 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if col := ComputeIndent(tc.text, len(tc.text)); col != tc.col {
				t.Errorf("Expected column %d, got %d", tc.col, col)
			}
		})
	}
}

func TestComputeIndent_DefaultAlign(t *testing.T) {
	tests := []struct {
		name string
		text string
		col  int
	}{
		{"under first arg on head line", "(foo bar baz\n", 5},
		{"under previous sibling on own line", "(foo\n  bar\n", 2},
		{"no siblings yet", "(foo\n", 1},
		{"headless form", "((f) x\n", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if col := ComputeIndent(tc.text, len(tc.text)); col != tc.col {
				t.Errorf("Expected column %d, got %d", tc.col, col)
			}
		})
	}
}

func TestComputeIndent_MidDocumentQuery(t *testing.T) {
	// Query at the start of the defblock line, not at the end of the text.
	text := "(defun @f () Unit\n   (start s:\n    (jump l:))\n(defblock l:\n"
	queryPos := len("(defun @f () Unit\n   (start s:\n    (jump l:))\n")

	if col := ComputeIndent(text, queryPos); col != 3 {
		t.Errorf("Expected column 3 for defblock inside defun, got %d", col)
	}
}

func TestSetCustomRules_ShadowsBuiltin(t *testing.T) {
	SetCustomRules(map[string]Policy{
		"let": Special(2, 3),
	})
	defer SetCustomRules(nil)

	// With two specials, one complete sibling is not enough for the body.
	text := "(let x\n"
	if col := ComputeIndent(text, len(text)); col != 1 {
		t.Errorf("Expected column 1 under shadowed rule, got %d", col)
	}

	text = "(let x y\n"
	if col := ComputeIndent(text, len(text)); col != 3 {
		t.Errorf("Expected column 3 under shadowed rule, got %d", col)
	}
}

func TestResolve_UnknownKeyword(t *testing.T) {
	policy := Resolve("no-such-form")
	if policy.Kind != DefaultAlign {
		t.Errorf("Expected DefaultAlign for unknown keyword, got %v", policy.Kind)
	}
}

func TestResolve_AliasChain(t *testing.T) {
	SetCustomRules(map[string]Policy{
		"my-defun": Alias("defun"),
	})
	defer SetCustomRules(nil)

	policy := Resolve("my-defun")
	if policy.Kind != FixedSpecial || policy.Special != 2 || policy.Body != 3 {
		t.Errorf("Expected my-defun to resolve to defun's policy, got %+v", policy)
	}
}

func TestResolve_AliasCycleDegradesToDefault(t *testing.T) {
	SetCustomRules(map[string]Policy{
		"a": Alias("b"),
		"b": Alias("a"),
	})
	defer SetCustomRules(nil)

	policy := Resolve("a")
	if policy.Kind != DefaultAlign {
		t.Errorf("Expected DefaultAlign for alias cycle, got %v", policy.Kind)
	}

	// The engine must stay usable with the broken table installed.
	text := "(a x y\n"
	if col := ComputeIndent(text, len(text)); col != 3 {
		t.Errorf("Expected default alignment under first arg, got %d", col)
	}
}

func TestResolve_AliasToUnknownDegradesToDefault(t *testing.T) {
	SetCustomRules(map[string]Policy{
		"ghost": Alias("no-such-form"),
	})
	defer SetCustomRules(nil)

	policy := Resolve("ghost")
	if policy.Kind != DefaultAlign {
		t.Errorf("Expected DefaultAlign for dangling alias, got %v", policy.Kind)
	}
}
