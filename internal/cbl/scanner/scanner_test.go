package scanner

import "testing"

func TestFindEnclosingForm_TopLevel(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty text", ""},
		{"after closed form", "(defun @f () Unit)\n"},
		{"between forms", "(a)\n\n(b)\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := FindEnclosingForm(tc.text, len(tc.text))

			if state.Depth != 0 {
				t.Errorf("Expected depth 0, got %d", state.Depth)
			}
			if state.FormStart != -1 {
				t.Errorf("Expected FormStart -1, got %d", state.FormStart)
			}
		})
	}
}

func TestFindEnclosingForm_SimpleForm(t *testing.T) {
	text := "(defun @f "
	state := FindEnclosingForm(text, len(text))

	if state.Depth != 1 {
		t.Fatalf("Expected depth 1, got %d", state.Depth)
	}
	if state.FormStart != 0 {
		t.Errorf("Expected FormStart 0, got %d", state.FormStart)
	}
	if state.Head != "defun" {
		t.Errorf("Expected head 'defun', got %q", state.Head)
	}
}

func TestFindEnclosingForm_UnmatchedClosersIgnored(t *testing.T) {
	// Stray closing delimiters must not push the depth negative.
	text := "))(foo "
	state := FindEnclosingForm(text, len(text))

	if state.Depth != 1 {
		t.Errorf("Expected depth 1, got %d", state.Depth)
	}
	if state.Head != "foo" {
		t.Errorf("Expected head 'foo', got %q", state.Head)
	}
}

func TestFindEnclosingForm_CommentsDoNotAffectBalance(t *testing.T) {
	text := "(f ; comment with (((\n "
	state := FindEnclosingForm(text, len(text))

	if state.Depth != 1 {
		t.Errorf("Expected depth 1, got %d", state.Depth)
	}
}

func TestFindEnclosingForm_StringsDoNotAffectBalance(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		depth int
	}{
		{"parens in string", `(f "((((" `, 1},
		{"escaped quote", `(f "a\"(" `, 1},
		{"semicolon in string", `(f "; not a comment" (g `, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := FindEnclosingForm(tc.text, len(tc.text))
			if state.Depth != tc.depth {
				t.Errorf("Expected depth %d, got %d", tc.depth, state.Depth)
			}
		})
	}
}

func TestFindEnclosingForm_NestedForms(t *testing.T) {
	text := "(defun @f () Unit\n   (start begin:\n    (let x "
	state := FindEnclosingForm(text, len(text))

	if state.Depth != 3 {
		t.Fatalf("Expected depth 3, got %d", state.Depth)
	}
	if state.Head != "let" {
		t.Errorf("Expected head 'let', got %q", state.Head)
	}
}

func TestHeadSymbolOf(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		formStart int
		head      string
		ok        bool
	}{
		{"symbol head", "(defun @f)", 0, "defun", true},
		{"head after blanks", "(  jump x)", 0, "jump", true},
		{"subform head", "((f) x)", 0, "", false},
		{"no head yet", "(", 0, "", false},
		{"sigil head", "(@f x)", 0, "@f", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			head, ok := HeadSymbolOf(tc.text, tc.formStart)
			if ok != tc.ok {
				t.Fatalf("Expected ok=%v, got %v", tc.ok, ok)
			}
			if head != tc.head {
				t.Errorf("Expected head %q, got %q", tc.head, head)
			}
		})
	}
}

func TestCompleteSiblingsBefore_SkipsHead(t *testing.T) {
	text := "(defun @f (x) Integer "
	starts := CompleteSiblingsBefore(text, 0, len(text))

	if len(starts) != 3 {
		t.Fatalf("Expected 3 siblings, got %d: %v", len(starts), starts)
	}

	expected := []int{7, 10, 14}
	for i, start := range starts {
		if start != expected[i] {
			t.Errorf("Sibling %d: expected offset %d, got %d", i, expected[i], start)
		}
	}
}

func TestCompleteSiblingsBefore_OpenSubformNotCounted(t *testing.T) {
	text := "(let x (foo "
	starts := CompleteSiblingsBefore(text, 0, len(text))

	if len(starts) != 1 {
		t.Errorf("Expected 1 sibling, got %d: %v", len(starts), starts)
	}
}

func TestCompleteSiblingsBefore_MidTokenNotCounted(t *testing.T) {
	text := "(let xy"

	// Position inside 'xy': the atom is still being typed.
	starts := CompleteSiblingsBefore(text, 0, 6)
	if len(starts) != 0 {
		t.Errorf("Expected 0 siblings mid-token, got %d", len(starts))
	}

	// Position right after 'xy': the atom counts.
	starts = CompleteSiblingsBefore(text, 0, 7)
	if len(starts) != 1 {
		t.Errorf("Expected 1 sibling at token end, got %d", len(starts))
	}
}

func TestCompleteSiblingsBefore_StringSibling(t *testing.T) {
	text := `(print "a b c" x `
	starts := CompleteSiblingsBefore(text, 0, len(text))

	if len(starts) != 2 {
		t.Errorf("Expected 2 siblings, got %d: %v", len(starts), starts)
	}
}

func TestLastCompleteSiblingBefore_ArgsOnHeadLine(t *testing.T) {
	// All siblings share the head's line, so the anchor is the first one.
	text := "(f a b\n"
	anchor, ok := LastCompleteSiblingBefore(text, 0, len(text))

	if !ok {
		t.Fatal("Expected an anchor")
	}
	if anchor != 3 {
		t.Errorf("Expected anchor at offset 3 ('a'), got %d", anchor)
	}
}

func TestLastCompleteSiblingBefore_SiblingsOnOwnLines(t *testing.T) {
	text := "(f\n a\n b\n"
	anchor, ok := LastCompleteSiblingBefore(text, 0, len(text))

	if !ok {
		t.Fatal("Expected an anchor")
	}
	if anchor != 7 {
		t.Errorf("Expected anchor at offset 7 ('b'), got %d", anchor)
	}
}

func TestLastCompleteSiblingBefore_NoSiblings(t *testing.T) {
	text := "(f\n"
	_, ok := LastCompleteSiblingBefore(text, 0, len(text))

	if ok {
		t.Error("Expected no anchor for a form without complete siblings")
	}
}

func TestColumn(t *testing.T) {
	text := "ab\ncd"

	if col := Column(text, 0); col != 0 {
		t.Errorf("Expected column 0, got %d", col)
	}
	if col := Column(text, 3); col != 0 {
		t.Errorf("Expected column 0 after newline, got %d", col)
	}
	if col := Column(text, 4); col != 1 {
		t.Errorf("Expected column 1, got %d", col)
	}
}

func TestFindEnclosingForm_PositionClamping(t *testing.T) {
	text := "(f "

	if state := FindEnclosingForm(text, -5); state.Depth != 0 {
		t.Errorf("Expected depth 0 for negative position, got %d", state.Depth)
	}
	if state := FindEnclosingForm(text, 100); state.Depth != 1 {
		t.Errorf("Expected depth 1 for clamped position, got %d", state.Depth)
	}
}
