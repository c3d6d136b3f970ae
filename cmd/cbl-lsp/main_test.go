package main

import (
	"path/filepath"
	"testing"

	"github.com/GaloisInc/crucibler-mode/internal/cbl/indent"
	"github.com/GaloisInc/crucibler-mode/internal/cbl/syntax"
	"github.com/GaloisInc/crucibler-mode/internal/cbl/testutil"
)

func TestLoadConfiguration_MissingFile(t *testing.T) {
	dir := testutil.TempDir(t, nil)

	// A missing file must leave the builtin tables untouched and not panic.
	loadConfiguration(filepath.Join(dir, "no-such-config.toml"))

	if policy := indent.Resolve("defun"); policy.Special != 2 {
		t.Errorf("Builtin defun rule disturbed: %+v", policy)
	}
}

func TestLoadConfiguration_MalformedFile(t *testing.T) {
	dir := testutil.TempDir(t, map[string]string{
		"config.toml": "[indent\nbroken",
	})

	// Malformed configuration is reported and ignored.
	loadConfiguration(filepath.Join(dir, "config.toml"))

	if policy := indent.Resolve("defun"); policy.Special != 2 {
		t.Errorf("Builtin defun rule disturbed: %+v", policy)
	}
}

func TestLoadConfiguration_AppliesExtensions(t *testing.T) {
	dir := testutil.TempDir(t, map[string]string{
		"config.toml": `
[indent.forms]
while = 1

[vocabulary]
statements = ["halt!"]
`,
	})

	loadConfiguration(filepath.Join(dir, "config.toml"))
	defer indent.SetCustomRules(nil)
	defer syntax.SetCustomVocabulary(nil)

	if policy := indent.Resolve("while"); policy.Special != 1 || policy.Body != 1 {
		t.Errorf("Expected while to carry a block rule, got %+v", policy)
	}
	if got := syntax.Classify("halt!"); got != syntax.Statement {
		t.Errorf("Expected halt! to classify as Statement, got %v", got)
	}
}

func TestMapToKeys(t *testing.T) {
	keys := mapToKeys(map[string][]byte{"a": nil, "b": nil})
	if len(keys) != 2 {
		t.Errorf("Expected 2 keys, got %v", keys)
	}

	if keys := mapToKeys(map[string]int(nil)); len(keys) != 0 {
		t.Errorf("Expected no keys for nil map, got %v", keys)
	}
}
