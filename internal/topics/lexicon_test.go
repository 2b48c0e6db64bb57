package topics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexiconStopPhrases(t *testing.T) {
	lex := NewLexicon([]string{"Link In Bio", "follow for more"}, nil)

	assert.True(t, lex.IsStopPhrase("link in bio"))
	assert.True(t, lex.IsStopPhrase("  Follow   for MORE "))
	assert.False(t, lex.IsStopPhrase("morning meditation"))
	assert.Equal(t, 2, lex.StopPhraseCount())
}

func TestLexiconCanonicalize(t *testing.T) {
	lex := NewLexicon(nil, map[string]string{
		"Meditating":      "meditation",
		"lucid dreams":    "lucid dreaming",
		"lucid dreaming ": "lucid dreaming",
	})

	tests := []struct {
		phrase string
		want   string
	}{
		{"meditating", "meditation"},
		{"Lucid Dreams", "lucid dreaming"},
		{"lucid dreaming", "lucid dreaming"},
		{"unmapped phrase", "unmapped phrase"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, lex.Canonicalize(tt.phrase), "phrase %q", tt.phrase)
	}

	// Canonical forms are fixed points.
	for _, tt := range tests {
		once := lex.Canonicalize(tt.phrase)
		assert.Equal(t, once, lex.Canonicalize(once))
	}
}

func TestLoadLexiconMissingFile(t *testing.T) {
	lex, err := LoadLexicon(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, lex.StopPhraseCount())
	assert.Equal(t, 0, lex.MergeRuleCount())
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	content := []byte(`stop_phrases:
  - link in bio
  - follow for more
merge_rules:
  meditating: meditation
  lucid dreams: lucid dreaming
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)

	assert.True(t, lex.IsStopPhrase("Link in Bio"))
	assert.Equal(t, "meditation", lex.Canonicalize("meditating"))
	assert.Equal(t, 2, lex.MergeRuleCount())
}

func TestLoadLexiconBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stop_phrases: {nope"), 0o600))

	_, err := LoadLexicon(path)
	require.Error(t, err)
}
