package certificate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile_Defaults(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)

	assert.Equal(t, DefaultDocumentMarker, p.DocumentMarker)
	assert.Equal(t, DefaultLexicon(), p.Lexicon)
	assert.Equal(t, DefaultRules(), p.Rules)
}

func TestLoadProfile_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
surnames: [Lý, Mạc]
rules:
  - field: Number
    patterns:
      - 'Số hiệu:\s*(\S+)'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Lý", "Mạc"}, p.Lexicon.Surnames)
	assert.Equal(t, DefaultLexicon().Blacklist, p.Lexicon.Blacklist)
	assert.Equal(t, DefaultDocumentMarker, p.DocumentMarker)
	require.Len(t, p.Rules, len(DefaultRules()))
	assert.Equal(t, FieldNumber, p.Rules[0].Field)
	assert.Equal(t, []string{`Số hiệu:\s*(\S+)`}, p.Rules[0].Patterns)

	rs, err := CompileRules(p.Rules)
	require.NoError(t, err)
	assert.Equal(t, "A-1", rs.Extract("Số hiệu: A-1")[FieldNumber])
}

func TestParseProfile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		errorMsg string
	}{
		{"bad_yaml", "rules: [", "failed to parse rules file"},
		{"derived_field", "rules:\n  - field: Signer\n    patterns: ['(x)']", "derived"},
		{"two_groups", "rules:\n  - field: Gender\n    patterns: ['(a)(b)']", "exactly one capture group"},
		{"unknown_field", "rules:\n  - field: Spouse\n    patterns: ['(a)']", "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
