package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrompt(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answer.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefault(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSystem, p.System)
	assert.Equal(t, DefaultUser, p.User)
	assert.Nil(t, p.Model)
}

func TestLoadPrompt(t *testing.T) {
	path := writePrompt(t, `
system = "You answer in {{lang}}."
user = "Question: {{input}}"
model = "gpt-4o"
`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "You answer in {{lang}}.", p.System)
	assert.Equal(t, "Question: {{input}}", p.User)
	require.NotNil(t, p.Model)
	assert.Equal(t, "gpt-4o", *p.Model)
}

func TestLoadPromptDefaultsUser(t *testing.T) {
	path := writePrompt(t, `system = "Be brief."`)

	p, err := LoadPrompt(path)
	require.NoError(t, err)
	assert.Equal(t, "{{input}}", p.User)
}

func TestLoadPromptErrors(t *testing.T) {
	_, err := LoadPrompt(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadPrompt(writePrompt(t, `system = `))
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name       string
		prompt     Prompt
		input      string
		vars       map[string]string
		wantSystem string
		wantUser   string
		wantErr    bool
	}{
		{
			name:       "default prompt",
			prompt:     *Default(),
			input:      "Hello, AI!",
			wantSystem: DefaultSystem,
			wantUser:   "User prompt Hello, AI!",
		},
		{
			name:       "extra vars",
			prompt:     Prompt{System: "Reply in {{lang}}", User: "{{input}} ({{lang}})"},
			input:      "hi",
			vars:       map[string]string{"lang": "French"},
			wantSystem: "Reply in French",
			wantUser:   "hi (French)",
		},
		{
			name:       "input placeholder in system",
			prompt:     Prompt{System: "Topic: {{input}}", User: "{{input}}"},
			input:      "go",
			wantSystem: "Topic: go",
			wantUser:   "go",
		},
		{
			name:       "retrieval prompt",
			prompt:     *Retrieval(),
			input:      "What is Go?",
			vars:       map[string]string{"context": "Go is a language."},
			wantSystem: DefaultSystem,
			wantUser:   "User prompt What is Go?\n\nRelated context:\nGo is a language.",
		},
		{
			name:    "reserved key",
			prompt:  *Default(),
			input:   "hi",
			vars:    map[string]string{"input": "override"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, user, err := tt.prompt.Format(tt.input, tt.vars)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Format() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			assert.Equal(t, tt.wantSystem, system)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestParseVars(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", args: nil, want: map[string]string{}},
		{name: "simple", args: []string{"lang:French"}, want: map[string]string{"lang": "French"}},
		{name: "quoted", args: []string{`"tone: warm"`}, want: map[string]string{"tone": "warm"}},
		{name: "colon in value", args: []string{`url:http\://x`}, want: map[string]string{"url": "http://x"}},
		{name: "missing colon", args: []string{"lang"}, wantErr: true},
		{name: "empty key", args: []string{":x"}, wantErr: true},
		{name: "reserved", args: []string{"input:x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVars(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVars() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
