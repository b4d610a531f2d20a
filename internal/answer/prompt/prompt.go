package prompt

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	DefaultSystem = "You are a friendly chat bot. Answer to the users prompt using the provided context. Write nicely structured answers."
	DefaultUser   = "User prompt {{input}}"

	// RetrievalUser adds the documents found for the prompt.
	RetrievalUser = "User prompt {{input}}\n\nRelated context:\n{{context}}"
)

// Prompt represents the structure of a TOML prompt file
type Prompt struct {
	System string  `toml:"system"`
	User   string  `toml:"user"`
	Model  *string `toml:"model,omitempty"`
}

// Default returns the built-in prompt
func Default() *Prompt {
	return &Prompt{System: DefaultSystem, User: DefaultUser}
}

// Retrieval returns the built-in prompt used when retrieval is enabled
func Retrieval() *Prompt {
	return &Prompt{System: DefaultSystem, User: RetrievalUser}
}

// LoadPrompt loads a prompt file and returns its contents
func LoadPrompt(filePath string) (*Prompt, error) {
	var prompt Prompt
	if _, err := toml.DecodeFile(filePath, &prompt); err != nil {
		return nil, fmt.Errorf("error decoding prompt file: %w", err)
	}
	if prompt.User == "" {
		prompt.User = "{{input}}"
	}
	return &prompt, nil
}

// Load returns the prompt stored at filePath, or the built-in one when
// filePath is empty.
func Load(filePath string) (*Prompt, error) {
	if filePath == "" {
		return Default(), nil
	}
	return LoadPrompt(filePath)
}
