package prompt

import (
	"fmt"
	"sort"
	"strings"
)

// Format renders the system and user prompts.
// {{input}} is replaced with input; other placeholders come from vars.
func (p *Prompt) Format(input string, vars map[string]string) (string, string, error) {
	if _, reserved := vars["input"]; reserved {
		return "", "", fmt.Errorf("'input' is a reserved keyword and cannot be used as a key")
	}

	replacements := make(map[string]string, len(vars)+1)
	replacements["input"] = input
	for key, value := range vars {
		replacements[key] = value
	}

	// Replace in a stable order so values containing placeholders behave
	// the same on every call.
	keys := make([]string, 0, len(replacements))
	for key := range replacements {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	systemPrompt := p.System
	userPrompt := p.User
	for _, key := range keys {
		placeholder := fmt.Sprintf("{{%s}}", key)
		systemPrompt = strings.ReplaceAll(systemPrompt, placeholder, replacements[key])
		userPrompt = strings.ReplaceAll(userPrompt, placeholder, replacements[key])
	}

	return systemPrompt, userPrompt, nil
}

// ParseVars turns key:value arguments into template variables.
// A colon inside the value can be escaped as \:.
func ParseVars(args []string) (map[string]string, error) {
	vars := make(map[string]string, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			arg = strings.Trim(arg, `"`)
		}

		key, value, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("invalid variable %q, expected key:value", arg)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\"`, `"`)

		if key == "" {
			return nil, fmt.Errorf("invalid variable %q, key is empty", arg)
		}
		if key == "input" {
			return nil, fmt.Errorf("'input' is a reserved keyword and cannot be used as a key")
		}
		vars[key] = value
	}
	return vars, nil
}
