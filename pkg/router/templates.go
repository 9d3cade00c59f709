package router

import (
	"encoding/json"
	"os"
	"strings"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
)

// TemplateFile is the on-disk template table: endpoint root -> method ->
// ordered template strings.
type TemplateFile map[string]map[string][]string

// LoadTemplateFile reads and decodes a template file.
func LoadTemplateFile(path string) (TemplateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.ConfigError("router: cannot read template file: " + err.Error())
	}
	var tf TemplateFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, ferrors.ConfigError("router: cannot parse template file: " + err.Error())
	}
	return tf, nil
}

// actionOf derives the handler-kind string a template dispatches to.
// For GET/PUT templates the action is the literal value of the "action"
// query pair; for POST templates it is the first path segment.
func actionOf(method, pattern string) (string, error) {
	if method == "POST" {
		trimmed := strings.TrimPrefix(pattern, "/")
		if i := strings.IndexByte(trimmed, '/'); i >= 0 {
			trimmed = trimmed[:i]
		}
		if trimmed == "" {
			return "", ferrors.ConfigError("router: POST template has no action segment: " + pattern)
		}
		return trimmed, nil
	}
	if method == "DELETE" {
		return "delete", nil
	}

	idx := strings.IndexByte(pattern, '?')
	if idx < 0 {
		return "", ferrors.ConfigError("router: template missing action query parameter: " + pattern)
	}
	query := pattern[idx+1:]
	for _, pair := range strings.Split(query, "&") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && kv[0] == "action" {
			return kv[1], nil
		}
	}
	return "", ferrors.ConfigError("router: template missing action query parameter: " + pattern)
}

// Build constructs an Endpoint from a root's template table, binding each
// template to the handler named by its derived action in handlers. Unknown
// actions fail fast at startup rather than at request time.
func Build(root string, templates map[string][]string, handlers map[string]Handler) (*Endpoint, error) {
	ep := NewEndpoint(root)
	for method, patterns := range templates {
		for _, pattern := range patterns {
			action, err := actionOf(method, pattern)
			if err != nil {
				return nil, err
			}
			h, ok := handlers[action]
			if !ok {
				return nil, ferrors.ConfigError("router: no handler registered for action " + action)
			}
			ep.Handle(method, pattern, h)
		}
	}
	return ep, nil
}
