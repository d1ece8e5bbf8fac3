package adapter

import "sort"

// Tool represents a function that can be called by an LLM or a front-end
type Tool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition defines a function that can be called
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolCall represents a request to run one tool
type ToolCall struct {
	ID        string                 `json:"id,omitempty"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Required returns the names of the required parameters in schema order
func (f FunctionDefinition) Required() []string {
	switch req := f.Parameters["required"].(type) {
	case []string:
		return req
	case []interface{}:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Properties returns the declared parameter names, sorted
func (f FunctionDefinition) Properties() []string {
	props, _ := f.Parameters["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropertyType returns the JSON schema type of a parameter, or "" if unknown
func (f FunctionDefinition) PropertyType(name string) string {
	props, _ := f.Parameters["properties"].(map[string]interface{})
	prop, _ := props[name].(map[string]interface{})
	t, _ := prop["type"].(string)
	return t
}
