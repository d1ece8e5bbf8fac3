package discord

import (
	"strings"

	"github.com/google/shlex"

	"research-tools/backend/internal/adapter"
	apperrors "research-tools/backend/pkg/errors"
)

// Built-in bot commands
const (
	CommandTools = "tools"
	CommandHelp  = "help"
)

// Command is a bot message split into a command name and its argument text
type Command struct {
	Name string
	Text string
}

// ParseCommand reads "<prefix><name> <text>". It reports false when content
// does not start with prefix or names no command.
func ParseCommand(content, prefix string) (Command, bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, prefix) {
		return Command{}, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(content, prefix))
	if rest == "" {
		return Command{}, false
	}

	name, text, _ := strings.Cut(rest, " ")
	return Command{
		Name: strings.ToLower(strings.TrimSpace(name)),
		Text: strings.TrimSpace(text),
	}, true
}

// BindArguments turns argument text into tool arguments. Tokens of the form
// key=value set declared parameters; the remaining words fill the required
// parameters that are still unset.
//
//	!wikipedia_search alan turing          -> {query: "alan turing"}
//	!reddit_list golang sort=top t=week    -> {subreddit: golang, sort: top, t: week}
//	!github_repo golang go                 -> {owner: golang, repo: go}
//	!fetch_url url="https://go.dev" format=markdown
func BindArguments(tool adapter.Tool, text string) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	if strings.TrimSpace(text) == "" {
		return args, nil
	}

	tokens, err := shlex.Split(text)
	if err != nil {
		// Unbalanced quotes, e.g. an apostrophe in free text
		tokens = strings.Fields(text)
	}

	declared := map[string]bool{}
	for _, p := range tool.Function.Properties() {
		declared[p] = true
	}

	var free []string
	for _, tok := range tokens {
		if key, value, ok := strings.Cut(tok, "="); ok && declared[key] {
			args[key] = value
			continue
		}
		free = append(free, tok)
	}

	if len(free) == 0 {
		return args, nil
	}

	// One word per missing required parameter, the rest to the last one
	if missing := unsetRequired(tool, args); len(missing) > 1 && len(free) >= len(missing) {
		last := len(missing) - 1
		for i, name := range missing[:last] {
			args[name] = free[i]
		}
		args[missing[last]] = strings.Join(free[last:], " ")
		return args, nil
	}

	target := freeTextParameter(tool, args)
	if target == "" {
		return nil, apperrors.NewInvalidArgument(strings.Join(free, " "),
			"unexpected text; use key=value for "+tool.Function.Name)
	}
	args[target] = strings.Join(free, " ")
	return args, nil
}

func unsetRequired(tool adapter.Tool, set map[string]interface{}) []string {
	var missing []string
	for _, name := range tool.Function.Required() {
		if _, ok := set[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// freeTextParameter picks the parameter that unnamed words fill: the first
// unset required one, else the only declared one.
func freeTextParameter(tool adapter.Tool, set map[string]interface{}) string {
	if missing := unsetRequired(tool, set); len(missing) > 0 {
		return missing[0]
	}
	if props := tool.Function.Properties(); len(props) == 1 {
		if _, ok := set[props[0]]; !ok {
			return props[0]
		}
	}
	return ""
}
