package tools

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	apperrors "research-tools/backend/pkg/errors"
)

// Arguments arrive as decoded JSON from the API and the LLM bridge, and as
// plain strings from the bot and the CLI. The readers below accept both.

func stringArg(args map[string]interface{}, name string) string {
	switch v := args[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	}
	return ""
}

func requireString(args map[string]interface{}, name string) (string, error) {
	v := stringArg(args, name)
	if v == "" {
		return "", apperrors.NewInvalidArgument(name, "is required")
	}
	return v, nil
}

// intArg reads an integer argument, returning def when it is absent.
func intArg(args map[string]interface{}, name string, def int) (int, error) {
	switch v := args[name].(type) {
	case nil:
		return def, nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return 0, apperrors.NewInvalidArgument(name, "must be an integer")
		}
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < math.MinInt32 || n > math.MaxInt32 {
			return 0, apperrors.NewInvalidArgument(name, "must be an integer")
		}
		return int(n), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return def, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, apperrors.NewInvalidArgument(name, "must be an integer")
		}
		return n, nil
	}
	return 0, apperrors.NewInvalidArgument(name, "must be an integer")
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// oneOf lower-cases value, substitutes def when empty and checks it against
// the allowed set.
func oneOf(name, value, def string, allowed ...string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		value = def
	}
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	return "", apperrors.NewInvalidArgument(name, "must be one of "+strings.Join(allowed, ", "))
}
