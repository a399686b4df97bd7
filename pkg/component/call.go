package component

import (
	"strconv"
	"strings"

	"github.com/vango-dev/weft/internal/errors"
)

// parseCall splits "name(a, b)" into its name and argument expressions.
// Without lambdize the whole raw value is the name.
func parseCall(raw string, lambdize bool) (string, []string, error) {
	raw = strings.TrimSpace(raw)
	if !lambdize {
		if raw == "" {
			return "", nil, malformedCall(raw)
		}
		return raw, nil, nil
	}

	open := strings.IndexByte(raw, '(')
	if open <= 0 || !strings.HasSuffix(raw, ")") {
		return "", nil, malformedCall(raw)
	}
	name := strings.TrimSpace(raw[:open])
	inner := raw[open+1 : len(raw)-1]

	args, err := splitArgs(inner)
	if err != nil {
		return "", nil, malformedCall(raw)
	}
	return name, args, nil
}

// splitArgs splits on commas outside quotes.
func splitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		out   []string
		start int
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ',':
			out = append(out, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, strconv.ErrSyntax
	}
	out = append(out, strings.TrimSpace(s[start:]))
	for _, a := range out {
		if a == "" {
			return nil, strconv.ErrSyntax
		}
	}
	return out, nil
}

// parseLiteral parses quoted strings, integers, floats and booleans.
func parseLiteral(expr string) (any, bool) {
	if len(expr) >= 2 {
		q := expr[0]
		if (q == '"' || q == '\'') && expr[len(expr)-1] == q {
			if q == '\'' {
				return strings.ReplaceAll(expr[1:len(expr)-1], `\'`, `'`), true
			}
			s, err := strconv.Unquote(expr)
			return s, err == nil
		}
	}
	switch expr {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	if expr == "" || !strings.ContainsRune("+-.0123456789", rune(expr[0])) {
		return nil, false
	}
	if i, err := strconv.Atoi(expr); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(expr, 64); err == nil {
		return f, true
	}
	return nil, false
}

func malformedCall(raw string) error {
	return errors.New("W022").WithDetail("handler value " + strconv.Quote(raw))
}
