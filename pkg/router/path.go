package router

import (
	"errors"
	"strings"
)

// Path canonicalisation errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizePath normalises a URL path and splits off its query string.
//
// Trailing slashes are removed (except for "/"), repeated slashes collapse,
// "." segments are dropped and ".." segments resolved. Backslashes, NUL
// bytes, bad percent escapes and ".." above the root are rejected.
func CanonicalizePath(input string) (path, query string, err error) {
	if input == "" {
		return "/", "", nil
	}
	path, query, _ = strings.Cut(input, "?")

	if strings.Contains(path, "\\") {
		return "", "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", "", ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return "", "", err
		}
	}

	var out []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return "", "", ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/"), query, nil
}

// joinPath resolves link against base. Absolute links ignore base.
func joinPath(base, link string) string {
	if strings.HasPrefix(link, "/") {
		return link
	}
	return strings.TrimSuffix(base, "/") + "/" + link
}

// isExternal reports whether link leaves the application.
func isExternal(link string) bool {
	return strings.HasPrefix(link, "http://") ||
		strings.HasPrefix(link, "https://") ||
		strings.HasPrefix(link, "//")
}

func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
