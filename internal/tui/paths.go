package tui

import (
	"net/url"
	"runtime"
	"strings"
)

// ParsePaths splits text pasted or dropped on the terminal into paths.
//
// Paths are separated by whitespace or new lines. Single or double quoted paths
// can contain spaces, and on unix systems a backslash escapes the next character
// like terminals do when a file is dropped. `file://` URIs are converted to paths.
func ParsePaths(s string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)

	flush := func() {
		if started {
			paths = append(paths, fromURI(current.String()))
		}
		current.Reset()
		started = false
	}

	unixEscapes := runtime.GOOS != "windows"
	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '\\' && unixEscapes:
			escaped = true
			started = true
		case r == '"' || r == '\'':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	// Drop empty entries like `""`.
	res := paths[:0]
	for _, p := range paths {
		if p != "" {
			res = append(res, p)
		}
	}

	return res
}

func fromURI(s string) string {
	if !strings.HasPrefix(s, "file://") {
		return s
	}

	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return s
	}

	p := u.Path
	// Windows drive letters come as `/C:/...`.
	if runtime.GOOS == "windows" && len(p) > 2 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}

	return p
}
