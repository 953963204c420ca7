package boardfile

import "strings"

// Line is one non-blank line of a text board file
type Line struct {
	Text string
	No   int // 1-based
}

// Lines splits s on \n, \r and \r\n and drops lines that hold only
// whitespace. Line texts are substrings of s.
func Lines(s string) []Line {
	var out []Line
	no := 1
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != '\n' && s[i] != '\r' {
			continue
		}
		text := s[start:i]
		if strings.TrimSpace(text) != "" {
			out = append(out, Line{Text: text, No: no})
		}
		if i < len(s) && s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}
		no++
		start = i + 1
	}
	return out
}

// HeaderLike reports whether a line looks like a section header: a single
// token ending in ':' that starts with a letter.
func HeaderLike(text string) bool {
	t := strings.TrimSpace(text)
	if len(t) < 2 || t[len(t)-1] != ':' || strings.ContainsAny(t, " \t") {
		return false
	}
	c := t[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// FirstField returns the first whitespace-delimited token of a line
func FirstField(text string) string {
	c := NewCursor(text, 0)
	return c.next()
}
