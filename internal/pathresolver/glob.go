package pathresolver

import "strings"

// Match reports whether name matches any of patterns, applying the
// Unix hidden-file convention: a leading '.' in name is matched only by
// a pattern whose first character is a literal '.'. An empty pattern
// list matches everything.
func Match(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if globMatch(p, name) {
			return true
		}
	}
	return false
}

func globMatch(pattern, name string) bool {
	if strings.HasPrefix(name, ".") && !strings.HasPrefix(pattern, ".") {
		return false
	}
	return matchHere(pattern, name)
}

// matchHere implements classic shell glob matching over '*', '?', and
// '[...]' character classes (including 'a-z' ranges and a leading '!' or
// '^' for negation).
func matchHere(pattern, s string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			// Try every possible split; '*' also matches zero characters.
			for i := 0; i <= len(s); i++ {
				if matchHere(pattern[1:], s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			pattern, s = pattern[1:], s[1:]
		case '[':
			if len(s) == 0 {
				return false
			}
			end := strings.IndexByte(pattern, ']')
			if end < 0 {
				return pattern == s // malformed class: treat '[' literally
			}
			class := pattern[1:end]
			if !matchClass(class, s[0]) {
				return false
			}
			pattern, s = pattern[end+1:], s[1:]
		default:
			if len(s) == 0 || pattern[0] != s[0] {
				return false
			}
			pattern, s = pattern[1:], s[1:]
		}
	}
	return len(s) == 0
}

func matchClass(class string, c byte) bool {
	negate := false
	if len(class) > 0 && (class[0] == '!' || class[0] == '^') {
		negate = true
		class = class[1:]
	}
	matched := false
	for i := 0; i < len(class); i++ {
		if i+2 < len(class) && class[i+1] == '-' {
			if class[i] <= c && c <= class[i+2] {
				matched = true
			}
			i += 2
			continue
		}
		if class[i] == c {
			matched = true
		}
	}
	return matched != negate
}
