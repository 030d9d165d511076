package repl

import "strings"

// tokenize splits a REPL line on whitespace: the first token is the
// command, the remainder are arguments. Quoting is not part of the
// grammar, so none is implemented here.
func tokenize(line string) []string {
	return strings.Fields(line)
}

// isShellEscape reports whether line should be passed to the operating
// system shell instead of the command table: lines beginning with !
// are passed through.
func isShellEscape(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "!") {
		return strings.TrimPrefix(trimmed, "!"), true
	}
	return "", false
}
