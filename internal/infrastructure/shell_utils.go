package infrastructure

import "strings"

// QuoteArg quotes s for display in a POSIX shell command line.
// Used only for the download log; the tool itself is spawned without a shell.
func QuoteArg(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// CommandLine renders binary and args as a copy-pasteable shell command
func CommandLine(binary string, args []string) string {
	var b strings.Builder
	b.WriteString(QuoteArg(binary))
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(QuoteArg(arg))
	}
	return b.String()
}

// needsQuoting reports whether r is outside the set of characters a shell leaves alone
func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	switch r {
	case '-', '_', '.', '/', ':', '@', '=', '+', ',':
		return false
	}
	return true
}
