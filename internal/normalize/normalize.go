package normalize

import (
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Fields splits a command line into words using shell quoting rules, so
// `set greeting "hello world"` yields three words. Expansions such as $VAR
// are kept verbatim. When the line is not a single simple command, or does
// not parse, it falls back to whitespace splitting.
func Fields(line string) []string {
	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(line), "")
	if err != nil || len(file.Stmts) != 1 {
		return strings.Fields(line)
	}

	call, ok := file.Stmts[0].Cmd.(*syntax.CallExpr)
	if !ok || len(call.Assigns) > 0 {
		return strings.Fields(line)
	}

	words := make([]string, 0, len(call.Args))
	for _, w := range call.Args {
		words = append(words, wordValue(w))
	}
	return words
}

// wordValue returns the unquoted value of a word when every part is literal,
// and the printed source of the word otherwise.
func wordValue(word *syntax.Word) string {
	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				lit, ok := inner.(*syntax.Lit)
				if !ok {
					return printWord(word)
				}
				sb.WriteString(lit.Value)
			}
		default:
			return printWord(word)
		}
	}
	return sb.String()
}

// Literal returns the words of line when it is exactly one simple command
// whose words the shell would pass through unchanged: quoting and backslash
// escapes are allowed; expansions, globs, redirections, assignments and
// command operators are not. Callers that get false must hand the line to a
// real shell.
func Literal(line string) ([]string, bool) {
	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(line), "")
	if err != nil || len(file.Stmts) != 1 {
		return nil, false
	}

	stmt := file.Stmts[0]
	if stmt.Negated || stmt.Background || stmt.Coprocess || len(stmt.Redirs) > 0 {
		return nil, false
	}
	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok || len(call.Assigns) > 0 || len(call.Args) == 0 {
		return nil, false
	}

	words := make([]string, 0, len(call.Args))
	for _, w := range call.Args {
		value, ok := literalWord(w)
		if !ok {
			return nil, false
		}
		words = append(words, value)
	}
	return words, true
}

func literalWord(word *syntax.Word) (string, bool) {
	var sb strings.Builder
	for i, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			v, ok := unescapeUnquoted(p.Value)
			if !ok {
				return "", false
			}
			// Only a bare ~ or ~/ prefix is expanded locally.
			if i == 0 && strings.HasPrefix(v, "~") && v != "~" && !strings.HasPrefix(v, "~/") {
				return "", false
			}
			sb.WriteString(v)
		case *syntax.SglQuoted:
			if p.Dollar {
				return "", false
			}
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			if p.Dollar {
				return "", false
			}
			for _, inner := range p.Parts {
				lit, ok := inner.(*syntax.Lit)
				if !ok {
					return "", false
				}
				sb.WriteString(unescapeDoubleQuoted(lit.Value))
			}
		default:
			return "", false
		}
	}
	return sb.String(), true
}

// unescapeUnquoted drops backslashes from an unquoted literal. It reports
// false when the literal holds an unescaped glob or brace character.
func unescapeUnquoted(s string) (string, bool) {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) {
				i++
				if s[i] != '\n' {
					sb.WriteByte(s[i])
				}
			}
		case '*', '?', '[', '{':
			return "", false
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), true
}

func unescapeDoubleQuoted(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte("$`\"\\\n", s[i+1]) >= 0 {
			i++
			if s[i] == '\n' {
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func printWord(word *syntax.Word) string {
	var sb strings.Builder
	printer := syntax.NewPrinter()
	_ = printer.Print(&sb, word)
	return sb.String()
}

// ExpandPath resolves a leading ~ against homeDir and relative paths
// against cwd, returning a cleaned absolute path.
func ExpandPath(path, cwd, homeDir string) string {
	switch {
	case path == "~" && homeDir != "":
		path = homeDir
	case strings.HasPrefix(path, "~/") && homeDir != "":
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	return filepath.Clean(path)
}
