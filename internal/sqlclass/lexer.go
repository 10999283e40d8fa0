package sqlclass

import "strings"

type tokenKind int

const (
	tokWord tokenKind = iota
	tokString
	tokQuotedIdent
	tokPunct
	tokSemicolon
)

type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) upper() string {
	return strings.ToUpper(t.text)
}

// tokenize splits SQL text into words, literals and punctuation. Whitespace and
// comments (--, # and /* */) are dropped; quoted text never yields keywords.
func tokenize(s string) []token {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			i++
		case c == '-' && i+1 < len(s) && s[i+1] == '-', c == '#':
			i = skipLine(s, i)
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i = skipBlockComment(s, i)
		case c == '\'':
			end := scanQuoted(s, i, c)
			toks = append(toks, token{kind: tokString, text: s[i:end], start: i, end: end})
			i = end
		case c == '"' || c == '`':
			end := scanQuoted(s, i, c)
			toks = append(toks, token{kind: tokQuotedIdent, text: s[i:end], start: i, end: end})
			i = end
		case isWordByte(c):
			j := i
			for j < len(s) && isWordByte(s[j]) {
				j++
			}
			toks = append(toks, token{kind: tokWord, text: s[i:j], start: i, end: j})
			i = j
		case c == ';':
			toks = append(toks, token{kind: tokSemicolon, text: ";", start: i, end: i + 1})
			i++
		default:
			toks = append(toks, token{kind: tokPunct, text: s[i : i+1], start: i, end: i + 1})
			i++
		}
	}
	return toks
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func skipLine(s string, i int) int {
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(s)
}

func skipBlockComment(s string, i int) int {
	if j := strings.Index(s[i+2:], "*/"); j >= 0 {
		return i + 2 + j + 2
	}
	return len(s)
}

// scanQuoted returns the offset just past the closing quote. Doubled quotes and,
// inside string literals, backslash escapes do not terminate the literal.
func scanQuoted(s string, i int, quote byte) int {
	j := i + 1
	for j < len(s) {
		switch {
		case s[j] == '\\' && quote == '\'':
			j += 2
		case s[j] == quote:
			if j+1 < len(s) && s[j+1] == quote {
				j += 2
				continue
			}
			return j + 1
		default:
			j++
		}
	}
	return len(s)
}
