// Package sqlclass classifies caller-authored SQL before it reaches the store.
//
// Classification reads the leading keyword of each statement, ignoring comments,
// quoted text and leading parentheses. It decides two things for the query console:
// whether a statement returns rows, and whether it needs explicit confirmation
// before it may run. Unknown statement kinds always need confirmation.
package sqlclass

import (
	"fmt"
	"strings"
)

// Kind is the broad category of a SQL statement.
type Kind int

const (
	KindUnknown Kind = iota
	KindRead
	KindWrite
	KindDDL
	KindControl
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindDDL:
		return "ddl"
	case KindControl:
		return "control"
	default:
		return "unknown"
	}
}

// ReturnsRows reports whether statements of this kind produce a result set.
func (k Kind) ReturnsRows() bool {
	return k == KindRead
}

// LegacyKeywords are matched as plain substrings of the upper-cased text. A hit
// anywhere, including inside literals, requires confirmation.
var LegacyKeywords = []string{"UPDATE", "DELETE", "DROP", "TRUNCATE"}

var leadingKinds = map[string]Kind{
	"SELECT":   KindRead,
	"SHOW":     KindRead,
	"EXPLAIN":  KindRead,
	"DESCRIBE": KindRead,
	"DESC":     KindRead,
	"VALUES":   KindRead,
	"TABLE":    KindRead,

	"INSERT":  KindWrite,
	"UPDATE":  KindWrite,
	"DELETE":  KindWrite,
	"REPLACE": KindWrite,
	"MERGE":   KindWrite,
	"UPSERT":  KindWrite,

	"CREATE":   KindDDL,
	"ALTER":    KindDDL,
	"DROP":     KindDDL,
	"TRUNCATE": KindDDL,
	"RENAME":   KindDDL,
	"GRANT":    KindDDL,
	"REVOKE":   KindDDL,
	"COMMENT":  KindDDL,

	"BEGIN":     KindControl,
	"START":     KindControl,
	"COMMIT":    KindControl,
	"ROLLBACK":  KindControl,
	"SAVEPOINT": KindControl,
	"RELEASE":   KindControl,
	"SET":       KindControl,
	"USE":       KindControl,
	"LOCK":      KindControl,
	"UNLOCK":    KindControl,
}

// mutating leading keywords always require confirmation.
var mutating = map[string]bool{
	"UPDATE":   true,
	"DELETE":   true,
	"DROP":     true,
	"TRUNCATE": true,
	"ALTER":    true,
	"REPLACE":  true,
	"MERGE":    true,
	"UPSERT":   true,
	"RENAME":   true,
	"GRANT":    true,
	"REVOKE":   true,
}

// Statement is one semicolon-separated statement of the input.
type Statement struct {
	Text    string
	Keyword string
	Kind    Kind
}

// Split breaks text into statements on semicolons outside quotes and comments.
// Empty statements are dropped.
func Split(text string) []Statement {
	var (
		stmts   []Statement
		current []token
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		keyword, kind := classifyTokens(current)
		stmts = append(stmts, Statement{
			Text:    strings.TrimSpace(text[current[0].start:current[len(current)-1].end]),
			Keyword: keyword,
			Kind:    kind,
		})
		current = nil
	}
	for _, tok := range tokenize(text) {
		if tok.kind == tokSemicolon {
			flush()
			continue
		}
		current = append(current, tok)
	}
	flush()
	return stmts
}

// Classify returns the kind of the first statement in text.
func Classify(text string) Kind {
	stmts := Split(text)
	if len(stmts) == 0 {
		return KindUnknown
	}
	return stmts[0].Kind
}

// Inspection is the pre-execution verdict on a piece of console input.
type Inspection struct {
	Statements           []Statement
	RequiresConfirmation bool
	Reasons              []string
}

// Kind returns the kind of the first statement.
func (i Inspection) Kind() Kind {
	if len(i.Statements) == 0 {
		return KindUnknown
	}
	return i.Statements[0].Kind
}

// ChangesSession reports whether any statement controls transactions or session
// state (BEGIN, SET, LOCK, ...). Such state would outlive the statement on a
// pooled connection.
func (i Inspection) ChangesSession() bool {
	for _, st := range i.Statements {
		if st.Kind == KindControl {
			return true
		}
	}
	return false
}

// Inspect classifies every statement in text and decides whether running it
// needs confirmation.
func Inspect(text string) Inspection {
	ins := Inspection{Statements: Split(text)}

	upper := strings.ToUpper(text)
	for _, kw := range LegacyKeywords {
		if strings.Contains(upper, kw) {
			ins.Reasons = append(ins.Reasons, fmt.Sprintf("text contains %s", kw))
		}
	}
	for n, st := range ins.Statements {
		switch {
		case st.Kind == KindUnknown:
			ins.Reasons = append(ins.Reasons, fmt.Sprintf("statement %d has an unrecognised kind", n+1))
		case mutating[st.Keyword]:
			ins.Reasons = append(ins.Reasons, fmt.Sprintf("statement %d is %s", n+1, st.Keyword))
		}
	}
	ins.RequiresConfirmation = len(ins.Reasons) > 0
	return ins
}

func classifyTokens(toks []token) (string, Kind) {
	i := 0
	for i < len(toks) && toks[i].is(tokPunct, "(") {
		i++
	}
	if i >= len(toks) || toks[i].kind != tokWord {
		return "", KindUnknown
	}

	keyword := toks[i].upper()
	switch keyword {
	case "WITH":
		return mainKeyword(toks[i+1:])
	case "SELECT":
		if hasTopLevelWord(toks[i+1:], "INTO") {
			return keyword, KindWrite
		}
	}
	kind, ok := leadingKinds[keyword]
	if !ok {
		return keyword, KindUnknown
	}
	return keyword, kind
}

// mainKeyword finds the statement that follows a WITH clause's common table expressions.
func mainKeyword(toks []token) (string, Kind) {
	depth := 0
	for n, tok := range toks {
		switch {
		case tok.is(tokPunct, "("):
			depth++
		case tok.is(tokPunct, ")"):
			depth--
		case depth == 0 && tok.kind == tokWord:
			kw := tok.upper()
			kind, ok := leadingKinds[kw]
			if !ok {
				continue
			}
			if kw == "SELECT" && hasTopLevelWord(toks[n+1:], "INTO") {
				return kw, KindWrite
			}
			return kw, kind
		}
	}
	return "WITH", KindUnknown
}

func hasTopLevelWord(toks []token, word string) bool {
	depth := 0
	for _, tok := range toks {
		switch {
		case tok.is(tokPunct, "("):
			depth++
		case tok.is(tokPunct, ")"):
			depth--
		case depth == 0 && tok.kind == tokWord && tok.upper() == word:
			return true
		}
	}
	return false
}
