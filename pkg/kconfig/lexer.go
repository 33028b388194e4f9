package kconfig

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokName tokenKind = iota
	tokString
	tokOp
)

type token struct {
	kind tokenKind
	text string
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// tokenize splits one logical Kconfig line into tokens. A '#' outside a
// string starts a comment.
func tokenize(line string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(line) {
		ch := line[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			i++
		case ch == '#':
			return toks, nil
		case ch == '"' || ch == '\'':
			s, n, err := readQuoted(line[i:])
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: s})
			i += n
		case isNameChar(ch):
			j := i
			for j < len(line) && isNameChar(line[j]) {
				j++
			}
			toks = append(toks, token{kind: tokName, text: line[i:j]})
			i = j
		default:
			op, err := readOp(line[i:])
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokOp, text: op})
			i += len(op)
		}
	}
	return toks, nil
}

func isNameChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' ||
		ch == '_' || ch == '-' || ch == '.'
}

func readQuoted(s string) (string, int, error) {
	quote := s[0]
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) {
				i++
				sb.WriteByte(s[i])
			}
		case quote:
			return sb.String(), i + 1, nil
		default:
			sb.WriteByte(s[i])
		}
	}
	return "", 0, fmt.Errorf("unterminated string")
}

func readOp(s string) (string, error) {
	for _, op := range []string{"&&", "||", "!=", "<=", ">=", "!", "(", ")", "=", "<", ">"} {
		if strings.HasPrefix(s, op) {
			return op, nil
		}
	}
	return "", fmt.Errorf("unexpected character %q", s[0])
}

// indentation returns the column of the first non-blank character, with
// tabs advancing to the next multiple of 8.
func indentation(line string) int {
	col := 0
	for _, ch := range line {
		switch ch {
		case ' ':
			col++
		case '\t':
			col = (col/8 + 1) * 8
		default:
			return col
		}
	}
	return col
}
