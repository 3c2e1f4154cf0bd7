// This file is part of talon - https://github.com/talonlang/talon
//
// Copyright 2026 The talon authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lexer turns talon source text into a stream of tokens.
//
// The lexer is total: it never aborts on malformed input. Unrecognized
// bytes are reported as a single token.Invalid token carrying a diagnostic
// and the scan continues from the next byte, so that callers can collect
// every lexical error in one pass if they want to.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/talonlang/talon/token"
)

// breakRunes are characters that can never be part of an identifier or
// integer literal; they always terminate the run being scanned.
const breakRunes = " \t\r\n()[]{};,+-*/%=<>"

// Lexer scans a single source file into tokens, one Next() call at a time.
type Lexer struct {
	src  string
	pos  int // byte offset of the next unread rune
	line int
	col  int
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// All scans the entire input and returns every token, including a trailing
// EOF token.
func All(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) peekByte(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.pos >= len(l.src) {
			return
		}
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) at() token.Pos {
	return token.Pos{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) simple(kind token.Kind, width int) token.Token {
	pos := l.at()
	text := l.src[l.pos : l.pos+width]
	l.advance(width)
	return token.Token{Kind: kind, Text: text, Pos: pos}
}

// Next returns the next token in the stream. Once the input is exhausted it
// returns an endless sequence of token.EOF tokens.
func (l *Lexer) Next() token.Token {
	for {
		if l.pos >= len(l.src) {
			return token.Token{Kind: token.EOF, Pos: l.at()}
		}
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.advance(1)
			continue
		case c == '\n':
			return l.simple(token.LineEnd, 1)
		case c == '/' && l.peekByte(1) == '/':
			l.skipLineComment()
			continue
		}

		if t, ok := l.twoByteComparator(); ok {
			return t
		}

		switch c {
		case '(':
			return l.simple(token.LParen, 1)
		case ')':
			return l.simple(token.RParen, 1)
		case '[':
			return l.simple(token.LBracket, 1)
		case ']':
			return l.simple(token.RBracket, 1)
		case '{':
			return l.simple(token.LBrace, 1)
		case '}':
			return l.simple(token.RBrace, 1)
		case ';':
			return l.simple(token.Semicolon, 1)
		case ',':
			return l.simple(token.Comma, 1)
		case '<', '>':
			return l.simple(token.Comparator, 1)
		case '+', '-', '*', '/', '%', '=':
			return l.simple(token.Operator, 1)
		}

		return l.scanWord()
	}
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance(1)
	}
}

// twoByteComparator matches the two-character comparators with maximum
// munch: == != <= >=.
func (l *Lexer) twoByteComparator() (token.Token, bool) {
	if l.pos+1 >= len(l.src) {
		return token.Token{}, false
	}
	switch l.src[l.pos : l.pos+2] {
	case "==", "!=", "<=", ">=":
		return l.simple(token.Comparator, 2), true
	}
	return token.Token{}, false
}

// scanWord consumes a run of non-whitespace, non-symbol bytes and classifies
// it as a keyword, integer literal, or plain identifier.
func (l *Lexer) scanWord() token.Token {
	start := l.pos
	pos := l.at()
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		if size == 1 && strings.IndexByte(breakRunes, l.src[l.pos]) >= 0 {
			break
		}
		l.advance(size)
	}
	if l.pos == start {
		// A single byte we can't classify as whitespace, symbol, or word
		// start: consume it as an invalid token so the scan always makes
		// progress.
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if size == 0 {
			size = 1
		}
		text := l.src[l.pos : l.pos+size]
		l.advance(size)
		_ = r
		return token.Token{Kind: token.Invalid, Text: text, Pos: pos, Err: "unrecognized character " + strconv.Quote(text)}
	}
	text := l.src[start:l.pos]
	if token.Keywords[text] {
		return token.Token{Kind: token.Keyword, Text: text, Pos: pos}
	}
	if isIntLiteral(text) {
		return token.Token{Kind: token.Int, Text: text, Pos: pos}
	}
	return token.Token{Kind: token.Ident, Text: text, Pos: pos}
}

// isIntLiteral reports whether text parses as a signed 32-bit integer once
// underscores used as digit separators are stripped.
func isIntLiteral(text string) bool {
	if text == "" {
		return false
	}
	stripped := strings.ReplaceAll(text, "_", "")
	if stripped == "" || stripped == "-" {
		return false
	}
	_, err := strconv.ParseInt(stripped, 10, 32)
	return err == nil
}

// StripUnderscores removes digit-separator underscores from an integer
// literal's text, the same normalization isIntLiteral applies before
// parsing.
func StripUnderscores(text string) string {
	return strings.ReplaceAll(text, "_", "")
}
