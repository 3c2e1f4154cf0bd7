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

// Package token defines the lexical tokens produced by the talon lexer.
package token

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	Ident
	Int
	Keyword
	Operator
	Comparator
	LineEnd

	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Semicolon
	Comma

	Invalid
)

var kindNames = [...]string{
	EOF:        "EOF",
	Ident:      "identifier",
	Int:        "integer",
	Keyword:    "keyword",
	Operator:   "operator",
	Comparator: "comparator",
	LineEnd:    "line-end",
	LParen:     "(",
	RParen:     ")",
	LBracket:   "[",
	RBracket:   "]",
	LBrace:     "{",
	RBrace:     "}",
	Semicolon:  ";",
	Comma:      ",",
	Invalid:    "invalid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Keywords recognized by the lexer.
var Keywords = map[string]bool{
	"fn":     true,
	"set":    true,
	"if":     true,
	"else":   true,
	"while":  true,
	"loop":   true,
	"return": true,
	"call":   true,
	"print":  true,
}

// Pos is a source location: a byte offset plus 1-based line and column.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical atom with its textual payload and location.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
	// Err holds the diagnostic message when Kind == Invalid.
	Err string
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

// IsMemory reports whether an Ident token denotes a memory-mapped variable
// (an identifier beginning with '$').
func (t Token) IsMemory() bool {
	return t.Kind == Ident && len(t.Text) > 0 && t.Text[0] == '$'
}
