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

package lexer_test

import (
	"testing"

	"github.com/talonlang/talon/lexer"
	"github.com/talonlang/talon/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexKeywordsAndSymbols(t *testing.T) {
	toks := lexer.All("fn main() {\nprint 1;\n}")
	want := []token.Kind{
		token.Keyword, token.Ident, token.LParen, token.RParen, token.LBrace, token.LineEnd,
		token.Keyword, token.Int, token.Semicolon, token.LineEnd,
		token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexTwoCharComparatorsMaximalMunch(t *testing.T) {
	toks := lexer.All("x == y != z <= w >= v < u > t")
	var comps []string
	for _, tok := range toks {
		if tok.Kind == token.Comparator {
			comps = append(comps, tok.Text)
		}
	}
	want := []string{"==", "!=", "<=", ">=", "<", ">"}
	if len(comps) != len(want) {
		t.Fatalf("got comparators %v, want %v", comps, want)
	}
	for i := range want {
		if comps[i] != want[i] {
			t.Fatalf("comparator %d = %q, want %q", i, comps[i], want[i])
		}
	}
}

func TestLexComment(t *testing.T) {
	toks := lexer.All("set x = 1 // trailing comment\nset y = 2")
	for _, tok := range toks {
		if tok.Kind == token.Invalid {
			t.Fatalf("unexpected invalid token: %+v", tok)
		}
	}
}

func TestLexMemoryIdentifier(t *testing.T) {
	toks := lexer.All("$PositionX")
	if len(toks) < 1 || toks[0].Kind != token.Ident {
		t.Fatalf("got %v, want a single identifier token", toks)
	}
	if !toks[0].IsMemory() {
		t.Fatalf("token %q should be recognized as memory-mapped", toks[0].Text)
	}
}

func TestLexIntegerWithUnderscores(t *testing.T) {
	toks := lexer.All("1_000_000")
	if toks[0].Kind != token.Int {
		t.Fatalf("kind = %v, want Int", toks[0].Kind)
	}
	if got := lexer.StripUnderscores(toks[0].Text); got != "1000000" {
		t.Fatalf("StripUnderscores(%q) = %q, want 1000000", toks[0].Text, got)
	}
}

func TestLexPositionTracking(t *testing.T) {
	toks := lexer.All("set x\n= 1")
	var eq token.Token
	for _, tok := range toks {
		if tok.Kind == token.Operator && tok.Text == "=" {
			eq = tok
		}
	}
	if eq.Pos.Line != 2 || eq.Pos.Column != 1 {
		t.Fatalf("'=' position = %v, want line 2 column 1", eq.Pos)
	}
}
