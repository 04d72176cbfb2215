// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolic

import (
	"fmt"
	"strconv"
	"unicode"
)

// SyntaxError reports malformed input together with the character offset it was found at.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("symbolic: syntax error at position %d: %s", e.Pos, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

func lex(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		c := rs[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case unicode.IsDigit(c) || c == '.':
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			// exponent only when digits follow, so that "2e" reads as 2*e
			if j < len(rs) && (rs[j] == 'e' || rs[j] == 'E') {
				k := j + 1
				if k < len(rs) && (rs[k] == '+' || rs[k] == '-') {
					k++
				}
				if k < len(rs) && unicode.IsDigit(rs[k]) {
					for k < len(rs) && unicode.IsDigit(rs[k]) {
						k++
					}
					j = k
				}
			}
			text := string(rs[i:j])
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("malformed number %q", text)}
			}
			toks = append(toks, token{kind: tokNum, pos: i, text: text, num: v})
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, pos: i, text: string(rs[i:j])})
			i = j
		case c == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{kind: tokOp, pos: i, text: "^"})
			i += 2
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
			toks = append(toks, token{kind: tokOp, pos: i, text: string(c)})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i, text: ")"})
			i++
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(rs)})
	return toks, nil
}

type parser struct {
	toks []token
	at   int
}

func (p *parser) peek() token { return p.toks[p.at] }

func (p *parser) next() token {
	t := p.toks[p.at]
	if t.kind != tokEOF {
		p.at++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

// Parse reads an infix expression.
//
// The grammar accepts numbers, the constants pi and e, variables, the operators
// + - * / ^ (** is a synonym of ^), unary signs, parentheses and calls of the
// elementary functions returned by Functions. An operand directly followed by
// a number, identifier or opening parenthesis is an implicit product, so "2x"
// and "3(x+1)" are accepted. ln is an alias of log, the natural logarithm.
func Parse(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	if len(toks) == 1 {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	p := &parser{toks: toks}
	e, err := p.sum()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
	return e, nil
}

// MustParse is like Parse but panics on error. It simplifies tests and static tables.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) sum() (Expr, error) {
	l, err := p.product()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next().text[0]
		r, err := p.product()
		if err != nil {
			return nil, err
		}
		l = Binary{Op: op, L: l, R: r}
	}
	return l, nil
}

func (p *parser) product() (Expr, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var op byte
		switch t := p.peek(); {
		case p.isOp("*", "/"):
			op = p.next().text[0]
		case t.kind == tokIdent || t.kind == tokLParen:
			if prev := p.toks[p.at-1]; prev.kind != tokNum && prev.kind != tokRParen && prev.kind != tokIdent {
				return l, nil
			}
			op = '*'
		default:
			return l, nil
		}
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		l = Binary{Op: op, L: l, R: r}
	}
}

func (p *parser) unary() (Expr, error) {
	if p.isOp("-", "+") {
		neg := p.next().text == "-"
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		if neg {
			return Neg{X: x}, nil
		}
		return x, nil
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.isOp("^") {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Binary{Op: '^', L: base, R: exp}, nil
	}
	return base, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		return Num(t.num), nil
	case tokLParen:
		e, err := p.sum()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, &SyntaxError{Pos: c.pos, Msg: "missing closing parenthesis"}
		}
		return e, nil
	case tokIdent:
		if _, ok := derivatives[t.text]; ok {
			if p.peek().kind != tokLParen {
				return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("function %s requires an argument", t.text)}
			}
			p.next()
			arg, err := p.sum()
			if err != nil {
				return nil, err
			}
			if c := p.next(); c.kind != tokRParen {
				return nil, &SyntaxError{Pos: c.pos, Msg: "missing closing parenthesis"}
			}
			return Call{Fn: canonicalFn(t.text), Arg: arg}, nil
		}
		if _, ok := constants[Const(t.text)]; ok {
			return Const(t.text), nil
		}
		return Var(t.text), nil
	case tokEOF:
		return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected end of expression"}
	}
	return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
}

func canonicalFn(name string) string {
	if name == "ln" {
		return "log"
	}
	return name
}
