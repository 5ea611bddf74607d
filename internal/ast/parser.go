package ast

import (
	"fmt"

	"github.com/ritamzico/rulr/internal/lexer"
)

// Parser is a recursive-descent, single-token-lookahead parser over a
// lexer.Lexer (spec §4.2). Errors are single-shot: the first error
// encountered is retained and every later parse step becomes a no-op that
// propagates it, so a caller always gets the earliest diagnostic rather
// than a cascade.
type Parser struct {
	lex     *lexer.Lexer
	cur     lexer.Token
	err     error
	wildcnt int
}

// New returns a Parser reading tokens from src.
func New(src string) *Parser {
	p := &Parser{lex: lexer.New(src)}
	p.advance()
	return p
}

// Parse parses src into a Program, or stops at the first syntax error.
func Parse(src string) (*Program, error) {
	return New(src).Parse()
}

func (p *Parser) advance() {
	p.cur = p.lex.Next()
}

func (p *Parser) fail(kind, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	p.err = &SyntaxError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    p.cur.Line,
		Col:     p.cur.Col,
	}
}

// expect consumes the current token if it has kind k, else records a
// single-shot syntax error and leaves the cursor in place.
func (p *Parser) expect(k lexer.Kind) lexer.Token {
	tok := p.cur
	if p.err != nil {
		return tok
	}
	if p.cur.Kind == lexer.Invalid {
		msg := p.cur.Message
		if msg == "" {
			msg = "invalid token"
		}
		if msg == "unterminated string literal" {
			p.fail(KindUnterminatedStr, "%s", msg)
		} else {
			p.fail(KindUnexpectedToken, "%s", msg)
		}
		return tok
	}
	if p.cur.Kind != k {
		p.fail(KindUnexpectedToken, "expected %s, got %s", k, p.cur.Kind)
		return tok
	}
	p.advance()
	return tok
}

// Parse runs the top-level program grammar:
//
//	program := (decl | fact | rule | clear_directive)*
func (p *Parser) Parse() (*Program, error) {
	prog := &Program{}
	for p.err == nil && p.cur.Kind != lexer.EOF {
		switch p.cur.Kind {
		case lexer.PredDecl:
			if d, ok := p.parseDecl(); ok {
				prog.Decls = append(prog.Decls, d)
			}
		case lexer.ClearDir:
			p.parseClearDirective()
			prog.ClearDerived = true
		case lexer.Ident:
			p.parseFactOrRule(prog)
		default:
			p.fail(KindUnexpectedToken, "unexpected %s at top level", p.cur.Kind)
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

// parseDecl handles: '.pred' IDENT '(' arg_decl (',' arg_decl)* ')' '.'
func (p *Parser) parseDecl() (Decl, bool) {
	line := p.cur.Line
	p.advance() // consume PredDecl
	nameTok := p.expect(lexer.Ident)
	p.expect(lexer.LParen)

	var args []DeclArg
	if p.err == nil && p.cur.Kind != lexer.RParen {
		for {
			args = append(args, p.parseArgDecl())
			if p.err != nil || p.cur.Kind != lexer.Comma {
				break
			}
			p.advance() // consume comma
		}
	}
	p.expect(lexer.RParen)
	p.expect(lexer.Dot)
	if p.err != nil {
		return Decl{}, false
	}
	return Decl{Pred: nameTok.Text, Args: args, Line: line}, true
}

// arg_decl := IDENT ':' IDENT
func (p *Parser) parseArgDecl() DeclArg {
	nameTok := p.expect(lexer.Ident)
	p.expect(lexer.Colon)
	typeTok := p.expect(lexer.Ident)
	return DeclArg{Name: nameTok.Text, Type: typeTok.Text}
}

// clear := '.clear_derived' '(' ')' ['.']
func (p *Parser) parseClearDirective() {
	p.advance() // consume ClearDir
	p.expect(lexer.LParen)
	p.expect(lexer.RParen)
	if p.err == nil && p.cur.Kind == lexer.Dot {
		p.advance()
	}
}

// fact_or_rule := IDENT '(' term_list? ')' ( '.' | ':-' body )
func (p *Parser) parseFactOrRule(prog *Program) {
	line := p.cur.Line
	headTok := p.expect(lexer.Ident)
	if lexer.IsVariableName(headTok.Text) {
		p.fail(KindNonPredicateHead, "predicate name %q must not start with an uppercase letter", headTok.Text)
		return
	}
	p.expect(lexer.LParen)
	args := p.parseTermList()
	p.expect(lexer.RParen)
	if p.err != nil {
		return
	}

	switch p.cur.Kind {
	case lexer.Dot:
		p.advance()
		fact, ok := p.factFromTerms(headTok.Text, args, line)
		if ok {
			prog.Facts = append(prog.Facts, fact)
		}
	case lexer.Arrow:
		p.advance()
		body := p.parseBody()
		if p.err != nil {
			return
		}
		prog.Rules = append(prog.Rules, Rule{Head: headTok.Text, HeadArgs: args, Body: body, Line: line})
	default:
		p.fail(KindUnexpectedToken, "expected '.' or ':-' after %s(...), got %s", headTok.Text, p.cur.Kind)
	}
}

// factFromTerms rejects variables/wildcards in fact position (spec §4.2:
// "Variables are not permitted in Facts").
func (p *Parser) factFromTerms(pred string, terms []Term, line int) (Fact, bool) {
	args := make([]FactArg, 0, len(terms))
	for _, t := range terms {
		switch t.Kind {
		case VarTerm, WildcardTerm:
			p.fail(KindVariableInFact, "fact %q may not contain variables or wildcards", pred)
			return Fact{}, false
		case StringTerm:
			args = append(args, FactArg{IsInt: false, Str: t.Str})
		case IntTerm:
			args = append(args, FactArg{IsInt: true, Int: t.Int})
		}
	}
	return Fact{Pred: pred, Args: args, Line: line}, true
}

// body := literal (',' literal)* '.'
func (p *Parser) parseBody() []Literal {
	var lits []Literal
	for {
		lits = append(lits, p.parseLiteral())
		if p.err != nil {
			return nil
		}
		if p.cur.Kind != lexer.Comma {
			break
		}
		p.advance()
	}
	p.expect(lexer.Dot)
	if len(lits) == 0 {
		p.fail(KindEmptyBody, "rule body must contain at least one literal")
		return nil
	}
	return lits
}

// literal := 'not'? pred_call | cmp_literal | match_literal
func (p *Parser) parseLiteral() Literal {
	if p.cur.Kind == lexer.Not {
		p.advance()
		pred, args := p.parsePredCall()
		return Literal{Kind: NegativeLit, Pred: pred, Args: args}
	}

	if p.cur.Kind == lexer.Ident {
		if p.cur.Text == "match" {
			return p.parseMatchLiteral()
		}
		if lexer.IsVariableName(p.cur.Text) {
			return p.parseCmpLiteral(p.parseTerm())
		}
		pred, args := p.parsePredCall()
		return Literal{Kind: PositiveLit, Pred: pred, Args: args}
	}

	if p.cur.Kind == lexer.Wildcard || p.cur.Kind == lexer.String || p.cur.Kind == lexer.Int {
		return p.parseCmpLiteral(p.parseTerm())
	}

	p.fail(KindUnexpectedToken, "unexpected %s in rule body", p.cur.Kind)
	return Literal{}
}

// pred_call := IDENT '(' term_list? ')'
func (p *Parser) parsePredCall() (string, []Term) {
	nameTok := p.expect(lexer.Ident)
	p.expect(lexer.LParen)
	args := p.parseTermList()
	p.expect(lexer.RParen)
	return nameTok.Text, args
}

// match_literal := 'match' '(' term ',' term ')'
func (p *Parser) parseMatchLiteral() Literal {
	p.advance() // consume "match" ident
	p.expect(lexer.LParen)
	lhs := p.parseTerm()
	p.expect(lexer.Comma)
	rhs := p.parseTerm()
	p.expect(lexer.RParen)
	return Literal{Kind: BuiltinLit, Builtin: MatchBuiltin, LHS: lhs, RHS: rhs}
}

// cmp_literal := term CMP_OP term, with lhs already parsed. '=' produces an
// EqualityLit (spec §3 distinguishes equality from the other comparisons);
// every other operator produces a ComparisonLit carrying its Op.
func (p *Parser) parseCmpLiteral(lhs Term) Literal {
	op, isEq, ok := p.parseCompareOp()
	if !ok {
		return Literal{}
	}
	rhs := p.parseTerm()
	if isEq {
		return Literal{Kind: EqualityLit, LHS: lhs, RHS: rhs}
	}
	return Literal{Kind: ComparisonLit, Op: op, LHS: lhs, RHS: rhs}
}

func (p *Parser) parseCompareOp() (CompareOp, bool, bool) {
	switch p.cur.Kind {
	case lexer.Eq:
		p.advance()
		return OpEq, true, true
	case lexer.Neq:
		p.advance()
		return OpNeq, false, true
	case lexer.Lt:
		p.advance()
		return OpLt, false, true
	case lexer.Le:
		p.advance()
		return OpLe, false, true
	case lexer.Gt:
		p.advance()
		return OpGt, false, true
	case lexer.Ge:
		p.advance()
		return OpGe, false, true
	default:
		p.fail(KindMissingCompareOp, "expected a comparison operator, got %s", p.cur.Kind)
		return 0, false, false
	}
}

// term_list := term (',' term)*
func (p *Parser) parseTermList() []Term {
	if p.cur.Kind == lexer.RParen {
		return nil
	}
	var terms []Term
	const maxArgs = 16 // spec SPEC_FULL.md §3: MAX_ARITY
	for {
		terms = append(terms, p.parseTerm())
		if p.err != nil {
			return nil
		}
		if len(terms) > maxArgs {
			p.fail(KindTooManyArguments, "more than %d arguments", maxArgs)
			return nil
		}
		if p.cur.Kind != lexer.Comma {
			break
		}
		p.advance()
	}
	return terms
}

// term := VAR | '_' | STRING | INT
func (p *Parser) parseTerm() Term {
	tok := p.cur
	switch tok.Kind {
	case lexer.Wildcard:
		p.advance()
		p.wildcnt++
		return Term{Kind: WildcardTerm, Name: fmt.Sprintf("_$%d", p.wildcnt)}
	case lexer.Ident:
		if !lexer.IsVariableName(tok.Text) {
			p.fail(KindUnexpectedToken, "expected a variable, string, integer or '_', got identifier %q", tok.Text)
			return Term{}
		}
		p.advance()
		return Term{Kind: VarTerm, Name: tok.Text}
	case lexer.String:
		p.advance()
		return Term{Kind: StringTerm, Str: tok.Text}
	case lexer.Int:
		p.advance()
		return Term{Kind: IntTerm, Int: tok.Int}
	default:
		p.fail(KindUnexpectedToken, "expected a term, got %s", tok.Kind)
		return Term{}
	}
}
