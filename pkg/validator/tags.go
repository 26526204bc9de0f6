package validator

import (
	"fmt"
	"strings"
)

// ParseRules parses a rule list written in tag syntax:
//
//	required; length(6, 20) 'must be 6 to 20 characters'; regex('^[a-z]+$')
//
// Rules are separated by semicolons. Parameters go in parentheses, separated
// by commas; a parameter containing commas, parentheses or spaces must be
// single-quoted. An optional single-quoted message follows the rule.
// Inside quotes a backslash escapes the next character.
func ParseRules(s string) ([]Rule, error) {
	p := &ruleParser{src: s}
	var rules []Rule
	for {
		p.skipSpace()
		if p.eof() {
			return rules, nil
		}
		if p.peek() == ';' {
			p.pos++
			continue
		}

		rule, err := p.rule()
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTag, s, err)
		}
		rules = append(rules, rule)

		p.skipSpace()
		if p.eof() {
			return rules, nil
		}
		if p.peek() != ';' {
			return nil, fmt.Errorf("%w: %q: unexpected %q at %d", ErrInvalidTag, s, p.peek(), p.pos)
		}
	}
}

type ruleParser struct {
	src string
	pos int
}

func (p *ruleParser) eof() bool  { return p.pos >= len(p.src) }
func (p *ruleParser) peek() byte { return p.src[p.pos] }

func (p *ruleParser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n') {
		p.pos++
	}
}

func (p *ruleParser) rule() (Rule, error) {
	name := p.ident()
	if name == "" {
		return Rule{}, fmt.Errorf("expected rule name at %d", p.pos)
	}
	rule := Rule{Name: name}

	p.skipSpace()
	if !p.eof() && p.peek() == '(' {
		p.pos++
		params, err := p.params()
		if err != nil {
			return Rule{}, err
		}
		rule.Params = params
	}

	p.skipSpace()
	if !p.eof() && p.peek() == '\'' {
		msg, err := p.quoted()
		if err != nil {
			return Rule{}, err
		}
		rule.Message = msg
	}
	return rule, nil
}

func (p *ruleParser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == '_' || c == '-' || c == '.' ||
			('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') ||
			(p.pos > start && '0' <= c && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

// params parses the parameter list after the opening parenthesis.
func (p *ruleParser) params() ([]string, error) {
	params := []string{}
	p.skipSpace()
	if !p.eof() && p.peek() == ')' {
		p.pos++
		return params, nil
	}

	for {
		p.skipSpace()
		if p.eof() {
			return nil, fmt.Errorf("unterminated parameter list")
		}

		var param string
		if p.peek() == '\'' {
			q, err := p.quoted()
			if err != nil {
				return nil, err
			}
			param = q
		} else {
			start := p.pos
			for !p.eof() && p.peek() != ',' && p.peek() != ')' {
				p.pos++
			}
			param = strings.TrimSpace(p.src[start:p.pos])
		}
		params = append(params, param)

		p.skipSpace()
		if p.eof() {
			return nil, fmt.Errorf("unterminated parameter list")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return params, nil
		default:
			return nil, fmt.Errorf("unexpected %q at %d", p.peek(), p.pos)
		}
	}
}

func (p *ruleParser) quoted() (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		switch c {
		case '\\':
			p.pos++
			if p.eof() {
				return "", fmt.Errorf("dangling escape")
			}
			b.WriteByte(p.peek())
		case '\'':
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
		p.pos++
	}
	return "", fmt.Errorf("unterminated quote")
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

// quoteArg quotes a parameter only when the bare form would not parse back.
func quoteArg(s string) string {
	if s == "" || strings.ContainsAny(s, ",()'\\ \t\n;") {
		return quote(s)
	}
	return s
}
