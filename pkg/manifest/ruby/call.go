package ruby

import "strings"

// statements splits a token stream into logical statements. A newline does
// not end a statement inside brackets, after a comma or rocket, or before a
// leading-dot method chain.
func statements(toks []token) [][]token {
	var (
		out   [][]token
		cur   []token
		depth int
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	for i, t := range toks {
		switch t.kind {
		case tokLParen, tokLBracket:
			depth++
		case tokRParen, tokRBracket:
			if depth > 0 {
				depth--
			}
		case tokNewline:
			if depth > 0 || continues(cur) || nextIsDot(toks[i+1:]) {
				continue
			}
			flush()
			continue
		}
		cur = append(cur, t)
	}
	flush()
	return out
}

func continues(cur []token) bool {
	if len(cur) == 0 {
		return false
	}
	switch cur[len(cur)-1].kind {
	case tokComma, tokRocket, tokDot, tokLabel:
		return true
	}
	return false
}

func nextIsDot(rest []token) bool {
	for _, t := range rest {
		if t.kind != tokNewline {
			return t.kind == tokDot
		}
	}
	return false
}

// call holds the literal arguments of a method call. Positional arguments
// that are not string literals (variables, method calls) are recorded as nil.
type call struct {
	positional [][]string
	options    map[string]string
}

// name returns the first positional argument when it is a single literal.
func (c call) name() (string, bool) {
	if len(c.positional) == 0 || len(c.positional[0]) != 1 {
		return "", false
	}
	return c.positional[0][0], true
}

// constraints joins the literal version requirements after the name.
func (c call) constraints() string {
	if len(c.positional) < 2 {
		return ""
	}
	var reqs []string
	for _, p := range c.positional[1:] {
		reqs = append(reqs, p...)
	}
	return strings.Join(reqs, ", ")
}

func (c call) option(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := c.options[k]; ok {
			return v, true
		}
	}
	return "", false
}

// parseCall reads the argument list following a method name, with or
// without surrounding parentheses.
func parseCall(toks []token) call {
	if len(toks) > 0 && toks[0].kind == tokLParen {
		toks = toks[1:matching(toks)]
	}

	c := call{options: map[string]string{}}
	for _, arg := range splitArgs(toks) {
		if len(arg) == 0 {
			continue
		}
		switch {
		case arg[0].kind == tokLabel:
			c.options[arg[0].text] = scalar(arg[1:])
		case len(arg) > 1 && arg[1].kind == tokRocket && (arg[0].kind == tokSymbol || arg[0].kind == tokString):
			c.options[arg[0].text] = scalar(arg[2:])
		case len(c.options) > 0:
			// Trailing block or modifier after the hash arguments.
		default:
			vals, _ := literals(arg)
			c.positional = append(c.positional, vals)
		}
	}
	return c
}

// matching returns the index of the bracket closing toks[0], or len(toks).
func matching(toks []token) int {
	depth := 0
	for i, t := range toks {
		switch t.kind {
		case tokLParen, tokLBracket:
			depth++
		case tokRParen, tokRBracket:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks)
}

// splitArgs splits on top-level commas. Parsing stops at a modifier keyword,
// a block opener or a closing brace so `gem "x" if cond` keeps only the call
// arguments.
func splitArgs(toks []token) [][]token {
	var (
		args  [][]token
		cur   []token
		depth int
	)
	for _, t := range toks {
		if depth == 0 && (t.kind == tokIdent && isModifier(t.text) || t.kind == tokOther && (t.text == "{" || t.text == "}")) {
			break
		}
		switch t.kind {
		case tokLParen, tokLBracket:
			depth++
		case tokRParen, tokRBracket:
			depth--
		case tokComma:
			if depth == 0 {
				args = append(args, cur)
				cur = nil
				continue
			}
		}
		cur = append(cur, t)
	}
	return append(args, cur)
}

func isModifier(word string) bool {
	switch word {
	case "if", "unless", "do", "while", "until", "rescue":
		return true
	}
	return false
}

// literals evaluates an argument made only of string literals: a string,
// a %w list or an array of strings, each optionally followed by .freeze.
func literals(arg []token) ([]string, bool) {
	arg = trimFreeze(arg)
	if len(arg) == 1 {
		switch arg[0].kind {
		case tokString:
			return []string{arg[0].text}, true
		case tokWords:
			return arg[0].words, true
		}
		return nil, false
	}
	if len(arg) < 2 || arg[0].kind != tokLBracket || arg[len(arg)-1].kind != tokRBracket {
		return nil, false
	}
	var out []string
	for _, el := range splitArgs(arg[1 : len(arg)-1]) {
		vals, ok := literals(el)
		if !ok {
			if len(el) == 0 {
				continue
			}
			return nil, false
		}
		out = append(out, vals...)
	}
	return out, true
}

func trimFreeze(arg []token) []token {
	for len(arg) >= 2 && arg[len(arg)-2].kind == tokDot && arg[len(arg)-1].kind == tokIdent && arg[len(arg)-1].text == "freeze" {
		arg = arg[:len(arg)-2]
	}
	return arg
}

// scalar flattens an option value to a string. Strings, symbols and bare
// identifiers yield their text; arrays yield their first literal.
func scalar(val []token) string {
	if vals, ok := literals(val); ok {
		if len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	val = trimFreeze(val)
	if len(val) == 0 {
		return ""
	}
	switch val[0].kind {
	case tokSymbol, tokIdent:
		return val[0].text
	case tokLBracket:
		for _, t := range val[1:] {
			if t.kind == tokSymbol || t.kind == tokString {
				return t.text
			}
		}
	}
	return ""
}
