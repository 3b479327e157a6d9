package ruby

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokIdent    tokenKind = iota // gem, spec, true, do, end ...
	tokString                    // '...', "...", %q(...), heredoc body
	tokWords                     // %w(...) and %i(...)
	tokSymbol                    // :name or :"name"
	tokLabel                     // name: or "name": in hash arguments
	tokRocket                    // =>
	tokComma                     // ,
	tokDot                       // .
	tokLParen                    // (
	tokRParen                    // )
	tokLBracket                  // [
	tokRBracket                  // ]
	tokNewline                   // end of line or ;
	tokRegexp                    // /.../ and %r{...}
	tokOther                     // anything else
)

type token struct {
	kind  tokenKind
	text  string
	words []string
	line  int
}

// lexer tokenizes the subset of Ruby used in dependency manifests. It does
// not evaluate anything: interpolations are kept as raw text.
type lexer struct {
	src      string
	pos      int
	line     int
	heredocs []heredoc
	toks     []token
}

type heredoc struct {
	tag      string
	indented bool
}

func tokenize(src string) ([]token, error) {
	lx := &lexer{src: src, line: 1}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.toks, nil
}

func (lx *lexer) emit(kind tokenKind, text string) {
	lx.toks = append(lx.toks, token{kind: kind, text: text, line: lx.line})
}

func (lx *lexer) peek(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

func (lx *lexer) atLineStart() bool {
	return lx.pos == 0 || lx.src[lx.pos-1] == '\n'
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			lx.emit(tokNewline, "")
			lx.pos++
			lx.line++
			if err := lx.skipHeredocBodies(); err != nil {
				return err
			}
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '\\' && lx.peek(1) == '\n':
			lx.pos += 2
			lx.line++
		case c == '#':
			lx.skipComment()
		case c == '=' && lx.atLineStart() && strings.HasPrefix(lx.src[lx.pos:], "=begin"):
			if err := lx.skipBlockComment(); err != nil {
				return err
			}
		case c == '"' || c == '\'' || c == '`':
			s, err := lx.readQuoted(c)
			if err != nil {
				return err
			}
			lx.emitStringOrLabel(s)
		case c == '/' && lx.regexpAllowed():
			if err := lx.readRegexp(); err != nil {
				return err
			}
		case c == '%' && lx.percentLiteralAhead():
			if err := lx.readPercent(); err != nil {
				return err
			}
		case c == '<' && lx.peek(1) == '<' && lx.heredocAhead():
			lx.readHeredocTag()
		case c == ':':
			if err := lx.readColon(); err != nil {
				return err
			}
		case c == '=' && lx.peek(1) == '>':
			lx.emit(tokRocket, "=>")
			lx.pos += 2
		case c == ',':
			lx.emit(tokComma, ",")
			lx.pos++
		case c == '.':
			lx.emit(tokDot, ".")
			lx.pos++
		case c == '(':
			lx.emit(tokLParen, "(")
			lx.pos++
		case c == ')':
			lx.emit(tokRParen, ")")
			lx.pos++
		case c == '[':
			lx.emit(tokLBracket, "[")
			lx.pos++
		case c == ']':
			lx.emit(tokRBracket, "]")
			lx.pos++
		case c == ';':
			lx.emit(tokNewline, ";")
			lx.pos++
		case isIdentStart(c):
			lx.readIdent()
		default:
			lx.emit(tokOther, string(c))
			lx.pos++
		}
	}
	if len(lx.heredocs) > 0 {
		return fmt.Errorf("line %d: unterminated heredoc %s", lx.line, lx.heredocs[0].tag)
	}
	return nil
}

func (lx *lexer) skipComment() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

func (lx *lexer) skipBlockComment() error {
	start := lx.line
	for lx.pos < len(lx.src) {
		end := strings.IndexByte(lx.src[lx.pos:], '\n')
		if end < 0 {
			break
		}
		lx.pos += end + 1
		lx.line++
		if strings.HasPrefix(lx.src[lx.pos:], "=end") {
			lx.skipComment()
			return nil
		}
	}
	return fmt.Errorf("line %d: unterminated =begin comment", start)
}

// readQuoted reads a quoted literal starting at the opening quote and
// returns its unescaped value.
func (lx *lexer) readQuoted(quote byte) (string, error) {
	start := lx.line
	lx.pos++
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == quote:
			lx.pos++
			return sb.String(), nil
		case c == '\\' && lx.pos+1 < len(lx.src):
			next := lx.src[lx.pos+1]
			if quote == '\'' && next != '\'' && next != '\\' {
				sb.WriteByte(c)
			}
			sb.WriteByte(next)
			if next == '\n' {
				lx.line++
			}
			lx.pos += 2
		case c == '#' && quote != '\'' && lx.peek(1) == '{':
			sb.WriteString(lx.readInterpolation())
		default:
			if c == '\n' {
				lx.line++
			}
			sb.WriteByte(c)
			lx.pos++
		}
	}
	return "", fmt.Errorf("line %d: unterminated string literal", start)
}

// readInterpolation copies a #{...} sequence verbatim, honouring nested braces.
func (lx *lexer) readInterpolation() string {
	start := lx.pos
	depth := 0
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		lx.pos++
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return lx.src[start:lx.pos]
			}
		case '\n':
			lx.line++
		}
	}
	return lx.src[start:]
}

// emitStringOrLabel turns "key": into a label and anything else into a string.
func (lx *lexer) emitStringOrLabel(s string) {
	if lx.peek(0) == ':' && lx.peek(1) != ':' {
		lx.pos++
		lx.emit(tokLabel, s)
		return
	}
	lx.emit(tokString, s)
}

func (lx *lexer) percentLiteralAhead() bool {
	next := lx.peek(1)
	switch next {
	case 'q', 'Q', 'w', 'W', 'i', 'I', 'r':
		return isPercentDelim(lx.peek(2))
	case '(', '[', '{', '<', '|', '!':
		return true
	}
	return false
}

func (lx *lexer) readPercent() error {
	start := lx.line
	kind := byte('Q')
	lx.pos++ // %
	if c := lx.src[lx.pos]; strings.IndexByte("qQwWiIr", c) >= 0 {
		kind = c
		lx.pos++
	}
	open := lx.src[lx.pos]
	closing := closingDelim(open)
	lx.pos++

	depth := 1
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		lx.pos++
		switch {
		case c == '\\' && lx.pos < len(lx.src):
			sb.WriteByte(lx.src[lx.pos])
			lx.pos++
			continue
		case c == open && open != closing:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				body := sb.String()
				switch kind {
				case 'w', 'W', 'i', 'I':
					lx.toks = append(lx.toks, token{kind: tokWords, words: strings.Fields(body), line: start})
				case 'r':
					lx.skipRegexpFlags()
					lx.toks = append(lx.toks, token{kind: tokRegexp, text: body, line: start})
				default:
					lx.emitStringOrLabel(body)
				}
				return nil
			}
		case c == '\n':
			lx.line++
		}
		sb.WriteByte(c)
	}
	return fmt.Errorf("line %d: unterminated %%%c literal", start, kind)
}

// regexpAllowed reports whether a slash at the current position opens a
// regexp literal rather than a division.
func (lx *lexer) regexpAllowed() bool {
	if len(lx.toks) == 0 {
		return true
	}
	prev := lx.toks[len(lx.toks)-1]
	switch prev.kind {
	case tokNewline, tokComma, tokLParen, tokLBracket, tokRocket, tokLabel:
		return true
	case tokOther:
		return prev.text != "}"
	case tokIdent:
		switch prev.text {
		case "if", "unless", "elsif", "when", "while", "until", "and", "or", "not", "return":
			return true
		}
		// foo /re/ is a call with a regexp, foo / 2 is a division.
		before := lx.pos > 0 && (lx.src[lx.pos-1] == ' ' || lx.src[lx.pos-1] == '\t')
		after := lx.peek(1)
		return before && after != ' ' && after != '='
	}
	return false
}

func (lx *lexer) readRegexp() error {
	start := lx.line
	lx.pos++
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '/':
			lx.pos++
			lx.skipRegexpFlags()
			lx.toks = append(lx.toks, token{kind: tokRegexp, text: sb.String(), line: start})
			return nil
		case c == '\\' && lx.pos+1 < len(lx.src):
			sb.WriteString(lx.src[lx.pos : lx.pos+2])
			lx.pos += 2
		case c == '#' && lx.peek(1) == '{':
			sb.WriteString(lx.readInterpolation())
		case c == '\n':
			return fmt.Errorf("line %d: unterminated regexp literal", start)
		default:
			sb.WriteByte(c)
			lx.pos++
		}
	}
	return fmt.Errorf("line %d: unterminated regexp literal", start)
}

func (lx *lexer) skipRegexpFlags() {
	for lx.pos < len(lx.src) && strings.IndexByte("imxounse", lx.src[lx.pos]) >= 0 {
		lx.pos++
	}
}

func (lx *lexer) heredocAhead() bool {
	i := 2
	if c := lx.peek(i); c == '~' || c == '-' {
		i++
	}
	c := lx.peek(i)
	return c == '_' || (c >= 'A' && c <= 'Z') || c == '\'' || c == '"'
}

// readHeredocTag consumes <<~TAG and queues its body to be skipped after the
// current line. The heredoc itself becomes an empty string token.
func (lx *lexer) readHeredocTag() {
	lx.pos += 2
	h := heredoc{}
	if c := lx.peek(0); c == '~' || c == '-' {
		h.indented = true
		lx.pos++
	}
	if q := lx.peek(0); q == '\'' || q == '"' {
		lx.pos++
		end := strings.IndexByte(lx.src[lx.pos:], q)
		if end < 0 {
			end = len(lx.src) - lx.pos
		}
		h.tag = lx.src[lx.pos : lx.pos+end]
		lx.pos = min(lx.pos+end+1, len(lx.src))
	} else {
		start := lx.pos
		for lx.pos < len(lx.src) && isIdentChar(lx.src[lx.pos]) {
			lx.pos++
		}
		h.tag = lx.src[start:lx.pos]
	}
	lx.heredocs = append(lx.heredocs, h)
	lx.emit(tokString, "")
}

func (lx *lexer) skipHeredocBodies() error {
	for len(lx.heredocs) > 0 {
		h := lx.heredocs[0]
		for {
			if lx.pos >= len(lx.src) {
				return fmt.Errorf("line %d: unterminated heredoc %s", lx.line, h.tag)
			}
			end := strings.IndexByte(lx.src[lx.pos:], '\n')
			var line string
			if end < 0 {
				line = lx.src[lx.pos:]
				lx.pos = len(lx.src)
			} else {
				line = lx.src[lx.pos : lx.pos+end]
				lx.pos += end + 1
				lx.line++
			}
			line = strings.TrimRight(line, "\r")
			if h.indented {
				line = strings.TrimLeft(line, " \t")
			}
			if line == h.tag {
				break
			}
		}
		lx.heredocs = lx.heredocs[1:]
	}
	return nil
}

func (lx *lexer) readColon() error {
	next := lx.peek(1)
	switch {
	case next == ':':
		lx.emit(tokOther, "::")
		lx.pos += 2
	case next == '"' || next == '\'':
		lx.pos++
		s, err := lx.readQuoted(next)
		if err != nil {
			return err
		}
		lx.emit(tokSymbol, s)
	case isIdentStart(next):
		lx.pos++
		start := lx.pos
		for lx.pos < len(lx.src) && isIdentChar(lx.src[lx.pos]) {
			lx.pos++
		}
		if c := lx.peek(0); c == '?' || c == '!' || c == '=' && lx.peek(1) != '>' {
			lx.pos++
		}
		lx.emit(tokSymbol, lx.src[start:lx.pos])
	default:
		lx.emit(tokOther, ":")
		lx.pos++
	}
	return nil
}

func (lx *lexer) readIdent() {
	start := lx.pos
	for lx.pos < len(lx.src) && isIdentChar(lx.src[lx.pos]) {
		lx.pos++
	}
	if c := lx.peek(0); (c == '?' || c == '!') && lx.peek(1) != '=' {
		lx.pos++
	}
	name := lx.src[start:lx.pos]
	if lx.peek(0) == ':' && lx.peek(1) != ':' {
		lx.pos++
		lx.emit(tokLabel, name)
		return
	}
	lx.emit(tokIdent, name)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isPercentDelim(c byte) bool {
	switch c {
	case '(', '[', '{', '<', '|', '!', '/', '-', '^':
		return true
	}
	return false
}

func closingDelim(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	}
	return open
}
