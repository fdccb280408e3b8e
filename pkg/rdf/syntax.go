package rdf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned for malformed RDF documents.
var ErrSyntax = errors.New("rdf syntax error")

// lexer holds the term-level grammar shared by the N-Quads and TriG readers.
// It works on a string with a byte cursor, like the pattern parser.
type lexer struct {
	input    string
	pos      int
	line     int // line of input[0], for error messages
	prefixes map[string]string
	base     string
	genID    int
}

func newLexer(input string) *lexer {
	return &lexer{
		input:    input,
		line:     1,
		prefixes: make(map[string]string),
	}
}

// reset points the lexer at a new input, keeping prefixes and base.
func (l *lexer) reset(input string, line int) {
	l.input = input
	l.pos = 0
	l.line = line
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) errorf(format string, args ...any) error {
	line := l.line + strings.Count(l.input[:min(l.pos, len(l.input))], "\n")
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}

// skipWhitespaceAndComments skips whitespace and comments
func (l *lexer) skipWhitespaceAndComments() {
	for !l.eof() {
		ch := l.input[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			l.pos++
			continue
		}
		if ch == '#' {
			for !l.eof() && l.input[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		break
	}
}

// expect consumes ch after optional whitespace.
func (l *lexer) expect(ch byte) error {
	l.skipWhitespaceAndComments()
	if l.peek() != ch {
		if l.eof() {
			return l.errorf("expected '%c', got end of input", ch)
		}
		return l.errorf("expected '%c', got '%c'", ch, l.peek())
	}
	l.pos++
	return nil
}

// matchKeyword checks case-insensitively whether the input continues with
// keyword followed by a delimiter.
func (l *lexer) matchKeyword(keyword string) bool {
	end := l.pos + len(keyword)
	if end > len(l.input) || !strings.EqualFold(l.input[l.pos:end], keyword) {
		return false
	}
	if end == len(l.input) {
		return true
	}
	switch l.input[end] {
	case ' ', '\t', '\n', '\r', '<', '{', '[':
		return true
	}
	return false
}

// matchWord checks whether the input continues with the case-sensitive
// bare word followed by a delimiter or '.'.
func (l *lexer) matchWord(word string) bool {
	end := l.pos + len(word)
	if !strings.HasPrefix(l.input[l.pos:], word) {
		return false
	}
	return end == len(l.input) || isDelimiter(l.input[end]) || l.input[end] == '.'
}

// directive parses @prefix, PREFIX, @base and BASE. It reports false when
// the input does not start with one.
func (l *lexer) directive() (bool, error) {
	switch {
	case l.matchKeyword("@prefix"):
		return true, l.parsePrefix("@prefix", true)
	case l.matchKeyword("PREFIX"):
		return true, l.parsePrefix("PREFIX", false)
	case l.matchKeyword("@base"):
		return true, l.parseBase("@base", true)
	case l.matchKeyword("BASE"):
		return true, l.parseBase("BASE", false)
	}
	return false, nil
}

// parsePrefix parses a prefix declaration. The Turtle form ends with '.',
// the SPARQL form does not.
func (l *lexer) parsePrefix(keyword string, dotted bool) error {
	l.pos += len(keyword)
	l.skipWhitespaceAndComments()

	start := l.pos
	for !l.eof() && l.input[l.pos] != ':' {
		if isDelimiter(l.input[l.pos]) {
			return l.errorf("invalid prefix name %q", l.input[start:l.pos])
		}
		l.pos++
	}
	if l.eof() {
		return l.errorf("expected ':' after prefix name")
	}
	name := l.input[start:l.pos]
	l.pos++ // skip ':'

	l.skipWhitespaceAndComments()
	iri, err := l.parseIRI()
	if err != nil {
		return err
	}
	l.prefixes[name] = iri

	if dotted {
		return l.expect('.')
	}
	return nil
}

// parseBase parses a base declaration.
func (l *lexer) parseBase(keyword string, dotted bool) error {
	l.pos += len(keyword)
	l.skipWhitespaceAndComments()

	iri, err := l.parseIRI()
	if err != nil {
		return err
	}
	l.base = iri

	if dotted {
		return l.expect('.')
	}
	return nil
}

// parseTerm parses an IRI, prefixed name, blank node label or literal.
func (l *lexer) parseTerm() (Term, error) {
	l.skipWhitespaceAndComments()
	if l.eof() {
		return nil, l.errorf("unexpected end of input")
	}

	ch := l.input[l.pos]
	switch {
	case ch == '<':
		iri, err := l.parseIRI()
		if err != nil {
			return nil, err
		}
		return NewNamedNode(iri), nil
	case ch == '_' && l.pos+1 < len(l.input) && l.input[l.pos+1] == ':':
		return l.parseBlankNode()
	case ch == '"' || ch == '\'':
		return l.parseLiteral()
	case ch == '-' || ch == '+' || ch == '.' || (ch >= '0' && ch <= '9'):
		return l.parseNumber()
	case l.matchWord("true"):
		l.pos += len("true")
		return NewLiteralWithDatatype("true", XSDBoolean), nil
	case l.matchWord("false"):
		l.pos += len("false")
		return NewLiteralWithDatatype("false", XSDBoolean), nil
	default:
		return l.parsePrefixedName()
	}
}

// parseIRI parses an IRI enclosed in < >, resolving it against the base
// when it is relative.
func (l *lexer) parseIRI() (string, error) {
	if l.peek() != '<' {
		return "", l.errorf("expected '<' at start of IRI")
	}
	l.pos++ // skip '<'

	var iri strings.Builder
	for !l.eof() {
		ch := l.input[l.pos]
		switch ch {
		case '>':
			l.pos++ // skip '>'
			return l.resolve(iri.String()), nil
		case ' ', '\t', '\n', '\r', '"', '{', '}', '|', '^', '`':
			return "", l.errorf("invalid character %q in IRI", ch)
		case '\\':
			r, err := l.unicodeEscape()
			if err != nil {
				return "", err
			}
			iri.WriteString(r)
		default:
			iri.WriteByte(ch)
			l.pos++
		}
	}
	return "", l.errorf("unclosed IRI")
}

// resolve joins a relative reference onto the base IRI. Only the common
// cases are handled: fragments, absolute paths and plain relative paths.
func (l *lexer) resolve(ref string) string {
	if l.base == "" || strings.Contains(ref, ":") {
		return ref
	}
	switch {
	case ref == "":
		return l.base
	case strings.HasPrefix(ref, "#"):
		if i := strings.IndexByte(l.base, '#'); i >= 0 {
			return l.base[:i] + ref
		}
		return l.base + ref
	case strings.HasPrefix(ref, "/"):
		if i := strings.Index(l.base, "://"); i >= 0 {
			if j := strings.IndexByte(l.base[i+3:], '/'); j >= 0 {
				return l.base[:i+3+j] + ref
			}
		}
		return strings.TrimSuffix(l.base, "/") + ref
	default:
		if i := strings.LastIndexByte(l.base, '/'); i >= 0 {
			return l.base[:i+1] + ref
		}
		return l.base + ref
	}
}

// parseBlankNode parses a labelled blank node: _:b1
func (l *lexer) parseBlankNode() (Term, error) {
	l.pos += 2 // skip '_:'

	start := l.pos
	for !l.eof() && !isDelimiter(l.input[l.pos]) {
		l.pos++
	}
	// A label may not end with '.'.
	for l.pos > start && l.input[l.pos-1] == '.' {
		l.pos--
	}
	if l.pos == start {
		return nil, l.errorf("empty blank node label")
	}
	return NewBlankNode(l.input[start:l.pos]), nil
}

// freshBlankNode allocates a label for an anonymous blank node.
func (l *lexer) freshBlankNode() *BlankNode {
	l.genID++
	return NewBlankNode("genid" + strconv.Itoa(l.genID))
}

// parseLiteral parses "value", 'value', their long """ forms, and the
// optional @lang or ^^datatype suffix.
func (l *lexer) parseLiteral() (Term, error) {
	quote := l.input[l.pos]
	delim := string(quote)
	if strings.HasPrefix(l.input[l.pos:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	l.pos += len(delim)

	var value strings.Builder
	closed := false
	for !l.eof() {
		if strings.HasPrefix(l.input[l.pos:], delim) {
			l.pos += len(delim)
			closed = true
			break
		}
		ch := l.input[l.pos]
		if len(delim) == 1 && (ch == '\n' || ch == '\r') {
			return nil, l.errorf("newline in string literal")
		}
		if ch != '\\' {
			value.WriteByte(ch)
			l.pos++
			continue
		}

		if l.pos+1 >= len(l.input) {
			return nil, l.errorf("unexpected end of input in escape sequence")
		}
		switch esc := l.input[l.pos+1]; esc {
		case 'u', 'U':
			r, err := l.unicodeEscape()
			if err != nil {
				return nil, err
			}
			value.WriteString(r)
			continue
		case 'n':
			value.WriteByte('\n')
		case 't':
			value.WriteByte('\t')
		case 'r':
			value.WriteByte('\r')
		case 'b':
			value.WriteByte('\b')
		case 'f':
			value.WriteByte('\f')
		case '"', '\'', '\\':
			value.WriteByte(esc)
		default:
			return nil, l.errorf("invalid escape sequence \\%c", esc)
		}
		l.pos += 2
	}
	if !closed {
		return nil, l.errorf("unclosed string literal")
	}

	switch {
	case l.peek() == '@':
		l.pos++ // skip '@'
		start := l.pos
		for !l.eof() && (isAlnum(l.input[l.pos]) || l.input[l.pos] == '-') {
			l.pos++
		}
		if l.pos == start || !isAlpha(l.input[start]) {
			return nil, l.errorf("invalid language tag")
		}
		return NewLiteralWithLanguage(value.String(), l.input[start:l.pos]), nil

	case strings.HasPrefix(l.input[l.pos:], "^^"):
		l.pos += 2 // skip '^^'
		dt, err := l.parseTerm()
		if err != nil {
			return nil, fmt.Errorf("datatype: %w", err)
		}
		iri, ok := dt.(*NamedNode)
		if !ok {
			return nil, l.errorf("datatype must be an IRI")
		}
		return NewLiteralWithDatatype(value.String(), iri), nil
	}

	return NewLiteral(value.String()), nil
}

// unicodeEscape decodes \uXXXX or \UXXXXXXXX at the cursor.
func (l *lexer) unicodeEscape() (string, error) {
	if l.pos+1 >= len(l.input) || l.input[l.pos] != '\\' {
		return "", l.errorf("expected unicode escape")
	}

	digits := 0
	switch l.input[l.pos+1] {
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		return "", l.errorf("invalid escape \\%c", l.input[l.pos+1])
	}

	start := l.pos + 2
	if start+digits > len(l.input) {
		return "", l.errorf("incomplete unicode escape")
	}
	code, err := strconv.ParseUint(l.input[start:start+digits], 16, 32)
	if err != nil {
		return "", l.errorf("invalid hex digits in unicode escape: %s", l.input[start:start+digits])
	}
	l.pos = start + digits
	return string(rune(code)), nil
}

// parseNumber parses an integer, decimal or double literal.
func (l *lexer) parseNumber() (Term, error) {
	start := l.pos

	if ch := l.peek(); ch == '-' || ch == '+' {
		l.pos++
	}

	digits := l.skipDigits()
	datatype := XSDInteger

	// A '.' is a decimal point only when a digit follows; otherwise it ends the statement.
	if l.peek() == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) {
		l.pos++
		digits += l.skipDigits()
		datatype = XSDDecimal
	}

	if ch := l.peek(); ch == 'e' || ch == 'E' {
		l.pos++
		if ch := l.peek(); ch == '-' || ch == '+' {
			l.pos++
		}
		if l.skipDigits() == 0 {
			return nil, l.errorf("invalid exponent in %q", l.input[start:l.pos])
		}
		datatype = XSDDouble
	}

	if digits == 0 {
		return nil, l.errorf("invalid number %q", l.input[start:l.pos])
	}
	return NewLiteralWithDatatype(l.input[start:l.pos], datatype), nil
}

func (l *lexer) skipDigits() int {
	n := 0
	for !l.eof() && isDigit(l.input[l.pos]) {
		l.pos++
		n++
	}
	return n
}

// parsePrefixedName parses prefix:local (either part may be empty).
func (l *lexer) parsePrefixedName() (Term, error) {
	start := l.pos
	for !l.eof() && l.input[l.pos] != ':' {
		if isDelimiter(l.input[l.pos]) {
			return nil, l.errorf("unexpected token %q", l.input[start:l.pos+1])
		}
		l.pos++
	}
	if l.eof() {
		return nil, l.errorf("expected ':' in prefixed name %q", l.input[start:])
	}
	prefix := l.input[start:l.pos]
	l.pos++ // skip ':'

	localStart := l.pos
	for !l.eof() && !isDelimiter(l.input[l.pos]) {
		l.pos++
	}
	for l.pos > localStart && l.input[l.pos-1] == '.' {
		l.pos--
	}
	local := strings.ReplaceAll(l.input[localStart:l.pos], `\`, "")

	ns, ok := l.prefixes[prefix]
	if !ok {
		return nil, l.errorf("undefined prefix %q", prefix)
	}
	return NewNamedNode(ns + local), nil
}

func isDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '<', '>', '"', '{', '}', '[', ']', '(', ')', ';', ',', '#':
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlnum(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
