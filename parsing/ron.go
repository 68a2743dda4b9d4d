package parsing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/value"
)

// RONParser reads Rusty Object Notation. The top level is either a struct,
// `(key: value, ...)` with an optional name, or a map with string keys.
// Tuples are read as arrays. Numbers without a fraction or exponent are
// integers.
type RONParser struct{}

func (RONParser) Parse(source string, cfg Config) (*value.Struct, error) {
	top, err := parseRONDocument(source)
	if err != nil {
		return nil, err
	}

	root := value.NewStruct(cfg.rootName())
	for _, f := range top.fields {
		v, err := ronValue(f.value, cfg.rootParent(), f.key, cfg)
		if err != nil {
			return nil, err
		}
		root.Set(f.key, v)
	}
	return root, nil
}

func (RONParser) ParseMapKeys(source string) ([]string, error) {
	top, err := parseRONDocument(source)
	if err != nil {
		return nil, err
	}

	var keys orderedKeys
	for _, f := range top.fields {
		keys.add(f.key)
	}
	return keys.list(), nil
}

type ronKind int

const (
	ronUnit ronKind = iota
	ronBool
	ronChar
	ronInt
	ronFloat
	ronString
	ronOption
	ronList
	ronStruct
)

type ronNode struct {
	kind ronKind
	b    bool
	c    rune
	// text holds string contents and the literal text of numbers.
	text   string
	inner  *ronNode
	elems  []*ronNode
	fields []ronField
}

type ronField struct {
	key   string
	value *ronNode
}

func parseRONDocument(source string) (*ronNode, error) {
	r := &ronReader{src: source}
	if err := r.skipAttributes(); err != nil {
		return nil, err
	}
	top, err := r.value()
	if err != nil {
		return nil, err
	}
	if err := r.skipSpace(); err != nil {
		return nil, err
	}
	if !r.eof() {
		return nil, r.errorf("unexpected trailing input")
	}

	switch top.kind {
	case ronStruct:
		return top, nil
	case ronUnit:
		return &ronNode{kind: ronStruct}, nil
	default:
		return nil, errors.Deserializationf("expected a RON struct or map at the top level")
	}
}

func ronValue(n *ronNode, parent, key string, cfg Config) (value.Value, error) {
	switch n.kind {
	case ronUnit:
		return value.Unit{}, nil
	case ronBool:
		return value.Bool(n.b), nil
	case ronChar:
		return value.Char(n.c), nil
	case ronString:
		return value.String(n.text), nil
	case ronInt:
		return ronInteger(n.text, cfg)
	case ronFloat:
		f, err := ronFloatValue(n.text)
		if err != nil {
			return nil, err
		}
		return value.Float(f, cfg.FloatSize), nil
	case ronOption:
		if n.inner == nil {
			return value.None(), nil
		}
		inner, err := ronValue(n.inner, parent, key, cfg)
		if err != nil {
			return nil, err
		}
		return value.Some(inner), nil
	case ronList:
		arr := make(value.Array, 0, len(n.elems))
		for _, elem := range n.elems {
			v, err := ronValue(elem, parent, key, cfg)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case ronStruct:
		name := nestedName(parent, key)
		record := value.NewStruct(name)
		for _, f := range n.fields {
			v, err := ronValue(f.value, name, f.key, cfg)
			if err != nil {
				return nil, err
			}
			record.Set(f.key, v)
		}
		return record, nil
	default:
		return nil, errors.Deserializationf("unsupported RON value")
	}
}

func ronInteger(text string, cfg Config) (value.Value, error) {
	clean := trimLeadingZeros(text)
	if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return value.Int(i, cfg.IntSize), nil
	}
	if u, err := strconv.ParseUint(strings.TrimPrefix(clean, "+"), 0, 64); err == nil {
		return value.U64(u), nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil && !isRange(err) {
		return nil, errors.Deserializationf("invalid integer `%s`", text)
	}
	return value.Float(f, cfg.FloatSize), nil
}

// trimLeadingZeros keeps "010" decimal; base 0 parsing would read it as octal.
func trimLeadingZeros(text string) string {
	sign, digits := "", text
	if text != "" && (text[0] == '-' || text[0] == '+') {
		sign, digits = text[:1], text[1:]
	}
	if len(digits) > 1 && digits[0] == '0' && strings.IndexByte("xob", digits[1]) < 0 {
		digits = strings.TrimLeft(digits, "0_")
		if digits == "" {
			digits = "0"
		}
	}
	return sign + digits
}

func ronFloatValue(text string) (float64, error) {
	switch strings.TrimPrefix(text, "+") {
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "NaN", "-NaN":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil && !isRange(err) {
		return 0, errors.Deserializationf("invalid float `%s`", text)
	}
	return f, nil
}

func isRange(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

type ronReader struct {
	src string
	pos int
}

func (r *ronReader) eof() bool {
	return r.pos >= len(r.src)
}

func (r *ronReader) peek() byte {
	if r.eof() {
		return 0
	}
	return r.src[r.pos]
}

func (r *ronReader) peekAt(offset int) byte {
	if r.pos+offset >= len(r.src) {
		return 0
	}
	return r.src[r.pos+offset]
}

// errorf reports a syntax problem at the current position.
func (r *ronReader) errorf(format string, args ...interface{}) error {
	line, col := 1, 1
	for _, c := range r.src[:min(r.pos, len(r.src))] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return errors.Deserializationf("%d:%d: %s", line, col, fmt.Sprintf(format, args...))
}

func (r *ronReader) expect(c byte) error {
	if err := r.skipSpace(); err != nil {
		return err
	}
	if r.peek() != c {
		if r.eof() {
			return r.errorf("expected `%c`, found end of input", c)
		}
		return r.errorf("expected `%c`, found `%c`", c, r.peek())
	}
	r.pos++
	return nil
}

// skipSpace skips whitespace, line comments and nested block comments.
func (r *ronReader) skipSpace() error {
	for !r.eof() {
		c := r.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			r.pos++
		case c == '/' && r.peekAt(1) == '/':
			for !r.eof() && r.peek() != '\n' {
				r.pos++
			}
		case c == '/' && r.peekAt(1) == '*':
			start := r.pos
			depth := 0
			for {
				if r.eof() {
					r.pos = start
					return r.errorf("unterminated block comment")
				}
				if r.peek() == '/' && r.peekAt(1) == '*' {
					depth++
					r.pos += 2
					continue
				}
				if r.peek() == '*' && r.peekAt(1) == '/' {
					depth--
					r.pos += 2
					if depth == 0 {
						break
					}
					continue
				}
				r.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

// skipAttributes skips leading #![enable(...)] lines.
func (r *ronReader) skipAttributes() error {
	for {
		if err := r.skipSpace(); err != nil {
			return err
		}
		if r.peek() != '#' || r.peekAt(1) != '!' {
			return nil
		}
		end := strings.IndexByte(r.src[r.pos:], ']')
		if end < 0 {
			return r.errorf("unterminated attribute")
		}
		r.pos += end + 1
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (r *ronReader) identifier() string {
	start := r.pos
	if r.peek() == 'r' && r.peekAt(1) == '#' && isIdentStart(r.peekAt(2)) {
		r.pos += 2
		start = r.pos
	}
	for !r.eof() && isIdentChar(r.peek()) {
		r.pos++
	}
	return r.src[start:r.pos]
}

func (r *ronReader) value() (*ronNode, error) {
	if err := r.skipSpace(); err != nil {
		return nil, err
	}
	if r.eof() {
		return nil, r.errorf("unexpected end of input")
	}

	c := r.peek()
	switch {
	case c == '(':
		return r.parens("")
	case c == '[':
		return r.list()
	case c == '{':
		return r.mapping()
	case c == '"':
		s, err := r.quoted()
		if err != nil {
			return nil, err
		}
		return &ronNode{kind: ronString, text: s}, nil
	case c == 'r' && (r.peekAt(1) == '"' || (r.peekAt(1) == '#' && !isIdentStart(r.peekAt(2)))):
		s, err := r.rawString()
		if err != nil {
			return nil, err
		}
		return &ronNode{kind: ronString, text: s}, nil
	case c == '\'':
		return r.char()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return r.number()
	case isIdentStart(c):
		return r.identValue()
	default:
		return nil, r.errorf("unexpected character `%c`", c)
	}
}

func (r *ronReader) identValue() (*ronNode, error) {
	start := r.pos
	ident := r.identifier()
	switch ident {
	case "true", "false":
		return &ronNode{kind: ronBool, b: ident == "true"}, nil
	case "None":
		return &ronNode{kind: ronOption}, nil
	case "inf", "NaN":
		return &ronNode{kind: ronFloat, text: ident}, nil
	case "Some":
		if err := r.expect('('); err != nil {
			return nil, err
		}
		inner, err := r.value()
		if err != nil {
			return nil, err
		}
		if err := r.skipSpace(); err != nil {
			return nil, err
		}
		if r.peek() == ',' {
			r.pos++
		}
		if err := r.expect(')'); err != nil {
			return nil, err
		}
		return &ronNode{kind: ronOption, inner: inner}, nil
	}

	if err := r.skipSpace(); err != nil {
		return nil, err
	}
	if r.peek() == '(' {
		return r.parens(ident)
	}
	r.pos = start
	return nil, r.errorf("unexpected identifier `%s`", ident)
}

// parens reads a unit, a struct with named fields or a tuple.
func (r *ronReader) parens(name string) (*ronNode, error) {
	r.pos++ // (
	if err := r.skipSpace(); err != nil {
		return nil, err
	}
	if r.peek() == ')' {
		r.pos++
		if name != "" {
			return &ronNode{kind: ronStruct}, nil
		}
		return &ronNode{kind: ronUnit}, nil
	}

	if r.startsField() {
		node := &ronNode{kind: ronStruct}
		for {
			if err := r.skipSpace(); err != nil {
				return nil, err
			}
			if r.peek() == ')' {
				r.pos++
				return node, nil
			}
			if !isIdentStart(r.peek()) {
				return nil, r.errorf("expected a field name")
			}
			key := r.identifier()
			if err := r.expect(':'); err != nil {
				return nil, err
			}
			v, err := r.value()
			if err != nil {
				return nil, err
			}
			node.fields = append(node.fields, ronField{key: key, value: v})
			if done, err := r.separator(')'); err != nil || done {
				return node, err
			}
		}
	}

	node := &ronNode{kind: ronList}
	for {
		if err := r.skipSpace(); err != nil {
			return nil, err
		}
		if r.peek() == ')' {
			r.pos++
			return node, nil
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		node.elems = append(node.elems, v)
		if done, err := r.separator(')'); err != nil || done {
			return node, err
		}
	}
}

// startsField looks ahead for `ident :` without consuming input.
func (r *ronReader) startsField() bool {
	save := r.pos
	defer func() { r.pos = save }()

	if !isIdentStart(r.peek()) {
		return false
	}
	r.identifier()
	if err := r.skipSpace(); err != nil {
		return false
	}
	return r.peek() == ':' && r.peekAt(1) != ':'
}

// separator consumes a ',' or the closing delimiter. done reports that the
// closing delimiter was consumed.
func (r *ronReader) separator(closing byte) (done bool, err error) {
	if err := r.skipSpace(); err != nil {
		return false, err
	}
	switch r.peek() {
	case ',':
		r.pos++
		return false, nil
	case closing:
		r.pos++
		return true, nil
	default:
		if r.eof() {
			return false, r.errorf("expected `,` or `%c`, found end of input", closing)
		}
		return false, r.errorf("expected `,` or `%c`, found `%c`", closing, r.peek())
	}
}

func (r *ronReader) list() (*ronNode, error) {
	r.pos++ // [
	node := &ronNode{kind: ronList}
	for {
		if err := r.skipSpace(); err != nil {
			return nil, err
		}
		if r.peek() == ']' {
			r.pos++
			return node, nil
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		node.elems = append(node.elems, v)
		if done, err := r.separator(']'); err != nil || done {
			return node, err
		}
	}
}

func (r *ronReader) mapping() (*ronNode, error) {
	r.pos++ // {
	node := &ronNode{kind: ronStruct}
	for {
		if err := r.skipSpace(); err != nil {
			return nil, err
		}
		if r.peek() == '}' {
			r.pos++
			return node, nil
		}
		keyPos := r.pos
		key, err := r.value()
		if err != nil {
			return nil, err
		}
		if key.kind != ronString {
			r.pos = keyPos
			return nil, r.errorf("map keys must be strings")
		}
		if err := r.expect(':'); err != nil {
			return nil, err
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		node.fields = append(node.fields, ronField{key: key.text, value: v})
		if done, err := r.separator('}'); err != nil || done {
			return node, err
		}
	}
}

func (r *ronReader) number() (*ronNode, error) {
	start := r.pos
	if c := r.peek(); c == '-' || c == '+' {
		r.pos++
	}
	if strings.HasPrefix(r.src[r.pos:], "inf") || strings.HasPrefix(r.src[r.pos:], "NaN") {
		r.pos += 3
		return &ronNode{kind: ronFloat, text: r.src[start:r.pos]}, nil
	}

	kind := ronInt
	if r.peek() == '0' && strings.ContainsRune("xob", rune(r.peekAt(1))) {
		r.pos += 2
		for !r.eof() && (isHex(r.peek()) || r.peek() == '_') {
			r.pos++
		}
	} else {
	scan:
		for !r.eof() {
			c := r.peek()
			switch {
			case c >= '0' && c <= '9', c == '_':
			case c == '.':
				kind = ronFloat
			case c == 'e' || c == 'E':
				kind = ronFloat
				if n := r.peekAt(1); n == '-' || n == '+' {
					r.pos++
				}
			default:
				break scan
			}
			r.pos++
		}
	}
	text := r.src[start:r.pos]
	if text == "" || text == "-" || text == "+" || text == "." {
		r.pos = start
		return nil, r.errorf("invalid number")
	}
	return &ronNode{kind: kind, text: text}, nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (r *ronReader) char() (*ronNode, error) {
	r.pos++ // '
	var c rune
	if r.peek() == '\\' {
		escaped, err := r.escape()
		if err != nil {
			return nil, err
		}
		c = escaped
	} else {
		decoded, size := utf8.DecodeRuneInString(r.src[r.pos:])
		if decoded == utf8.RuneError && size <= 1 {
			return nil, r.errorf("invalid character literal")
		}
		c = decoded
		r.pos += size
	}
	if r.peek() != '\'' {
		return nil, r.errorf("unterminated character literal")
	}
	r.pos++
	return &ronNode{kind: ronChar, c: c}, nil
}

func (r *ronReader) quoted() (string, error) {
	r.pos++ // "
	var b strings.Builder
	for {
		if r.eof() {
			return "", r.errorf("unterminated string")
		}
		c := r.peek()
		switch c {
		case '"':
			r.pos++
			return b.String(), nil
		case '\\':
			if r.peekAt(1) == '\n' {
				r.pos += 2
				for !r.eof() && strings.IndexByte(" \t\r\n", r.peek()) >= 0 {
					r.pos++
				}
				continue
			}
			escaped, err := r.escape()
			if err != nil {
				return "", err
			}
			b.WriteRune(escaped)
		default:
			b.WriteByte(c)
			r.pos++
		}
	}
}

// escape reads a backslash escape sequence.
func (r *ronReader) escape() (rune, error) {
	r.pos++ // backslash
	c := r.peek()
	r.pos++
	switch c {
	case '\\', '"', '\'', '/':
		return rune(c), nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '0':
		return 0, nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'x':
		if r.pos+2 > len(r.src) {
			return 0, r.errorf("truncated escape")
		}
		n, err := strconv.ParseUint(r.src[r.pos:r.pos+2], 16, 8)
		if err != nil {
			return 0, r.errorf("invalid escape `\\x%s`", r.src[r.pos:r.pos+2])
		}
		r.pos += 2
		return rune(n), nil
	case 'u':
		var hex string
		if r.peek() == '{' {
			end := strings.IndexByte(r.src[r.pos:], '}')
			if end < 0 {
				return 0, r.errorf("unterminated unicode escape")
			}
			hex = r.src[r.pos+1 : r.pos+end]
			r.pos += end + 1
		} else {
			if r.pos+4 > len(r.src) {
				return 0, r.errorf("truncated escape")
			}
			hex = r.src[r.pos : r.pos+4]
			r.pos += 4
		}
		n, err := strconv.ParseUint(strings.ReplaceAll(hex, "_", ""), 16, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return 0, r.errorf("invalid unicode escape `%s`", hex)
		}
		return rune(n), nil
	default:
		r.pos--
		return 0, r.errorf("unknown escape `\\%c`", c)
	}
}

// rawString reads r"..." or r#"..."# with any number of hashes.
func (r *ronReader) rawString() (string, error) {
	r.pos++ // r
	hashes := 0
	for r.peek() == '#' {
		hashes++
		r.pos++
	}
	if r.peek() != '"' {
		return "", r.errorf("invalid raw string")
	}
	r.pos++
	terminator := "\"" + strings.Repeat("#", hashes)
	end := strings.Index(r.src[r.pos:], terminator)
	if end < 0 {
		return "", r.errorf("unterminated raw string")
	}
	s := r.src[r.pos : r.pos+end]
	r.pos += end + len(terminator)
	return s, nil
}
