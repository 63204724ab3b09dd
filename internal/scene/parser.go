package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse reads a scene in the text config grammar. The field separator colon
// before a nested message is optional, and fields may be split across lines
// freely.
func Parse(text string) (Config, error) {
	p := &parser{lex: &lexer{src: text, line: 1}}
	fields, err := p.fields(false)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	for _, f := range fields {
		switch f.name {
		case "bodies":
			body, err := decodeBody(f)
			if err != nil {
				return Config{}, err
			}
			cfg.Bodies = append(cfg.Bodies, body)
		case "joints":
			joint, err := decodeJoint(f)
			if err != nil {
				return Config{}, err
			}
			cfg.Joints = append(cfg.Joints, joint)
		case "actuators":
			actuator, err := decodeActuator(f)
			if err != nil {
				return Config{}, err
			}
			cfg.Actuators = append(cfg.Actuators, actuator)
		default:
			return Config{}, unknownField(f, "config")
		}
	}
	return cfg, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
}

type lexer struct {
	src  string
	pos  int
	line int
}

func (l *lexer) next() (token, error) {
	return l.scan()
}

func (l *lexer) scan() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch {
	case c == '{' || c == '}' || c == ':' || c == ';' || c == ',':
		l.pos++
		return token{kind: tokPunct, text: string(c), line: l.line}, nil
	case c == '"' || c == '\'':
		return l.scanString(c)
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		l.pos++
		if (c == '-' || c == '+') && l.pos < len(l.src) && isIdentStart(l.src[l.pos]) {
			for l.pos < len(l.src) && isIdentByte(l.src[l.pos]) {
				l.pos++
			}
			return token{kind: tokNumber, text: l.src[start:l.pos], line: l.line}, nil
		}
		for l.pos < len(l.src) && isNumberByte(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokNumber, text: l.src[start:l.pos], line: l.line}, nil
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentByte(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], line: l.line}, nil
	default:
		return token{}, fmt.Errorf("line %d: unexpected character %q", l.line, c)
	}
}

func (l *lexer) scanString(quoteChar byte) (token, error) {
	start := l.pos
	line := l.line
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '\n':
			return token{}, fmt.Errorf("line %d: newline in string literal", line)
		case quoteChar:
			l.pos++
			raw := l.src[start:l.pos]
			if quoteChar == '\'' {
				raw = `"` + strings.ReplaceAll(raw[1:len(raw)-1], `"`, `\"`) + `"`
			}
			value, err := strconv.Unquote(raw)
			if err != nil {
				return token{}, fmt.Errorf("line %d: invalid string literal %s: %w", line, raw, err)
			}
			return token{kind: tokString, text: value, line: line}, nil
		}
		l.pos++
	}
	return token{}, fmt.Errorf("line %d: unterminated string literal", line)
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isNumberByte(c byte) bool {
	return isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+'
}

// field is one parsed `name: value` or `name { ... }` entry.
type field struct {
	name   string
	line   int
	scalar *token
	nested []field
}

type parser struct {
	lex *lexer
}

func (p *parser) fields(inMessage bool) ([]field, error) {
	var out []field
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.kind == tokEOF:
			if inMessage {
				return nil, fmt.Errorf("line %d: unexpected end of input, missing }", tok.line)
			}
			return out, nil
		case tok.kind == tokPunct && tok.text == "}":
			if !inMessage {
				return nil, fmt.Errorf("line %d: unexpected }", tok.line)
			}
			return out, nil
		case tok.kind == tokPunct && (tok.text == ";" || tok.text == ","):
			continue
		case tok.kind != tokIdent:
			return nil, fmt.Errorf("line %d: expected field name, got %q", tok.line, tok.text)
		}

		f, err := p.value(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
}

func (p *parser) value(name token) (field, error) {
	f := field{name: name.text, line: name.line}
	tok, err := p.lex.next()
	if err != nil {
		return field{}, err
	}
	if tok.kind == tokPunct && tok.text == ":" {
		if tok, err = p.lex.next(); err != nil {
			return field{}, err
		}
	}
	switch {
	case tok.kind == tokPunct && tok.text == "{":
		nested, err := p.fields(true)
		if err != nil {
			return field{}, err
		}
		f.nested = nested
		if f.nested == nil {
			f.nested = []field{}
		}
		return f, nil
	case tok.kind == tokString || tok.kind == tokNumber || tok.kind == tokIdent:
		f.scalar = &tok
		return f, nil
	default:
		return field{}, fmt.Errorf("line %d: field %s: unexpected %q", tok.line, name.text, tok.text)
	}
}

func unknownField(f field, in string) error {
	return fmt.Errorf("line %d: unknown field %q in %s", f.line, f.name, in)
}

func (f field) message(in string) ([]field, error) {
	if f.nested == nil {
		return nil, fmt.Errorf("line %d: field %q in %s must be a message", f.line, f.name, in)
	}
	return f.nested, nil
}

func (f field) str(in string) (string, error) {
	if f.scalar == nil || f.scalar.kind != tokString {
		return "", fmt.Errorf("line %d: field %q in %s must be a string", f.line, f.name, in)
	}
	return f.scalar.text, nil
}

func (f field) float(in string) (float64, error) {
	if f.scalar == nil || f.scalar.kind == tokString {
		return 0, fmt.Errorf("line %d: field %q in %s must be a number", f.line, f.name, in)
	}
	switch strings.ToLower(f.scalar.text) {
	case "inf", "+inf", "infinity":
		return math.Inf(1), nil
	case "-inf", "-infinity":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(f.scalar.text, "f"), "F"), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: field %q in %s: %w", f.line, f.name, in, err)
	}
	return v, nil
}

func (f field) int(in string) (int, error) {
	if f.scalar == nil || f.scalar.kind != tokNumber {
		return 0, fmt.Errorf("line %d: field %q in %s must be an integer", f.line, f.name, in)
	}
	v, err := strconv.Atoi(f.scalar.text)
	if err != nil {
		return 0, fmt.Errorf("line %d: field %q in %s: %w", f.line, f.name, in, err)
	}
	return v, nil
}

func decodeVec(f field, in string) (Vec3, error) {
	nested, err := f.message(in)
	if err != nil {
		return Vec3{}, err
	}
	var v Vec3
	for _, c := range nested {
		value, err := c.float(f.name)
		if err != nil {
			return Vec3{}, err
		}
		switch c.name {
		case "x":
			v.X = value
		case "y":
			v.Y = value
		case "z":
			v.Z = value
		default:
			return Vec3{}, unknownField(c, f.name)
		}
	}
	return v, nil
}

func decodeBody(f field) (Body, error) {
	nested, err := f.message("config")
	if err != nil {
		return Body{}, err
	}
	var b Body
	for _, c := range nested {
		switch c.name {
		case "name":
			b.Name, err = c.str("bodies")
		case "colliders":
			var collider Collider
			collider, err = decodeCollider(c)
			b.Colliders = append(b.Colliders, collider)
		case "inertia":
			b.Inertia, err = decodeVec(c, "bodies")
		case "mass":
			b.Mass, err = c.float("bodies")
		default:
			err = unknownField(c, "bodies")
		}
		if err != nil {
			return Body{}, err
		}
	}
	return b, nil
}

func decodeCollider(f field) (Collider, error) {
	nested, err := f.message("bodies")
	if err != nil {
		return Collider{}, err
	}
	var c Collider
	for _, child := range nested {
		switch child.name {
		case "rotation":
			c.Rotation, err = decodeVec(child, "colliders")
		case "capsule":
			c.Capsule, err = decodeCapsule(child)
		default:
			err = unknownField(child, "colliders")
		}
		if err != nil {
			return Collider{}, err
		}
	}
	return c, nil
}

func decodeCapsule(f field) (Capsule, error) {
	nested, err := f.message("colliders")
	if err != nil {
		return Capsule{}, err
	}
	var c Capsule
	for _, child := range nested {
		switch child.name {
		case "radius":
			c.Radius, err = child.float("capsule")
		case "length":
			c.Length, err = child.float("capsule")
		case "end":
			c.End, err = child.int("capsule")
		default:
			err = unknownField(child, "capsule")
		}
		if err != nil {
			return Capsule{}, err
		}
	}
	return c, nil
}

func decodeJoint(f field) (Joint, error) {
	nested, err := f.message("config")
	if err != nil {
		return Joint{}, err
	}
	var j Joint
	for _, c := range nested {
		switch c.name {
		case "name":
			j.Name, err = c.str("joints")
		case "parent":
			j.Parent, err = c.str("joints")
		case "child":
			j.Child, err = c.str("joints")
		case "parent_offset":
			j.ParentOffset, err = decodeVec(c, "joints")
		case "child_offset":
			j.ChildOffset, err = decodeVec(c, "joints")
		case "stiffness":
			j.Stiffness, err = c.float("joints")
		case "angular_damping":
			j.AngularDamping, err = c.float("joints")
		case "angle_limit":
			var limit AngleLimit
			limit, err = decodeAngleLimit(c)
			j.AngleLimits = append(j.AngleLimits, limit)
		case "rotation":
			j.Rotation, err = decodeVec(c, "joints")
		case "reference_rotation":
			j.ReferenceRotation, err = decodeVec(c, "joints")
		default:
			err = unknownField(c, "joints")
		}
		if err != nil {
			return Joint{}, err
		}
	}
	return j, nil
}

func decodeAngleLimit(f field) (AngleLimit, error) {
	nested, err := f.message("joints")
	if err != nil {
		return AngleLimit{}, err
	}
	var limit AngleLimit
	for _, c := range nested {
		switch c.name {
		case "min":
			limit.Min, err = c.float("angle_limit")
		case "max":
			limit.Max, err = c.float("angle_limit")
		default:
			err = unknownField(c, "angle_limit")
		}
		if err != nil {
			return AngleLimit{}, err
		}
	}
	return limit, nil
}

func decodeActuator(f field) (Actuator, error) {
	nested, err := f.message("config")
	if err != nil {
		return Actuator{}, err
	}
	var a Actuator
	for _, c := range nested {
		switch c.name {
		case "name":
			a.Name, err = c.str("actuators")
		case "joint":
			a.Joint, err = c.str("actuators")
		case "strength":
			a.Strength, err = c.float("actuators")
		case "torque":
			_, err = c.message("actuators")
			a.Torque = err == nil
		default:
			err = unknownField(c, "actuators")
		}
		if err != nil {
			return Actuator{}, err
		}
	}
	return a, nil
}
