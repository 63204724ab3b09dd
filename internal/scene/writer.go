package scene

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Marshal renders cfg in the simulator's text config grammar.
func Marshal(cfg Config) string {
	var b strings.Builder
	_ = Write(&b, cfg)
	return b.String()
}

// Write renders cfg to w. Bodies come first, then joints, then actuators.
func Write(w io.Writer, cfg Config) error {
	bw := bufio.NewWriter(w)
	tw := &textWriter{w: bw}
	for _, body := range cfg.Bodies {
		tw.body(body)
	}
	for _, joint := range cfg.Joints {
		tw.joint(joint)
	}
	for _, actuator := range cfg.Actuators {
		tw.actuator(actuator)
	}
	if tw.err != nil {
		return tw.err
	}
	return bw.Flush()
}

type textWriter struct {
	w      *bufio.Writer
	indent int
	err    error
}

func (t *textWriter) line(format string, args ...any) {
	if t.err != nil {
		return
	}
	if _, err := t.w.WriteString(strings.Repeat("  ", t.indent)); err != nil {
		t.err = err
		return
	}
	if _, err := fmt.Fprintf(t.w, format, args...); err != nil {
		t.err = err
		return
	}
	t.err = t.w.WriteByte('\n')
}

func (t *textWriter) open(name string) {
	t.line("%s {", name)
	t.indent++
}

func (t *textWriter) close() {
	t.indent--
	t.line("}")
}

func (t *textWriter) body(b Body) {
	t.open("bodies")
	t.line("name: %s", quote(b.Name))
	for _, c := range b.Colliders {
		t.open("colliders")
		if !c.Rotation.isZero() {
			t.line("rotation %s", formatVec(c.Rotation))
		}
		t.open("capsule")
		t.line("radius: %s", FormatFloat(c.Capsule.Radius))
		t.line("length: %s", FormatFloat(c.Capsule.Length))
		if c.Capsule.End != 0 {
			t.line("end: %d", c.Capsule.End)
		}
		t.close()
		t.close()
	}
	t.line("inertia %s", formatVec(b.Inertia))
	t.line("mass: %s", FormatFloat(b.Mass))
	t.close()
}

func (t *textWriter) joint(j Joint) {
	t.open("joints")
	t.line("name: %s", quote(j.Name))
	t.line("parent_offset %s", formatVec(j.ParentOffset))
	t.line("child_offset %s", formatVec(j.ChildOffset))
	t.line("parent: %s", quote(j.Parent))
	t.line("child: %s", quote(j.Child))
	t.line("stiffness: %s", FormatFloat(j.Stiffness))
	t.line("angular_damping: %s", FormatFloat(j.AngularDamping))
	for _, limit := range j.AngleLimits {
		t.line("angle_limit { min: %s max: %s }", FormatFloat(limit.Min), FormatFloat(limit.Max))
	}
	t.line("rotation %s", formatVec(j.Rotation))
	t.line("reference_rotation %s", formatVec(j.ReferenceRotation))
	t.close()
}

func (t *textWriter) actuator(a Actuator) {
	t.open("actuators")
	t.line("name: %s", quote(a.Name))
	t.line("joint: %s", quote(a.Joint))
	t.line("strength: %s", FormatFloat(a.Strength))
	if a.Torque {
		t.line("torque { }")
	}
	t.close()
}

func (v Vec3) isZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func formatVec(v Vec3) string {
	parts := make([]string, 0, 3)
	if v.X != 0 {
		parts = append(parts, "x: "+FormatFloat(v.X))
	}
	if v.Y != 0 {
		parts = append(parts, "y: "+FormatFloat(v.Y))
	}
	if v.Z != 0 {
		parts = append(parts, "z: "+FormatFloat(v.Z))
	}
	if len(parts) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func quote(s string) string {
	return strconv.Quote(s)
}

// FormatFloat renders the shortest decimal that parses back to v. Integral
// values keep a trailing ".0"; magnitudes below 1e-4 or at/above 1e16 use
// exponent form.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
