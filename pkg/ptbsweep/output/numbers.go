package output

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/plan"
)

// FloatStyle selects how argument values are written as text.
type FloatStyle string

const (
	// StyleGo writes the shortest representation that round-trips, as
	// strconv does with 'g'. Negative zero is written as 0.
	StyleGo FloatStyle = "go"

	// StylePython follows Python's float repr: integral values keep a
	// trailing ".0", scientific notation is used below 1e-4 and from 1e16,
	// and negative zero stays "-0.0".
	StylePython FloatStyle = "python"
)

// FloatStyles lists the supported styles.
var FloatStyles = []FloatStyle{StyleGo, StylePython}

// ParseFloatStyle parses a style name. The empty string selects StyleGo.
func ParseFloatStyle(s string) (FloatStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(StyleGo):
		return StyleGo, nil
	case string(StylePython), "py":
		return StylePython, nil
	default:
		return "", fmt.Errorf("unknown float style %q: must be one of %v", s, FloatStyles)
	}
}

// FormatFloat writes v in the given style.
func FormatFloat(v float64, style FloatStyle) string {
	if style == StylePython {
		return formatPython(v)
	}
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatField writes one positional argument. Integer fields are written
// without a fractional part in every style.
func FormatField(f plan.Field, style FloatStyle) string {
	if f.Integer {
		return strconv.FormatInt(int64(f.Value), 10)
	}
	return FormatFloat(f.Value, style)
}

// FormatArgs writes all positional arguments of a run.
func FormatArgs(r plan.Run, style FloatStyle) []string {
	fields := r.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = FormatField(f, style)
	}
	return out
}

// FormatList writes values as a bracketed, comma separated list.
func FormatList(values []float64, style FloatStyle) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatFloat(v, style)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatPython(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0 && math.Signbit(v):
		return "-0.0"
	case v == 0:
		return "0.0"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
