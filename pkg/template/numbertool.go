package template

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Number values in templates are int when integral and float64 otherwise.
// Arguments may also be numeric strings, as request data usually is.

// toNumber reads v as a number. integral reports whether v had no fraction.
func toNumber(v any) (f float64, integral, ok bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true, true
	case int64:
		return float64(x), true, true
	case float64:
		return x, x == math.Trunc(x), true
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return float64(n), true, true
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, false, true
		}
	}
	return 0, false, false
}

// numberResult keeps integer arithmetic integral.
func numberResult(f float64, integral bool) any {
	if integral && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return f
}

// numbers reads every argument as a number. ok is false if any cannot be read.
func numbers(args []any) (vals []float64, integral, ok bool) {
	integral = true
	vals = make([]float64, len(args))
	for i, a := range args {
		f, whole, read := toNumber(a)
		if !read {
			return nil, false, false
		}
		vals[i], integral = f, integral && whole
	}
	return vals, integral, true
}

// MathTool does arithmetic for templates, e.g. $math.add(1, 2) or
// $math.roundTo(2, $price). Like Velocity's MathTool it returns null for
// arguments that are not numbers and for division by zero.
type MathTool struct{}

// Invoke implements Tool.
func (MathTool) Invoke(method string, args ...any) (any, error) {
	switch method {
	case "add", "sub", "mul", "div", "max", "min":
		if len(args) < 2 {
			return nil, fmt.Errorf("math.%s takes at least 2 arguments, got %d", method, len(args))
		}
		vals, integral, ok := numbers(args)
		if !ok {
			return nil, nil
		}
		acc := vals[0]
		for _, v := range vals[1:] {
			switch method {
			case "add":
				acc += v
			case "sub":
				acc -= v
			case "mul":
				acc *= v
			case "div":
				if v == 0 {
					return nil, nil
				}
				acc /= v
			case "max":
				acc = math.Max(acc, v)
			case "min":
				acc = math.Min(acc, v)
			}
		}
		return numberResult(acc, integral), nil
	case "mod", "pow", "random":
		if err := arity("math."+method, args, 2); err != nil {
			return nil, err
		}
		vals, integral, ok := numbers(args)
		if !ok {
			return nil, nil
		}
		a, b := vals[0], vals[1]
		switch method {
		case "mod":
			if int64(b) == 0 {
				return nil, nil
			}
			return int(int64(a) % int64(b)), nil
		case "pow":
			return numberResult(math.Pow(a, b), integral), nil
		default:
			lo, hi := int64(a), int64(b)
			if hi <= lo {
				return nil, nil
			}
			return int(lo + rand.Int64N(hi-lo)), nil
		}
	case "abs", "round", "ceil", "floor", "toNumber", "toInteger":
		if err := arity("math."+method, args, 1); err != nil {
			return nil, err
		}
		f, integral, ok := toNumber(args[0])
		if !ok {
			return nil, nil
		}
		switch method {
		case "abs":
			return numberResult(math.Abs(f), integral), nil
		case "round":
			return int(math.Floor(f + 0.5)), nil
		case "ceil":
			return int(math.Ceil(f)), nil
		case "floor":
			return int(math.Floor(f)), nil
		case "toInteger":
			return int(f), nil
		default:
			return numberResult(f, integral), nil
		}
	case "roundTo":
		if err := arity("math.roundTo", args, 2); err != nil {
			return nil, err
		}
		places, _, ok := toNumber(args[0])
		f, integral, ok2 := toNumber(args[1])
		if !ok || !ok2 {
			return nil, nil
		}
		scale := math.Pow(10, math.Max(0, places))
		return numberResult(math.Floor(f*scale+0.5)/scale, integral), nil
	}
	return nil, fmt.Errorf("%w: math.%s", ErrNoSuchMethod, method)
}

func (MathTool) String() string { return "math" }

// decimalFormat is the subset of java.text.DecimalFormat patterns that
// NumberTool understands: literal prefix and suffix, grouping, fraction
// digits and a % suffix.
type decimalFormat struct {
	prefix, suffix string
	grouping       bool
	minFrac        int
	maxFrac        int
	percent        bool
}

var numberStyles = map[string]decimalFormat{
	"number":   {grouping: true, maxFrac: 3},
	"integer":  {grouping: true},
	"currency": {prefix: "$", grouping: true, minFrac: 2, maxFrac: 2},
	"percent":  {suffix: "%", grouping: true, percent: true},
}

func parseDecimalFormat(pattern string) decimalFormat {
	if f, ok := numberStyles[pattern]; ok {
		return f
	}
	start := strings.IndexAny(pattern, "#0,.")
	if start < 0 {
		return decimalFormat{prefix: pattern, grouping: true, maxFrac: 3}
	}
	end := start
	for end < len(pattern) && strings.IndexByte("#0,.", pattern[end]) >= 0 {
		end++
	}
	f := decimalFormat{prefix: pattern[:start], suffix: pattern[end:]}
	body := pattern[start:end]
	if dot := strings.IndexByte(body, '.'); dot >= 0 {
		frac := body[dot+1:]
		f.minFrac = strings.Count(frac, "0")
		f.maxFrac = f.minFrac + strings.Count(frac, "#")
		body = body[:dot]
	}
	f.grouping = strings.Contains(body, ",")
	f.percent = strings.Contains(f.suffix, "%")
	return f
}

func (f decimalFormat) format(v float64) string {
	if f.percent {
		v *= 100
	}
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	digits := strconv.FormatFloat(v, 'f', f.maxFrac, 64)
	intPart, frac, _ := strings.Cut(digits, ".")
	for len(frac) > f.minFrac && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}
	if f.grouping {
		if n, err := strconv.ParseInt(intPart, 10, 64); err == nil {
			intPart = message.NewPrinter(language.English).Sprintf("%d", n)
		}
	}
	if frac != "" {
		intPart += "." + frac
	}
	return sign + f.prefix + intPart + f.suffix
}

// NumberTool formats numbers for templates:
//
//	$number.format("#,##0.00", $price)
//	$number.format("percent", 0.25)     also "number", "integer", "currency"
//	$number.currency($price)            shorthand for the named formats
//
// Patterns follow java.text.DecimalFormat in the en-US locale.
type NumberTool struct{}

// Format renders v with a named style or DecimalFormat pattern.
func (NumberTool) Format(pattern string, v float64) string {
	return parseDecimalFormat(pattern).format(v)
}

// Invoke implements Tool.
func (n NumberTool) Invoke(method string, args ...any) (any, error) {
	switch method {
	case "format":
		pattern := "number"
		switch len(args) {
		case 1:
		case 2:
			pattern, args = Stringify(args[0]), args[1:]
		default:
			return nil, fmt.Errorf("number.format takes 1 or 2 arguments, got %d", len(args))
		}
		f, _, ok := toNumber(args[0])
		if !ok {
			return nil, nil
		}
		return n.Format(pattern, f), nil
	case "number", "integer", "currency", "percent":
		if err := arity("number."+method, args, 1); err != nil {
			return nil, err
		}
		f, _, ok := toNumber(args[0])
		if !ok {
			return nil, nil
		}
		return n.Format(method, f), nil
	case "toNumber":
		if err := arity("number.toNumber", args, 1); err != nil {
			return nil, err
		}
		f, integral, ok := toNumber(args[0])
		if !ok {
			return nil, nil
		}
		return numberResult(f, integral), nil
	}
	return nil, fmt.Errorf("%w: number.%s", ErrNoSuchMethod, method)
}

func (NumberTool) String() string { return "number" }
