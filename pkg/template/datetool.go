package template

import (
	"fmt"
	"strings"
	"time"
)

// Named date formats accepted wherever a DateTool takes a format. Anything
// else is read as a java.text.SimpleDateFormat pattern.
var dateStyles = map[string]string{
	"default":  "Jan 2, 2006, 3:04:05 PM",
	"medium":   "Jan 2, 2006, 3:04:05 PM",
	"short":    "1/2/06, 3:04 PM",
	"long":     "January 2, 2006 at 3:04:05 PM MST",
	"full":     "Monday, January 2, 2006 at 3:04:05 PM MST",
	"iso":      "2006-01-02T15:04:05-0700",
	"iso_date": "2006-01-02",
	"iso_time": "15:04:05-0700",
	"intl":     "2006-01-02 15:04:05 MST",
}

// DateTool formats the current time and other dates for templates:
//
//	$date                                    now, default style
//	$date.get("yyyy-MM-dd")                  now, formatted
//	$date.format("EEE, d MMM", "2020-01-02") another date, formatted
//	$date.getYear()                          also getMonth (0-based) and getDay
//
// Methods return null for input they cannot read.
type DateTool struct {
	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

func (d DateTool) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Format renders t using a named style or a SimpleDateFormat pattern.
func (DateTool) Format(format string, t time.Time) string {
	return t.Format(dateLayout(format))
}

// Invoke implements Tool.
func (d DateTool) Invoke(method string, args ...any) (any, error) {
	switch method {
	case "get":
		if err := arity("date.get", args, 1); err != nil {
			return nil, err
		}
		return d.Format(Stringify(args[0]), d.now()), nil
	case "format":
		if err := arity("date.format", args, 2); err != nil {
			return nil, err
		}
		t, ok := toTime(args[1])
		if !ok {
			return nil, nil
		}
		return d.Format(Stringify(args[0]), t), nil
	case "toDate":
		if err := arity("date.toDate", args, 2); err != nil {
			return nil, err
		}
		t, err := time.Parse(dateLayout(Stringify(args[0])), Stringify(args[1]))
		if err != nil {
			return nil, nil
		}
		return t, nil
	case "getYear", "getMonth", "getDay":
		if len(args) > 1 {
			return nil, fmt.Errorf("date.%s takes at most 1 argument, got %d", method, len(args))
		}
		t := d.now()
		if len(args) == 1 {
			var ok bool
			if t, ok = toTime(args[0]); !ok {
				return nil, nil
			}
		}
		switch method {
		case "getYear":
			return t.Year(), nil
		case "getMonth":
			return int(t.Month()) - 1, nil
		default:
			return t.Day(), nil
		}
	}
	return nil, fmt.Errorf("%w: date.%s", ErrNoSuchMethod, method)
}

func (d DateTool) String() string {
	return d.Format("default", d.now())
}

// toTime accepts a time.Time or an ISO-8601 date or timestamp string.
func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", isoDate} {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// dateLayout converts a style name or SimpleDateFormat pattern into a Go
// time layout. Pattern letters without a Go equivalent are copied through.
func dateLayout(format string) string {
	if layout, ok := dateStyles[format]; ok {
		return layout
	}
	var b strings.Builder
	for i := 0; i < len(format); {
		c := format[i]
		if c == '\'' {
			end := strings.IndexByte(format[i+1:], '\'')
			switch {
			case end == 0:
				b.WriteByte('\'')
				i += 2
			case end < 0:
				b.WriteString(format[i+1:])
				i = len(format)
			default:
				b.WriteString(format[i+1 : i+1+end])
				i += end + 2
			}
			continue
		}
		if !isLetter(c) {
			b.WriteByte(c)
			i++
			continue
		}
		n := 1
		for i+n < len(format) && format[i+n] == c {
			n++
		}
		b.WriteString(layoutField(c, n))
		i += n
	}
	return b.String()
}

func layoutField(c byte, n int) string {
	pick := func(short, long string) string {
		if n == 1 {
			return short
		}
		return long
	}
	switch c {
	case 'y':
		if n == 2 {
			return "06"
		}
		return "2006"
	case 'M':
		switch {
		case n >= 4:
			return "January"
		case n == 3:
			return "Jan"
		}
		return pick("1", "01")
	case 'd':
		return pick("2", "02")
	case 'H':
		return "15"
	case 'h':
		return pick("3", "03")
	case 'm':
		return pick("4", "04")
	case 's':
		return pick("5", "05")
	case 'S':
		return strings.Repeat("0", n)
	case 'a':
		return "PM"
	case 'E':
		if n >= 4 {
			return "Monday"
		}
		return "Mon"
	case 'z':
		return "MST"
	case 'Z':
		return "-0700"
	case 'X':
		return "Z07:00"
	}
	return strings.Repeat(string(c), n)
}
