package template

import (
	"fmt"
	"iter"
	"slices"
	"time"
)

const isoDate = "2006-01-02"

// DateRange is a Tool producing inclusive sequences of ISO-8601 dates.
// Templates call it as $dateRange.of("2020-01-01", "2020-01-31").
type DateRange struct{}

// Of returns the dates from start through end, one calendar day apart.
// Both bounds are parsed eagerly; an end before start yields an empty sequence.
func (DateRange) Of(start, end string) (DateSeq, error) {
	from, err := parseDate(start)
	if err != nil {
		return DateSeq{}, err
	}
	to, err := parseDate(end)
	if err != nil {
		return DateSeq{}, err
	}
	// The bound is exclusive, so end+1 day keeps end itself in the sequence.
	return DateSeq{from: from, until: to.AddDate(0, 0, 1)}, nil
}

// Invoke implements Tool.
func (d DateRange) Invoke(method string, args ...any) (any, error) {
	if method != "of" {
		return nil, fmt.Errorf("%w: dateRange.%s", ErrNoSuchMethod, method)
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("dateRange.of takes 2 arguments, got %d", len(args))
	}
	start, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("dateRange.of: start must be a string, got %T", args[0])
	}
	end, ok := args[1].(string)
	if !ok {
		return nil, fmt.Errorf("dateRange.of: end must be a string, got %T", args[1])
	}
	return d.Of(start, end)
}

func (DateRange) String() string { return "dateRange" }

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return time.Time{}, &DateParseError{Value: s, Err: err}
	}
	return t, nil
}

// DateSeq is a lazy, restartable sequence of ISO-8601 date strings.
type DateSeq struct {
	from  time.Time
	until time.Time
}

// All yields each date in ascending order. It can be ranged over repeatedly.
func (s DateSeq) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for cur := s.from; cur.Before(s.until); cur = cur.AddDate(0, 0, 1) {
			if !yield(cur.Format(isoDate)) {
				return
			}
		}
	}
}

// Len returns the number of dates in the sequence.
func (s DateSeq) Len() int {
	if !s.from.Before(s.until) {
		return 0
	}
	// Dates are parsed as UTC midnights, so every day is 86400 seconds.
	// time.Duration would overflow past ~292 years.
	return int((s.until.Unix() - s.from.Unix()) / 86400)
}

// Strings collects the sequence.
func (s DateSeq) Strings() []string {
	return slices.Collect(s.All())
}

func (s DateSeq) String() string {
	return FormatList(s.Strings())
}
