package http

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive range of status codes
type Range struct {
	Min int
	Max int
}

func (r Range) String() string {
	if r.Min == r.Max && r.Max == 0 {
		return ""
	}
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges is a set of ranges, a value is contained if any range contains it
type Ranges []Range

func (rr Ranges) Contains(v int) bool {
	for _, r := range rr {
		if r.Contains(v) {
			return true
		}
	}
	return false
}

// RangeFromString will return a range from a string like 500-599 or a single value like 404
func RangeFromString(in string) (ret Range, err error) {
	in = strings.TrimSpace(in)
	if !strings.Contains(in, "-") {
		ret.Min, err = strconv.Atoi(in)
		if err != nil {
			return ret, fmt.Errorf("unable to parse range: %w", err)
		}
		ret.Max = ret.Min
		return ret, nil
	}

	v := strings.SplitN(in, "-", 2)
	ret.Min, err = strconv.Atoi(v[0])
	if err != nil {
		return ret, fmt.Errorf("unable to parse range min: %w", err)
	}
	ret.Max, err = strconv.Atoi(v[1])
	if err != nil {
		return ret, fmt.Errorf("unable to parse range max: %w", err)
	}

	if ret.Min > ret.Max {
		return ret, fmt.Errorf("invalid range. min is not lower than max")
	}
	return ret, nil
}

// RangesFromString parses a comma separated list of ranges, e.g. "400-499,503"
func RangesFromString(in string) (ret Ranges, err error) {
	for _, v := range strings.Split(in, ",") {
		if strings.TrimSpace(v) == "" {
			continue
		}
		r, err := RangeFromString(v)
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, nil
}
