package youtube

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var subscriberRe = regexp.MustCompile(`(?i)([\d.,]+)\s*([KMB]?)`)

// ParseSubscriberCount converts display text such as "1.5M subscribers" or
// "12,345" into an integer. Unparseable text yields 0; counts past the
// int64 range saturate at math.MaxInt64.
func ParseSubscriberCount(text string) int64 {
	m := subscriberRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	num := leadingFloat(strings.ReplaceAll(m[1], ",", ""))

	switch strings.ToUpper(m[2]) {
	case "K":
		num *= 1e3
	case "M":
		num *= 1e6
	case "B":
		num *= 1e9
	}
	if num >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(num))
}

// leadingFloat parses the longest numeric prefix of s ("1.2.3" -> 1.2).
func leadingFloat(s string) float64 {
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if c < '0' || c > '9' {
			break
		}
		end++
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return f
}
