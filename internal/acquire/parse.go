package acquire

import (
	"bytes"
	"regexp"
	"strconv"
	"unicode/utf8"
)

var linePattern = regexp.MustCompile(`^Time:\s(\d+)\sms,\sAngle:\s([-\d.]+)`)

// ParseLine extracts the device timestamp in milliseconds and the angle in
// degrees. Invalid UTF-8, a non-matching prefix or an unparsable number all
// report ok == false.
func ParseLine(line []byte) (ms int64, angle float64, ok bool) {
	if !utf8.Valid(line) {
		return 0, 0, false
	}
	m := linePattern.FindSubmatch(bytes.TrimSpace(line))
	if m == nil {
		return 0, 0, false
	}
	ms, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	angle, err = strconv.ParseFloat(string(m[2]), 64)
	if err != nil {
		return 0, 0, false
	}
	return ms, angle, true
}
