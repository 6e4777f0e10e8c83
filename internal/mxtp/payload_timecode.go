package mxtp

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	timeCodeLongPattern  = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3}$`)
	timeCodeShortPattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
)

// DecodeTimeCode decodes a type-25 payload: an ASCII timecode string, either
// the full HH:MM:SS.mmm (12 bytes) or the short HH:MM:SS (8 bytes) form.
// Trailing padding bytes are trimmed before validation.
func DecodeTimeCode(payload []byte) (*TimeCode, error) {
	s := strings.TrimRight(string(payload), "\x00 ")
	if len(s) >= 12 {
		candidate := s[:12]
		if timeCodeLongPattern.MatchString(candidate) {
			return &TimeCode{Value: candidate}, nil
		}
	}
	if len(s) >= 8 {
		candidate := s[:8]
		if timeCodeShortPattern.MatchString(candidate) {
			return &TimeCode{Value: candidate}, nil
		}
	}
	return nil, &DecodeError{Field: "time_code", Err: fmt.Errorf("no valid HH:MM:SS[.mmm] pattern in %d-byte payload", len(payload))}
}

// EncodeTimeCode serializes tc as a type-25 payload, padding to 12 bytes
// with trailing zero bytes if the value is in the short form.
func EncodeTimeCode(tc *TimeCode) []byte {
	buf := make([]byte, 12)
	copy(buf, tc.Value)
	return buf
}
