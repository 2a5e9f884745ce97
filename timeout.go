package grpc

import (
	"strconv"
	"time"
)

// maxTimeoutDigits bounds the decimal integer in the compact
// "<int><unit>" grpc-timeout grammar to 8 digits: the value must fit
// alongside its single-character unit suffix in the wire format's fixed
// budget for this header.
const maxTimeoutDigits = 99999999

// ceilDiv rounds d/r up to the nearest integer, so an encoded timeout
// never undershoots the deadline it was computed from.
func ceilDiv(d, r time.Duration) int64 {
	return int64((d + r - 1) / r)
}

// encodeGrpcTimeoutValue renders remaining using the compact timeout
// grammar: an integer of at most 8 digits followed by a unit in
// {n,u,m,S,M,H}, trying units from finest to coarsest and picking the
// finest one whose value still fits the bound.
// A non-positive remaining is already expired; it encodes as "0n".
func encodeGrpcTimeoutValue(remaining time.Duration) string {
	if remaining <= 0 {
		return "0n"
	}
	if v := ceilDiv(remaining, time.Nanosecond); v <= maxTimeoutDigits {
		return strconv.FormatInt(v, 10) + "n"
	}
	if v := ceilDiv(remaining, time.Microsecond); v <= maxTimeoutDigits {
		return strconv.FormatInt(v, 10) + "u"
	}
	if v := ceilDiv(remaining, time.Millisecond); v <= maxTimeoutDigits {
		return strconv.FormatInt(v, 10) + "m"
	}
	if v := ceilDiv(remaining, time.Second); v <= maxTimeoutDigits {
		return strconv.FormatInt(v, 10) + "S"
	}
	if v := ceilDiv(remaining, time.Minute); v <= maxTimeoutDigits {
		return strconv.FormatInt(v, 10) + "M"
	}
	return strconv.FormatInt(ceilDiv(remaining, time.Hour), 10) + "H"
}
