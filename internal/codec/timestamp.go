package codec

import (
	"strconv"
	"strings"
	"time"
)

// SecondsToTimestamp converts a whole-seconds-since-epoch integer (v7/
// ustar/GNU numeric mtime field) into a time.Time.
func SecondsToTimestamp(seconds int64) time.Time {
	return time.Unix(seconds, 0)
}

// ParsePAXTime decodes a pax "<seconds>[.<fraction>]" timestamp string,
// as found in mtime/atime/ctime extended-header records. The fractional
// part may be any length; it is truncated or zero-padded to nanosecond
// precision.
func ParsePAXTime(s string) (time.Time, error) {
	const maxNanoSecondDigits = 9

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	secStr, nsStr, hasFrac := strings.Cut(s, ".")
	secs, err := strconv.ParseInt(secStr, 10, 64)
	if err != nil {
		return time.Time{}, ErrMalformed
	}

	var nsecs int64
	if hasFrac {
		if len(nsStr) > maxNanoSecondDigits {
			nsStr = nsStr[:maxNanoSecondDigits]
		} else {
			nsStr += strings.Repeat("0", maxNanoSecondDigits-len(nsStr))
		}
		nsecs, err = strconv.ParseInt(nsStr, 10, 64)
		if err != nil {
			return time.Time{}, ErrMalformed
		}
	}

	if neg {
		secs, nsecs = -secs, -nsecs
	}
	return time.Unix(secs, nsecs), nil
}
