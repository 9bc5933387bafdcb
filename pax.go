package tario

import (
	"strconv"
	"strings"
	"time"

	"github.com/nimbletar/tario/internal/codec"
)

func parsePAXTimeField(v string) (time.Time, error) { return codec.ParsePAXTime(v) }

// parsePAXRecords decodes the body of a pax 'x'/'g' entry: a sequence of
// "<LEN> <KEY>=<VALUE>\n" records, where LEN is the decimal length of the
// whole record including its own digits, the space, and the newline.
func parsePAXRecords(data []byte) (map[string]string, error) {
	records := make(map[string]string)
	s := string(data)
	for len(s) > 0 {
		key, value, rest, err := parsePAXRecord(s)
		if err != nil {
			return nil, ErrMalformed
		}
		records[key] = value
		s = rest
	}
	return records, nil
}

// parsePAXRecord splits the single leading record off s and returns its
// key, value, and the unconsumed remainder.
func parsePAXRecord(s string) (key, value, residual string, err error) {
	// s = "<LEN> <KEY>=<VALUE>\n<...more records...>"
	sp := strings.IndexByte(s, ' ')
	if sp < 0 {
		return "", "", "", ErrMalformed
	}
	length, err2 := strconv.ParseInt(s[:sp], 10, 64)
	if err2 != nil || length < 5 || length > int64(len(s)) {
		return "", "", "", ErrMalformed
	}

	record := s[:length]
	residual = s[length:]

	if record[length-1] != '\n' {
		return "", "", "", ErrMalformed
	}
	rest := record[sp+1 : length-1] // "<KEY>=<VALUE>"

	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return "", "", "", ErrMalformed
	}
	return rest[:eq], rest[eq+1:], residual, nil
}

// mergePAX applies paxRecords onto hdr following the precedence rules:
// an empty value keeps the original ustar value; SCHILY.xattr.* records
// are also copied, unprefixed, into their own SchilyXattrs map (they
// stay in the general attribute map too).
func mergePAX(hdr *parsedHeader, paxRecords map[string]string) error {
	for k, v := range paxRecords {
		if v == "" {
			continue
		}
		var err error
		switch k {
		case "path":
			hdr.Name = v
		case "linkpath":
			hdr.LinkName = v
		case "uname":
			hdr.Uname = v
		case "gname":
			hdr.Gname = v
		case "uid":
			var id int64
			id, err = strconv.ParseInt(v, 10, 64)
			hdr.UID = int(id)
		case "gid":
			var id int64
			id, err = strconv.ParseInt(v, 10, 64)
			hdr.GID = int(id)
		case "size":
			hdr.Size, err = strconv.ParseInt(v, 10, 64)
		case "atime":
			hdr.AccessTime, err = parsePAXTimeField(v)
			hdr.HasAccessTime = err == nil
		case "ctime":
			hdr.ChangeTime, err = parsePAXTimeField(v)
			hdr.HasChangeTime = err == nil
		case "mtime":
			hdr.ModTime, err = parsePAXTimeField(v)
		default:
			if strings.HasPrefix(k, schilyXattrPrefix) {
				if hdr.SchilyXattrs == nil {
					hdr.SchilyXattrs = make(map[string]string)
				}
				hdr.SchilyXattrs[k[len(schilyXattrPrefix):]] = v
			}
		}
		if err != nil {
			return ErrMalformed
		}
	}
	return nil
}

const schilyXattrPrefix = "SCHILY.xattr."

// pendingSizeOverride extracts the effective pax "size" record, if any,
// that applies to the next terminal entry — local (per-entry 'x')
// records take precedence over a persisted global ('g') one, matching
// the same precedence mergePAX applies to every other key. This has to
// be known before the header parser frames the entry's data section,
// since the pax size (not the header's own, possibly truncated or
// placeholder, numeric size field) is what actually governs how many
// bytes of body follow.
func pendingSizeOverride(globals, local map[string]string) (int64, bool, error) {
	v, ok := local["size"]
	if !ok {
		v, ok = globals["size"]
	}
	if !ok || v == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, ErrMalformed
	}
	return n, true, nil
}
