package tario

import "fmt"

// octalField renders v as a zero-padded NUL-terminated octal string in a
// field of the given width, matching the common tar-writer convention.
func octalField(width int, v int64) []byte {
	b := make([]byte, width)
	s := fmt.Sprintf("%0*o", width-1, v)
	copy(b, s)
	b[width-1] = 0
	return b
}

func strField(width int, s string) []byte {
	b := make([]byte, width)
	copy(b, s)
	return b
}

// checksumField renders the 6-digit-octal + NUL + space checksum field.
func checksumField(sum int64) []byte {
	b := make([]byte, 8)
	s := fmt.Sprintf("%06o", sum)
	copy(b, s)
	b[6] = 0
	b[7] = ' '
	return b
}

// buildBlock assembles one 512-byte header record and fixes up its
// checksum. magic/version/uname/gname/devmajor/devminor/prefix are all
// optional (pass nil/zero to omit, producing a bare v7 header).
type blockSpec struct {
	name, linkname         string
	mode, uid, gid         int64
	size, mtime            int64
	typeflag               byte
	magic, version         string
	uname, gname           string
	devmajor, devminor     int64
	prefix                 string
	gnuAccessTime, gnuChangeTime int64
	hasGNUTimes            bool
}

func buildBlock(s blockSpec) []byte {
	b := make([]byte, 512)
	copy(b[0:100], strField(100, s.name))
	copy(b[100:108], octalField(8, s.mode))
	copy(b[108:116], octalField(8, s.uid))
	copy(b[116:124], octalField(8, s.gid))
	copy(b[124:136], octalField(12, s.size))
	copy(b[136:148], octalField(12, s.mtime))
	for i := 148; i < 156; i++ {
		b[i] = ' '
	}
	b[156] = s.typeflag
	copy(b[157:257], strField(100, s.linkname))

	if s.magic != "" {
		copy(b[257:263], s.magic)
		copy(b[263:265], s.version)
		copy(b[265:297], strField(32, s.uname))
		copy(b[297:329], strField(32, s.gname))
		copy(b[329:337], octalField(8, s.devmajor))
		copy(b[337:345], octalField(8, s.devminor))
		if s.magic == magicGNU {
			if s.hasGNUTimes {
				copy(b[345:357], octalField(12, s.gnuAccessTime))
				copy(b[357:369], octalField(12, s.gnuChangeTime))
			}
		} else {
			copy(b[345:500], strField(155, s.prefix))
		}
	}

	var sum int64
	for _, c := range b {
		sum += int64(c)
	}
	copy(b[148:156], checksumField(sum))
	return b
}

func pad512(n int) []byte {
	return make([]byte, (512-n%512)%512)
}

func paxRecord(key, value string) string {
	// find length L such that len(fmt.Sprintf("%d %s=%s\n", L, key, value)) == L
	body := fmt.Sprintf(" %s=%s\n", key, value)
	l := len(body) + 1
	for len(fmt.Sprintf("%d", l))+len(body) != l {
		l++
	}
	return fmt.Sprintf("%d%s", l, body)
}
