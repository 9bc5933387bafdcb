package tario

import (
	"io"
	"time"

	"github.com/nimbletar/tario/internal/codec"
	"github.com/nimbletar/tario/internal/fingerprint"
	"github.com/nimbletar/tario/internal/rawblock"
	"github.com/nimbletar/tario/internal/substream"
)

// parsedHeader is the result of a single call to parseHeader: one raw
// 512-byte record's worth of decoded fields, before meta-entry fusion.
type parsedHeader struct {
	Typeflag Type
	Name     string
	LinkName string
	Size     int64
	Mode     int64
	UID      int
	GID      int
	ModTime  time.Time
	Checksum int64
	Format   Format

	Uname, Gname       string
	DevMajor, DevMinor int64
	AccessTime         time.Time
	ChangeTime         time.Time
	HasAccessTime      bool
	HasChangeTime      bool

	// PAXRecords is populated only when Typeflag is TypeXHeader or
	// TypeXGlobalHeader.
	PAXRecords map[string]string

	// SchilyXattrs is populated (on the terminal entry) by mergePAX from
	// any "SCHILY.xattr.<name>" records.
	SchilyXattrs map[string]string

	// LongPayload is populated only when Typeflag is TypeGNULongName or
	// TypeGNULongLink.
	LongPayload string

	// Data is populated for entries with a body (TypeNormal and
	// legacy-normalized old-normal/contiguous entries).
	Data io.ReadSeeker

	fingerprint fingerprint.Block
}

// parseHeader reads one raw block, classifies and decodes it, and
// consumes (and frames) whatever data section follows it.
//
// sizeOverride, when non-nil, is a pending pax "size" record from a
// preceding 'x'/'g' meta-entry; it governs data-section framing (and
// the returned Size) for the terminal, non-meta entry only — a meta
// entry's own size field always governs its own payload length.
//
// io.EOF signals a clean end of archive (an all-zero checksum field, or
// a short read at the very start of a would-be header). Any other error
// is fatal for the remainder of the archive.
func parseHeader(s *stream, currentFormat Format, verifyChecksum bool, sizeOverride *int64) (*parsedHeader, error) {
	var buf rawblock.Block
	if err := s.readBlock(buf[:]); err != nil {
		return nil, err // io.EOF or ErrUnexpectedEnd
	}

	v7 := buf.V7()
	if codec.IsAllZero(v7.Chksum()) {
		return nil, io.EOF
	}

	dec := &codec.Decoder{}
	name := dec.TrimmedString(v7.Name(), true, true)
	mode := dec.OctalToInt(v7.Mode())
	uid := dec.OctalToInt(v7.UID())
	gid := dec.OctalToInt(v7.GID())
	size := dec.OctalToInt(v7.Size())
	mtime := dec.OctalToInt(v7.ModTime())
	checksum := dec.OctalToInt(v7.Chksum())
	linkname := dec.TrimmedString(v7.LinkName(), true, true)
	typeflagByte := v7.TypeFlag()[0]

	typ := translateType(typeflagByte, name)
	if isRejected(typ) {
		return nil, ErrUnsupported
	}

	if sizeOverride != nil && !isMetaEntry(typ) {
		size = *sizeOverride
	}

	format := guessFormat(currentFormat, typ)

	magic := buf.Magic6()
	var uname, gname string
	var devmajor, devminor int64
	var accessTime, changeTime time.Time
	var hasAccess, hasChange bool

	switch {
	case codec.IsAllZero(magic):
		if currentFormat != FormatPAX && currentFormat != FormatGNU {
			format = FormatV7
		}

	case string(magic) == magicUSTAR:
		if string(buf.Version2()) != versionUSTAR {
			return nil, ErrMalformed
		}
		if format != FormatPAX && format != FormatGNU {
			format = FormatUSTAR
		}
		ustar := buf.USTAR()
		uname = dec.TrimmedString(ustar.UserName(), true, true)
		gname = dec.TrimmedString(ustar.GroupName(), true, true)
		if typ == TypeCharDevice || typ == TypeBlockDevice {
			devmajor = dec.OctalToInt(ustar.DevMajor())
			devminor = dec.OctalToInt(ustar.DevMinor())
		}
		prefix := dec.TrimmedString(ustar.Prefix(), true, true)
		if prefix != "" {
			name = prefix + "/" + name
		}

		// The byte-level parser above is more liberal than real ustar/pax
		// writers ever are: demote back to V7 if the block doesn't
		// actually hold up to the format's own rules. An archive already
		// promoted to pax or GNU keeps that format.
		switch {
		case currentFormat == FormatPAX || currentFormat == FormatGNU:
		case !isASCII(name) || !isASCII(uname) || !isASCII(gname) || !isASCII(linkname):
			format = FormatV7
		case !nulTerminated(v7.Mode()) || !nulTerminated(v7.UID()) || !nulTerminated(v7.GID()) ||
			!nulTerminated(v7.Size()) || !nulTerminated(v7.ModTime()) ||
			!nulTerminated(ustar.DevMajor()) || !nulTerminated(ustar.DevMinor()):
			format = FormatV7
		}

	case string(magic) == magicGNU:
		if string(buf.Version2()) != versionGNU {
			return nil, ErrMalformed
		}
		format = FormatGNU
		gnu := buf.GNU()
		uname = dec.TrimmedString(gnu.UserName(), true, true)
		gname = dec.TrimmedString(gnu.GroupName(), true, true)
		if typ == TypeCharDevice || typ == TypeBlockDevice {
			devmajor = dec.OctalToInt(gnu.DevMajor())
			devminor = dec.OctalToInt(gnu.DevMinor())
		}

		timeDec := &codec.Decoder{}
		if b := gnu.AccessTime(); b[0] != 0 {
			accessTime = codec.SecondsToTimestamp(timeDec.OctalToInt(b))
			hasAccess = true
		}
		if b := gnu.ChangeTime(); b[0] != 0 {
			changeTime = codec.SecondsToTimestamp(timeDec.OctalToInt(b))
			hasChange = true
		}
		if timeDec.Err != nil {
			// Pre-Go1.8 writers had a bug that mangled these two fields
			// into what is actually a ustar-style prefix; recover by
			// falling back to that interpretation when it looks sane.
			accessTime, changeTime = time.Time{}, time.Time{}
			hasAccess, hasChange = false, false
			if gp := dec.TrimmedString(buf.USTAR().Prefix(), true, true); isASCII(gp) && gp != "" {
				name = gp + "/" + name
			}
			if currentFormat != FormatPAX && currentFormat != FormatGNU {
				format = FormatV7
			}
		}

	default:
		if currentFormat != FormatPAX && currentFormat != FormatGNU {
			format = FormatV7
		}
	}

	if dec.Err != nil {
		return nil, ErrMalformed
	}

	if verifyChecksum {
		unsigned, signed := buf.ComputeChecksum()
		if checksum != unsigned && checksum != signed {
			return nil, ErrChecksumMismatch
		}
	}

	hdr := &parsedHeader{
		Typeflag:      typ,
		Name:          name,
		LinkName:      linkname,
		Size:          size,
		Mode:          mode,
		UID:           int(uid),
		GID:           int(gid),
		ModTime:       codec.SecondsToTimestamp(mtime),
		Checksum:      checksum,
		Format:        format,
		Uname:         uname,
		Gname:         gname,
		DevMajor:      devmajor,
		DevMinor:      devminor,
		AccessTime:    accessTime,
		ChangeTime:    changeTime,
		HasAccessTime: hasAccess,
		HasChangeTime: hasChange,
		fingerprint:   fingerprint.OfBlock(buf[:]),
	}

	if err := consumeDataSection(s, hdr); err != nil {
		return nil, err
	}
	return hdr, nil
}

// consumeDataSection depends on typeflag: it either parses the data
// section as pax attributes, stashes it as a pending GNU long name/
// link, materializes a data substream, or simply discards it — and, in
// every case, skips the trailing block-alignment padding.
func consumeDataSection(s *stream, hdr *parsedHeader) error {
	switch hdr.Typeflag {
	case TypeXHeader, TypeXGlobalHeader:
		payload, err := s.readExact(hdr.Size)
		if err != nil {
			return err
		}
		records, err := parsePAXRecords(payload)
		if err != nil {
			return err
		}
		hdr.PAXRecords = records
		return s.skip(rawblock.Padding(hdr.Size))

	case TypeGNULongName, TypeGNULongLink:
		payload, err := s.readExact(hdr.Size)
		if err != nil {
			return err
		}
		dec := &codec.Decoder{}
		hdr.LongPayload = dec.TrimmedString(payload, false, true)
		if dec.Err != nil {
			return ErrMalformed
		}
		return s.skip(rawblock.Padding(hdr.Size))

	default:
		if isHeaderOnly(hdr.Typeflag) {
			// Header-only types never get a Data stream; a nonzero
			// declared size from a nonconforming writer is skipped.
			if err := s.skip(hdr.Size); err != nil {
				return err
			}
			return s.skip(rawblock.Padding(hdr.Size))
		}
		if hdr.Size == 0 {
			return nil
		}
		if s.seekable != nil {
			hdr.Data = substream.NewSeekable(s.seekable, s.offset, hdr.Size)
			if err := s.skip(hdr.Size); err != nil {
				return err
			}
		} else {
			mem, err := substream.NewInMemory(s.r, hdr.Size)
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return ErrUnexpectedEnd
			}
			if err != nil {
				return err
			}
			s.offset += hdr.Size
			hdr.Data = mem
		}
		return s.skip(rawblock.Padding(hdr.Size))
	}
}

// translateType normalizes a raw typeflag byte into a Type, applying
// the legacy old-normal-with-trailing-slash promotion to Directory.
func translateType(raw byte, name string) Type {
	switch raw {
	case 0:
		if len(name) > 0 && name[len(name)-1] == '/' {
			return TypeDirectory
		}
		return TypeNormal
	case '0', '7':
		return TypeNormal
	case '1':
		return TypeHardLink
	case '2':
		return TypeSymlink
	case '3':
		return TypeCharDevice
	case '4':
		return TypeBlockDevice
	case '5':
		return TypeDirectory
	case '6':
		return TypeFifo
	case 'x':
		return TypeXHeader
	case 'g':
		return TypeXGlobalHeader
	case 'D':
		return TypeGNUDirectory
	case 'K':
		return TypeGNULongLink
	case 'L':
		return TypeGNULongName
	case 'M':
		return typeMultiVolume
	case 'N':
		return typeRenameOrSymlink
	case 'S':
		return typeGNUSparse
	case 'V':
		return typeTapeVolume
	default:
		// Unrecognized typeflag: treat as a regular file, matching the
		// liberal behavior tar readers have historically needed for
		// archives produced by unusual writers.
		return TypeNormal
	}
}
