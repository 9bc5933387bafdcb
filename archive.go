package tario

import (
	"io"
	"log"

	"github.com/nimbletar/tario/internal/fingerprint"
)

// Mode is the archive's access mode. Only Read is currently supported;
// writing/creation lives outside this decoder's scope entirely.
type Mode int

const (
	Read Mode = iota
)

// Options configures Open.
type Options struct {
	// Mode must be Read; any other value fails with ErrInvalidMode.
	Mode Mode

	// LeaveOpen, if true, means Close does not close the underlying
	// stream (the caller retains ownership).
	LeaveOpen bool

	// VerifyChecksum enables header checksum verification. Detection of
	// the all-zero end-of-archive marker happens unconditionally either
	// way.
	VerifyChecksum bool

	// WarnDuplicateHeader, if true, logs (via Logger, or the standard
	// logger if Logger is nil) when two consecutive headers fingerprint
	// identically — a common symptom of a mis-seeked stream.
	WarnDuplicateHeader bool

	// Logger receives diagnostic warnings when WarnDuplicateHeader is
	// set. Defaults to log.Default().
	Logger *log.Logger
}

// Archive owns an input stream and drives the tar format's lazy entry
// iteration. It is not safe for concurrent use: the format does not
// support reentrancy, since reading an entry's Data and calling Next
// share the same underlying stream position.
type Archive struct {
	closer  io.Closer // non-nil iff the underlying stream is an io.Closer
	stream  *stream
	opts    Options
	closed  bool
	format  Format // sticky archive format, promoted as entries are seen
	globals map[string]string

	lastFingerprint    fingerprint.Block
	haveLastFingerprint bool
}

// Open validates stream and options and returns a new Archive ready to
// iterate. The returned Archive takes ownership of stream unless
// opts.LeaveOpen is set.
func Open(r io.Reader, opts Options) (*Archive, error) {
	if opts.Mode != Read {
		return nil, ErrInvalidMode
	}
	a := &Archive{
		stream: newStream(r),
		opts:   opts,
		format: FormatUnknown,
	}
	if c, ok := r.(io.Closer); ok {
		a.closer = c
	}
	return a, nil
}

// Next advances past any previously-returned entry's data and returns
// the next logical entry, fusing any preceding pax/GNU meta-entries. It
// returns io.EOF when the archive's end-of-archive marker is reached.
func (a *Archive) Next() (*Entry, error) {
	if a.closed {
		return nil, ErrUseAfterFree
	}

	var pendingPAX map[string]string
	var pendingLongName, pendingLongLink string

	for {
		n, ok, err := pendingSizeOverride(a.globals, pendingPAX)
		if err != nil {
			return nil, err
		}
		var sizeOverride *int64
		if ok {
			sizeOverride = &n
		}

		hdr, err := parseHeader(a.stream, a.format, a.opts.VerifyChecksum, sizeOverride)
		if err != nil {
			return nil, err
		}
		a.format = hdr.Format
		a.checkDuplicate(hdr)

		switch hdr.Typeflag {
		case TypeXGlobalHeader:
			if a.globals == nil {
				a.globals = make(map[string]string)
			}
			for k, v := range hdr.PAXRecords {
				a.globals[k] = v
			}
			continue

		case TypeXHeader:
			pendingPAX = hdr.PAXRecords
			continue

		case TypeGNULongName:
			pendingLongName = hdr.LongPayload
			continue

		case TypeGNULongLink:
			pendingLongLink = hdr.LongPayload
			continue

		default:
			return a.finishEntry(hdr, pendingPAX, pendingLongName, pendingLongLink)
		}
	}
}

// finishEntry applies fused metadata (global+local pax records, GNU long
// name/link) onto the terminal real header and builds the Entry the
// caller sees.
func (a *Archive) finishEntry(hdr *parsedHeader, pax map[string]string, longName, longLink string) (*Entry, error) {
	merged := make(map[string]string, len(a.globals)+len(pax))
	for k, v := range a.globals {
		merged[k] = v
	}
	for k, v := range pax {
		merged[k] = v
	}

	if err := mergePAX(hdr, merged); err != nil {
		return nil, err
	}
	if longName != "" {
		hdr.Name = longName
	}
	if longLink != "" {
		hdr.LinkName = longLink
	}

	e := &Entry{
		Name:                hdr.Name,
		LinkName:            hdr.LinkName,
		Mode:                hdr.Mode,
		UID:                 hdr.UID,
		GID:                 hdr.GID,
		Size:                hdr.Size,
		ModTime:             hdr.ModTime,
		Checksum:            hdr.Checksum,
		Type:                hdr.Typeflag,
		Format:              hdr.Format,
		Uname:               hdr.Uname,
		Gname:               hdr.Gname,
		DevMajor:            hdr.DevMajor,
		DevMinor:            hdr.DevMinor,
		AccessTime:          hdr.AccessTime,
		ChangeTime:          hdr.ChangeTime,
		HasAccessTime:       hdr.HasAccessTime,
		HasChangeTime:       hdr.HasChangeTime,
		ExtendedAttributes:  merged,
		SchilyXattrs:        hdr.SchilyXattrs,
		Data:                hdr.Data,
	}
	return e, nil
}

// checkDuplicate implements the optional diagnostic from the fingerprint
// package: two back-to-back headers with an identical raw byte image
// usually mean the stream got re-seeked to the wrong place.
func (a *Archive) checkDuplicate(hdr *parsedHeader) {
	if !a.opts.WarnDuplicateHeader {
		return
	}
	if a.haveLastFingerprint && a.lastFingerprint == hdr.fingerprint {
		logger := a.opts.Logger
		if logger == nil {
			logger = log.Default()
		}
		logger.Printf("tario: repeated header block for %q; stream may be mis-seeked", hdr.Name)
	}
	a.lastFingerprint = hdr.fingerprint
	a.haveLastFingerprint = true
}

// Closed reports whether Close has already been called.
func (a *Archive) Closed() bool { return a.closed }

// Close releases the archive. If opts.LeaveOpen was set, the underlying
// stream is left open and ownership stays with the caller. Close is
// idempotent.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.opts.LeaveOpen || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
