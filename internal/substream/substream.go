// Package substream implements the two bounded-window readers a parsed
// tar entry's data is exposed through: a zero-copy seekable window over
// the parent stream, and an in-memory copy for non-seekable parents.
//
// Neither variant owns the parent stream; disposing of a substream must
// never close it.
package substream

import (
	"bytes"
	"errors"
	"io"
)

// ErrOutOfRange is returned when a seek would land outside [0, length].
var ErrOutOfRange = errors.New("tario: seek out of range")

// Seekable is a read-only window of length Len starting at absolute
// offset Start within parent. It borrows parent by reference and must
// reconcile the parent's position before every read, since the parent
// may have moved between calls (the archive iterator shares it).
type Seekable struct {
	parent   io.ReadSeeker
	start    int64
	length   int64
	pos      int64 // position within the window, [0, length]
	knownAbs int64 // last absolute position we left the parent at; -1 if unknown
}

// NewSeekable returns a window over parent spanning [start, start+length).
func NewSeekable(parent io.ReadSeeker, start, length int64) *Seekable {
	return &Seekable{parent: parent, start: start, length: length, knownAbs: -1}
}

func (s *Seekable) Len() int64 { return s.length }

func (s *Seekable) Read(p []byte) (int, error) {
	if s.pos >= s.length {
		return 0, io.EOF
	}
	if max := s.length - s.pos; int64(len(p)) > max {
		p = p[:max]
	}
	if err := s.reconcile(); err != nil {
		return 0, err
	}
	n, err := s.parent.Read(p)
	s.pos += int64(n)
	if s.knownAbs >= 0 {
		s.knownAbs += int64(n)
	}
	if err == nil && s.pos >= s.length {
		err = io.EOF
	}
	return n, err
}

// Seek repositions within the window. Only absolute positions in
// [0, length] are valid; anything else fails with ErrOutOfRange.
func (s *Seekable) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.pos + offset
	case io.SeekEnd:
		target = s.length + offset
	default:
		return 0, errors.New("tario: invalid seek whence")
	}
	if target < 0 || target > s.length {
		return 0, ErrOutOfRange
	}
	s.pos = target
	s.knownAbs = -1 // force reconcile before the next read
	return s.pos, nil
}

// reconcile moves the parent's cursor to exactly where this window's
// logical position says it should be, since another reader of the same
// parent (the header scanner advancing past this entry) may have moved
// it since our last read.
func (s *Seekable) reconcile() error {
	want := s.start + s.pos
	if s.knownAbs == want {
		return nil
	}
	abs, err := s.parent.Seek(want, io.SeekStart)
	if err != nil {
		return err
	}
	s.knownAbs = abs
	return nil
}

// InMemory is a fully-buffered copy of an entry's payload, used when the
// parent stream cannot seek. It implements the same io.ReadSeeker shape
// as Seekable so callers don't need to distinguish the two.
type InMemory struct {
	r *bytes.Reader
}

// NewInMemory copies exactly length bytes from r (which must already be
// positioned at the start of the payload) into memory.
func NewInMemory(r io.Reader, length int64) (*InMemory, error) {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return &InMemory{r: bytes.NewReader(buf)}, nil
}

// Len is the total (not remaining) length of the buffered payload.
func (m *InMemory) Len() int64 { return m.r.Size() }

func (m *InMemory) offset() int64 {
	off, _ := m.r.Seek(0, io.SeekCurrent)
	return off
}

func (m *InMemory) Read(p []byte) (int, error) { return m.r.Read(p) }

func (m *InMemory) Seek(offset int64, whence int) (int64, error) {
	target := offset
	switch whence {
	case io.SeekCurrent:
		target += m.offset()
	case io.SeekEnd:
		target += m.r.Size()
	case io.SeekStart:
		// target already absolute
	default:
		return 0, errors.New("tario: invalid seek whence")
	}
	if target < 0 || target > m.r.Size() {
		return 0, ErrOutOfRange
	}
	return m.r.Seek(target, io.SeekStart)
}
