package tario

import "io"

// stream wraps the caller's input and tracks how many bytes have been
// consumed from it, so the header parser always knows the absolute
// offset of the block it just read (needed to build a Seekable
// substream without disturbing the shared read position).
type stream struct {
	r        io.Reader
	seekable io.ReadSeeker // non-nil iff r also implements io.Seeker
	offset   int64
}

func newStream(r io.Reader) *stream {
	s := &stream{r: r}
	if rs, ok := r.(io.ReadSeeker); ok {
		s.seekable = rs
	}
	return s
}

// reconcile re-anchors a seekable parent to s.offset before any read or
// skip. A Seekable substream handed out for a previous entry's data
// borrows the same parent and repositions it (see substream.Seekable.
// reconcile) whenever the caller reads that data, so the parent's
// cursor can no longer be assumed to sit at s.offset just because this
// stream last left it there. A no-op when the parent isn't seekable.
func (s *stream) reconcile() error {
	if s.seekable == nil {
		return nil
	}
	_, err := s.seekable.Seek(s.offset, io.SeekStart)
	return err
}

// readBlock reads exactly one 512-byte record. A short read at the very
// start of a block (n == 0, err == io.EOF) is a clean end-of-archive;
// any other short read is ErrUnexpectedEnd.
func (s *stream) readBlock(buf []byte) error {
	if err := s.reconcile(); err != nil {
		return err
	}
	n, err := io.ReadFull(s.r, buf)
	s.offset += int64(n)
	if err == io.EOF && n == 0 {
		return io.EOF
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrUnexpectedEnd
	}
	return err
}

// readExact reads exactly n bytes (a pax/GNU meta-entry payload).
func (s *stream) readExact(n int64) ([]byte, error) {
	if err := s.reconcile(); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	nn, err := io.ReadFull(s.r, buf)
	s.offset += int64(nn)
	if err != nil {
		return nil, ErrUnexpectedEnd
	}
	return buf, nil
}

// skip discards n bytes of padding, seeking when possible.
func (s *stream) skip(n int64) error {
	if n <= 0 {
		return nil
	}
	if s.seekable != nil {
		if err := s.reconcile(); err != nil {
			return err
		}
		if _, err := s.seekable.Seek(n, io.SeekCurrent); err != nil {
			return err
		}
		s.offset += n
		return nil
	}
	nn, err := io.CopyN(io.Discard, s.r, n)
	s.offset += nn
	if err != nil {
		return ErrUnexpectedEnd
	}
	return nil
}
