package tario

import (
	"errors"

	"github.com/nimbletar/tario/internal/substream"
)

// Sentinel errors surfaced to callers. Wrapped with fmt.Errorf("...: %w",
// ...) at the call site where extra context helps; callers should still
// match with errors.Is.
var (
	// ErrUnexpectedEnd means the stream was shorter than a required
	// field. Fatal for the current entry; iteration stops.
	ErrUnexpectedEnd = errors.New("tario: unexpected end of archive")

	// ErrMalformed means a field failed to decode under its format's
	// rules (bad octal digits, bad pax record, wrong magic/version,
	// mismatched pax record length).
	ErrMalformed = errors.New("tario: malformed header")

	// ErrUnsupported means an explicitly rejected entry type (M/N/S/V)
	// was encountered.
	ErrUnsupported = errors.New("tario: unsupported entry type")

	// ErrChecksumMismatch means the header's stored checksum didn't
	// match the computed sum. Only returned when checksum verification
	// is enabled via Options.VerifyChecksum.
	ErrChecksumMismatch = errors.New("tario: header checksum mismatch")

	// ErrInvalidMode means Options.Mode was not Read.
	ErrInvalidMode = errors.New("tario: invalid archive mode")

	// ErrUseAfterFree means a method was called on an Archive after
	// Close.
	ErrUseAfterFree = errors.New("tario: archive used after close")

	// ErrOutOfRange means a substream seek landed outside its window.
	ErrOutOfRange = substream.ErrOutOfRange
)
