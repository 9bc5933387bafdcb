// Package rawblock defines the fixed-width field layout of the 512-byte
// tar header record, for every wire format this decoder recognizes.
//
// This is a close relative of the standard library's archive/tar
// "format.go": field offsets are expressed as accessor methods on a
// [Block] rather than scattered magic numbers, so the header parser
// never has to recompute an offset by hand.
package rawblock

// Size is the fixed width of every tar record: header blocks, data
// payloads, and padding are all measured in multiples of it.
const Size = 512

// NameSize and PrefixSize are the USTAR/PAX limits on the unsplit name
// field and the ustar path-prefix field, respectively.
const (
	NameSize   = 100
	PrefixSize = 155
)

// Padding returns the number of bytes needed to round offset up to the
// next multiple of Size, in the range [0, Size).
func Padding(offset int64) int64 {
	return -offset & (Size - 1)
}

// Block is one raw 512-byte tar record, reinterpreted through the
// accessors below according to the format the header parser has
// already determined.
type Block [Size]byte

var Zero Block

// V7 exposes the fields common to every format: present in v7 archives
// and as a prefix of every later format's header too.
func (b *Block) V7() *V7Fields { return (*V7Fields)(b) }

// USTAR exposes the ustar/pax tail: magic, version, uname/gname,
// devmajor/devminor, and the path prefix.
func (b *Block) USTAR() *USTARFields { return (*USTARFields)(b) }

// GNU exposes the GNU tail: magic, version, uname/gname, devmajor/
// devminor, atime/ctime, the sparse map, and the real (pre-sparse) size.
func (b *Block) GNU() *GNUFields { return (*GNUFields)(b) }

// Magic6 returns the raw 6-byte magic field shared by ustar/pax/GNU
// headers, at the position immediately after the v7 fields.
func (b *Block) Magic6() []byte { return b[257:][:6] }

// Version2 returns the raw 2-byte version field immediately after the
// magic field.
func (b *Block) Version2() []byte { return b[263:][:2] }

// V7Fields is the layout of a plain v7 header: the first 257 bytes,
// name through checksum, then the single typeflag byte and the 100-byte
// linkname.
type V7Fields [Size]byte

func (h *V7Fields) Name() []byte     { return h[0:][:100] }
func (h *V7Fields) Mode() []byte     { return h[100:][:8] }
func (h *V7Fields) UID() []byte      { return h[108:][:8] }
func (h *V7Fields) GID() []byte      { return h[116:][:8] }
func (h *V7Fields) Size() []byte     { return h[124:][:12] }
func (h *V7Fields) ModTime() []byte  { return h[136:][:12] }
func (h *V7Fields) Chksum() []byte   { return h[148:][:8] }
func (h *V7Fields) TypeFlag() []byte { return h[156:][:1] }
func (h *V7Fields) LinkName() []byte { return h[157:][:100] }

// USTARFields is the layout shared by ustar and pax headers, starting
// where the v7 fields leave off.
type USTARFields [Size]byte

func (h *USTARFields) V7() *V7Fields     { return (*V7Fields)(h) }
func (h *USTARFields) Magic() []byte     { return h[257:][:6] }
func (h *USTARFields) Version() []byte   { return h[263:][:2] }
func (h *USTARFields) UserName() []byte  { return h[265:][:32] }
func (h *USTARFields) GroupName() []byte { return h[297:][:32] }
func (h *USTARFields) DevMajor() []byte  { return h[329:][:8] }
func (h *USTARFields) DevMinor() []byte  { return h[337:][:8] }
func (h *USTARFields) Prefix() []byte    { return h[345:][:155] }

// GNUFields is the GNU-specific tail, starting where the v7 fields leave
// off: magic/version/uname/gname/devmajor/devminor occupy the same
// offsets as USTARFields, followed by atime, ctime, the old-style sparse
// map, and the pre-sparse real size.
type GNUFields [Size]byte

func (h *GNUFields) V7() *V7Fields      { return (*V7Fields)(h) }
func (h *GNUFields) Magic() []byte      { return h[257:][:6] }
func (h *GNUFields) Version() []byte    { return h[263:][:2] }
func (h *GNUFields) UserName() []byte   { return h[265:][:32] }
func (h *GNUFields) GroupName() []byte  { return h[297:][:32] }
func (h *GNUFields) DevMajor() []byte   { return h[329:][:8] }
func (h *GNUFields) DevMinor() []byte   { return h[337:][:8] }
func (h *GNUFields) AccessTime() []byte { return h[345:][:12] }
func (h *GNUFields) ChangeTime() []byte { return h[357:][:12] }
func (h *GNUFields) Offset() []byte     { return h[369:][:12] }
func (h *GNUFields) LongNames() []byte  { return h[381:][:4] }
// Sparse spans the 4-entry sparse map plus its trailing isExtended
// continuation byte (entries at [0:96], isExtended at [96:97]).
func (h *GNUFields) Sparse() SparseArray {
	return SparseArray(h[386:][:24*4+1])
}
func (h *GNUFields) RealSize() []byte { return h[483:][:12] }

// SparseArray is the 4-entry (offset, length) sparse map embedded in a
// GNU header, followed by the isExtended continuation flag.
type SparseArray []byte

func (s SparseArray) Entry(i int) SparseElem { return SparseElem(s[i*24:]) }
func (s SparseArray) IsExtended() []byte     { return s[24*s.MaxEntries():][:1] }
func (s SparseArray) MaxEntries() int        { return len(s) / 24 }

// SparseElem is one (offset, length) pair within a [SparseArray].
type SparseElem []byte

func (s SparseElem) Offset() []byte { return s[0:][:12] }
func (s SparseElem) Length() []byte { return s[12:][:12] }

// ComputeChecksum sums the unsigned byte values of the whole block,
// treating the checksum field itself as eight spaces, per the POSIX
// checksum algorithm. It also returns the signed-byte variant, since
// some tar writers (historically, Sun tar) computed it that way.
func (b *Block) ComputeChecksum() (unsigned, signed int64) {
	for i, c := range b {
		if 148 <= i && i < 156 {
			c = ' '
		}
		unsigned += int64(c)
		signed += int64(int8(c))
	}
	return unsigned, signed
}
