package rawblock

import "testing"

func TestPadding(t *testing.T) {
	cases := map[int64]int64{
		0:    0,
		1:    511,
		511:  1,
		512:  0,
		513:  511,
		1024: 0,
	}
	for offset, want := range cases {
		if got := Padding(offset); got != want {
			t.Errorf("Padding(%d) = %d, want %d", offset, got, want)
		}
	}
}

func TestV7FieldOffsets(t *testing.T) {
	var b Block
	copy(b.V7().Name(), "name")
	copy(b.V7().Mode(), "mode0000")
	copy(b.V7().LinkName(), "link")
	if string(b[0:4]) != "name" {
		t.Fatalf("Name() did not write at offset 0")
	}
	if string(b[100:108]) != "mode0000" {
		t.Fatalf("Mode() did not write at offset 100")
	}
	if string(b[157:161]) != "link" {
		t.Fatalf("LinkName() did not write at offset 157")
	}
}

func TestUSTARPrefixOffset(t *testing.T) {
	var b Block
	copy(b.USTAR().Prefix(), "prefix")
	if string(b[345:351]) != "prefix" {
		t.Fatalf("Prefix() did not write at offset 345")
	}
	if len(b.USTAR().Prefix()) != PrefixSize {
		t.Fatalf("Prefix() length = %d, want %d", len(b.USTAR().Prefix()), PrefixSize)
	}
}

func TestGNUSparseLayout(t *testing.T) {
	var b Block
	sp := b.GNU().Sparse()
	if sp.MaxEntries() != 4 {
		t.Fatalf("MaxEntries() = %d, want 4", sp.MaxEntries())
	}
	copy(sp.Entry(0).Offset(), "000000000001")
	copy(sp.IsExtended(), []byte{1})
	if b[386] != '0' {
		t.Fatalf("Entry(0) did not write at the start of the sparse map")
	}
	if b[386+96] != 1 {
		t.Fatalf("IsExtended byte not at offset 96 within the sparse map")
	}
}

func TestComputeChecksumTreatsFieldAsSpaces(t *testing.T) {
	var b Block
	copy(b.V7().Name(), "x")
	for i := 148; i < 156; i++ {
		b[i] = 0 // garbage in the checksum field itself
	}
	unsigned1, _ := b.ComputeChecksum()

	var b2 Block
	copy(b2.V7().Name(), "x")
	for i := 148; i < 156; i++ {
		b2[i] = ' '
	}
	unsigned2, _ := b2.ComputeChecksum()

	if unsigned1 != unsigned2 {
		t.Fatalf("checksum field contents affected the sum: %d vs %d", unsigned1, unsigned2)
	}
}
