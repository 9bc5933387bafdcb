package codec

import "testing"

func TestTrimmedStringTrim(t *testing.T) {
	d := &Decoder{}
	got := d.TrimmedString([]byte("hello\x00\x00"), true, true)
	if got != "hello" || d.Err != nil {
		t.Fatalf("got %q, err %v", got, d.Err)
	}
}

func TestTrimmedStringCStringConvention(t *testing.T) {
	d := &Decoder{}
	got := d.TrimmedString([]byte("ustar\x0000"), false, false)
	if got != "ustar" || d.Err != nil {
		t.Fatalf("got %q, err %v", got, d.Err)
	}
}

func TestTrimmedStringRejectsInvalidUTF8(t *testing.T) {
	d := &Decoder{}
	d.TrimmedString([]byte{0xff, 0xfe}, true, true)
	if d.Err != ErrMalformed {
		t.Fatalf("err = %v, want ErrMalformed", d.Err)
	}
}

func TestOctalToIntASCII(t *testing.T) {
	d := &Decoder{}
	got := d.OctalToInt([]byte("0000644\x00"))
	if got != 0644 || d.Err != nil {
		t.Fatalf("got %d, err %v", got, d.Err)
	}
}

func TestOctalToIntRejectsGarbage(t *testing.T) {
	d := &Decoder{}
	d.OctalToInt([]byte("99999999"))
	if d.Err != ErrMalformed {
		t.Fatalf("err = %v, want ErrMalformed", d.Err)
	}
}

func TestOctalToIntGNUBase256(t *testing.T) {
	// 0x80 marks base-256 positive; remaining 7 bytes big-endian value 300.
	b := []byte{0x80, 0, 0, 0, 0, 0, 0x01, 0x2c}
	d := &Decoder{}
	got := d.OctalToInt(b)
	if got != 300 || d.Err != nil {
		t.Fatalf("got %d, err %v", got, d.Err)
	}
}

func TestOctalToIntGNUBase256Negative(t *testing.T) {
	// 0xC0 marks base-256 negative (top two bits set): -1.
	b := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	d := &Decoder{}
	got := d.OctalToInt(b)
	if got != -1 || d.Err != nil {
		t.Fatalf("got %d, err %v", got, d.Err)
	}
}

func TestIsAllZero(t *testing.T) {
	if !IsAllZero(make([]byte, 8)) {
		t.Fatal("expected all-zero")
	}
	if IsAllZero([]byte{0, 0, 1}) {
		t.Fatal("expected not all-zero")
	}
}
