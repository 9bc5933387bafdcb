package codec

import "testing"

func TestParsePAXTimeWholeSeconds(t *testing.T) {
	tm, err := ParsePAXTime("1700000000")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if tm.Unix() != 1700000000 || tm.Nanosecond() != 0 {
		t.Fatalf("got %v", tm)
	}
}

func TestParsePAXTimeFractional(t *testing.T) {
	tm, err := ParsePAXTime("1700000000.5")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if tm.Unix() != 1700000000 || tm.Nanosecond() != 500000000 {
		t.Fatalf("got sec=%d ns=%d", tm.Unix(), tm.Nanosecond())
	}
}

func TestParsePAXTimeNegative(t *testing.T) {
	tm, err := ParsePAXTime("-5.5")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	// time.Unix normalizes a negative nanosecond component by borrowing
	// from the seconds field, so -5s/-0.5s lands on sec=-6, ns=5e8.
	if tm.Unix() != -6 || tm.Nanosecond() != 500000000 {
		t.Fatalf("got sec=%d ns=%d", tm.Unix(), tm.Nanosecond())
	}
}

func TestParsePAXTimeMalformed(t *testing.T) {
	if _, err := ParsePAXTime("not-a-number"); err != ErrMalformed {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}
