package core

import "testing"

func TestMajorToMinor(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"0.005", 1, true}, // half away from zero
		{"0.004", 0, true},
		{"-0.005", -1, true},
		{"-12.34", -1234, true},
		{" 2.50 ", 250, true},
		{"₹1,200.75", 120075, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := MajorToMinor(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMinorMajorRoundTrip(t *testing.T) {
	for _, s := range []string{"0.00", "0.01", "0.99", "1.00", "150.00", "5000.01", "-42.10", "123456789.12"} {
		minor, err := MajorToMinor(s)
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if got := MinorToMajor(minor); got != s {
			t.Fatalf("round trip %q -> %d -> %q", s, minor, got)
		}
	}
	for _, minor := range []int64{0, 1, 99, 100, 12345, -5, 1 << 40} {
		back, err := MajorToMinor(MinorToMajor(minor))
		if err != nil || back != minor {
			t.Fatalf("round trip %d -> %d (err=%v)", minor, back, err)
		}
	}
}

func TestRoundDiv(t *testing.T) {
	cases := []struct{ num, den, want int64 }{
		{1, 2, 1},
		{-1, 2, -1},
		{1, 3, 0},
		{2, 3, 1},
		{10, 0, 0},
		{7, -2, -4},
		{30000 * 50, 100, 15000},
	}
	for _, tc := range cases {
		if got := RoundDiv(tc.num, tc.den); got != tc.want {
			t.Fatalf("RoundDiv(%d,%d)=%d want %d", tc.num, tc.den, got, tc.want)
		}
	}
	if Percent(5, 0) != 0 {
		t.Fatalf("percent of zero total must be 0")
	}
	if Percent(1, 3) != 33 || Percent(2, 3) != 67 {
		t.Fatalf("unexpected percent rounding")
	}
}

func TestFormatRupees(t *testing.T) {
	cases := map[int64]string{
		0:          "₹0.00",
		5:          "₹0.05",
		123456:     "₹1,234.56",
		-100000000: "-₹1,000,000.00",
	}
	for in, want := range cases {
		if got := FormatRupees(in); got != want {
			t.Fatalf("FormatRupees(%d)=%q want %q", in, got, want)
		}
	}
}
