package money

import "testing"

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want string
	}{
		{14, "₹14.00"},
		{12.5, "₹12.50"},
		{70.004, "₹70.00"},
		{70.005, "₹70.01"},
		{0, "₹0.00"},
	}
	for _, tc := range cases {
		if got := FormatPrice(tc.in); got != tc.want {
			t.Fatalf("FormatPrice(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestFormatMargin(t *testing.T) {
	t.Parallel()

	if got := FormatMargin(12.25); got != "12.3%" {
		t.Fatalf("FormatMargin(12.25) = %s", got)
	}
	if got := FormatMargin(8); got != "8.0%" {
		t.Fatalf("FormatMargin(8) = %s", got)
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	if got := FormatAmount(180); got != "₹180.00" {
		t.Fatalf("FormatAmount(180) = %s", got)
	}
}
