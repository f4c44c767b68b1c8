package currency

import "testing"

func TestConvert(t *testing.T) {
	table := DefaultTable()
	cases := []struct {
		amount float64
		code   string
		want   string
	}{
		{150, "USD", "$150"},
		{150, "INR", "₹12,975"},
		{150, "EUR", "€138"},
		{1300, "INR", "₹112,450"},
		{0, "USD", "$0"},
		{27, "GBP", "£21"},
	}
	for _, tc := range cases {
		if got := table.Convert(tc.amount, tc.code); got != tc.want {
			t.Errorf("Convert(%g, %s) = %s, want %s", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestConvertUnknownCodeFallsBackToUSD(t *testing.T) {
	table := DefaultTable()
	if got := table.Convert(99, "XYZ"); got != "$99" {
		t.Fatalf("expected USD identity formatting, got %s", got)
	}
	if got := table.Symbol("XYZ"); got != "$" {
		t.Fatalf("expected $ fallback symbol, got %s", got)
	}
}

func TestConvertLowercaseCode(t *testing.T) {
	table := DefaultTable()
	if got := table.Convert(100, "inr"); got != "₹8,650" {
		t.Fatalf("expected case-insensitive lookup, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultTable().Validate(); err != nil {
		t.Fatalf("default table must validate: %v", err)
	}
	bad := Table{"USD": {Symbol: "$", Rate: 0}}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero rate")
	}
	missing := Table{"EUR": {Rate: 0.9}}
	if err := missing.Validate(); err == nil {
		t.Fatal("expected error for missing symbol")
	}
}

func TestGroupThousands(t *testing.T) {
	cases := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		12975:   "12,975",
		1234567: "1,234,567",
		-4500:   "-4,500",
	}
	for in, want := range cases {
		if got := groupThousands(in); got != want {
			t.Errorf("groupThousands(%d) = %s, want %s", in, got, want)
		}
	}
}
