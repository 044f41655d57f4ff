package pricing

import "testing"

func TestQuoteFixedFeePolicy(t *testing.T) {
	cases := []struct {
		price  int
		nights int
	}{
		{50, 1},
		{100, 3},
		{210, 14},
	}

	for _, c := range cases {
		checkIn := "2024-06-01"
		checkOut := map[int]string{1: "2024-06-02", 3: "2024-06-04", 14: "2024-06-15"}[c.nights]

		quote := Calculate(c.price, checkIn, checkOut)
		if quote.Nights != c.nights {
			t.Fatalf("price %d: got %d nights, want %d", c.price, quote.Nights, c.nights)
		}
		want := c.price*c.nights + CleaningFee + ServiceFee
		if quote.Total != want {
			t.Fatalf("price %d x %d nights: got total %d, want %d", c.price, c.nights, quote.Total, want)
		}
	}
}

func TestQuoteMissingDatesFallBackDeterministically(t *testing.T) {
	first := Calculate(80, "", "")
	second := Calculate(80, "", "")

	if first != second {
		t.Fatalf("no-date quotes differ: %+v vs %+v", first, second)
	}
	if first.Nights != DefaultNights {
		t.Fatalf("got %d nights, want the %d-night default", first.Nights, DefaultNights)
	}
	if first.Subtotal != 80*DefaultNights {
		t.Fatalf("got subtotal %d, want %d", first.Subtotal, 80*DefaultNights)
	}
}

func TestQuoteInvalidDatesFallBack(t *testing.T) {
	quote := Calculate(80, "soon", "later")
	if quote.Nights != DefaultNights {
		t.Fatalf("got %d nights, want %d", quote.Nights, DefaultNights)
	}
}

func TestQuoteZeroNightsTolerated(t *testing.T) {
	quote := Calculate(100, "2024-06-01", "2024-06-01")
	if quote.Nights != 0 {
		t.Fatalf("got %d nights, want 0", quote.Nights)
	}
	if quote.Total != CleaningFee+ServiceFee {
		t.Fatalf("got total %d, want fees only %d", quote.Total, CleaningFee+ServiceFee)
	}
}

func TestQuoteKnownBreakdown(t *testing.T) {
	quote := Calculate(100, "2024-06-01", "2024-06-06")

	if quote.Nights != 5 {
		t.Fatalf("got %d nights, want 5", quote.Nights)
	}
	if quote.Subtotal != 500 {
		t.Fatalf("got subtotal %d, want 500", quote.Subtotal)
	}
	if quote.CleaningFee != 25 || quote.ServiceFee != 35 {
		t.Fatalf("got fees %d/%d, want 25/35", quote.CleaningFee, quote.ServiceFee)
	}
	if quote.Total != 560 {
		t.Fatalf("got total %d, want 560", quote.Total)
	}
}
