package data

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"identical ranges", "2026-06-01", "2026-06-05", "2026-06-01", "2026-06-05", true},
		{"partial overlap", "2026-06-01", "2026-06-05", "2026-06-04", "2026-06-08", true},
		{"contained range", "2026-06-01", "2026-06-10", "2026-06-03", "2026-06-05", true},
		{"back to back, checkout equals checkin", "2026-06-01", "2026-06-05", "2026-06-05", "2026-06-09", false},
		{"disjoint", "2026-06-01", "2026-06-05", "2026-06-10", "2026-06-12", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := rangesOverlap(day(c.aStart), day(c.aEnd), day(c.bStart), day(c.bEnd))
			if got != c.want {
				t.Errorf("rangesOverlap(%s-%s, %s-%s) = %v, want %v", c.aStart, c.aEnd, c.bStart, c.bEnd, got, c.want)
			}
			// symmetry
			if rangesOverlap(day(c.bStart), day(c.bEnd), day(c.aStart), day(c.aEnd)) != got {
				t.Errorf("rangesOverlap is not symmetric for case %q", c.name)
			}
		})
	}
}

func TestStayDatesFromRequest(t *testing.T) {
	request := &BookingRequest{CheckIn: "2026-07-01", CheckOut: "2026-07-06"}
	checkIn, checkOut := stayDates(request, 5)
	if !checkIn.Equal(day("2026-07-01")) || !checkOut.Equal(day("2026-07-06")) {
		t.Errorf("got stay %v - %v, want requested dates back", checkIn, checkOut)
	}
}

func TestStayDatesFallback(t *testing.T) {
	request := &BookingRequest{CheckIn: "", CheckOut: ""}
	checkIn, checkOut := stayDates(request, 5)
	if !checkIn.After(time.Now()) {
		t.Errorf("fallback check-in %v should be in the future", checkIn)
	}
	if nights := int(checkOut.Sub(checkIn).Hours() / 24); nights != 5 {
		t.Errorf("fallback stay is %d nights, want 5", nights)
	}
}
