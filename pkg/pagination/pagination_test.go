package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{10, 10},
		{MaxLimit, MaxLimit},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tc := range tests {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParamsNormalize(t *testing.T) {
	p := Params{Limit: -1, Offset: -3}.Normalize()
	if p.Limit != DefaultLimit {
		t.Fatalf("unexpected limit %d", p.Limit)
	}
	if p.Offset != 0 {
		t.Fatalf("unexpected offset %d", p.Offset)
	}
}
