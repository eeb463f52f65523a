package engine

import "testing"

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Segment
		want bool
	}{
		{"identical", Segment{1, 4}, Segment{1, 4}, true},
		{"contained", Segment{1, 6}, Segment{2, 3}, true},
		{"partial", Segment{1, 3}, Segment{2, 5}, true},
		{"adjacent", Segment{1, 3}, Segment{3, 5}, false},
		{"disjoint", Segment{1, 2}, Segment{4, 6}, false},
		{"single hop shared", Segment{2, 3}, Segment{2, 3}, true},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Overlaps(%v, %v) = %v, want %v", tc.name, tc.a, tc.b, got, tc.want)
		}
		if got := Overlaps(tc.b, tc.a); got != tc.want {
			t.Errorf("%s: Overlaps not symmetric for %v, %v", tc.name, tc.a, tc.b)
		}
	}
}

func TestSegmentValid(t *testing.T) {
	if !(Segment{1, 2}).Valid() {
		t.Errorf("expected 1->2 to be valid")
	}
	if (Segment{3, 3}).Valid() {
		t.Errorf("expected equal orders to be invalid")
	}
	if (Segment{4, 2}).Valid() {
		t.Errorf("expected reversed orders to be invalid")
	}
}
