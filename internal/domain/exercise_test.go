package domain

import "testing"

func TestDurationFromSeconds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		total int
		want  Duration
	}{
		{0, Duration{}},
		{59, Duration{Seconds: 59}},
		{60, Duration{Minutes: 1}},
		{250, Duration{Minutes: 4, Seconds: 10}},
		{-5, Duration{}},
	}
	for _, tc := range cases {
		if got := DurationFromSeconds(tc.total); got != tc.want {
			t.Errorf("DurationFromSeconds(%d) = %+v, want %+v", tc.total, got, tc.want)
		}
	}
}

func TestDurationRoundTrip(t *testing.T) {
	t.Parallel()

	d := Duration{Minutes: 7, Seconds: 42}
	if got := DurationFromSeconds(d.TotalSeconds()); got != d {
		t.Errorf("round trip = %+v, want %+v", got, d)
	}
}

func TestStoredExerciseScope(t *testing.T) {
	t.Parallel()

	global := &StoredExercise{Name: "Push Ups"}
	if got := global.Scope(); got != GlobalScope() {
		t.Errorf("scope = %+v, want global", got)
	}

	owned := &StoredExercise{Name: "Push Ups", OwnerID: "user-1"}
	if got := owned.Scope(); got != UserScope("user-1") {
		t.Errorf("scope = %+v, want user-1 scope", got)
	}
}
