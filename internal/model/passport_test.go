package model

import "testing"

func TestCanTransitionForwardFlow(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusFailed, StatusProcessing, true},    // retry
		{StatusCompleted, StatusProcessing, true}, // regenerate
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusCompleted, false},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusPending, StatusPending, false},
		{"bogus", StatusProcessing, false},
		{StatusPending, "bogus", false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.ok {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusProcessing, StatusCompleted, StatusFailed} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "done", "PENDING"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}

func TestValidGender(t *testing.T) {
	for _, g := range []string{GenderMale, GenderFemale, GenderOther} {
		if !ValidGender(g) {
			t.Errorf("ValidGender(%q) = false, want true", g)
		}
	}
	if ValidGender("unknown") {
		t.Error("ValidGender(\"unknown\") = true, want false")
	}
}

func TestMeasurementsEmpty(t *testing.T) {
	var m Measurements
	if !m.Empty() {
		t.Error("zero Measurements should be empty")
	}
	v := uint16(92)
	m.ChestCm = &v
	if m.Empty() {
		t.Error("Measurements with a chest value should not be empty")
	}
}
