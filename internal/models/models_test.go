package models

import "testing"

func TestStatusCounted(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusLockedJudge, true},
		{StatusLockedAdmin, true},
		{StatusOfflineJudge, true},
		{StatusOfflineAdmin, true},
		{StatusEmpty, false},
		{StatusInProgress, false},
		{StatusError, false},
		{Status("finalized"), false},
		{Status(""), false},
	}
	for _, tt := range tests {
		if got := tt.status.Counted(); got != tt.want {
			t.Errorf("Counted(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusEmpty, StatusInProgress, StatusLockedJudge,
		StatusLockedAdmin, StatusOfflineJudge, StatusOfflineAdmin, StatusError} {
		if !s.Valid() {
			t.Errorf("Valid(%q) = false, want true", s)
		}
	}
	if Status("finalized").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("locked_judge")
	if !ok || s != StatusLockedJudge {
		t.Errorf("ParseStatus(locked_judge) = (%q, %v)", s, ok)
	}

	// Unknown values round-trip but are flagged.
	s, ok = ParseStatus("finalized")
	if ok || s != Status("finalized") {
		t.Errorf("ParseStatus(finalized) = (%q, %v)", s, ok)
	}
}

func TestSourceValid(t *testing.T) {
	if !SourceJudge.Valid() || !SourceAdmin.Valid() {
		t.Error("known sources should be valid")
	}
	if Source("referee").Valid() {
		t.Error("unknown source should not be valid")
	}
}

func TestCompetitorStatusValid(t *testing.T) {
	if !CompetitorActive.Valid() || !CompetitorInactive.Valid() {
		t.Error("known competitor statuses should be valid")
	}
	if CompetitorStatus("deleted").Valid() {
		t.Error("unknown competitor status should not be valid")
	}
}

func TestBoxCode(t *testing.T) {
	tests := []struct {
		sector string
		box    int
		want   string
	}{
		{"A", 2, "A02"},
		{"B", 10, "B10"},
		{"F", 1, "F01"},
	}
	for _, tt := range tests {
		if got := BoxCode(tt.sector, tt.box); got != tt.want {
			t.Errorf("BoxCode(%q, %d) = %q, want %q", tt.sector, tt.box, got, tt.want)
		}
	}

	c := Competitor{Sector: "C", BoxNumber: 7}
	if c.BoxCode() != "C07" {
		t.Errorf("Competitor.BoxCode() = %q, want C07", c.BoxCode())
	}
}

func TestEntryIDs(t *testing.T) {
	if got := HourlyEntryID("A", 3, "c1"); got != "A-3-c1" {
		t.Errorf("HourlyEntryID = %q, want A-3-c1", got)
	}
	if got := BigCatchEntryID("B", "c2"); got != "B-c2" {
		t.Errorf("BigCatchEntryID = %q, want B-c2", got)
	}
}
