package models

// Status is the lifecycle state of an hourly or big-catch entry.
// Entries move from empty through in_progress to a locked state; the
// offline_* variants mark entries captured while disconnected and
// reconciled later. They score identically to their locked_* twins,
// the distinction is audit-only.
type Status string

const (
	StatusEmpty        Status = "empty"
	StatusInProgress   Status = "in_progress"
	StatusLockedJudge  Status = "locked_judge"
	StatusLockedAdmin  Status = "locked_admin"
	StatusOfflineJudge Status = "offline_judge"
	StatusOfflineAdmin Status = "offline_admin"
	StatusError        Status = "error"
)

// Counted reports whether an entry with this status contributes to
// totals, points, and rank. Anything outside the four locked/offline
// statuses is excluded, including values we have never heard of.
func (s Status) Counted() bool {
	switch s {
	case StatusLockedJudge, StatusLockedAdmin, StatusOfflineJudge, StatusOfflineAdmin:
		return true
	case StatusEmpty, StatusInProgress, StatusError:
		return false
	default:
		// Unknown statuses fail toward exclusion, never toward
		// inventing totals.
		return false
	}
}

// Valid reports whether the status is one of the known enum values.
func (s Status) Valid() bool {
	switch s {
	case StatusEmpty, StatusInProgress, StatusLockedJudge, StatusLockedAdmin,
		StatusOfflineJudge, StatusOfflineAdmin, StatusError:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status. The second return
// value reports whether the value is a known enum member. Unknown
// values are passed through unchanged so they round-trip, but they are
// never counted.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	return s, s.Valid()
}

// Source identifies which kind of operator wrote an entry.
type Source string

const (
	SourceJudge Source = "Judge"
	SourceAdmin Source = "Admin"
)

// Valid reports whether the source is a known value.
func (s Source) Valid() bool {
	return s == SourceJudge || s == SourceAdmin
}

// CompetitorStatus is the registration state of a competitor.
// Competitors are never deleted during an active competition, only
// marked inactive.
type CompetitorStatus string

const (
	CompetitorActive   CompetitorStatus = "active"
	CompetitorInactive CompetitorStatus = "inactive"
)

// Valid reports whether the competitor status is a known value.
func (s CompetitorStatus) Valid() bool {
	return s == CompetitorActive || s == CompetitorInactive
}
