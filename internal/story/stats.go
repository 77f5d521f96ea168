package story

import "fmt"

// Stats tallies filter outcomes for end-of-run reporting.
type Stats struct {
	Total         int
	Passed        int
	NSFW          int
	TooShort      int
	TooLong       int
	BannedKeyword int
	Removed       int
	Other         int
}

// Record tallies one verdict.
func (s *Stats) Record(v Verdict) {
	s.Total++

	if v.OK {
		s.Passed++
		return
	}

	switch v.Reason {
	case ReasonNSFW:
		s.NSFW++
	case ReasonTooShort:
		s.TooShort++
	case ReasonTooLong:
		s.TooLong++
	case ReasonBannedKeyword:
		s.BannedKeyword++
	case ReasonRemoved:
		s.Removed++
	default:
		s.Other++
	}
}

// Summary returns a multi-line account of the filter run.
func (s *Stats) Summary() string {
	if s.Total == 0 {
		return "No stories processed"
	}

	passRate := float64(s.Passed) / float64(s.Total) * 100
	return fmt.Sprintf(
		"Filter stats: %d/%d passed (%.1f%%)\n"+
			"  - NSFW rejected: %d\n"+
			"  - Too short: %d\n"+
			"  - Too long: %d\n"+
			"  - Banned keywords: %d\n"+
			"  - Removed/deleted: %d\n"+
			"  - Other: %d",
		s.Passed, s.Total, passRate,
		s.NSFW, s.TooShort, s.TooLong, s.BannedKeyword, s.Removed, s.Other)
}
