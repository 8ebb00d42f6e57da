package geosync

import "fmt"

// Mode selects first-run or steady-state reconciliation.
type Mode string

const (
	// ModeInit skips the purge step: on the very first run there are no
	// previously tagged rules to remove.
	ModeInit Mode = "init"

	// ModeUpdate purges all country-tagged rules before re-adding the
	// current download.
	ModeUpdate Mode = "update"
)

// ParseMode converts a command-line mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeInit, ModeUpdate:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (must be init or update)", s)
}

// Report summarizes one reconciliation run. Every recoverable error shows
// up in a count here; nothing is silently swallowed.
type Report struct {
	Mode           Mode `json:"mode"`
	Deleted        int  `json:"deleted"`
	StaticAdded    int  `json:"static_added"`
	Added          int  `json:"added"`
	SkippedLocal   int  `json:"skipped_local"`
	SkippedInvalid int  `json:"skipped_invalid"`
	FailedDeletes  int  `json:"failed_deletes"`
	FailedAdds     int  `json:"failed_adds"`
	FetchFailed    bool `json:"fetch_failed"`
}

func (r Report) String() string {
	s := fmt.Sprintf("mode=%s deleted=%d static_added=%d added=%d skipped_local=%d skipped_invalid=%d",
		r.Mode, r.Deleted, r.StaticAdded, r.Added, r.SkippedLocal, r.SkippedInvalid)
	if r.FailedDeletes > 0 || r.FailedAdds > 0 {
		s += fmt.Sprintf(" failed_deletes=%d failed_adds=%d", r.FailedDeletes, r.FailedAdds)
	}
	if r.FetchFailed {
		s += " fetch_failed=true"
	}
	return s
}
