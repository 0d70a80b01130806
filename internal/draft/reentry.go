package draft

import "time"

// Decision is the outcome of the reentry policy for a reopened session.
type Decision int

const (
	// FreshStart silently discards any non-meaningful leftover draft and
	// begins with an empty record.
	FreshStart Decision = iota
	// AutoResume loads the draft silently; the user never left the working
	// session.
	AutoResume
	// PromptUser offers the choice between resuming the draft and starting
	// fresh.
	PromptUser
)

func (d Decision) String() string {
	switch d {
	case AutoResume:
		return "auto-resume"
	case PromptUser:
		return "prompt-user"
	default:
		return "fresh-start"
	}
}

// DefaultResumeThreshold separates "still the same working session" from "a
// new session that should ask before resuming".
const DefaultResumeThreshold = 30 * time.Second

// Elapsed computes the time since the last-opened marker. An absent marker
// means the session was never opened, which behaves as infinitely long ago.
func Elapsed(lastOpened time.Time, ok bool, now time.Time) time.Duration {
	if !ok {
		return time.Duration(1<<63 - 1)
	}
	return now.Sub(lastOpened)
}

// Decide is the reentry policy: a pure three-branch decision with no hidden
// state beyond the two timestamps its inputs derive from.
//
//	elapsed < threshold            -> AutoResume (if a draft exists at all)
//	elapsed >= threshold, meaningful draft -> PromptUser
//	otherwise                      -> FreshStart
func Decide(elapsed time.Duration, hasDraft, meaningful bool, threshold time.Duration) Decision {
	if !hasDraft {
		return FreshStart
	}
	if elapsed < threshold {
		return AutoResume
	}
	if meaningful {
		return PromptUser
	}
	return FreshStart
}
