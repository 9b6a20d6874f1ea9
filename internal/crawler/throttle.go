package crawler

import "time"

const (
	// PenaltyEvery is how many processed listing pages trigger the extra delay.
	PenaltyEvery = 25

	// PenaltyDelay is added to the base delay on every PenaltyEvery-th page.
	PenaltyDelay = 3 * time.Second
)

// PageDelay returns the pause after a listing page. processed is the
// cumulative number of listing pages handled so far, not the page index.
func PageDelay(processed int, base time.Duration) time.Duration {
	if processed > 0 && processed%PenaltyEvery == 0 {
		return base + PenaltyDelay
	}
	return base
}
