package calendar

import "errors"

// Error kinds returned by the calendar. Concrete errors wrap one of these;
// test with errors.Is.
var (
	ErrInvalidConfiguration = errors.New("invalid calendar configuration")
	ErrInvalidDate          = errors.New("invalid date")
	ErrFetch                = errors.New("calendar fetch failed")
	ErrFormat               = errors.New("invalid calendar format")
	ErrCacheIO              = errors.New("calendar cache i/o failed")
	ErrNoWorkingDayFound    = errors.New("no working day found within lookahead")
	ErrRunUnbounded         = errors.New("day run exceeds lookahead")
)
