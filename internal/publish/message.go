package publish

import (
	"strings"
	"time"
)

const (
	defaultMessagePrefixConstant  = "rebuilding site "
	messageWordSeparatorConstant  = " "
	defaultMessageTimestampLayout = "Mon Jan 2 15:04:05 MST 2006"
)

// Clock supplies the current time for default commit messages.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// BuildCommitMessage joins the provided words verbatim with single spaces.
// Only an empty word list falls back to a timestamped default such as
// "rebuilding site Mon Jan 1 00:00:00 UTC 2024".
func BuildCommitMessage(messageWords []string, clock Clock) string {
	if len(messageWords) > 0 {
		return strings.Join(messageWords, messageWordSeparatorConstant)
	}

	if clock == nil {
		clock = SystemClock{}
	}
	return defaultMessagePrefixConstant + clock.Now().Format(defaultMessageTimestampLayout)
}
