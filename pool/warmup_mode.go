package pool

// WarmUpMode controls whether a Manager pre-instantiates pool members before
// first real demand.
type WarmUpMode uint8

const (
	// WarmUpDisabled performs no pre-instantiation. The manager reports
	// warmed-up from construction; WarmUpAll completes immediately without
	// constructing anything. This is the default.
	WarmUpDisabled WarmUpMode = iota

	// WarmUpEager pre-fills every registered pool to its initial size when
	// the host calls WarmUpAll. The manager reports warmed-up only after
	// the fill concludes, successfully or with recorded failures.
	WarmUpEager
)

// String returns the mode name (implements fmt.Stringer).
func (m WarmUpMode) String() string {
	switch m {
	case WarmUpDisabled:
		return "disabled"
	case WarmUpEager:
		return "eager"
	default:
		return "unknown"
	}
}

// IsValid reports whether the value is a recognized mode.
func (m WarmUpMode) IsValid() bool {
	return m == WarmUpDisabled || m == WarmUpEager
}
