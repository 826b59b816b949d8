package status

// Flag is the state of one tracker entry.
type Flag uint8

const (
	// FlagUnknown is the initial state of every entry.
	FlagUnknown Flag = iota

	// FlagIgnored marks an entry the consumer has chosen to disregard.
	FlagIgnored

	// FlagSet marks a condition determined to exist.
	FlagSet

	// FlagCleared marks a condition determined not to exist.
	FlagCleared
)

// String returns a human-readable representation of the flag.
func (f Flag) String() string {
	switch f {
	case FlagUnknown:
		return "Unknown"
	case FlagIgnored:
		return "Ignored"
	case FlagSet:
		return "Set"
	case FlagCleared:
		return "Cleared"
	default:
		return "Invalid"
	}
}
