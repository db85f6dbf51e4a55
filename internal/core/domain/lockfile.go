package domain

// LockfileVersion is the current lockfile format version.
const LockfileVersion = 1

// Lockfile is a reproducible snapshot of the pins resolved for every matrix entry.
type Lockfile struct {
	// Version is the lockfile format version.
	Version int `json:"version"`

	// Channels are the channels the pins were resolved against, in priority order.
	Channels []string `json:"channels"`

	// Entries maps matrix entry names to their resolution.
	Entries map[string]Resolution `json:"entries"`
}

// NewLockfile returns an empty lockfile at the current format version.
func NewLockfile(channels []string) *Lockfile {
	return &Lockfile{
		Version:  LockfileVersion,
		Channels: channels,
		Entries:  make(map[string]Resolution),
	}
}
