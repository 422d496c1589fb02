package port

// SpaceProbe reports free space on the filesystem holding the output root.
// The scheduler uses it for an advisory preflight check against the
// manifest's declared sizes.
type SpaceProbe interface {
	// FreeSpace returns the bytes available for new destination writes
	FreeSpace() (uint64, error)
}
