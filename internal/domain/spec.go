package domain

// DownloadSpec describes one requested transfer. Specs are created when
// the manifest is loaded and are read-only from then on.
type DownloadSpec struct {
	// URL is the source locator.
	URL string

	// Destination is the resolved path the payload is written to. It is
	// unique within a run; the scheduler rejects task sets that reuse it.
	Destination string

	// ExpectedSize is the byte count declared by the manifest, or 0 when
	// the manifest does not declare one. Advisory only.
	ExpectedSize int64
}
