package snapshotdb

// Option applies a configuration option to a Handle.
type Option func(*Handle)

// WithTempDir sets where snapshots are materialised. Defaults to os.TempDir.
func WithTempDir(dir string) Option {
	return func(h *Handle) {
		if dir != "" {
			h.tmpDir = dir
		}
	}
}
