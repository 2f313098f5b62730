package fsutil

// File and directory permission constants.
// These follow standard Unix permission conventions and are used consistently
// throughout the application.
const (
	// FileModeDefault is -rw-r--r--: default for regular files.
	FileModeDefault = 0o644
	// FileModeSecure is -rw-r-----: for sensitive files (owner read/write, group read).
	FileModeSecure = 0o640
	// DirModeDefault is drwxr-xr-x: default for directories.
	DirModeDefault = 0o755
	// DirModePrivate is drwx------: for private directories (owner only).
	DirModePrivate = 0o700
)
