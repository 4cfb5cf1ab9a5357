// Package perms holds the file and directory modes used when the gateway writes to disk.
package perms

import "os"

const (
	// RegularFile is used for files safe to share, such as log files (0644).
	RegularFile os.FileMode = 0o644

	// SecureFile is used for files that may carry upstream credentials, such as the configuration file (0600).
	SecureFile os.FileMode = 0o600
)

const (
	// RegularDir is used for directories holding shareable files (0755).
	RegularDir os.FileMode = 0o755

	// SecureDir is used for directories holding credentials (0700).
	SecureDir os.FileMode = 0o700
)
