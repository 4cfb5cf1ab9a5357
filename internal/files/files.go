// Package files resolves and prepares the on-disk locations used by the gateway.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tisseltassel/tisseltassel/internal/perms"
)

// EnvVarXDGConfigHome is the XDG Base Directory env var name for config files.
const EnvVarXDGConfigHome = "XDG_CONFIG_HOME"

// AppDirName returns the directory name used beneath user-specific base directories.
func AppDirName() string {
	return "tisseltassel"
}

// EnsureAtLeastSecureDir creates path with perms.SecureDir when missing.
// An existing directory must already be at least as restrictive, it is never repaired.
func EnsureAtLeastSecureDir(path string) error {
	return ensureAtLeastDir(path, perms.SecureDir)
}

// UserSpecificConfigDir returns the per-user configuration directory.
// XDG_CONFIG_HOME is honoured when set, otherwise ~/.config/tisseltassel is used.
// See: https://specifications.freedesktop.org/basedir-spec/latest/
func UserSpecificConfigDir() (string, error) {
	return userSpecificDir(EnvVarXDGConfigHome, ".config")
}

// ensureAtLeastDir creates path with perm if needed and checks the final directory.
// Symlinks are rejected. Parent directories are not checked.
func ensureAtLeastDir(path string, perm os.FileMode) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("could not ensure directory exists for '%s': %w", path, err)
	}

	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("could not stat directory '%s': %w", path, err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return fmt.Errorf("path '%s' is a symlink, not a directory", path)
	case !info.IsDir():
		return fmt.Errorf("path '%s' is not a directory", path)
	case !isPermissionAcceptable(info.Mode().Perm(), perm):
		return fmt.Errorf(
			"incorrect permissions for directory '%s' (%#o, want %#o or more restrictive)",
			path,
			info.Mode().Perm(),
			perm,
		)
	}

	return nil
}

// isPermissionAcceptable reports whether actual grants nothing beyond required.
func isPermissionAcceptable(actual os.FileMode, required os.FileMode) bool {
	return actual&^required == 0
}

// userSpecificDir resolves envVar, which must be an XDG variable holding an absolute path,
// falling back to <home>/<dir>/AppDirName().
func userSpecificDir(envVar string, dir string) (string, error) {
	envVar = strings.TrimSpace(envVar)
	if !strings.HasPrefix(envVar, "XDG_") {
		return "", fmt.Errorf("environment variable '%s' does not follow XDG Base Directory Specification", envVar)
	}

	if v, ok := os.LookupEnv(envVar); ok && strings.TrimSpace(v) != "" {
		base := strings.TrimSpace(v)
		if !filepath.IsAbs(base) {
			return "", fmt.Errorf("environment variable '%s' must be an absolute path, got: %s", envVar, base)
		}
		return filepath.Join(base, AppDirName()), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, dir, AppDirName()), nil
}
