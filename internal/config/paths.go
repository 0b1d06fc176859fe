package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".dugout"

// Paths holds resolved filesystem paths for Dugout data.
type Paths struct {
	Base   string // ~/.dugout
	Config string // ~/.dugout/config.yaml
	Logs   string // ~/.dugout/logs
	Data   string // ~/.dugout/data
}

// LogFile is the default log destination for the dashboard.
func (p Paths) LogFile() string {
	return filepath.Join(p.Logs, "dugout.log")
}

// Database is the default SQLite file for `dugout serve`.
func (p Paths) Database() string {
	return filepath.Join(p.Data, "dugout.db")
}

// ResolvePaths computes all standard paths from the home directory.
// If DUGOUT_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("DUGOUT_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:   base,
		Config: filepath.Join(base, "config.yaml"),
		Logs:   filepath.Join(base, "logs"),
		Data:   filepath.Join(base, "data"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Logs, p.Data} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}
