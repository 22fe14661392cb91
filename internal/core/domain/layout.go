package domain

import "path/filepath"

const (
	// CubuildDirName is the name of the internal project directory.
	CubuildDirName = ".cubuild"

	// StepsDirName is the name of the step record directory.
	StepsDirName = "steps"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "cubuild.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the default path for step records.
// It joins .cubuild and steps.
func DefaultStorePath() string {
	return filepath.Join(CubuildDirName, StepsDirName)
}
