package domain

import "go.trai.ch/zerr"

var (
	// ErrToolchainNotFound is returned when an executable cannot be resolved on the search path.
	ErrToolchainNotFound = zerr.New("toolchain executable not found")

	// ErrMissingEnvironment is returned when a mandatory environment variable is unset or empty.
	ErrMissingEnvironment = zerr.New("missing required environment variable")

	// ErrStepFailed is returned when a compile or link process exits with a non-zero status.
	ErrStepFailed = zerr.New("build step failed")

	// ErrInvalidToolchain is returned when the toolchain override is incomplete.
	ErrInvalidToolchain = zerr.New("invalid toolchain override")

	// ErrInvalidTarget is returned when an extension target has no usable name.
	ErrInvalidTarget = zerr.New("invalid extension target")

	// ErrNoSources is returned when an extension target declares no source files.
	ErrNoSources = zerr.New("extension target has no sources")

	// ErrUnsupportedSource is returned when a source file has a suffix no compiler recognizes.
	ErrUnsupportedSource = zerr.New("unsupported source file type")

	// ErrDuplicateSource is returned when a source file is claimed by more than one target.
	ErrDuplicateSource = zerr.New("source file belongs to more than one target")

	// ErrObjectCollision is returned when two sources would compile to the same object file.
	ErrObjectCollision = zerr.New("object file collision")

	// ErrTargetNotFound is returned when a requested target is not declared.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrUnknownMode is returned when the requested build mode is not declared.
	ErrUnknownMode = zerr.New("unknown build mode")

	// ErrStepAlreadyExists is returned when a plan receives two steps with the same ID.
	ErrStepAlreadyExists = zerr.New("step already exists")

	// ErrMissingDependency is returned when a step depends on a step that is not in the plan.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the step graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no config file exists in the directory or its parents.
	ErrConfigNotFound = zerr.New("config file not found")

	// ErrUnsupportedVersion is returned when the config file declares an unknown schema version.
	ErrUnsupportedVersion = zerr.New("unsupported config version")

	// ErrEnvFileReadFailed is returned when a dotenv file cannot be read.
	ErrEnvFileReadFailed = zerr.New("failed to read env file")

	// ErrUnknownOutputMode is returned when the requested progress renderer does not exist.
	ErrUnknownOutputMode = zerr.New("unknown output mode")

	// ErrWatchFailed is returned when input files cannot be watched.
	ErrWatchFailed = zerr.New("failed to watch files")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrStoreReadFailed is returned when the step store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read step store")

	// ErrStoreWriteFailed is returned when the step store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write step store")

	// ErrFingerprintFailed is returned when a step fingerprint cannot be computed.
	ErrFingerprintFailed = zerr.New("failed to compute step fingerprint")
)
