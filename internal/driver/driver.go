// Package driver implements the toolchain override that routes compile and shared-link
// steps of the host pipeline through an external device-kernel compiler.
package driver

import (
	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/core/ports"
)

var _ ports.BuildHook = (*Driver)(nil)

// Driver is a ports.BuildHook bound to one toolchain override and host platform.
// It holds only immutable values and is safe for concurrent use.
type Driver struct {
	override domain.ToolchainOverride
	platform domain.Platform
}

// New creates a Driver for the given override on the given platform.
func New(override domain.ToolchainOverride, platform domain.Platform) *Driver {
	return &Driver{override: override, platform: platform}
}

// Override returns the toolchain override the driver was built with.
func (d *Driver) Override() domain.ToolchainOverride {
	return d.override
}

// SourceSuffixes adds the override's kernel suffixes to the host's native set.
func (d *Driver) SourceSuffixes(native domain.SuffixSet) domain.SuffixSet {
	return native.With(d.override.Suffixes.Slice()...)
}

// CompilerCommand routes every compile step through the override compiler, whatever
// the source suffix.
func (d *Driver) CompilerCommand(_ string, _ domain.CommandVector) domain.CommandVector {
	return d.override.CompilerInvocation()
}

// LinkerCommand routes every shared-library link through the override linker in
// shared-library mode.
func (d *Driver) LinkerCommand(_ string, _ domain.CommandVector) domain.CommandVector {
	return d.override.LinkerInvocation()
}

// PreSpawn removes every architecture flag pair from the override linker's shared-link
// invocation on platforms whose default tooling injects them. The override linker does
// not accept them. Any other command is returned unchanged.
func (d *Driver) PreSpawn(cmd domain.CommandVector) domain.CommandVector {
	if !d.platform.InjectsArchFlags() || !d.override.IsSharedLink(cmd) {
		return cmd
	}
	return cmd.StripFlagPairs(d.override.ArchFlag)
}
