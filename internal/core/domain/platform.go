package domain

import (
	"runtime"
	"slices"
	"strings"
)

// ArchFlagsVar is the variable macOS build tooling reads to choose injected architectures.
const ArchFlagsVar = "ARCHFLAGS"

// Platform describes the host the build runs on and the flags its default tooling
// injects into every link command.
type Platform struct {
	OS            string
	LinkArchFlags []string
}

// HostPlatform describes the running host. On darwin the default tooling injects an
// architecture-selection pair into link commands, taken from ARCHFLAGS when set and
// otherwise built from archFlag and the host architecture. An empty archFlag means
// DefaultArchFlag.
func HostPlatform(env Env, archFlag string) Platform {
	return platformFor(runtime.GOOS, runtime.GOARCH, env, archFlag)
}

func platformFor(goos, goarch string, env Env, archFlag string) Platform {
	p := Platform{OS: goos}
	if goos != "darwin" {
		return p
	}
	if flags, ok := env.Lookup(ArchFlagsVar); ok && strings.TrimSpace(flags) != "" {
		p.LinkArchFlags = strings.Fields(flags)
		return p
	}
	if archFlag == "" {
		archFlag = DefaultArchFlag
	}
	p.LinkArchFlags = []string{archFlag, darwinArch(goarch)}
	return p
}

func darwinArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "i386"
	default:
		return goarch
	}
}

// InjectsArchFlags reports whether link commands on this platform carry injected
// architecture flags.
func (p Platform) InjectsArchFlags() bool {
	return len(p.LinkArchFlags) > 0
}

// ArchFlags returns a copy of the injected link flags.
func (p Platform) ArchFlags() []string {
	return slices.Clone(p.LinkArchFlags)
}
