// Package detector selects how build progress is rendered.
package detector

import (
	"os"

	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for build progress.
type OutputMode int

const (
	// ModeAuto picks a renderer from the terminal and environment.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive progress view.
	ModeTUI
	// ModeLinear forces line-by-line output suitable for logs and CI.
	ModeLinear
)

// ciVariables are set by common CI services. Any non-empty value counts.
var ciVariables = []string{"GITHUB_ACTIONS", "GITLAB_CI", "BUILDKITE", "JENKINS_URL", "TEAMCITY_VERSION"}

// Probe is what detection looks at.
type Probe struct {
	// Terminal reports whether progress is written to a terminal.
	Terminal bool
	// Getenv reads the environment.
	Getenv func(string) string
}

// Detect returns ModeTUI only for a capable terminal outside CI.
func Detect(p Probe) OutputMode {
	if !p.Terminal || p.Getenv("TERM") == "dumb" {
		return ModeLinear
	}
	if ci := p.Getenv("CI"); ci == "true" || ci == "1" {
		return ModeLinear
	}
	for _, name := range ciVariables {
		if p.Getenv(name) != "" {
			return ModeLinear
		}
	}
	return ModeTUI
}

// DetectEnvironment probes stderr, where progress is drawn, and the process environment.
func DetectEnvironment() OutputMode {
	return Detect(Probe{
		Terminal: term.IsTerminal(int(os.Stderr.Fd())),
		Getenv:   os.Getenv,
	})
}

// ParseMode parses the --output flag: "auto" or empty, "tui", "linear" or its alias "ci".
func ParseMode(flag string) (OutputMode, error) {
	switch flag {
	case "", "auto":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(zerr.Wrap(domain.ErrUnknownOutputMode, "cannot select progress renderer"), "output", flag)
	}
}

// ResolveMode returns requested unless it is ModeAuto, in which case detect decides.
func ResolveMode(requested OutputMode, detect func() OutputMode) OutputMode {
	if requested != ModeAuto {
		return requested
	}
	return detect()
}
