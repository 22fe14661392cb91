package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// DefaultBuildDir is where objects and shared objects are written when unset.
const DefaultBuildDir = "build"

// Project is a parsed build configuration.
type Project struct {
	Root        string
	BuildDir    string
	Toolchain   ToolchainOverride
	Environment EnvironmentSpec
	Modes       map[string]BuildMode
	Targets     []ExtensionTarget
}

// Mode returns the named build mode. The default mode always exists.
func (p *Project) Mode(name string) (BuildMode, error) {
	if name == "" {
		name = DefaultModeName
	}
	if m, ok := p.Modes[name]; ok {
		m.Name = name
		return m, nil
	}
	if name == DefaultModeName {
		return BuildMode{Name: DefaultModeName}, nil
	}
	return BuildMode{}, zerr.With(zerr.Wrap(ErrUnknownMode, "cannot select mode"), "mode", name)
}

// SelectTargets returns the named targets in declaration order, or every target when
// names is empty.
func (p *Project) SelectTargets(names []string) ([]ExtensionTarget, error) {
	if len(names) == 0 {
		return slices.Clone(p.Targets), nil
	}

	for _, name := range names {
		if !slices.ContainsFunc(p.Targets, func(t ExtensionTarget) bool { return t.Name == name }) {
			return nil, zerr.With(zerr.Wrap(ErrTargetNotFound, "cannot select target"), "target", name)
		}
	}

	selected := make([]ExtensionTarget, 0, len(names))
	for _, t := range p.Targets {
		if slices.Contains(names, t.Name) {
			selected = append(selected, t)
		}
	}
	return selected, nil
}
