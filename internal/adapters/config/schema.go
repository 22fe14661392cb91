package config

// Cubuildfile represents the structure of the cubuild.yaml configuration file.
type Cubuildfile struct {
	Version     string                `yaml:"version"`
	BuildDir    string                `yaml:"buildDir"`
	Toolchain   ToolchainDTO          `yaml:"toolchain"`
	Environment EnvironmentDTO        `yaml:"environment"`
	Modes       map[string]*ModeDTO   `yaml:"modes"`
	Targets     map[string]*TargetDTO `yaml:"targets"`
}

// ToolchainDTO represents the toolchain override section.
type ToolchainDTO struct {
	Compiler   string   `yaml:"compiler"`
	Linker     string   `yaml:"linker"`
	SharedFlag string   `yaml:"sharedFlag"`
	ArchFlag   string   `yaml:"archFlag"`
	Suffixes   []string `yaml:"suffixes"`
}

// EnvironmentDTO names the variables flags and library directories are read from.
type EnvironmentDTO struct {
	CompileFlags       string `yaml:"compileFlags"`
	LibraryDirs        string `yaml:"libraryDirs"`
	RequireLibraryDirs bool   `yaml:"requireLibraryDirs"`
}

// ModeDTO represents a build mode. Unset fields inherit the environment section.
type ModeDTO struct {
	RequireLibraryDirs *bool `yaml:"requireLibraryDirs"`
}

// TargetDTO represents an extension target definition in the configuration.
type TargetDTO struct {
	Sources     []string `yaml:"sources"`
	Depends     []string `yaml:"depends"`
	Libraries   []string `yaml:"libraries"`
	LibraryDirs []string `yaml:"libraryDirs"`
	CompileArgs []string `yaml:"compileArgs"`
	LinkArgs    []string `yaml:"linkArgs"`
}
