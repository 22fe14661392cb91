// Package envfile builds the effective build environment from the process environment
// and dotenv files.
package envfile

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.EnvironmentLoader = (*Loader)(nil)

// Loader implements ports.EnvironmentLoader.
type Loader struct {
	environ func() []string
}

// NewLoader creates a Loader reading the environment of the current process.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Load returns the process environment overlaid on files. A variable that is already
// set is never overridden, and among files the first to define a variable wins.
func (l *Loader) Load(files []string) (domain.Env, error) {
	env := domain.ParseEnv(l.environ())

	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			return nil, zerr.With(errors.Join(domain.ErrEnvFileReadFailed, err), "path", file)
		}
		for k, v := range values {
			if _, ok := env[k]; !ok {
				env[k] = v
			}
		}
	}

	return env, nil
}
