package envfile

// NewLoaderWithEnviron creates a Loader reading its base environment from environ.
func NewLoaderWithEnviron(environ []string) *Loader {
	return &Loader{environ: func() []string { return environ }}
}
