package ports

// InputResolver expands input declarations into the files they denote.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs expands files, directories and glob patterns relative to root into a
	// sorted list of file paths.
	ResolveInputs(inputs []string, root string) ([]string, error)
}
