package linker

import "github.com/DonovanMods/civ-mod-manager/internal/domain"

// Linker writes a single mod file from a source tree into the mods folder
type Linker interface {
	Deploy(src, dst string) error
	Method() domain.LinkMethod
}

// New creates a linker for the given method
func New(method domain.LinkMethod) Linker {
	switch method {
	case domain.LinkHardlink:
		return NewHardlink()
	default:
		return NewCopy()
	}
}
