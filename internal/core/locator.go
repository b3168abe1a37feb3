package core

import (
	"strings"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
)

// Locate finds the descriptor of the package folder at root. It looks at the
// root first, then at each immediate subfolder, and never deeper.
// Unreadable folders count as holding no descriptor.
func Locate(root string) (domain.DescriptorLocation, bool) {
	dir, err := OpenDir(root)
	if err != nil {
		return domain.DescriptorLocation{}, false
	}
	return LocateIn(dir)
}

// LocateIn is Locate over an already opened directory.
func LocateIn(dir DirectoryHandle) (domain.DescriptorLocation, bool) {
	children, err := dir.Children()
	if err != nil {
		return domain.DescriptorLocation{}, false
	}

	if path, ok := findDescriptor(children); ok {
		return domain.DescriptorLocation{Path: path}, true
	}

	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		grandchildren, err := child.Children()
		if err != nil {
			continue
		}
		if path, ok := findDescriptor(grandchildren); ok {
			return domain.DescriptorLocation{
				Path:          path,
				InSubfolder:   true,
				SubfolderName: child.Name(),
			}, true
		}
	}

	return domain.DescriptorLocation{}, false
}

func findDescriptor(entries []DirectoryHandle) (string, bool) {
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), domain.DescriptorExt) {
			return entry.Path(), true
		}
	}
	return "", false
}
