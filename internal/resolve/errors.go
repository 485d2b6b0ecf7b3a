package resolve

import "errors"

// ErrPackageNotFound matches every *PackageNotFoundError via errors.Is.
var ErrPackageNotFound = errors.New("package not found")

// ErrModuleNotFound is returned by NodeResolver when a specifier cannot be located.
var ErrModuleNotFound = errors.New("cannot find module")

// PackageNotFoundError is returned by the required resolution variants.
// The message text is matched by callers and must not change.
type PackageNotFoundError struct {
	Name   string
	Global bool
}

func (e *PackageNotFoundError) Error() string {
	if e.Global {
		return `Failed to resolve global package "` + e.Name + `"`
	}
	return `Failed to resolve package "` + e.Name + `"`
}

// Is makes errors.Is(err, ErrPackageNotFound) hold.
func (e *PackageNotFoundError) Is(target error) bool {
	return target == ErrPackageNotFound
}
