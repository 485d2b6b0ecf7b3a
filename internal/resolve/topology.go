package resolve

import (
	"path/filepath"
	"strings"

	"github.com/kolibry/kolibry/pkg/types"
)

// DetectTopology reports TopologyGlobal when cliRoot lies inside one of the
// global package directories.
func DetectTopology(cliRoot string, dirs GlobalDirs) types.Topology {
	if dirs.YarnPackages != "" && IsPathInside(cliRoot, dirs.YarnPackages) {
		return types.TopologyGlobal
	}
	if dirs.NpmPackages != "" {
		npm := dirs.NpmPackages
		if real, err := filepath.EvalSymlinks(npm); err == nil {
			npm = real
		}
		if IsPathInside(cliRoot, npm) {
			return types.TopologyGlobal
		}
	}
	return types.TopologyLocal
}

// IsPathInside reports whether child is strictly inside parent.
func IsPathInside(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
