// Package snapshots discovers incremental-verification lineages among input
// files. A file named Name.vMAJOR.MINOR.PATCH.cdz belongs to the lineage of
// Name; files in one lineage are verified as one group, ordered by version,
// so later snapshots can reuse earlier results. Grouping is advisory and
// only consulted when snapshot mode is enabled for the current call.
package snapshots

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/cadenza-lang/cadenza/pkg/models"
)

// versionPattern matches the version-numbering convention embedded in a
// file name, for example "Ledger.v1.2.0.cdz".
var versionPattern = regexp.MustCompile(`^(.+)\.v(\d+\.\d+\.\d+)$`)

// Member is one file version inside a group.
type Member struct {
	Desc    models.SourceDescriptor
	Version *semver.Version
}

// Group is a set of file versions sharing one incremental-verification
// lineage. Files without a version suffix form singleton groups.
type Group struct {
	// Base identifies the lineage: directory plus unversioned name.
	Base    string
	Members []Member
}

// Files returns the group's descriptors in version order.
func (g Group) Files() []models.SourceDescriptor {
	out := make([]models.SourceDescriptor, len(g.Members))
	for i, m := range g.Members {
		out[i] = m.Desc
	}
	return out
}

// Discover groups the given source files by lineage. Versioned members are
// ordered ascending by semantic version; groups appear in order of their
// first member in the input. Non-source descriptors are ignored.
func Discover(files []models.SourceDescriptor) []Group {
	groups := make(map[string]*Group)
	var order []string

	for _, f := range models.SourceFiles(files) {
		base, version := splitVersion(f.Path)
		g, ok := groups[base]
		if !ok {
			g = &Group{Base: base}
			groups[base] = g
			order = append(order, base)
		}
		g.Members = append(g.Members, Member{Desc: f, Version: version})
	}

	out := make([]Group, 0, len(order))
	for _, base := range order {
		g := groups[base]
		sort.SliceStable(g.Members, func(i, j int) bool {
			vi, vj := g.Members[i].Version, g.Members[j].Version
			if vi == nil || vj == nil {
				return false
			}
			return vi.LessThan(vj)
		})
		out = append(out, *g)
	}
	return out
}

// splitVersion separates a path into its lineage base and the embedded
// version. The version is nil when the name carries no version suffix; the
// file is then a lineage of its own.
func splitVersion(path string) (string, *semver.Version) {
	dir := filepath.Dir(path)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	m := versionPattern.FindStringSubmatch(name)
	if m == nil {
		return filepath.Join(dir, name), nil
	}
	v, err := semver.NewVersion(m[2])
	if err != nil {
		return filepath.Join(dir, name), nil
	}
	return filepath.Join(dir, m[1]), v
}
