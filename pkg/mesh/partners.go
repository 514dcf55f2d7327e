package mesh

import "github.com/chazu/adze/pkg/geom"

// Partner grouping unifies duplicate vertex slots that occupy the same
// position (UV seams, hard edges). Membership is transitive within the
// tolerance: a chain of slots each within tol of the next forms one group.

// PartnerGroups partitions verts into coincident-position groups.
// Singleton groups are included. The result preserves the input order of
// each group's first member.
func PartnerGroups(m *Mesh, verts []int, tol float64) [][]int {
	parent := make(map[int]int, len(verts))
	for _, v := range verts {
		parent[v] = v
	}
	var find func(v int) int
	find = func(v int) int {
		if parent[v] != v {
			parent[v] = find(parent[v])
		}
		return parent[v]
	}
	for i, a := range verts {
		for _, b := range verts[i+1:] {
			if geom.SamePosition(m.Position(a), m.Position(b), tol) {
				parent[find(b)] = find(a)
			}
		}
	}

	byRoot := make(map[int][]int, len(verts))
	var order []int
	for _, v := range verts {
		r := find(v)
		if _, ok := byRoot[r]; !ok {
			order = append(order, r)
		}
		byRoot[r] = append(byRoot[r], v)
	}

	groups := make([][]int, 0, len(order))
	for _, r := range order {
		groups = append(groups, byRoot[r])
	}
	return groups
}

// PartnersOf returns every other vertex slot of the mesh whose position
// coincides with v within tol, in slot order.
func PartnersOf(m *Mesh, v int, tol float64) []int {
	p := m.Position(v)
	var out []int
	for i := range m.Positions {
		if i == v {
			continue
		}
		if geom.SamePosition(p, m.Position(i), tol) {
			out = append(out, i)
		}
	}
	return out
}
