package mesh

// Edge is an unordered pair of vertex slots, normalized so that A < B.
// (a,b) and (b,a) compare equal and are valid map keys.
type Edge struct {
	A, B int
}

// NewEdge returns the normalized edge between a and b.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Touches reports whether v is an endpoint of the edge.
func (e Edge) Touches(v int) bool {
	return e.A == v || e.B == v
}

// Other returns the endpoint opposite v. ok is false if v is not an endpoint.
func (e Edge) Other(v int) (int, bool) {
	switch v {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	}
	return -1, false
}
