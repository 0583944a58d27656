package model

// BigRocks maps a life role to its ordered long-term priorities.
type BigRocks map[string][]string

// RoleRock is a single flattened big rock entry.
type RoleRock struct {
	Role string `json:"role"`
	Rock string `json:"rock"`
}

// Clone deep-copies the mapping so callers cannot mutate store state.
func (b BigRocks) Clone() BigRocks {
	out := make(BigRocks, len(b))
	for role, rocks := range b {
		out[role] = append([]string(nil), rocks...)
	}
	return out
}
