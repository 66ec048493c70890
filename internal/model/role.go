package model

import "sort"

// Role is one of the fixed game roles a player can be dealt
type Role string

const (
	RoleLobo        Role = "lobo"
	RoleLoboAlbino  Role = "lobo_albino"
	RoleLoboPadre   Role = "lobo_padre"
	RoleAldeano     Role = "aldeano"
	RoleArbol       Role = "arbol"
	RoleCupido      Role = "cupido"
	RoleBruja       Role = "bruja"
	RoleNinaSalvaje Role = "nina_salvaje"
	RoleCazador     Role = "cazador"
	RoleVidente     Role = "vidente"
)

// AllRoles returns every role in canonical order
func AllRoles() []Role {
	return []Role{
		RoleLobo,
		RoleLoboAlbino,
		RoleLoboPadre,
		RoleAldeano,
		RoleArbol,
		RoleCupido,
		RoleBruja,
		RoleNinaSalvaje,
		RoleCazador,
		RoleVidente,
	}
}

// RoleQuota maps each role to the number of copies wanted in the bag
type RoleQuota map[Role]int

// DefaultRoleQuota returns the built-in quota preset: one of each role
// plus three villagers (13 slots total)
func DefaultRoleQuota() RoleQuota {
	return RoleQuota{
		RoleLobo:        1,
		RoleLoboAlbino:  1,
		RoleLoboPadre:   1,
		RoleAldeano:     3,
		RoleArbol:       1,
		RoleCupido:      1,
		RoleBruja:       1,
		RoleNinaSalvaje: 1,
		RoleCazador:     1,
		RoleVidente:     1,
	}
}

// Validate checks that every count is non-negative
func (q RoleQuota) Validate() error {
	for _, count := range q {
		if count < 0 {
			return ErrInvalidQuota
		}
	}
	return nil
}

// TotalSlots returns the sum of all counts in the quota
func (q RoleQuota) TotalSlots() int {
	total := 0
	for _, count := range q {
		total += count
	}
	return total
}

// OrderedRoles returns the quota's keys in a stable order: known roles in
// canonical order first, then any other keys sorted alphabetically
func (q RoleQuota) OrderedRoles() []Role {
	known := make(map[Role]bool, len(q))
	var ordered []Role
	for _, role := range AllRoles() {
		if _, ok := q[role]; ok {
			ordered = append(ordered, role)
			known[role] = true
		}
	}

	var extra []Role
	for role := range q {
		if !known[role] {
			extra = append(extra, role)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(ordered, extra...)
}
