package dealer

import (
	"github.com/santihernandis/lobos-go/internal/dependencies/random"
	"github.com/santihernandis/lobos-go/internal/model"
)

// Assignment pairs a player with the role dealt to them
type Assignment struct {
	Identity model.Identity
	Role     model.Role
}

// Service deals roles from a quota bag. It is pure: callers persist the
// returned assignments.
type Service struct {
	random random.Random
}

// New creates a new dealer with the given random source
func New(random random.Random) *Service {
	return &Service{random: random}
}

// Deal assigns one role to every player in the roster. The quota is
// expanded into a bag of role tokens, padded with aldeano when the roster
// outnumbers the bag, shuffled uniformly, then consumed in roster order.
// Excess tokens beyond the roster are simply left in the bag.
func (s *Service) Deal(quota model.RoleQuota, players []*model.Player) []Assignment {
	bag := expandBag(quota)

	if deficit := len(players) - len(bag); deficit > 0 {
		for i := 0; i < deficit; i++ {
			bag = append(bag, model.RoleAldeano)
		}
	}

	s.random.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})

	assignments := make([]Assignment, len(players))
	for i, p := range players {
		role := model.RoleAldeano // unreachable after padding, kept as a guard
		if i < len(bag) {
			role = bag[i]
		}
		assignments[i] = Assignment{Identity: p.Identity, Role: role}
	}
	return assignments
}

// expandBag turns a quota into a multiset of role tokens, iterating roles
// in the quota's stable order
func expandBag(quota model.RoleQuota) []model.Role {
	bag := make([]model.Role, 0, quota.TotalSlots())
	for _, role := range quota.OrderedRoles() {
		for i := 0; i < quota[role]; i++ {
			bag = append(bag, role)
		}
	}
	return bag
}
