package redis

import (
	"fmt"

	"github.com/santihernandis/lobos-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "lobos"

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// playerKey returns the Redis key for a Player
func playerKey(identity model.Identity) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, identity)
}

// roomPlayersIndexKey returns the Redis key for the ZSET of a room's
// players, scored by insertion sequence
func roomPlayersIndexKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:idx:room_players:%s", keyPrefix, code)
}

// playerSeqKey returns the Redis key for the player sequence counter
func playerSeqKey() string {
	return fmt.Sprintf("%s:seq:player", keyPrefix)
}

// accountKey returns the Redis key for an Account
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> account_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// visitorKey returns the Redis key for a Visitor
func visitorKey(fingerprint string) string {
	return fmt.Sprintf("%s:visitor:%s", keyPrefix, fingerprint)
}
