package redis

import "fmt"

// keys builds Redis key names under a prefix
type keys struct {
	prefix string
}

// slotKey returns the Redis key for a client slot
func (k keys) slotKey(name string) string {
	return fmt.Sprintf("%s:slot:%s", k.prefix, name)
}

// playerKey returns the Redis key for a player record, by canonical username
func (k keys) playerKey(canonical string) string {
	return fmt.Sprintf("%s:player:%s", k.prefix, canonical)
}

// playerIndexKey returns the Redis key for the ZSET of players by registration order
func (k keys) playerIndexKey() string {
	return fmt.Sprintf("%s:idx:players", k.prefix)
}

// playerSeqKey returns the Redis key for the registration counter
func (k keys) playerSeqKey() string {
	return fmt.Sprintf("%s:seq:players", k.prefix)
}
