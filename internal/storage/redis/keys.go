package redis

import (
	"fmt"

	"github.com/scopecreep/projectgame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "pgame"

// Key generation functions for each entity type

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// summaryKey returns the Redis key for a GameSummary
func summaryKey(id model.SessionID) string {
	return fmt.Sprintf("%s:summary:%s", keyPrefix, id)
}

// summaryIndexKey returns the Redis key for the LIST of summary keys
// in completion order
func summaryIndexKey() string {
	return fmt.Sprintf("%s:idx:summaries", keyPrefix)
}

// spacesKey returns the Redis key for the cached space content set
func spacesKey() string {
	return fmt.Sprintf("%s:content:spaces", keyPrefix)
}

// cardsKey returns the Redis key for the cached card content set
func cardsKey() string {
	return fmt.Sprintf("%s:content:cards", keyPrefix)
}

// diceRowsKey returns the Redis key for the cached dice table
func diceRowsKey() string {
	return fmt.Sprintf("%s:content:dice", keyPrefix)
}
