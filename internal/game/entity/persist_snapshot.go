package entity

import "time"

// GamePersistSnapshot 交给写回协程的不可变快照。
type GamePersistSnapshot struct {
	Version   uint64
	GameID    GameID
	Owner     string
	State     *GameState
	Journal   []JournalEntry
	CreatedAt time.Time
}
