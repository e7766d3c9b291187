package domain

import (
	"context"
	"time"
)

// DefaultStreakWindow is the maximum gap between two trades that keeps a streak alive
const DefaultStreakWindow = 30 * time.Minute

// User represents a trader competing on the leaderboard
type User struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	GemBalance    int64      `json:"gem_balance"`
	Rank          int        `json:"rank"`
	TotalTrades   int        `json:"total_trades"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	LastTradeTime *time.Time `json:"last_trade_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Clone returns a deep copy so callers never share mutable state with a store
func (u *User) Clone() *User {
	c := *u
	if u.LastTradeTime != nil {
		t := *u.LastTradeTime
		c.LastTradeTime = &t
	}
	return &c
}

// UpdateStreak extends the streak when the previous trade happened less than window ago,
// otherwise starts a new streak of one. The trade time becomes the new LastTradeTime.
func (u *User) UpdateStreak(now time.Time, window time.Duration) {
	if u.LastTradeTime != nil && now.Before(u.LastTradeTime.Add(window)) {
		u.CurrentStreak++
		if u.CurrentStreak > u.LongestStreak {
			u.LongestStreak = u.CurrentStreak
		}
	} else {
		u.CurrentStreak = 1
		if u.LongestStreak < 1 {
			u.LongestStreak = 1
		}
	}
	t := now
	u.LastTradeTime = &t
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create stores a new user and assigns its ID
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetAll retrieves all users ordered by ID
	GetAll(ctx context.Context) ([]*User, error)

	// UpdateRanks writes the rank column only, leaving balances untouched
	UpdateRanks(ctx context.Context, ranks map[int64]int) error
}
