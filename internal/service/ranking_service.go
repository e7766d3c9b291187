package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"gemtrader/internal/domain"
	"gemtrader/pkg/logger"
	"gemtrader/pkg/metrics"
)

// LeaderboardSnapshot is an immutable, fully ranked view of every user
type LeaderboardSnapshot struct {
	// Users are ordered by descending gem balance, ties by ascending ID
	Users      []*domain.User
	ComputedAt time.Time

	ranks map[int64]int
}

// RankOf returns the rank of userID in this snapshot
func (s *LeaderboardSnapshot) RankOf(userID int64) (int, bool) {
	r, ok := s.ranks[userID]
	return r, ok
}

// LeaderboardPublisher mirrors snapshots to an external system
type LeaderboardPublisher interface {
	Publish(ctx context.Context, snapshot *LeaderboardSnapshot) error
}

// ComputeRanks assigns competition-style ranks: users sharing a balance share a rank and the
// next lower balance is ranked after the whole tie group ({200,150,100,100,50} → {1,2,3,3,5}).
// The input slice is not modified.
func ComputeRanks(users []*domain.User, at time.Time) *LeaderboardSnapshot {
	ordered := make([]*domain.User, len(users))
	for i, u := range users {
		ordered[i] = u.Clone()
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].GemBalance != ordered[j].GemBalance {
			return ordered[i].GemBalance > ordered[j].GemBalance
		}
		return ordered[i].ID < ordered[j].ID
	})

	ranks := make(map[int64]int, len(ordered))
	rank := 1
	for i, u := range ordered {
		if i > 0 && u.GemBalance != ordered[i-1].GemBalance {
			rank = i + 1
		}
		u.Rank = rank
		ranks[u.ID] = rank
	}

	return &LeaderboardSnapshot{Users: ordered, ComputedAt: at, ranks: ranks}
}

// RankingService recomputes the leaderboard and serves the latest snapshot
type RankingService struct {
	userRepo domain.UserRepository
	metrics  *metrics.Metrics

	// mu serializes recomputation passes; readers use current without locking
	mu      sync.Mutex
	current atomic.Pointer[LeaderboardSnapshot]

	publisher LeaderboardPublisher
	updates   chan *LeaderboardSnapshot
}

// NewRankingService creates a new RankingService
func NewRankingService(userRepo domain.UserRepository, m *metrics.Metrics) *RankingService {
	s := &RankingService{
		userRepo: userRepo,
		metrics:  m,
		updates:  make(chan *LeaderboardSnapshot, 1),
	}
	s.current.Store(&LeaderboardSnapshot{ranks: map[int64]int{}})
	return s
}

// SetPublisher registers a mirror that receives snapshots from RunPublisher
func (s *RankingService) SetPublisher(p LeaderboardPublisher) {
	s.publisher = p
}

// Recompute ranks every user, persists the rank column and swaps in the new snapshot
func (s *RankingService) Recompute(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users for ranking: %w", err)
	}

	snapshot := ComputeRanks(users, start)

	if err := s.userRepo.UpdateRanks(ctx, snapshot.ranks); err != nil {
		return fmt.Errorf("failed to persist ranks: %w", err)
	}

	s.current.Store(snapshot)
	s.metrics.RankRecomputeDuration.Observe(time.Since(start).Seconds())
	s.metrics.RankedUsers.Set(float64(len(snapshot.Users)))

	if s.publisher != nil {
		s.offer(snapshot)
	}

	return nil
}

// offer hands the snapshot to RunPublisher, replacing any snapshot not yet published
func (s *RankingService) offer(snapshot *LeaderboardSnapshot) {
	for {
		select {
		case s.updates <- snapshot:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// RunPublisher forwards snapshots to the publisher until ctx is done
func (s *RankingService) RunPublisher(ctx context.Context) error {
	if s.publisher == nil {
		<-ctx.Done()
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-s.updates:
			if err := s.publisher.Publish(ctx, snapshot); err != nil {
				logger.Warn(ctx, "failed to publish leaderboard", "error", err, "users", len(snapshot.Users))
			}
		}
	}
}

// Snapshot returns the latest leaderboard snapshot
func (s *RankingService) Snapshot() *LeaderboardSnapshot {
	return s.current.Load()
}

// Leaderboard returns every user in descending gem balance
func (s *RankingService) Leaderboard() []*domain.User {
	return cloneUsers(s.current.Load().Users)
}

// TopN returns the first n users of the leaderboard
func (s *RankingService) TopN(n int) []*domain.User {
	if n <= 0 {
		return []*domain.User{}
	}
	users := s.current.Load().Users
	if n < len(users) {
		users = users[:n]
	}
	return cloneUsers(users)
}

func cloneUsers(users []*domain.User) []*domain.User {
	out := make([]*domain.User, len(users))
	for i, u := range users {
		out[i] = u.Clone()
	}
	return out
}
