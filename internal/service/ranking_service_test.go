package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gemtrader/internal/domain"
	"gemtrader/internal/repository/memory"
	"gemtrader/pkg/metrics"
)

func seedUsers(t *testing.T, repo domain.UserRepository, balances ...int64) []*domain.User {
	t.Helper()
	users := make([]*domain.User, len(balances))
	for i, b := range balances {
		u := &domain.User{Username: string(rune('a' + i)), GemBalance: b}
		require.NoError(t, repo.Create(context.Background(), u))
		users[i] = u
	}
	return users
}

func TestComputeRanks(t *testing.T) {
	tests := []struct {
		name     string
		balances []int64
		want     []int
	}{
		{"competition ranking", []int64{200, 150, 100, 100, 50}, []int{1, 2, 3, 3, 5}},
		{"all tied", []int64{7, 7, 7}, []int{1, 1, 1}},
		{"unsorted input", []int64{50, 100, 200, 100}, []int{4, 2, 1, 2}},
		{"single user", []int64{0}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := make([]*domain.User, len(tt.balances))
			for i, b := range tt.balances {
				users[i] = &domain.User{ID: int64(i + 1), GemBalance: b}
			}

			snapshot := ComputeRanks(users, time.Now())

			for i, u := range users {
				rank, ok := snapshot.RankOf(u.ID)
				require.True(t, ok)
				assert.Equal(t, tt.want[i], rank, "user %d", u.ID)
				assert.Zero(t, u.Rank, "input is not modified")
			}
		})
	}
}

func TestComputeRanks_OrderAndTies(t *testing.T) {
	users := []*domain.User{
		{ID: 3, GemBalance: 100},
		{ID: 1, GemBalance: 100},
		{ID: 2, GemBalance: 300},
	}

	snapshot := ComputeRanks(users, time.Now())

	ids := make([]int64, len(snapshot.Users))
	for i, u := range snapshot.Users {
		ids[i] = u.ID
	}
	assert.Equal(t, []int64{2, 1, 3}, ids)
	assert.Equal(t, []int{1, 2, 2}, []int{snapshot.Users[0].Rank, snapshot.Users[1].Rank, snapshot.Users[2].Rank})
}

func TestComputeRanks_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		balances := rapid.SliceOfN(rapid.Int64Range(0, 50), 1, 40).Draw(rt, "balances")
		users := make([]*domain.User, len(balances))
		for i, b := range balances {
			users[i] = &domain.User{ID: int64(i + 1), GemBalance: b}
		}

		snapshot := ComputeRanks(users, time.Now())

		if snapshot.Users[0].Rank != 1 {
			rt.Fatalf("top rank %d", snapshot.Users[0].Rank)
		}
		for i := 1; i < len(snapshot.Users); i++ {
			prev, cur := snapshot.Users[i-1], snapshot.Users[i]
			if cur.GemBalance > prev.GemBalance {
				rt.Fatalf("not descending at %d", i)
			}
			if cur.GemBalance == prev.GemBalance && cur.Rank != prev.Rank {
				rt.Fatalf("tied balances ranked %d and %d", prev.Rank, cur.Rank)
			}
			if cur.GemBalance < prev.GemBalance && cur.Rank != i+1 {
				rt.Fatalf("rank %d at position %d", cur.Rank, i)
			}
		}
	})
}

func TestRankingService_Recompute(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := seedUsers(t, store.Users(), 200, 150, 100, 100, 50)

	ranking := NewRankingService(store.Users(), metrics.New())
	assert.Empty(t, ranking.Leaderboard())

	require.NoError(t, ranking.Recompute(ctx))

	want := []int{1, 2, 3, 3, 5}
	for i, u := range users {
		stored, err := store.Users().GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, want[i], stored.Rank)
	}

	board := ranking.Leaderboard()
	require.Len(t, board, 5)
	assert.Equal(t, users[0].ID, board[0].ID)

	board[0].GemBalance = 0
	assert.Equal(t, int64(200), ranking.Leaderboard()[0].GemBalance, "leaderboard returns copies")

	assert.Len(t, ranking.TopN(2), 2)
	assert.Len(t, ranking.TopN(10), 5)
	assert.Empty(t, ranking.TopN(0))
	assert.Empty(t, ranking.TopN(-1))
}

type recordingPublisher struct {
	mu        sync.Mutex
	snapshots []*LeaderboardSnapshot
	published chan struct{}
}

func (p *recordingPublisher) Publish(_ context.Context, s *LeaderboardSnapshot) error {
	p.mu.Lock()
	p.snapshots = append(p.snapshots, s)
	p.mu.Unlock()
	p.published <- struct{}{}
	return nil
}

func TestRankingService_RunPublisher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.NewStore()
	seedUsers(t, store.Users(), 10, 20)

	pub := &recordingPublisher{published: make(chan struct{}, 4)}
	ranking := NewRankingService(store.Users(), metrics.New())
	ranking.SetPublisher(pub)

	done := make(chan error, 1)
	go func() { done <- ranking.RunPublisher(ctx) }()

	require.NoError(t, ranking.Recompute(ctx))

	select {
	case <-pub.published:
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot was not published")
	}

	pub.mu.Lock()
	require.Len(t, pub.snapshots, 1)
	assert.Len(t, pub.snapshots[0].Users, 2)
	pub.mu.Unlock()

	cancel()
	require.NoError(t, <-done)
}

func TestRankingService_OfferKeepsLatest(t *testing.T) {
	ranking := NewRankingService(memory.NewStore().Users(), metrics.New())

	first := &LeaderboardSnapshot{}
	second := &LeaderboardSnapshot{}
	ranking.offer(first)
	ranking.offer(second)

	assert.Same(t, second, <-ranking.updates)
}
