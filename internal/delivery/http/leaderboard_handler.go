package http

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"gemtrader/internal/delivery/http/dto"
	"gemtrader/internal/domain"
	"gemtrader/internal/service"
)

const defaultTopLimit = 10

// LeaderboardHandler serves the ranking snapshot
type LeaderboardHandler struct {
	ranking *service.RankingService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(ranking *service.RankingService) *LeaderboardHandler {
	return &LeaderboardHandler{ranking: ranking}
}

// GetLeaderboard returns every user by descending gem balance
// GET /api/leaderboard
func (h *LeaderboardHandler) GetLeaderboard(c echo.Context) error {
	return SuccessResponse(c, toEntries(h.ranking.Leaderboard()))
}

// GetTopUsers returns the first limit users
// GET /api/leaderboard/top?limit=10
func (h *LeaderboardHandler) GetTopUsers(c echo.Context) error {
	limit := defaultTopLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return BadRequestResponse(c, "limit must be an integer")
		}
		limit = n
	}

	return SuccessResponse(c, toEntries(h.ranking.TopN(limit)))
}

func toEntries(users []*domain.User) []dto.LeaderboardEntry {
	entries := make([]dto.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = dto.LeaderboardEntry{
			Rank:       u.Rank,
			UserID:     u.ID,
			Username:   u.Username,
			GemBalance: u.GemBalance,
		}
	}
	return entries
}
