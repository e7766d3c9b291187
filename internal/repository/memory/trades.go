package memory

import (
	"context"

	"gemtrader/internal/domain"
)

type tradeRepository struct {
	s *Store
}

func (r *tradeRepository) GetByID(_ context.Context, id int64) (*domain.Trade, error) {
	r.s.tradeMu.RLock()
	defer r.s.tradeMu.RUnlock()

	// ids are dense and start at 1
	if id < 1 || id > int64(len(r.s.trades)) {
		return nil, domain.NotFound(domain.EntityTrade, id)
	}
	t := *r.s.trades[id-1]
	return &t, nil
}

func (r *tradeRepository) GetAll(_ context.Context) ([]*domain.Trade, error) {
	return r.filter(func(*domain.Trade) bool { return true }), nil
}

func (r *tradeRepository) GetByUserID(_ context.Context, userID int64) ([]*domain.Trade, error) {
	return r.filter(func(t *domain.Trade) bool { return t.UserID == userID }), nil
}

func (r *tradeRepository) GetByPortfolioID(_ context.Context, portfolioID int64) ([]*domain.Trade, error) {
	return r.filter(func(t *domain.Trade) bool { return t.PortfolioID == portfolioID }), nil
}

func (r *tradeRepository) filter(keep func(*domain.Trade) bool) []*domain.Trade {
	r.s.tradeMu.RLock()
	defer r.s.tradeMu.RUnlock()

	out := make([]*domain.Trade, 0)
	for _, t := range r.s.trades {
		if keep(t) {
			c := *t
			out = append(out, &c)
		}
	}
	return out
}
