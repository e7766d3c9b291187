package memory

import (
	"context"
	"sort"

	"gemtrader/internal/domain"
)

type portfolioRepository struct {
	s *Store
}

func (r *portfolioRepository) Create(_ context.Context, portfolio *domain.Portfolio) error {
	r.s.portfolioMu.Lock()
	defer r.s.portfolioMu.Unlock()

	r.s.portfolioSeq++
	portfolio.ID = r.s.portfolioSeq
	if portfolio.Holdings == nil {
		portfolio.Holdings = []domain.PortfolioHolding{}
	}
	r.s.portfolios[portfolio.ID] = portfolio.Clone()
	return nil
}

func (r *portfolioRepository) GetByID(_ context.Context, id int64) (*domain.Portfolio, error) {
	r.s.portfolioMu.RLock()
	defer r.s.portfolioMu.RUnlock()

	p, ok := r.s.portfolios[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityPortfolio, id)
	}
	return p.Clone(), nil
}

func (r *portfolioRepository) GetByUserID(_ context.Context, userID int64) ([]*domain.Portfolio, error) {
	r.s.portfolioMu.RLock()
	defer r.s.portfolioMu.RUnlock()

	var out []*domain.Portfolio
	for _, p := range r.s.portfolios {
		if p.UserID == userID {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *portfolioRepository) GetAll(_ context.Context) ([]*domain.Portfolio, error) {
	r.s.portfolioMu.RLock()
	defer r.s.portfolioMu.RUnlock()

	out := make([]*domain.Portfolio, 0, len(r.s.portfolios))
	for _, p := range r.s.portfolios {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
