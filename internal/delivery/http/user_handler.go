package http

import (
	"github.com/labstack/echo/v4"

	"gemtrader/internal/delivery/http/dto"
	"gemtrader/internal/service"
)

// UserHandler handles user and portfolio requests
type UserHandler struct {
	userService      *service.UserService
	portfolioService *service.PortfolioService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, portfolioService *service.PortfolioService) *UserHandler {
	return &UserHandler{
		userService:      userService,
		portfolioService: portfolioService,
	}
}

// CreateUser registers a user
// POST /api/users  (JSON body or ?username=)
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req dto.CreateUserRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return BadRequestResponse(c, "Invalid request body")
		}
	}
	if req.Username == "" {
		req.Username = c.QueryParam("username")
	}

	user, err := h.userService.CreateUser(c.Request().Context(), req.Username)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return CreatedResponse(c, user)
}

// GetUserStats returns balance, rank and portfolio value of a user
// GET /api/users/:id
func (h *UserHandler) GetUserStats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	stats, err := h.userService.GetUserStats(c.Request().Context(), id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, stats)
}

// GetUserPortfolios lists a user's portfolios
// GET /api/users/:id/portfolios
func (h *UserHandler) GetUserPortfolios(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	portfolios, err := h.portfolioService.GetUserPortfolios(c.Request().Context(), id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, portfolios)
}

// CreatePortfolio opens a portfolio for a user
// POST /api/portfolios
func (h *UserHandler) CreatePortfolio(c echo.Context) error {
	var req dto.CreatePortfolioRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request body")
	}

	portfolio, err := h.portfolioService.CreatePortfolio(c.Request().Context(), req.UserID, req.Name)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return CreatedResponse(c, portfolio)
}

// GetPortfolio returns a portfolio with its holdings
// GET /api/portfolios/:id
func (h *UserHandler) GetPortfolio(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	portfolio, err := h.portfolioService.GetPortfolio(c.Request().Context(), id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, portfolio)
}

// GetPortfolioValue returns the reference value of a portfolio
// GET /api/portfolios/:id/value
func (h *UserHandler) GetPortfolioValue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	value, err := h.portfolioService.GetPortfolioValue(c.Request().Context(), id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]interface{}{
		"portfolio_id": id,
		"value":        value,
	})
}
