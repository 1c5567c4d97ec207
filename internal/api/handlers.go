package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moviechat/moviechat/internal/recommend"
)

// recommendRequest is the POST /ai body. Zero numeric fields mean "not supplied".
type recommendRequest struct {
	Text        string `json:"text" validate:"required,notblank"`
	ContentType string `json:"content_type"`
	Language    string `json:"language" validate:"omitempty,len=2,alpha"`
	Page        int    `json:"page" validate:"omitempty,min=1"`
	PageSize    int    `json:"page_size" validate:"omitempty,min=1,max=30"`
	Limit       int    `json:"limit" validate:"omitempty,min=1,max=30"`
}

type healthResponse struct {
	OK           bool `json:"ok"`
	Catalog      bool `json:"catalog"`
	Availability bool `json:"availability"`
	Semantic     bool `json:"semantic"`
}

func (s *Server) healthCheck(c echo.Context) error {
	st := s.service.Status()
	return c.JSON(http.StatusOK, healthResponse{
		OK:           true,
		Catalog:      st.Catalog,
		Availability: st.Availability,
		Semantic:     st.Semantic,
	})
}

// recommend handles POST /ai.
func (s *Server) recommend(c echo.Context) error {
	var req recommendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := s.service.Recommend(c.Request().Context(), recommend.Request{
		Text:        req.Text,
		ContentType: req.ContentType,
		Language:    req.Language,
		Page:        req.Page,
		PageSize:    req.PageSize,
		Limit:       req.Limit,
	})
	if err != nil {
		return s.serviceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// upcoming handles GET /upcoming?page=N.
func (s *Server) upcoming(c echo.Context) error {
	page := 1
	if err := echo.QueryParamsBinder(c).Int("page", &page).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page must be an integer")
	}

	resp, err := s.service.Upcoming(c.Request().Context(), page)
	if err != nil {
		return s.serviceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) serviceError(err error) error {
	if errors.Is(err, recommend.ErrDependencyUnavailable) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	s.logger.Error().Err(err).Msg("request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
