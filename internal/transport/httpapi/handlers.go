package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

// ScoreListResponse is returned by GET /api/scores.
type ScoreListResponse struct {
	Scores []score.Info `json:"scores"`
	Total  int          `json:"total"`
}

// CategoriesResponse is returned by GET /api/categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Total      int      `json:"total"`
}

// ValidateResponse is returned by GET /api/scores/:score_id/validate.
type ValidateResponse struct {
	ScoreID             string `json:"score_id"`
	ScoreExists         bool   `json:"score_exists"`
	CalculatorAvailable bool   `json:"calculator_available"`
	Status              string `json:"status"`
}

// ReloadResponse is returned by POST /api/reload.
type ReloadResponse struct {
	Status       string     `json:"status"`
	Message      string     `json:"message"`
	ScoresLoaded int        `json:"scores_loaded"`
	Scores       []score.ID `json:"scores"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	ScoresLoaded int    `json:"scores_loaded"`
}

type handlers struct {
	svc ports.ScoreService
}

func (h *handlers) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:       "healthy",
		ScoresLoaded: len(h.svc.IDs(c.Request().Context())),
	})
}

func (h *handlers) listScores(c echo.Context) error {
	metas := h.svc.Search(c.Request().Context(), c.QueryParam("category"), c.QueryParam("search"))
	infos := make([]score.Info, 0, len(metas))
	for _, meta := range metas {
		infos = append(infos, meta.Info())
	}
	return c.JSON(http.StatusOK, ScoreListResponse{Scores: infos, Total: len(infos)})
}

func (h *handlers) scoreMetadata(c echo.Context) error {
	raw := c.Param("score_id")
	id, err := score.ParseID(raw)
	if err != nil {
		return scoreNotFound(raw)
	}
	meta, err := h.svc.Metadata(c.Request().Context(), id)
	if err != nil {
		if score.IsCategory(err, score.CategoryNotFound) {
			return scoreNotFound(raw)
		}
		return fromFailure(err, http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, meta)
}

func (h *handlers) validateScore(c echo.Context) error {
	ctx := c.Request().Context()
	raw := c.Param("score_id")
	resp := ValidateResponse{ScoreID: raw, Status: "no_calculator"}

	if id, err := score.ParseID(raw); err == nil {
		for _, known := range h.svc.IDs(ctx) {
			if known == id {
				resp.ScoreExists = true
				break
			}
		}
		resp.CalculatorAvailable = resp.ScoreExists && h.svc.Available(ctx, id)
	}
	if resp.CalculatorAvailable {
		resp.Status = "ready"
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handlers) categories(c echo.Context) error {
	cats := h.svc.Categories(c.Request().Context())
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: cats, Total: len(cats)})
}

func (h *handlers) reload(c echo.Context) error {
	ctx := c.Request().Context()
	loaded := h.svc.Reload(ctx)

	ids := make([]score.ID, 0, loaded)
	for _, meta := range h.svc.List(ctx) {
		ids = append(ids, meta.ID)
	}
	return c.JSON(http.StatusOK, ReloadResponse{
		Status:       "success",
		Message:      "Calculators reloaded successfully",
		ScoresLoaded: loaded,
		Scores:       ids,
	})
}

// calculate serves POST /api/:score_id/calculate. The id comes from the
// caller, so an unknown id is a 404.
func (h *handlers) calculate(c echo.Context) error {
	raw := c.Param("score_id")
	id, err := score.ParseID(raw)
	if err != nil {
		return scoreNotFound(raw)
	}
	return h.run(c, id, http.StatusNotFound)
}

// calculateFixed serves the per-score route POST /<score_id>. The route only
// exists because the id is registered, so a calculator that cannot be
// resolved is a server fault.
func (h *handlers) calculateFixed(id score.ID) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.run(c, id, http.StatusInternalServerError)
	}
}

func (h *handlers) run(c echo.Context, id score.ID, notFoundStatus int) error {
	params, err := bindParameters(c)
	if err != nil {
		return err
	}

	result, err := h.svc.CalculateScore(c.Request().Context(), id, params)
	if err != nil {
		return fromFailure(err, notFoundStatus)
	}
	return c.JSON(http.StatusOK, result)
}

// bindParameters decodes the request body as a JSON object. An empty body is
// an empty mapping.
func bindParameters(c echo.Context) (score.Parameters, error) {
	req := c.Request()
	if req.ContentLength == 0 {
		return score.Parameters{}, nil
	}
	switch ct := req.Header.Get(echo.HeaderContentType); {
	case ct == "":
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	case !strings.HasPrefix(ct, echo.MIMEApplicationJSON):
		return nil, newAPIError(http.StatusUnsupportedMediaType, "UnsupportedMediaType",
			"request body must be application/json", nil)
	}

	params := score.Parameters{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &params); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
			return nil, err
		}
		return nil, newAPIError(http.StatusBadRequest, "BadRequest",
			"request body must be a JSON object of named parameters", nil)
	}
	return params, nil
}
