package api

import (
	"gamestats/internal/engine"
	"gamestats/internal/models"
	"gamestats/internal/nlq"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/labstack/echo/v4"
)

// dataset is what the handler serves: a loaded store, or the load failure.
type dataset struct {
	store *engine.ColumnStore
	err   error
}

type Handler struct {
	data atomic.Pointer[dataset]
}

// NewHandler creates a handler. store may be nil while the dataset is still
// loading; every data endpoint answers 503 until SetStore is called.
func NewHandler(store *engine.ColumnStore) *Handler {
	h := &Handler{}
	if store != nil {
		h.SetStore(store)
	}
	return h
}

// SetStore publishes a loaded store to all subsequent requests.
func (h *Handler) SetStore(store *engine.ColumnStore) {
	h.data.Store(&dataset{store: store})
}

// SetLoadError records that the dataset could not be loaded.
func (h *Handler) SetLoadError(err error) {
	h.data.Store(&dataset{err: err})
}

// Configure installs the JSON codec and request validator the handlers rely on.
func Configure(e *echo.Echo) {
	e.JSONSerializer = JSONSerializer{}
	e.Validator = NewRequestValidator()
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.GET("/stats/overview", h.GetOverview)
	api.GET("/stats/aggregate", h.GetAggregate)
	api.GET("/rankings/games", h.GetRankings)
	api.GET("/games/suggest", h.GetSuggestions)
	api.GET("/games/:name", h.GetGame)
	api.GET("/meta/platforms", h.GetPlatforms)
	api.GET("/meta/genres", h.GetGenres)
	api.GET("/meta/years", h.GetYears)
	api.POST("/ask", h.Ask)
}

// --- HANDLERS ---

func (h *Handler) store() (*engine.ColumnStore, error) {
	d := h.data.Load()
	switch {
	case d == nil:
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is loading")
	case d.err != nil:
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dataset unavailable").SetInternal(d.err)
	}
	return d.store, nil
}

func (h *Handler) Health(c echo.Context) error {
	d := h.data.Load()
	switch {
	case d == nil:
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "loading", "dataset_loaded": false,
		})
	case d.err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "dataset_loaded": false, "message": d.err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok", "dataset_loaded": true, "rows": d.store.Len(),
	})
}

func (h *Handler) GetOverview(c echo.Context) error {
	cs, err := h.store()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cs.Overview())
}

func (h *Handler) GetRankings(c echo.Context) error {
	cs, err := h.store()
	if err != nil {
		return err
	}

	req := rankingsRequest{Metric: string(models.GlobalSales), Limit: 10}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	metric := models.Metric(req.Metric)
	filters := req.toFilters()
	total, items := cs.Rankings(metric, filters, req.Limit, req.Offset)
	return c.JSON(http.StatusOK, models.RankingPage{
		Metric:  metric,
		Filters: filters,
		Total:   total,
		Items:   items,
	})
}

func (h *Handler) GetAggregate(c echo.Context) error {
	cs, err := h.store()
	if err != nil {
		return err
	}

	req := aggregateRequest{Metric: string(models.CriticScore)}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cs.Aggregate(models.Metric(req.Metric), req.toFilters(), stringParam(req.NameContains)))
}

func (h *Handler) GetSuggestions(c echo.Context) error {
	cs, err := h.store()
	if err != nil {
		return err
	}

	req := suggestRequest{Limit: 10}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"q":     req.Query,
		"items": cs.Suggest(req.Query, req.Limit),
	})
}

// GetGame resolves a name to one record. When nothing matches, the top
// suggestion is tried before giving up with 404.
func (h *Handler) GetGame(c echo.Context) error {
	cs, err := h.store()
	if err != nil {
		return err
	}

	name := c.Param("name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	if game, ok := cs.BestMatch(name); ok {
		return c.JSON(http.StatusOK, game)
	}
	if suggestions := cs.Suggest(name, 1); len(suggestions) > 0 {
		if game, ok := cs.BestMatch(suggestions[0]); ok {
			return c.JSON(http.StatusOK, game)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Game not found")
}

func (h *Handler) GetPlatforms(c echo.Context) error {
	cs, err := h.store()
	if err != nil {
		return err
	}
	items := cs.Platforms()
	return c.JSON(http.StatusOK, models.ListResponse[string]{Items: items, Count: len(items)})
}

func (h *Handler) GetGenres(c echo.Context) error {
	cs, err := h.store()
	if err != nil {
		return err
	}
	items := cs.Genres()
	return c.JSON(http.StatusOK, models.ListResponse[string]{Items: items, Count: len(items)})
}

func (h *Handler) GetYears(c echo.Context) error {
	cs, err := h.store()
	if err != nil {
		return err
	}
	items := cs.ReleaseYears()
	return c.JSON(http.StatusOK, models.ListResponse[int]{Items: items, Count: len(items)})
}

// Ask parses a free-text question and answers it as a ranking or an aggregate.
func (h *Handler) Ask(c echo.Context) error {
	cs, err := h.store()
	if err != nil {
		return err
	}

	var req askRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	question := strings.TrimSpace(req.Question)
	ans := cs.Answer(nlq.Parse(question))

	resp := askResponse{
		Question:  question,
		Mode:      ans.Intent.Mode,
		Parsed:    ans.Intent,
		Aggregate: ans.Aggregate,
		Items:     ans.Items,
	}
	if ans.Intent.Mode == models.ModeRanking {
		total := ans.Total
		resp.Total = &total
	}
	return c.JSON(http.StatusOK, resp)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
