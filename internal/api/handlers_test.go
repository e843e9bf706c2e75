package api

import (
	"errors"
	"gamestats/internal/engine"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

const testCSV = `Name,Platform,Year_of_Release,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales,Critic_Score,Critic_Count,User_Score,User_Count,Developer,Rating
Wii Sports,Wii,2006,Sports,Nintendo,41.36,28.96,3.77,8.45,82.53,76,51,8,322,Nintendo,E
Super Mario Bros.,NES,1985,Platform,Nintendo,29.08,3.58,6.81,0.77,40.24,,,,,,
Mario Kart Wii,Wii,2008,Racing,Nintendo,15.68,12.76,3.79,3.29,35.52,82,73,8.3,709,Nintendo,E
New Super Mario Bros.,DS,2006,Platform,Nintendo,11.28,9.14,6.5,2.88,29.8,89,65,8.5,431,Nintendo,E
The Legend of Zelda: Twilight Princess,Wii,2006,Action,Nintendo,3.83,2.19,0.6,0.7,7.31,95,86,9,1726,Nintendo,T
The Legend of Zelda,NES,1986,Action,Nintendo,3.74,0.5,1.69,0.14,6.51,,,,,,
`

func newTestServer(t *testing.T, csv string) (*echo.Echo, *Handler) {
	t.Helper()

	e := echo.New()
	Configure(e)
	h := NewHandler(nil)
	h.RegisterRoutes(e)

	if csv != "" {
		cs, err := engine.ReadCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		t.Cleanup(cs.Release)
		h.SetStore(cs)
	}
	return e, h
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestLoadingState(t *testing.T) {
	e, h := newTestServer(t, "")

	if rec := do(e, http.MethodGet, "/healthz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("healthz while loading = %d, want 503", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/stats/overview", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("overview while loading = %d, want 503", rec.Code)
	}

	h.SetLoadError(errors.New("no such file"))
	rec := do(e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("healthz after failed load = %d, want 500", rec.Code)
	}
	if body := decode(t, rec); body["status"] != "error" {
		t.Errorf("healthz body = %v", body)
	}
	if rec := do(e, http.MethodGet, "/api/rankings/games", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("rankings after failed load = %d, want 503", rec.Code)
	}
}

func TestHealthReady(t *testing.T) {
	e, _ := newTestServer(t, testCSV)

	rec := do(e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["dataset_loaded"] != true || body["rows"] != float64(6) {
		t.Errorf("body = %v", body)
	}
}

func TestGetOverview(t *testing.T) {
	e, _ := newTestServer(t, testCSV)

	rec := do(e, http.MethodGet, "/api/stats/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["total_titles"] != float64(6) {
		t.Errorf("total_titles = %v", body["total_titles"])
	}
	if body["sum_global_sales"] != 201.91 {
		t.Errorf("sum_global_sales = %v", body["sum_global_sales"])
	}
}

func TestGetRankings(t *testing.T) {
	e, _ := newTestServer(t, testCSV)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantTotal float64
		wantFirst string
	}{
		{"defaults", "", http.StatusOK, 6, "Wii Sports"},
		{"platform filter", "?platform=nes&metric=eu_sales", http.StatusOK, 2, "Super Mario Bros."},
		{"year range", "?year_from=2006&year_to=2006&metric=critic_score", http.StatusOK, 3, "The Legend of Zelda: Twilight Princess"},
		{"offset", "?limit=1&offset=1", http.StatusOK, 6, "Super Mario Bros."},
		{"malformed year matches nothing", "?year=abc", http.StatusOK, 0, ""},
		{"fractional year_from matches nothing", "?year_from=2005.4", http.StatusOK, 0, ""},
		{"integral float year", "?year_from=2008.0", http.StatusOK, 1, "Mario Kart Wii"},
		{"limit too small", "?limit=0", http.StatusBadRequest, 0, ""},
		{"limit too large", "?limit=101", http.StatusBadRequest, 0, ""},
		{"unknown metric", "?metric=bogus", http.StatusBadRequest, 0, ""},
		{"negative offset", "?offset=-1", http.StatusBadRequest, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodGet, "/api/rankings/games"+tt.query, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			body := decode(t, rec)
			if body["total"] != tt.wantTotal {
				t.Errorf("total = %v, want %v", body["total"], tt.wantTotal)
			}
			items, _ := body["items"].([]interface{})
			if items == nil {
				t.Fatalf("items missing or null: %s", rec.Body.String())
			}
			if tt.wantFirst == "" {
				if len(items) != 0 {
					t.Errorf("items = %v, want none", items)
				}
				return
			}
			first := items[0].(map[string]interface{})
			if first["name"] != tt.wantFirst {
				t.Errorf("first = %v, want %s", first["name"], tt.wantFirst)
			}
		})
	}
}

func TestGetAggregate(t *testing.T) {
	e, _ := newTestServer(t, testCSV)

	rec := do(e, http.MethodGet, "/api/stats/aggregate?name_contains=zelda", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["metric"] != "critic_score" || body["count"] != float64(1) || body["mean"] != float64(95) {
		t.Errorf("body = %v", body)
	}

	rec = do(e, http.MethodGet, "/api/stats/aggregate?metric=global_sales&name_contains=halo", "")
	body = decode(t, rec)
	if body["count"] != float64(0) || body["mean"] != nil || body["sum"] != nil {
		t.Errorf("empty aggregate = %v, want nulls", body)
	}
}

func TestGetSuggestions(t *testing.T) {
	e, _ := newTestServer(t, testCSV)

	rec := do(e, http.MethodGet, "/api/games/suggest?q=super&limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	items := body["items"].([]interface{})
	if len(items) != 1 || items[0] != "Super Mario Bros." {
		t.Errorf("items = %v", items)
	}

	if rec := do(e, http.MethodGet, "/api/games/suggest", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing q = %d, want 400", rec.Code)
	}
}

func TestGetGame(t *testing.T) {
	e, _ := newTestServer(t, testCSV)

	tests := []struct {
		path     string
		wantName string
	}{
		{"/api/games/zelda", "The Legend of Zelda: Twilight Princess"},
		{"/api/games/The%20Legend%20of%20Zelda", "The Legend of Zelda"},
		{"/api/games/Wii%20Sprots", "Wii Sports"},
	}
	for _, tt := range tests {
		rec := do(e, http.MethodGet, tt.path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d: %s", tt.path, rec.Code, rec.Body.String())
			continue
		}
		if body := decode(t, rec); body["name"] != tt.wantName {
			t.Errorf("GET %s name = %v, want %s", tt.path, body["name"], tt.wantName)
		}
	}

	empty, _ := newTestServer(t, "Name,Platform\n")
	if rec := do(empty, http.MethodGet, "/api/games/zelda", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown game = %d, want 404", rec.Code)
	}
}

func TestMetaEndpoints(t *testing.T) {
	e, _ := newTestServer(t, testCSV)

	rec := do(e, http.MethodGet, "/api/meta/platforms", "")
	body := decode(t, rec)
	if body["count"] != float64(3) {
		t.Errorf("platforms = %v", body)
	}

	rec = do(e, http.MethodGet, "/api/meta/years", "")
	body = decode(t, rec)
	years := body["items"].([]interface{})
	if len(years) != 4 || years[0] != float64(1985) || years[3] != float64(2008) {
		t.Errorf("years = %v", years)
	}
}

func TestAsk(t *testing.T) {
	e, _ := newTestServer(t, testCSV)

	rec := do(e, http.MethodPost, "/api/ask", `{"question":"Qual a média de nota da franquia Zelda?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["mode"] != "aggregate" {
		t.Fatalf("mode = %v", body["mode"])
	}
	if _, ok := body["total"]; ok {
		t.Error("total present in aggregate mode")
	}
	agg := body["aggregate"].(map[string]interface{})
	if agg["mean"] != float64(95) {
		t.Errorf("aggregate = %v", agg)
	}

	rec = do(e, http.MethodPost, "/api/ask", `{"question":"top 2 mais vendidos no Wii"}`)
	body = decode(t, rec)
	if body["mode"] != "rankings" || body["total"] != float64(3) {
		t.Errorf("ranking answer = %v", body)
	}
	if items := body["items"].([]interface{}); len(items) != 2 {
		t.Errorf("items = %v, want 2", items)
	}
	parsed := body["parsed"].(map[string]interface{})
	if parsed["limit"] != float64(2) {
		t.Errorf("parsed = %v", parsed)
	}

	if rec := do(e, http.MethodPost, "/api/ask", `{"question": 12}`); rec.Code != http.StatusBadRequest {
		t.Errorf("wrong type = %d, want 400", rec.Code)
	}
}
