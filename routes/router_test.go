package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/emmiamia/nourishsteps/config"
	"github.com/emmiamia/nourishsteps/models"
	"github.com/emmiamia/nourishsteps/services"
	"github.com/emmiamia/nourishsteps/storage"
)

const today = "2025-03-07"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	cfg    config.AppConfig
}

func newTestAPI(t *testing.T, mutate ...func(*config.AppConfig)) *testAPI {
	t.Helper()
	cfg := config.AppConfig{
		GinMode:            "test",
		DBDriver:           "sqlite",
		SQLitePath:         filepath.Join(t.TempDir(), "api.db"),
		LogLevel:           "silent",
		RateLimitPerMinute: 6000,
		AllowedOrigins:     []string{"http://localhost:5173"},
	}
	for _, m := range mutate {
		m(&cfg)
	}
	db, err := config.OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := storage.Seed(context.Background(), db, storage.SeedOptions{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	d, _ := models.ParseDay(today)
	return &testAPI{t: t, router: SetupRouter(cfg, db, services.FixedClock{Day: d}), cfg: cfg}
}

func (a *testAPI) do(method, path, body string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func (a *testAPI) ok(method, path, body string, wantStatus int, out interface{}) {
	a.t.Helper()
	w, env := a.do(method, path, body)
	if w.Code != wantStatus {
		a.t.Fatalf("%s %s = %d, want %d: %s", method, path, w.Code, wantStatus, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			a.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
}

func (a *testAPI) fails(method, path, body string, wantStatus, wantCode int) envelope {
	a.t.Helper()
	w, env := a.do(method, path, body)
	if w.Code != wantStatus || env.Code != wantCode {
		a.t.Fatalf("%s %s = %d/%d, want %d/%d: %s", method, path, w.Code, env.Code, wantStatus, wantCode, w.Body.String())
	}
	return env
}

type checkInJSON struct {
	ID         uint    `json:"id"`
	Date       string  `json:"date"`
	Mood       int     `json:"mood"`
	Urge       int     `json:"urge"`
	MealStatus string  `json:"meal_status"`
	Note       *string `json:"note"`
}

type mealJSON struct {
	ID          uint    `json:"id"`
	Date        string  `json:"date"`
	MealType    string  `json:"meal_type"`
	Status      string  `json:"status"`
	DurationSec *int    `json:"duration_sec"`
	Note        *string `json:"note"`
}

func TestHealthAndNoRoute(t *testing.T) {
	api := newTestAPI(t)
	var health map[string]bool
	api.ok(http.MethodGet, "/api/health", "", http.StatusOK, &health)
	if !health["ok"] {
		t.Errorf("health = %v", health)
	}
	api.fails(http.MethodGet, "/api/nope", "", http.StatusNotFound, 40400)
}

func TestCheckInLifecycle(t *testing.T) {
	api := newTestAPI(t)

	var created checkInJSON
	api.ok(http.MethodPost, "/api/checkins", "", http.StatusCreated, &created)
	if created.Date != today || created.Mood != 3 || created.Urge != 0 || created.MealStatus != "skipped" || created.Note != nil {
		t.Fatalf("defaults = %+v", created)
	}

	var second checkInJSON
	api.ok(http.MethodPost, "/api/checkins",
		`{"date":"2025-03-05","mood":5,"urge":2,"meal_status":"COMPLETED","note":"  good day "}`,
		http.StatusCreated, &second)
	if second.MealStatus != "completed" || second.Note == nil || *second.Note != "good day" {
		t.Fatalf("second = %+v", second)
	}

	var fetched checkInJSON
	api.ok(http.MethodGet, fmt.Sprintf("/api/checkins/%d", second.ID), "", http.StatusOK, &fetched)
	if fetched.Date != "2025-03-05" || fetched.Mood != 5 {
		t.Errorf("fetched = %+v", fetched)
	}

	var patched checkInJSON
	api.ok(http.MethodPatch, fmt.Sprintf("/api/checkins/%d", second.ID), `{"mood":2,"note":null}`, http.StatusOK, &patched)
	if patched.Mood != 2 || patched.Urge != 2 || patched.MealStatus != "completed" || patched.Note != nil || patched.Date != "2025-03-05" {
		t.Errorf("patched = %+v", patched)
	}

	var list []checkInJSON
	api.ok(http.MethodGet, "/api/checkins?date=2025-03-05", "", http.StatusOK, &list)
	if len(list) != 1 || list[0].ID != second.ID {
		t.Errorf("filtered list = %+v", list)
	}
	api.ok(http.MethodGet, "/api/checkins?limit=1", "", http.StatusOK, &list)
	if len(list) != 1 || list[0].ID != second.ID {
		t.Errorf("limited list = %+v, want newest created first", list)
	}

	var deleted map[string]bool
	api.ok(http.MethodDelete, fmt.Sprintf("/api/checkins/%d", created.ID), "", http.StatusOK, &deleted)
	if !deleted["ok"] {
		t.Errorf("delete = %v", deleted)
	}
	api.fails(http.MethodGet, fmt.Sprintf("/api/checkins/%d", created.ID), "", http.StatusNotFound, 40400)
	api.fails(http.MethodDelete, fmt.Sprintf("/api/checkins/%d", created.ID), "", http.StatusNotFound, 40400)
	api.fails(http.MethodPatch, "/api/checkins/999", `{"mood":4}`, http.StatusNotFound, 40400)
}

func TestCheckInValidation(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name, body string
		want       string
	}{
		{"mood range", `{"mood":6}`, "mood must be at most 5"},
		{"urge range", `{"urge":-1}`, "urge must be at least 0"},
		{"mood type", `{"mood":"high"}`, "mood/urge must be integers"},
		{"null urge", `{"urge":null}`, "mood/urge must be integers"},
		{"meal status", `{"meal_status":"planned"}`, "meal_status must be one of"},
		{"date", `{"date":"2025-02-30"}`, "invalid date (YYYY-MM-DD)"},
		{"note length", fmt.Sprintf(`{"note":%q}`, strings.Repeat("x", 501)), "note must be at most 500 characters"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := api.fails(http.MethodPost, "/api/checkins", c.body, http.StatusBadRequest, 40002)
			if !strings.Contains(env.Message, c.want) {
				t.Errorf("message %q does not contain %q", env.Message, c.want)
			}
		})
	}

	api.fails(http.MethodPost, "/api/checkins", `[1,2]`, http.StatusBadRequest, 40000)
	api.fails(http.MethodGet, "/api/checkins/abc", "", http.StatusBadRequest, 40000)
	api.fails(http.MethodGet, "/api/checkins?date=03-05-2025", "", http.StatusBadRequest, 40001)
	api.fails(http.MethodGet, "/api/checkins?limit=ten", "", http.StatusBadRequest, 40000)
	api.fails(http.MethodGet, "/api/checkins?limit=0", "", http.StatusBadRequest, 40000)
	api.fails(http.MethodGet, "/api/meals?limit=-3", "", http.StatusBadRequest, 40000)
}

func TestMealLifecycle(t *testing.T) {
	api := newTestAPI(t)

	var created mealJSON
	api.ok(http.MethodPost, "/api/meals", `{}`, http.StatusCreated, &created)
	if created.Date != today || created.MealType != "breakfast" || created.Status != "planned" || created.DurationSec != nil {
		t.Fatalf("defaults = %+v", created)
	}

	var patched mealJSON
	api.ok(http.MethodPatch, fmt.Sprintf("/api/meals/%d", created.ID), `{"status":"Completed","duration_sec":1200,"note":"slow"}`, http.StatusOK, &patched)
	if patched.Status != "completed" || patched.DurationSec == nil || *patched.DurationSec != 1200 || patched.MealType != "breakfast" {
		t.Fatalf("patched = %+v", patched)
	}
	api.ok(http.MethodPatch, fmt.Sprintf("/api/meals/%d", created.ID), `{"duration_sec":null,"note":null}`, http.StatusOK, &patched)
	if patched.DurationSec != nil || patched.Note != nil || patched.Status != "completed" {
		t.Errorf("cleared = %+v", patched)
	}

	api.fails(http.MethodPatch, fmt.Sprintf("/api/meals/%d", created.ID), `{"meal_type":null}`, http.StatusBadRequest, 40002)
	api.fails(http.MethodPatch, fmt.Sprintf("/api/meals/%d", created.ID), `{"meal_type":"brunch"}`, http.StatusBadRequest, 40002)
	api.fails(http.MethodPost, "/api/meals", `{"duration_sec":-5}`, http.StatusBadRequest, 40002)
	api.fails(http.MethodPost, "/api/meals", `{"status":"eaten"}`, http.StatusBadRequest, 40002)

	var other mealJSON
	api.ok(http.MethodPost, "/api/meals", `{"date":"2025-03-01","meal_type":"snack","status":"skipped"}`, http.StatusCreated, &other)

	var list []mealJSON
	api.ok(http.MethodGet, "/api/meals", "", http.StatusOK, &list)
	if len(list) != 2 || list[0].Date != today {
		t.Errorf("list = %+v, want date desc", list)
	}

	api.ok(http.MethodDelete, fmt.Sprintf("/api/meals/%d", other.ID), "", http.StatusOK, nil)
	api.fails(http.MethodGet, fmt.Sprintf("/api/meals/%d", other.ID), "", http.StatusNotFound, 40400)
}

func TestNotesRoundTripAsPlainText(t *testing.T) {
	api := newTestAPI(t)
	note := "ate 2 < 3 cookies & <b>tea</b>, rated it <good>"

	var c checkInJSON
	api.ok(http.MethodPost, "/api/checkins", fmt.Sprintf(`{"note":%q}`, note), http.StatusCreated, &c)
	api.ok(http.MethodGet, fmt.Sprintf("/api/checkins/%d", c.ID), "", http.StatusOK, &c)
	if c.Note == nil || *c.Note != note {
		t.Errorf("check-in note = %v, want %q", c.Note, note)
	}

	var m mealJSON
	api.ok(http.MethodPost, "/api/meals", `{}`, http.StatusCreated, &m)
	api.ok(http.MethodPatch, fmt.Sprintf("/api/meals/%d", m.ID), `{"note":"a<b and c>d"}`, http.StatusOK, &m)
	api.ok(http.MethodGet, fmt.Sprintf("/api/meals/%d", m.ID), "", http.StatusOK, &m)
	if m.Note == nil || *m.Note != "a<b and c>d" {
		t.Errorf("meal note = %v", m.Note)
	}
}

func TestFirstCalendarYear(t *testing.T) {
	api := newTestAPI(t)

	var c checkInJSON
	api.ok(http.MethodPost, "/api/checkins", `{"date":"0001-01-01","mood":4}`, http.StatusCreated, &c)
	if c.Date != "0001-01-01" {
		t.Fatalf("date = %q", c.Date)
	}

	var cal struct {
		Days []struct {
			Date  *string `json:"date"`
			Count int     `json:"count"`
		} `json:"days"`
	}
	api.ok(http.MethodGet, "/api/checkins/month?year=1&month=1", "", http.StatusOK, &cal)
	if len(cal.Days) != 31 || cal.Days[0].Date == nil || *cal.Days[0].Date != "0001-01-01" || cal.Days[0].Count != 1 {
		t.Fatalf("first day = %+v", cal.Days[0])
	}

	api.fails(http.MethodPost, "/api/checkins", `{"date":"0000-03-01"}`, http.StatusBadRequest, 40002)
	api.fails(http.MethodGet, "/api/checkins?date=0000-03-01", "", http.StatusBadRequest, 40001)
	api.fails(http.MethodGet, "/api/days/0000-03-01", "", http.StatusBadRequest, 40001)
}

func TestCheckInSummary7Streak(t *testing.T) {
	api := newTestAPI(t)
	for _, d := range []string{"2025-03-07", "2025-03-06", "2025-03-05", "2025-03-03"} {
		api.ok(http.MethodPost, "/api/checkins", fmt.Sprintf(`{"date":%q,"meal_status":"partial"}`, d), http.StatusCreated, nil)
	}

	var out struct {
		Days []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
		} `json:"days"`
		Meals  map[string]int `json:"meals"`
		Streak int            `json:"streak"`
	}
	api.ok(http.MethodGet, "/api/summary7", "", http.StatusOK, &out)
	if len(out.Days) != 7 || out.Days[0].Date != "2025-03-01" || out.Days[6].Date != today {
		t.Fatalf("days = %+v", out.Days)
	}
	if out.Streak != 3 {
		t.Errorf("streak = %d, want 3", out.Streak)
	}
	if out.Meals["partial"] != 4 || out.Meals["completed"] != 0 || out.Meals["skipped"] != 0 {
		t.Errorf("meals = %v", out.Meals)
	}
}

func TestMealSummary7FullWeek(t *testing.T) {
	api := newTestAPI(t)
	d, _ := models.ParseDay(today)
	for i := 0; i < 7; i++ {
		for _, mt := range []string{"breakfast", "lunch", "dinner"} {
			body := fmt.Sprintf(`{"date":%q,"meal_type":%q,"status":"completed"}`, d.AddDays(-i), mt)
			api.ok(http.MethodPost, "/api/meals", body, http.StatusCreated, nil)
		}
	}

	var out struct {
		Days []struct {
			Status string `json:"status"`
			Count  int    `json:"count"`
		} `json:"days"`
		Meals  map[string]int `json:"meals"`
		Streak int            `json:"streak"`
	}
	api.ok(http.MethodGet, "/api/meals/summary7", "", http.StatusOK, &out)
	if out.Meals["completed"] != 100 || out.Meals["partial"] != 0 || out.Meals["skipped"] != 0 {
		t.Errorf("meals = %v", out.Meals)
	}
	if out.Streak != 7 {
		t.Errorf("streak = %d, want 7", out.Streak)
	}
	for _, day := range out.Days {
		if day.Status != "completed" || day.Count != 3 {
			t.Errorf("day = %+v", day)
		}
	}
}

func TestMonthCalendars(t *testing.T) {
	api := newTestAPI(t)
	api.ok(http.MethodPost, "/api/checkins", `{"date":"2024-02-29","mood":4,"meal_status":"completed","note":"leap"}`, http.StatusCreated, nil)
	api.ok(http.MethodPost, "/api/checkins", `{"date":"2024-02-29","mood":5,"meal_status":"skipped"}`, http.StatusCreated, nil)
	api.ok(http.MethodPost, "/api/meals", `{"date":"2024-02-01","meal_type":"snack"}`, http.StatusCreated, nil)

	var cal struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Days  []struct {
			Date      string          `json:"date"`
			Count     int             `json:"count"`
			Completed int             `json:"completed"`
			AvgMood   *float64        `json:"avg_mood"`
			Items     json.RawMessage `json:"items"`
		} `json:"days"`
	}
	api.ok(http.MethodGet, "/api/checkins/month?year=2024&month=2", "", http.StatusOK, &cal)
	if cal.Year != 2024 || cal.Month != 2 || len(cal.Days) != 29 {
		t.Fatalf("calendar = %d-%d with %d days", cal.Year, cal.Month, len(cal.Days))
	}
	leap := cal.Days[28]
	if leap.Date != "2024-02-29" || leap.Count != 2 || leap.Completed != 1 || leap.AvgMood == nil || *leap.AvgMood != 4.5 {
		t.Errorf("leap day = %+v", leap)
	}
	if cal.Days[0].AvgMood != nil || string(cal.Days[0].Items) != "[]" {
		t.Errorf("empty day = %+v items=%s", cal.Days[0], cal.Days[0].Items)
	}

	var meals struct {
		Days []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
		} `json:"days"`
	}
	api.ok(http.MethodGet, "/api/meals/month?year=2023&month=2", "", http.StatusOK, &meals)
	if len(meals.Days) != 28 {
		t.Errorf("2023-02 has %d days, want 28", len(meals.Days))
	}
	api.ok(http.MethodGet, "/api/meals/month?year=2024&month=2", "", http.StatusOK, &meals)
	if meals.Days[0].Count != 1 {
		t.Errorf("snack not counted: %+v", meals.Days[0])
	}

	api.fails(http.MethodGet, "/api/checkins/month?year=2024&month=13", "", http.StatusBadRequest, 40001)
	api.fails(http.MethodGet, "/api/checkins/month?month=2", "", http.StatusBadRequest, 40001)
	api.fails(http.MethodGet, "/api/meals/month?year=0&month=2", "", http.StatusBadRequest, 40001)
}

func TestDayView(t *testing.T) {
	api := newTestAPI(t)
	api.ok(http.MethodPost, "/api/checkins", `{"date":"2025-03-02","mood":2,"meal_status":"partial"}`, http.StatusCreated, nil)
	api.ok(http.MethodPost, "/api/meals", `{"date":"2025-03-02","meal_type":"lunch"}`, http.StatusCreated, nil)
	api.ok(http.MethodPost, "/api/meals", `{"date":"2025-03-02","meal_type":"snack"}`, http.StatusCreated, nil)

	var view struct {
		Date     string `json:"date"`
		CheckIns struct {
			Count       int            `json:"count"`
			Meals       map[string]int `json:"meals"`
			MoodAverage *float64       `json:"mood_average"`
		} `json:"checkins"`
		Meals struct {
			Count  int    `json:"count"`
			Status string `json:"status"`
		} `json:"meals"`
		HasEntries bool `json:"has_entries"`
	}
	api.ok(http.MethodGet, "/api/days/2025-03-02", "", http.StatusOK, &view)
	if view.CheckIns.Count != 1 || view.CheckIns.Meals["partial"] != 1 || view.CheckIns.MoodAverage == nil || *view.CheckIns.MoodAverage != 2 {
		t.Errorf("checkins = %+v", view.CheckIns)
	}
	if view.Meals.Count != 2 || view.Meals.Status != "partial" || !view.HasEntries {
		t.Errorf("view = %+v", view)
	}

	api.ok(http.MethodGet, "/api/days/2025-03-04", "", http.StatusOK, &view)
	if view.HasEntries || view.Meals.Status != "skipped" || view.CheckIns.MoodAverage != nil {
		t.Errorf("empty view = %+v", view)
	}
	api.fails(http.MethodGet, "/api/days/yesterday", "", http.StatusBadRequest, 40001)
}

func TestResources(t *testing.T) {
	api := newTestAPI(t)
	var items []models.Resource
	api.ok(http.MethodGet, "/api/resources", "", http.StatusOK, &items)
	if len(items) != len(storage.DefaultResources()) {
		t.Fatalf("resources = %d", len(items))
	}
	if items[0].Title != "988 Suicide & Crisis Lifeline" {
		t.Errorf("first resource = %+v", items[0])
	}
}

func TestWriteRateLimit(t *testing.T) {
	api := newTestAPI(t, func(c *config.AppConfig) { c.RateLimitPerMinute = 2 })
	api.ok(http.MethodPost, "/api/checkins", "", http.StatusCreated, nil)
	api.fails(http.MethodPost, "/api/checkins", "", http.StatusTooManyRequests, 42901)
	// reads are not limited
	api.ok(http.MethodGet, "/api/checkins", "", http.StatusOK, nil)
	api.ok(http.MethodGet, "/api/checkins", "", http.StatusOK, nil)
}

func TestCORSAndRequestID(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("allow origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign origin status = %d, want 403", w.Code)
	}
}
