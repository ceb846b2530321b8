package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/admin"
	"github.com/minigolfstudio/backend/internal/auth"
	"github.com/minigolfstudio/backend/internal/config"
	"github.com/minigolfstudio/backend/internal/game"
	"github.com/minigolfstudio/backend/internal/models"
)

// memStore keeps accounts in memory.
type memStore struct {
	mu      sync.Mutex
	players map[int]*models.Player
	byEmail map[string]int
}

func newMemStore() *memStore {
	return &memStore{players: make(map[int]*models.Player), byEmail: make(map[string]int)}
}

func (s *memStore) CreatePlayer(email, displayName, password string) (*models.Player, error) {
	email, err := auth.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return nil, auth.ErrEmailTaken
	}
	p := &models.Player{
		ID:           len(s.players) + 1,
		Email:        email,
		DisplayName:  auth.CleanDisplayName(displayName, email),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		IsActive:     true,
	}
	s.players[p.ID] = p
	s.byEmail[email] = p.ID
	return p, nil
}

func (s *memStore) Authenticate(email, password string) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok || !auth.CheckPassword(s.players[id].PasswordHash, password) {
		return nil, auth.ErrInvalidCredentials
	}
	return s.players[id], nil
}

func (s *memStore) GetPlayer(id int) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

// memTuning keeps runtime config rows in memory.
type memTuning struct {
	mu      sync.Mutex
	configs map[string]string
	audit   []models.AdminAudit
}

func (s *memTuning) GetAllRuntimeConfig() ([]models.RuntimeConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.RuntimeConfig{}
	for k, v := range s.configs {
		out = append(out, models.RuntimeConfig{Key: k, Value: v})
	}
	return out, nil
}

func (s *memTuning) UpdateRuntimeConfigValue(key, value, adminUsername string) error {
	if err := admin.ValidateValue(key, value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[key] = value
	return nil
}

func (s *memTuning) LogAdminAction(adminUsername, ip, route, action string, details map[string]interface{}, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, models.AdminAudit{
		ID: len(s.audit) + 1, AdminUsername: adminUsername, Route: route, Action: action, Success: success,
	})
}

func (s *memTuning) GetAdminAuditLogs(limit, offset int) ([]models.AdminAudit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AdminAudit(nil), s.audit...), nil
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	mgr    *game.RunManager
	tuning *memTuning
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Environment:       "test",
		JWTSecret:         "test-secret",
		SessionTimeoutMin: 60,
		TickRateHz:        120,
		MaxFrameDeltaMs:   100,
		LeaderboardSize:   10,
		AdminToken:        "ops-token",
	}
	mgr := game.NewRunManager(nil, nil, cfg)
	t.Cleanup(mgr.Shutdown)

	tuning := &memTuning{configs: make(map[string]string)}
	router := gin.New()
	SetupRoutes(router, newMemStore(), tuning, mgr, cfg)
	return &testAPI{t: t, router: router, mgr: mgr, tuning: tuning}
}

func (a *testAPI) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (a *testAPI) signup(email string) string {
	a.t.Helper()
	w, body := a.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": email, "password": "correct-horse", "display_name": "Golfer",
	})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("signup %s: %d %s", email, w.Code, w.Body.String())
	}
	return body["token"].(string)
}

func TestAuthFlow(t *testing.T) {
	a := newTestAPI(t)
	token := a.signup("ada@example.com")

	w, _ := a.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "ADA@example.com", "password": "correct-horse"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate signup: %d", w.Code)
	}
	w, _ = a.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "bob@example.com", "password": "short"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("weak password: %d", w.Code)
	}
	w, _ = a.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "not-an-email", "password": "correct-horse"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad email: %d", w.Code)
	}

	w, body := a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@example.com", "password": "correct-horse"})
	if w.Code != http.StatusOK || body["token"] == "" {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	w, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@example.com", "password": "wrong-horse"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login: %d", w.Code)
	}

	w, body = a.do(http.MethodGet, "/api/v1/me", token, nil)
	if w.Code != http.StatusOK || body["display_name"] != "Golfer" {
		t.Errorf("me: %d %s", w.Code, w.Body.String())
	}
	w, _ = a.do(http.MethodGet, "/api/v1/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("me without token: %d", w.Code)
	}
}

func TestLevelsAndConfig(t *testing.T) {
	a := newTestAPI(t)

	w, body := a.do(http.MethodGet, "/api/v1/levels", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("levels: %d", w.Code)
	}
	if levels := body["levels"].([]interface{}); len(levels) != 5 {
		t.Errorf("expected 5 levels, got %d", len(levels))
	}

	w, body = a.do(http.MethodGet, "/api/v1/levels/2", "", nil)
	if w.Code != http.StatusOK || body["name"] != "Pendulum Alley" {
		t.Errorf("level 2: %d %s", w.Code, w.Body.String())
	}
	if w, _ = a.do(http.MethodGet, "/api/v1/levels/9", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown level: %d", w.Code)
	}
	if w, _ = a.do(http.MethodGet, "/api/v1/levels/abc", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad level id: %d", w.Code)
	}

	w, body = a.do(http.MethodGet, "/api/v1/config", "", nil)
	if w.Code != http.StatusOK || body["tick_rate_hz"].(float64) != 120 {
		t.Errorf("config: %d %s", w.Code, w.Body.String())
	}
	if w, _ = a.do(http.MethodGet, "/api/v1/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health: %d", w.Code)
	}
}

func TestRunLifecycle(t *testing.T) {
	a := newTestAPI(t)
	token := a.signup("ada@example.com")
	intruder := a.signup("eve@example.com")

	if w, _ := a.do(http.MethodPost, "/api/v1/runs", token, gin.H{"level_id": 42}); w.Code != http.StatusNotFound {
		t.Errorf("unknown level: %d", w.Code)
	}
	w, body := a.do(http.MethodPost, "/api/v1/runs", token, gin.H{"level_id": 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("start run: %d %s", w.Code, w.Body.String())
	}
	runToken := body["token"].(string)
	path := "/api/v1/runs/" + runToken

	if w, _ := a.do(http.MethodGet, path, intruder, nil); w.Code != http.StatusForbidden {
		t.Errorf("other player's run: %d", w.Code)
	}

	inputs := []gin.H{
		{"kind": "pointer_down", "point": gin.H{"x": 0, "y": 0, "z": 8}},
		{"kind": "pointer_up", "point": gin.H{"x": 0, "y": 0, "z": 9}},
	}
	for _, in := range inputs {
		if w, _ := a.do(http.MethodPost, path+"/input", token, in); w.Code != http.StatusAccepted {
			t.Fatalf("input %v: %d %s", in["kind"], w.Code, w.Body.String())
		}
	}
	if w, _ := a.do(http.MethodPost, path+"/input", token, gin.H{"kind": "pointer_up"}); w.Code != http.StatusBadRequest {
		t.Errorf("input without position: %d", w.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, body = a.do(http.MethodGet, path, token, nil)
		card, _ := body["scorecard"].(map[string]interface{})
		if card != nil && card["strokes"].(float64) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("stroke never counted: %v", body)
		}
		time.Sleep(10 * time.Millisecond)
	}

	_, me := a.do(http.MethodGet, "/api/v1/me", token, nil)
	if me["run_token"] != runToken {
		t.Errorf("profile should point at the live run, got %v", me["run_token"])
	}

	if w, _ := a.do(http.MethodDelete, path, intruder, nil); w.Code != http.StatusForbidden {
		t.Errorf("intruder delete: %d", w.Code)
	}
	if w, _ := a.do(http.MethodDelete, path, token, nil); w.Code != http.StatusOK {
		t.Errorf("delete: %d", w.Code)
	}
	if w, _ := a.do(http.MethodGet, path, token, nil); w.Code != http.StatusNotFound {
		t.Errorf("finished run without snapshots: %d", w.Code)
	}
}

func TestStoresUnavailable(t *testing.T) {
	a := newTestAPI(t)
	token := a.signup("ada@example.com")

	if w, _ := a.do(http.MethodGet, "/api/v1/leaderboard/1", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("leaderboard without redis: %d", w.Code)
	}
	if w, _ := a.do(http.MethodGet, "/api/v1/leaderboard/77", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("leaderboard for unknown level: %d", w.Code)
	}
	if w, _ := a.do(http.MethodGet, "/api/v1/me/scores", token, nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("scores without database: %d", w.Code)
	}
}

func (a *testAPI) adminDo(method, path, adminToken string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", adminToken)
	req.Header.Set("X-Admin-User", "ops")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestAdminTuning(t *testing.T) {
	a := newTestAPI(t)

	if w := a.adminDo(http.MethodGet, "/api/v1/admin/config", "wrong", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong admin token: %d", w.Code)
	}
	if w := a.adminDo(http.MethodGet, "/api/v1/admin/config", "ops-token", nil); w.Code != http.StatusOK {
		t.Errorf("admin config: %d %s", w.Code, w.Body.String())
	}

	if w := a.adminDo(http.MethodPut, "/api/v1/admin/config/power_multiplier", "ops-token", gin.H{"value": "99"}); w.Code != http.StatusBadRequest {
		t.Errorf("out of range value: %d", w.Code)
	}
	if w := a.adminDo(http.MethodPut, "/api/v1/admin/config/power_multiplier", "ops-token", gin.H{"value": "8"}); w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	if got := a.mgr.Params().PowerMultiplier; got != 8 {
		t.Errorf("new runs should use power 8, got %v", got)
	}

	w := a.adminDo(http.MethodGet, "/api/v1/admin/audit", "ops-token", nil)
	var out struct {
		Logs []models.AdminAudit `json:"logs"`
	}
	json.Unmarshal(w.Body.Bytes(), &out)
	if len(out.Logs) != 2 || out.Logs[0].Success || !out.Logs[1].Success || out.Logs[1].AdminUsername != "ops" {
		t.Errorf("unexpected audit trail: %+v", out.Logs)
	}
}
