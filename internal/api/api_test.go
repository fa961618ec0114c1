package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/config"
	"cicd-dashboard/internal/alert"
	"cicd-dashboard/internal/bus"
	"cicd-dashboard/internal/notify"
	"cicd-dashboard/pkg/jwt"
	"cicd-dashboard/pkg/log"
)

type fakeNotifier struct {
	mu           sync.Mutex
	pipelineRuns []alert.PipelineRun
	systemAlerts []string
}

func (f *fakeNotifier) PipelineAlert(ctx context.Context, run alert.PipelineRun) []notify.DeliveryResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipelineRuns = append(f.pipelineRuns, run)
	return []notify.DeliveryResult{{Channel: "teams", Success: true}}
}

func (f *fakeNotifier) SystemAlert(ctx context.Context, alertType, message string, data map[string]string) []notify.DeliveryResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.systemAlerts = append(f.systemAlerts, alertType)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	events []string
}

func (f *fakePublisher) Publish(topic, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.events = append(f.events, event)
}

type fakeStats struct{}

func (fakeStats) GetStats() bus.HubStats { return bus.HubStats{ActiveConnections: 3} }

type fakeEmail struct {
	enabled    bool
	deliverErr error
	testErr    error
}

func (f *fakeEmail) Enabled() bool                                  { return f.enabled }
func (f *fakeEmail) Deliver(ctx context.Context, e alert.Event) error { return f.deliverErr }
func (f *fakeEmail) TestConnection(ctx context.Context) error        { return f.testErr }

type fakeChannel struct {
	name    string
	enabled bool
	testErr error
}

func (f *fakeChannel) Name() string  { return f.name }
func (f *fakeChannel) Enabled() bool { return f.enabled }
func (f *fakeChannel) Deliver(ctx context.Context, e alert.Event) error {
	return nil
}

type testableChannel struct {
	fakeChannel
}

func (t *testableChannel) TestConnection(ctx context.Context) error {
	return t.testErr
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeNotifier, *fakePublisher, *fakeEmail) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	email := &fakeEmail{enabled: true}

	appCfg := &config.Config{}
	appCfg.Environment.Name = "test"
	appCfg.Dashboard.DemoEmailRecipient = "team@example.com"

	h := New(Config{
		Logger:     log.Init(log.ZapConfig{Level: "fatal", Mode: "development", Encoding: "console"}),
		AppConfig:  appCfg,
		Dispatcher: notifier,
		Publisher:  publisher,
		Stats:      fakeStats{},
		Email:      email,
		Transports: []notify.Transport{
			&testableChannel{fakeChannel{name: "email", enabled: true}},
			&fakeChannel{name: "teams", enabled: false},
		},
		JWTManager: jwt.NewManager(jwt.Config{SecretKey: "test-secret"}),
	})

	router := gin.New()
	h.SetupRoutes(router)
	return router, notifier, publisher, email
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGithubWebhookFailedRun(t *testing.T) {
	router, notifier, publisher, _ := newTestRouter(t)

	payload := map[string]any{
		"action": "completed",
		"workflow_run": map[string]any{
			"id":          99,
			"name":        "Frontend CI",
			"status":      "completed",
			"conclusion":  "failure",
			"head_branch": "main",
			"head_sha":    "abc123def456789",
		},
		"repository": map[string]any{"name": "frontend-app"},
	}

	w := doJSON(t, router, http.MethodPost, "/api/webhooks/github", payload,
		map[string]string{"X-GitHub-Event": "workflow_run"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(notifier.pipelineRuns) != 1 {
		t.Fatalf("dispatched %d pipeline alerts, want 1", len(notifier.pipelineRuns))
	}
	run := notifier.pipelineRuns[0]
	if run.Status != "failed" || run.Platform != "github_actions" || run.PipelineName != "Frontend CI" {
		t.Errorf("run = %+v", run)
	}

	// Run completion goes to dashboard and the pipeline topic.
	if len(publisher.topics) != 2 {
		t.Fatalf("published to %d topics, want 2: %v", len(publisher.topics), publisher.topics)
	}
	if publisher.topics[0] != bus.TopicDashboard || publisher.topics[1] != "pipeline:gh-99" {
		t.Errorf("topics = %v", publisher.topics)
	}
	for _, ev := range publisher.events {
		if ev != "pipeline:run:completed" {
			t.Errorf("event = %q", ev)
		}
	}
}

func TestGithubWebhookIgnoresInProgress(t *testing.T) {
	router, notifier, publisher, _ := newTestRouter(t)

	payload := map[string]any{
		"workflow_run": map[string]any{"name": "Frontend CI", "status": "in_progress"},
	}
	w := doJSON(t, router, http.MethodPost, "/api/webhooks/github", payload,
		map[string]string{"X-GitHub-Event": "workflow_run"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(notifier.pipelineRuns) != 0 || len(publisher.topics) != 0 {
		t.Error("in-progress run must not dispatch or publish")
	}
}

func TestGitlabWebhookSuccessPublishesWithoutAlert(t *testing.T) {
	router, notifier, publisher, _ := newTestRouter(t)

	payload := map[string]any{
		"object_kind": "pipeline",
		"object_attributes": map[string]any{
			"id": 7, "status": "success", "ref": "main", "sha": "abc", "duration": 120,
		},
		"project": map[string]any{"name": "backend-api"},
	}
	w := doJSON(t, router, http.MethodPost, "/api/webhooks/gitlab", payload,
		map[string]string{"X-Gitlab-Event": "Pipeline Hook"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(notifier.pipelineRuns) != 0 {
		t.Error("successful run must not dispatch an alert")
	}
	if len(publisher.topics) != 2 {
		t.Errorf("topics = %v, want dashboard + pipeline topic", publisher.topics)
	}
}

func TestVerifyWebhook(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"github verified", "/api/webhooks/verify/github", http.StatusOK},
		{"slack with challenge", "/api/webhooks/verify/slack?challenge=abc", http.StatusOK},
		{"slack without challenge", "/api/webhooks/verify/slack", http.StatusBadRequest},
		{"unsupported platform", "/api/webhooks/verify/teamcity", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, tt.path, nil, nil)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
		})
	}
}

func TestDemoPipelineRunDefaultsToFailed(t *testing.T) {
	router, notifier, publisher, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/demo/pipeline-run", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	if len(notifier.pipelineRuns) != 1 {
		t.Fatalf("dispatched %d alerts, want 1 (default status is failed)", len(notifier.pipelineRuns))
	}
	if notifier.pipelineRuns[0].PipelineID != "demo-pipeline-1" {
		t.Errorf("pipelineId = %q", notifier.pipelineRuns[0].PipelineID)
	}
	if len(publisher.topics) != 2 {
		t.Errorf("topics = %v", publisher.topics)
	}
}

func TestDemoPipelineRunSuccessSkipsAlert(t *testing.T) {
	router, notifier, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/demo/pipeline-run",
		map[string]string{"status": "success"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(notifier.pipelineRuns) != 0 {
		t.Error("successful demo run must not dispatch an alert")
	}
}

func TestDemoAlertEmail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router, _, _, _ := newTestRouter(t)
		w := doJSON(t, router, http.MethodPost, "/api/demo/alert-email", nil, nil)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})

	t.Run("delivery failure", func(t *testing.T) {
		router, _, _, email := newTestRouter(t)
		email.deliverErr = errors.New("smtp down")
		w := doJSON(t, router, http.MethodPost, "/api/demo/alert-email", nil, nil)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})
}

func TestIntegrationTest(t *testing.T) {
	t.Run("tester channel success", func(t *testing.T) {
		router, _, _, _ := newTestRouter(t)
		w := doJSON(t, router, http.MethodPost, "/api/integrations/email/test", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("disabled channel without tester", func(t *testing.T) {
		router, _, _, _ := newTestRouter(t)
		w := doJSON(t, router, http.MethodPost, "/api/integrations/teams/test", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 envelope with failure data", w.Code)
		}
		var resp struct {
			Data map[string]any `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if resp.Data["success"] != false {
			t.Errorf("data = %v, want success=false", resp.Data)
		}
	})

	t.Run("unknown integration", func(t *testing.T) {
		router, _, _, _ := newTestRouter(t)
		w := doJSON(t, router, http.MethodPost, "/api/integrations/pagerduty/test", nil, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestLogin(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	t.Run("issues token", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "dev@example.com", "password": "secret"}, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp struct {
			Data struct {
				Token string `json:"token"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if resp.Data.Token == "" {
			t.Error("token missing from login response")
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "dev@example.com"}, nil)
		if w.Code == http.StatusOK {
			t.Error("login without password must fail")
		}
	})
}

func TestLoginUnavailableWithoutSigner(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := New(Config{
		Logger:     log.Init(log.ZapConfig{Level: "fatal", Mode: "development", Encoding: "console"}),
		AppConfig:  &config.Config{},
		Dispatcher: &fakeNotifier{},
		Publisher:  &fakePublisher{},
		Stats:      fakeStats{},
		Email:      &fakeEmail{},
	})
	router := gin.New()
	h.SetupRoutes(router)

	w := doJSON(t, router, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "dev@example.com", "password": "secret"}, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when no token signer is configured", w.Code)
	}
}

func TestMockReadEndpoints(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	paths := []string{
		"/api/pipelines",
		"/api/pipelines/1",
		"/api/pipelines/1/runs",
		"/api/alerts",
		"/api/alerts/history",
		"/api/metrics/dashboard",
		"/api/metrics/trends",
		"/api/monitoring/status",
		"/api/demo/status",
		"/api/demo/test-email",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, path, nil, nil)
			if w.Code != http.StatusOK {
				t.Errorf("GET %s = %d, want 200", path, w.Code)
			}
		})
	}
}
