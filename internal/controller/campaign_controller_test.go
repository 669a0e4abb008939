package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapleads/zapleads-backend/internal/controller"
	appErrors "github.com/zapleads/zapleads-backend/internal/errors"
	"github.com/zapleads/zapleads-backend/internal/model"
	"github.com/zapleads/zapleads-backend/internal/service"
)

// --- Mocks ---

type mockSender struct {
	result *service.SendResult
	err    error
	calls  []int
}

func (m *mockSender) SendCampaign(ctx context.Context, campaignID int) (*service.SendResult, error) {
	m.calls = append(m.calls, campaignID)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockCampaignRepo struct {
	campaign *model.Campaign
	err      error
}

func (m *mockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.campaign, nil
}

type mockJobRepo struct {
	created *model.ScheduledJob
	job     *model.ScheduledJob
	jobErr  error
}

func (m *mockJobRepo) Create(job *model.ScheduledJob) error {
	job.ID = 42
	m.created = job
	return nil
}

func (m *mockJobRepo) GetByID(id int) (*model.ScheduledJob, error) {
	if m.jobErr != nil {
		return nil, m.jobErr
	}
	return m.job, nil
}

func (m *mockJobRepo) GetDue(limit int, now time.Time) ([]*model.ScheduledJob, error) {
	return nil, nil
}
func (m *mockJobRepo) Claim(id int, now time.Time) (bool, error)    { return false, nil }
func (m *mockJobRepo) MarkCompleted(id int, now time.Time) error    { return nil }
func (m *mockJobRepo) MarkFailed(id int, errorMessage string) error { return nil }

func newRouter(c *controller.CampaignController) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/campaigns/{id}/send", c.SendCampaign)
	r.Post("/campaigns/{id}/schedule", c.ScheduleCampaign)
	r.Get("/scheduled-jobs/{id}", c.GetJob)
	return r
}

// --- Tests ---

func TestSendCampaignEndpoint(t *testing.T) {
	sender := &mockSender{result: &service.SendResult{CampaignID: 7, RecipientCount: 3, ErrorCount: 1}}
	ctrl := &controller.CampaignController{Dispatcher: sender}

	req := httptest.NewRequest("POST", "/campaigns/7/send", nil)
	w := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res map[string]any
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res["ok"] != true {
		t.Errorf("expected ok true, got %v", res["ok"])
	}
	if res["campaignId"] != float64(7) || res["contactsCount"] != float64(3) || res["errors"] != float64(1) {
		t.Errorf("unexpected body: %v", res)
	}
	if len(sender.calls) != 1 || sender.calls[0] != 7 {
		t.Errorf("expected one dispatch for campaign 7, got %v", sender.calls)
	}
}

func TestSendCampaignEndpointNotFound(t *testing.T) {
	sender := &mockSender{err: appErrors.NewCampaignNotFound(7)}
	ctrl := &controller.CampaignController{Dispatcher: sender}

	req := httptest.NewRequest("POST", "/campaigns/7/send", nil)
	w := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var res map[string]any
	json.NewDecoder(w.Body).Decode(&res)
	if res["ok"] != false || res["error"] == "" {
		t.Errorf("expected error body, got %v", res)
	}
}

func TestSendCampaignEndpointBadRequest(t *testing.T) {
	cases := map[string]error{
		"no webhook":     appErrors.NewNoWebhookConfigured(7),
		"no recipients":  appErrors.NewNoRecipients(7),
		"list not found": appErrors.NewListNotFound(1, "Clientes SP"),
	}

	for name, sendErr := range cases {
		t.Run(name, func(t *testing.T) {
			ctrl := &controller.CampaignController{Dispatcher: &mockSender{err: sendErr}}

			req := httptest.NewRequest("POST", "/campaigns/7/send", nil)
			w := httptest.NewRecorder()
			newRouter(ctrl).ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestScheduleCampaignEndpoint(t *testing.T) {
	jobs := &mockJobRepo{}
	ctrl := &controller.CampaignController{
		Dispatcher: &mockSender{},
		Campaigns:  &mockCampaignRepo{campaign: &model.Campaign{ID: 7}},
		Jobs:       jobs,
	}

	body, _ := json.Marshal(map[string]string{"scheduled_at": "2026-09-02T10:00:00Z"})
	req := httptest.NewRequest("POST", "/campaigns/7/schedule", bytes.NewReader(body))
	w := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if jobs.created == nil {
		t.Fatal("expected a job to be created")
	}
	if jobs.created.CampaignID != 7 || jobs.created.Status != model.JobStatusPending {
		t.Errorf("unexpected job: %+v", jobs.created)
	}
	if !jobs.created.ScheduledAt.Equal(time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected scheduled_at: %s", jobs.created.ScheduledAt)
	}
}

func TestScheduleCampaignEndpointUnknownCampaign(t *testing.T) {
	ctrl := &controller.CampaignController{
		Dispatcher: &mockSender{},
		Campaigns:  &mockCampaignRepo{err: appErrors.NewCampaignNotFound(9)},
		Jobs:       &mockJobRepo{},
	}

	body, _ := json.Marshal(map[string]string{"scheduled_at": "2026-09-02T10:00:00Z"})
	req := httptest.NewRequest("POST", "/campaigns/9/schedule", bytes.NewReader(body))
	w := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetJobEndpoint(t *testing.T) {
	started := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	message := "campaign with ID 7 not found"
	jobs := &mockJobRepo{job: &model.ScheduledJob{
		ID:           42,
		CampaignID:   7,
		Status:       model.JobStatusFailed,
		StartedAt:    &started,
		ErrorMessage: &message,
	}}
	ctrl := &controller.CampaignController{Jobs: jobs}

	req := httptest.NewRequest("GET", "/scheduled-jobs/42", nil)
	w := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res map[string]any
	json.NewDecoder(w.Body).Decode(&res)
	if res["status"] != model.JobStatusFailed || res["error_message"] != message {
		t.Errorf("unexpected body: %v", res)
	}
}

func TestGetJobEndpointNotFound(t *testing.T) {
	ctrl := &controller.CampaignController{Jobs: &mockJobRepo{jobErr: appErrors.NewJobNotFound(42)}}

	req := httptest.NewRequest("GET", "/scheduled-jobs/42", nil)
	w := httptest.NewRecorder()
	newRouter(ctrl).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
