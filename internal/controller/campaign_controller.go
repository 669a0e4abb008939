package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	appErrors "github.com/zapleads/zapleads-backend/internal/errors"
	"github.com/zapleads/zapleads-backend/internal/model"
	"github.com/zapleads/zapleads-backend/internal/repository"
	"github.com/zapleads/zapleads-backend/internal/service"
)

type CampaignController struct {
	Dispatcher service.CampaignSender
	Campaigns  repository.CampaignRepositoryInterface
	Jobs       repository.JobRepositoryInterface
	Logger     logrus.FieldLogger
}

// SendCampaign triggers a full dispatch for the campaign. The request has
// no body; the scheduler invokes the same sender directly.
func (c *CampaignController) SendCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	result, err := c.Dispatcher.SendCampaign(r.Context(), id)
	if err != nil {
		c.log().WithError(err).WithField("campaignId", id).Error("campaign send failed")
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"campaignId":    result.CampaignID,
		"contactsCount": result.RecipientCount,
		"errors":        result.ErrorCount,
	})
}

// ScheduleCampaign creates a pending job that the scheduler will pick up
// once scheduled_at passes.
func (c *CampaignController) ScheduleCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	var body struct {
		ScheduledAt string `json:"scheduled_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, body.ScheduledAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "scheduled_at must be RFC3339")
		return
	}

	if _, err := c.Campaigns.GetByID(id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	job := &model.ScheduledJob{
		CampaignID:  id,
		Status:      model.JobStatusPending,
		ScheduledAt: scheduledAt,
	}
	if err := c.Jobs.Create(job); err != nil {
		c.log().WithError(err).WithField("campaignId", id).Error("failed to schedule campaign")
		writeError(w, http.StatusInternalServerError, "failed to schedule campaign")
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// GetJob exposes a job's status and errorMessage to operators.
func (c *CampaignController) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := c.Jobs.GetByID(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (c *CampaignController) log() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

func statusFor(err error) int {
	switch {
	case appErrors.IsNotFound(err):
		return http.StatusNotFound
	case appErrors.IsBadRequest(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": message,
	})
}
