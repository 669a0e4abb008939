package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zapleads/zapleads-backend/internal/repository"
)

// CampaignSender is the single execution entry point for a campaign run;
// the Scheduler and the HTTP trigger both go through it.
type CampaignSender interface {
	SendCampaign(ctx context.Context, campaignID int) (*SendResult, error)
}

// Scheduler polls the job store and drives due campaigns through the
// sender, one job at a time. Parallel dispatch would defeat the
// per-recipient pacing, so jobs are strictly sequential.
type Scheduler struct {
	Jobs   repository.JobRepositoryInterface
	Sender CampaignSender
	Logger logrus.FieldLogger

	Interval  time.Duration
	BatchSize int

	Now func() time.Time
}

// Run ticks on the configured interval until ctx is cancelled. A tick in
// progress finishes before the loop exits.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log().WithField("interval", interval).Info("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.log().Info("scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick claims and runs one batch of due jobs. A store query failure
// aborts the whole tick with no job state touched; a single job's
// failure is recorded on that job and the rest of the batch still runs.
func (s *Scheduler) Tick(ctx context.Context) error {
	batch := s.BatchSize
	if batch <= 0 {
		batch = 10
	}

	jobs, err := s.Jobs.GetDue(batch, s.now())
	if err != nil {
		s.log().WithError(err).Error("failed to query due jobs, skipping tick")
		return err
	}

	for _, job := range jobs {
		s.runJob(ctx, job.ID, job.CampaignID)
	}
	return nil
}

func (s *Scheduler) runJob(ctx context.Context, jobID, campaignID int) {
	log := s.log().WithFields(logrus.Fields{
		"jobId":      jobID,
		"campaignId": campaignID,
	})

	// Claim before any side effect. A crash after this point leaves the
	// job visibly processing instead of silently retried.
	claimed, err := s.Jobs.Claim(jobID, s.now())
	if err != nil {
		log.WithError(err).Error("failed to claim job")
		return
	}
	if !claimed {
		return
	}

	result, err := s.Sender.SendCampaign(ctx, campaignID)
	if err != nil {
		log.WithError(err).Error("campaign dispatch failed")
		if markErr := s.Jobs.MarkFailed(jobID, err.Error()); markErr != nil {
			log.WithError(markErr).Error("failed to record job failure")
		}
		return
	}

	if err := s.Jobs.MarkCompleted(jobID, s.now()); err != nil {
		log.WithError(err).Error("failed to record job completion")
		return
	}

	log.WithFields(logrus.Fields{
		"recipients": result.RecipientCount,
		"errors":     result.ErrorCount,
	}).Info("job completed")
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) log() logrus.FieldLogger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}
