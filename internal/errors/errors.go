package appErrors

import (
	"errors"
	"fmt"
)

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrListNotFound: the campaign references a list name the owner does
// not have.
type ErrListNotFound struct {
	UserID   int
	ListName string
}

func (e *ErrListNotFound) Error() string {
	return fmt.Sprintf("list %q not found for user %d", e.ListName, e.UserID)
}

func NewListNotFound(userID int, name string) error {
	return &ErrListNotFound{UserID: userID, ListName: name}
}

// ErrNoRecipients: the target list resolved but holds no contacts.
type ErrNoRecipients struct {
	CampaignID int
}

func (e *ErrNoRecipients) Error() string {
	return fmt.Sprintf("campaign %d has no recipients", e.CampaignID)
}

func NewNoRecipients(campaignID int) error {
	return &ErrNoRecipients{CampaignID: campaignID}
}

// ErrNoWebhookConfigured: none of the campaign's channels resolves to a
// relay URL, so the run cannot start.
type ErrNoWebhookConfigured struct {
	CampaignID int
}

func (e *ErrNoWebhookConfigured) Error() string {
	return fmt.Sprintf("campaign %d has no webhook configured for any channel", e.CampaignID)
}

func NewNoWebhookConfigured(campaignID int) error {
	return &ErrNoWebhookConfigured{CampaignID: campaignID}
}

// ErrJobNotFound is a sentinel error
type ErrJobNotFound struct {
	JobID int
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("scheduled job with ID %d not found", e.JobID)
}

func NewJobNotFound(id int) error {
	return &ErrJobNotFound{JobID: id}
}

// IsNotFound reports whether err is a missing-entity failure (HTTP 404).
func IsNotFound(err error) bool {
	var campaign *ErrCampaignNotFound
	var job *ErrJobNotFound
	return errors.As(err, &campaign) || errors.As(err, &job)
}

// IsBadRequest reports whether err is a configuration failure the caller
// can fix (HTTP 400).
func IsBadRequest(err error) bool {
	var list *ErrListNotFound
	var recipients *ErrNoRecipients
	var webhook *ErrNoWebhookConfigured
	return errors.As(err, &list) || errors.As(err, &recipients) || errors.As(err, &webhook)
}
