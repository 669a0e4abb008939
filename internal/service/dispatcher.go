package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appErrors "github.com/zapleads/zapleads-backend/internal/errors"
	"github.com/zapleads/zapleads-backend/internal/model"
	"github.com/zapleads/zapleads-backend/internal/queue"
	"github.com/zapleads/zapleads-backend/internal/repository"
)

const payloadSource = "zapleads-backend"

// SendResult summarizes one campaign run. ErrorCount counts relay-level
// failures only; a run with failures is still a completed run.
type SendResult struct {
	CampaignID     int
	RecipientCount int
	ErrorCount     int
}

// WebhookPayload is the body relayed to the automation platform, one per
// recipient per channel.
type WebhookPayload struct {
	Source       string    `json:"source"`
	Trigger      string    `json:"trigger"`
	RunID        string    `json:"runId"`
	CampaignID   int       `json:"campaignId"`
	CampaignName string    `json:"campaignName"`
	ListID       int       `json:"listId"`
	ListName     string    `json:"listName"`
	Channel      string    `json:"channel"`
	CreatedAt    time.Time `json:"createdAt"`
	ContactIndex int       `json:"contactIndex"`
	ContactTotal int       `json:"contactTotal"`

	Message         string `json:"message"`
	MessageWhatsapp string `json:"messageWhatsapp"`
	MessagePlain    string `json:"messagePlain"`
	MessageHTML     string `json:"messageHtml"`

	Contacts []PayloadContact `json:"contacts"`
}

type PayloadContact struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Category string `json:"category"`
	Rating   *int   `json:"rating"`
	CEP      string `json:"cep"`
}

// Dispatcher runs one campaign end to end: load configuration and
// recipients, render once, relay per recipient and channel, pace between
// recipients.
type Dispatcher struct {
	CampaignRepo repository.CampaignRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	Resolver     *WebhookResolver
	Relay        WebhookRelayInterface
	Events       queue.EventPublisher
	Logger       logrus.FieldLogger

	// Injection points for tests; nil means the real thing.
	Sleep func(d time.Duration)
	Intn  func(n int) int
	Now   func() time.Time
}

// SendCampaign dispatches campaign id to every reachable recipient. All
// precondition failures return before any recipient is contacted;
// per-message relay failures only increment the result's error counter.
func (d *Dispatcher) SendCampaign(ctx context.Context, campaignID int) (*SendResult, error) {
	campaign, err := d.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	list, err := d.ContactRepo.GetListByName(campaign.UserID, campaign.ListName)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, appErrors.NewListNotFound(campaign.UserID, campaign.ListName)
	}

	contacts, err := d.ContactRepo.ListByListID(list.ID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, appErrors.NewNoRecipients(campaignID)
	}

	effective, err := d.Resolver.EffectiveChannels(campaign.UserID, campaign.Channels)
	if err != nil {
		return nil, err
	}
	if len(effective) == 0 {
		return nil, appErrors.NewNoWebhookConfigured(campaignID)
	}

	rendered := RenderMessage(campaign.Message)
	runID := uuid.NewString()
	minSec, maxSec := campaign.PacingBounds()

	log := d.log().WithFields(logrus.Fields{
		"campaignId": campaignID,
		"runId":      runID,
		"recipients": len(contacts),
	})
	log.Info("campaign dispatch started")

	result := &SendResult{
		CampaignID:     campaignID,
		RecipientCount: len(contacts),
	}

	for i, contact := range contacts {
		// Iterate the campaign's declared channel order; the effective
		// set only filters it.
		for _, channel := range campaign.Channels {
			url, ok := effective[channel]
			if !ok {
				continue
			}

			if contactTarget(contact, channel) == "" {
				continue
			}

			payload := d.buildPayload(campaign, list, contact, channel, rendered, runID, i+1, len(contacts))
			d.relayPayload(ctx, log, url, payload, contact.ID, channel, result)
		}

		// Pacing between recipients is unconditional, even when every
		// channel was skipped; bulk-abuse detection keys on send rhythm.
		if i < len(contacts)-1 {
			delay := time.Duration(minSec+d.intn(maxSec-minSec+1)) * time.Second
			d.sleep(delay)
		}
	}

	log.WithField("errors", result.ErrorCount).Info("campaign dispatch finished")
	return result, nil
}

func (d *Dispatcher) relayPayload(ctx context.Context, log logrus.FieldLogger, url string, payload *WebhookPayload, contactID int, channel string, result *SendResult) {
	var failure string

	res, err := d.Relay.Forward(ctx, url, payload)
	switch {
	case err != nil:
		failure = err.Error()
	case !res.Accepted():
		failure = "upstream rejected payload"
		log.WithFields(logrus.Fields{
			"contactId": contactID,
			"channel":   channel,
			"status":    res.StatusCode,
		}).Warn("webhook rejected payload")
	}

	if failure != "" {
		result.ErrorCount++
		if err != nil {
			log.WithFields(logrus.Fields{
				"contactId": contactID,
				"channel":   channel,
			}).WithError(err).Warn("webhook relay failed")
		}
	}

	event := queue.DeliveryEvent{
		RunID:      payload.RunID,
		CampaignID: payload.CampaignID,
		ContactID:  contactID,
		Channel:    channel,
		OK:         failure == "",
		Error:      failure,
		At:         d.now(),
	}
	if err := d.events().PublishDelivery(event); err != nil {
		log.WithError(err).Warn("failed to publish delivery event")
	}
}

func (d *Dispatcher) buildPayload(
	campaign *model.Campaign,
	list *model.List,
	contact model.Contact,
	channel string,
	rendered RenderedMessage,
	runID string,
	index, total int,
) *WebhookPayload {
	// WhatsApp gets the WhatsApp-safe rendering as its primary message,
	// email gets the rich-text form.
	primary := rendered.HTML
	if channel == model.ChannelWhatsapp {
		primary = rendered.WhatsApp
	}

	payloadContact := PayloadContact{
		ID:       contact.ID,
		Name:     contact.Name,
		Phone:    normalizePhone(contact.Phone),
		Email:    strings.TrimSpace(contact.Email),
		Category: contact.Category,
		Rating:   contact.Rating,
		CEP:      contact.CEP,
	}

	return &WebhookPayload{
		Source:       payloadSource,
		Trigger:      "campaign",
		RunID:        runID,
		CampaignID:   campaign.ID,
		CampaignName: campaign.Name,
		ListID:       list.ID,
		ListName:     list.Name,
		Channel:      channel,
		CreatedAt:    d.now(),
		ContactIndex: index,
		ContactTotal: total,

		Message:         primary,
		MessageWhatsapp: rendered.WhatsApp,
		MessagePlain:    rendered.Plain,
		MessageHTML:     rendered.HTML,

		Contacts: []PayloadContact{payloadContact},
	}
}

// contactTarget returns the channel's required address for the contact,
// or "" when the contact cannot be reached on that channel (skip, not
// error).
func contactTarget(contact model.Contact, channel string) string {
	switch channel {
	case model.ChannelWhatsapp:
		return normalizePhone(contact.Phone)
	case model.ChannelEmail:
		return strings.TrimSpace(contact.Email)
	}
	return ""
}

// normalizePhone strips everything that is not a digit.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (d *Dispatcher) sleep(dur time.Duration) {
	if d.Sleep != nil {
		d.Sleep(dur)
		return
	}
	time.Sleep(dur)
}

func (d *Dispatcher) intn(n int) int {
	if n <= 1 {
		return 0
	}
	if d.Intn != nil {
		return d.Intn(n)
	}
	return rand.Intn(n)
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Dispatcher) events() queue.EventPublisher {
	if d.Events != nil {
		return d.Events
	}
	return queue.NoopPublisher{}
}

func (d *Dispatcher) log() logrus.FieldLogger {
	if d.Logger != nil {
		return d.Logger
	}
	return logrus.StandardLogger()
}
