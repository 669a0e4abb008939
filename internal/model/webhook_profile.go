package model

// WebhookProfile holds a user's optional relay URL overrides. Empty
// fields fall back to the account-wide defaults per channel.
type WebhookProfile struct {
	UserID             int    `db:"user_id" json:"user_id"`
	WebhookWhatsappURL string `db:"webhook_whatsapp_url" json:"webhook_whatsapp_url"`
	WebhookEmailURL    string `db:"webhook_email_url" json:"webhook_email_url"`
}
