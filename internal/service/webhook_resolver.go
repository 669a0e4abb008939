package service

import (
	"strings"

	"github.com/zapleads/zapleads-backend/internal/model"
	"github.com/zapleads/zapleads-backend/internal/repository"
)

// WebhookResolver picks the relay URL per user and channel: the user's
// profile override when set, else the account-wide default.
type WebhookResolver struct {
	Profiles repository.WebhookProfileRepositoryInterface

	DefaultWhatsappURL string
	DefaultEmailURL    string
}

// Resolve returns the relay URL for one channel, or "" when neither the
// user nor the account configures one.
func (r *WebhookResolver) Resolve(userID int, channel string) (string, error) {
	profile, err := r.Profiles.GetByUserID(userID)
	if err != nil {
		return "", err
	}
	return r.resolve(profile, channel), nil
}

// EffectiveChannels resolves every requested channel with a single
// profile read and keeps only those with a non-empty URL. The returned
// map is the campaign run's effective channel set.
func (r *WebhookResolver) EffectiveChannels(userID int, channels []string) (map[string]string, error) {
	profile, err := r.Profiles.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	effective := map[string]string{}
	for _, channel := range channels {
		if url := r.resolve(profile, channel); url != "" {
			effective[channel] = url
		}
	}
	return effective, nil
}

func (r *WebhookResolver) resolve(profile *model.WebhookProfile, channel string) string {
	var override, fallback string
	switch channel {
	case model.ChannelWhatsapp:
		fallback = r.DefaultWhatsappURL
		if profile != nil {
			override = profile.WebhookWhatsappURL
		}
	case model.ChannelEmail:
		fallback = r.DefaultEmailURL
		if profile != nil {
			override = profile.WebhookEmailURL
		}
	default:
		return ""
	}

	if url := strings.TrimSpace(override); url != "" {
		return url
	}
	return strings.TrimSpace(fallback)
}
