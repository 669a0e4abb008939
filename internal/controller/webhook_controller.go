package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zapleads/zapleads-backend/internal/service"
)

type WebhookController struct {
	Relay  service.WebhookRelayInterface
	Logger logrus.FieldLogger
}

// Forward is the generic outbound relay entry point: the body carries
// webhookUrl plus the payload to forward; everything except webhookUrl is
// posted to that URL and the upstream's answer is returned verbatim.
func (c *WebhookController) Forward(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	url, _ := body["webhookUrl"].(string)
	url = strings.TrimSpace(url)
	if url == "" {
		writeError(w, http.StatusBadRequest, "webhookUrl is required")
		return
	}
	delete(body, "webhookUrl")

	result, err := c.Relay.Forward(r.Context(), url, body)
	if err != nil {
		c.log().WithError(err).WithField("webhookUrl", url).Error("webhook relay failed")
		writeError(w, http.StatusBadGateway, "failed to reach webhook")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     result.Accepted(),
		"status": result.StatusCode,
		"body":   result.Body,
	})
}

func (c *WebhookController) log() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}
