package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	partnersrepo "leadrouting_backend/internal/partners/repository"
	"leadrouting_backend/platform/logger"

	"github.com/google/uuid"
)

// Deliverer performs the outbound HTTP call to a partner endpoint. Partners
// without an endpoint are treated as delivered: the lead is considered handed
// off (e.g. exported via reporting) and receives a synthetic external id.
type Deliverer struct {
	client *http.Client
	log    *logger.Logger
}

func NewDeliverer(timeout time.Duration, log *logger.Logger) *Deliverer {
	return &Deliverer{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

type deliveryResponse struct {
	ID     string `json:"id"`
	LeadID string `json:"leadId"`
}

// Deliver posts the payload to the partner endpoint and returns the partner's
// external lead id. A partner with no endpoint gets a synthetic id.
func (d *Deliverer) Deliver(ctx context.Context, partner *partnersrepo.Partner, payload LeadPayload) (string, error) {
	if partner.EndpointURL == nil || *partner.EndpointURL == "" {
		syntheticID := "internal-" + uuid.NewString()
		d.log.Info("partner has no endpoint, completing delivery locally",
			"partnerId", partner.ID, "externalId", syntheticID)
		return syntheticID, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, *partner.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if partner.EndpointAuthToken != nil && *partner.EndpointAuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+*partner.EndpointAuthToken)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deliver to partner: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the error record, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("partner endpoint returned %d: %s", resp.StatusCode, snippet)
	}

	var parsed deliveryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err == nil {
		if parsed.ID != "" {
			return parsed.ID, nil
		}
		if parsed.LeadID != "" {
			return parsed.LeadID, nil
		}
	}

	// Accepted but no id in the response; record our own reference.
	return "accepted-" + uuid.NewString(), nil
}
