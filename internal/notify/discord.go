package notify

import (
	"championship/internal/config"
	"championship/internal/domain"
	"championship/internal/render"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const embedColor = 0xE10600

// DiscordNotifier posts standings updates to a Discord webhook. With an
// empty webhook URL it does nothing.
type DiscordNotifier struct {
	webhookURL  string
	topN        int
	client      *fasthttp.Client
	logger      zerolog.Logger
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Bucket    string `json:"bucket"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`

	// seconds until reset
	ResetAfter float64 `json:"reset_after"`

	UpdatedAt time.Time `json:"updated_at"`
}

type webhookPayload struct {
	Username string         `json:"username,omitempty"`
	Content  string         `json:"content,omitempty"`
	Embeds   []webhookEmbed `json:"embeds,omitempty"`
}

type webhookEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp,omitempty"`
}

func NewDiscordNotifier(cfg *config.Config, logger zerolog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: cfg.DiscordWebhookURL,
		topN:       cfg.NotifyTopN,
		logger:     logger,
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		rateLimit: RateLimitInfo{
			Limit:     5,
			Remaining: 5,
			UpdatedAt: time.Now(),
		},
	}
}

func (n *DiscordNotifier) Enabled() bool {
	return n.webhookURL != ""
}

func (n *DiscordNotifier) GetRateLimitInfo() RateLimitInfo {
	n.rateLimitMu.RLock()
	defer n.rateLimitMu.RUnlock()
	return n.rateLimit
}

// StandingsUpdated announces new results for race with the top of the
// driver standings.
func (n *DiscordNotifier) StandingsUpdated(ctx context.Context, race domain.Race, standings []domain.DriverStanding) error {
	if !n.Enabled() {
		return nil
	}

	top := standings
	if len(top) > n.topN {
		top = top[:n.topN]
	}

	description := "No classified drivers yet."
	if len(top) > 0 {
		description = "```\n" + render.DriverTable(top, true) + "```"
	}

	payload := webhookPayload{
		Username: "Race Control",
		Embeds: []webhookEmbed{{
			Title:       fmt.Sprintf("Results posted: %s", race.Name),
			Description: description,
			Color:       embedColor,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	}

	if err := n.post(ctx, payload); err != nil {
		n.logger.Warn().Err(err).Int64("race_id", race.ID).Msg("discord notification failed")
		return err
	}

	n.logger.Debug().Int64("race_id", race.ID).Int("entries", len(top)).Msg("discord notification sent")
	return nil
}

func (n *DiscordNotifier) updateRateLimit(resp *fasthttp.Response) {
	n.rateLimitMu.Lock()
	defer n.rateLimitMu.Unlock()

	if bucket := string(resp.Header.Peek("X-RateLimit-Bucket")); bucket != "" {
		n.rateLimit.Bucket = bucket
	}
	if limit := string(resp.Header.Peek("X-RateLimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			n.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-RateLimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			n.rateLimit.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("X-RateLimit-Reset-After")); reset != "" {
		if val, err := strconv.ParseFloat(reset, 64); err == nil {
			n.rateLimit.ResetAfter = val
		}
	}
	n.rateLimit.UpdatedAt = time.Now()
}

func (n *DiscordNotifier) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(n.webhookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := n.client.DoDeadline(req, resp, deadline); err != nil {
			return err
		}
	} else {
		if err := n.client.Do(req, resp); err != nil {
			return err
		}
	}

	n.updateRateLimit(resp)

	switch resp.StatusCode() {
	case fasthttp.StatusOK, fasthttp.StatusNoContent:
		return nil
	case fasthttp.StatusTooManyRequests:
		return fmt.Errorf("discord rate limited, retry after %.1fs", n.GetRateLimitInfo().ResetAfter)
	default:
		return fmt.Errorf("discord webhook error: %d", resp.StatusCode())
	}
}
