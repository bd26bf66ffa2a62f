// Package youtube retrieves caption tracks for YouTube videos through the
// internal Innertube API and parses them into structured, timed text.
//
// One fetch operation is a strictly ordered sequence of blocking calls: watch
// page (with at most one consent retry), API key extraction, player RPC,
// playability check, catalog build, track download, parse. Each operation uses
// its own HTTP session so the consent cookie never leaks between concurrent
// fetches; the rate limiter and configuration are the only shared state.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"yttranscript/config"
	ythttp "yttranscript/http"
	"yttranscript/retry"
	"yttranscript/youtube/innertube"
)

// videoIDPattern is the 11-character identifier shape video IDs must match
// before any network call. Extracting the ID from arbitrary URLs is the
// caller's responsibility.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ValidVideoID reports whether s has the shape of a YouTube video ID.
func ValidVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// Client fetches transcripts for YouTube videos. It is safe for concurrent
// use: every operation gets a fresh HTTP session, and the shared rate limiter
// and configuration are never mutated.
type Client struct {
	cfg     *config.Config
	httpCfg *ythttp.Config
	limiter *ythttp.RateLimiter
	log     *logrus.Entry

	// Endpoint bases, overridable in tests.
	watchBase  string
	playerBase string
}

// NewClient creates a transcript client from the given configuration.
// A nil configuration uses defaults.
func NewClient(cfg *config.Config) *Client {
	if cfg == nil {
		cfg = config.Default()
	}

	httpCfg := &ythttp.Config{
		Timeout:        cfg.HTTPTimeout,
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.AcceptLanguage,
		RateLimiter: ythttp.RateLimiterConfig{
			RequestsPerSecond: cfg.RequestsPerSecond,
		},
		Transport: ythttp.DefaultTransportConfig(),
	}
	if cfg.Proxy != nil {
		httpCfg.HTTPProxy = cfg.Proxy.HTTPURL
		httpCfg.HTTPSProxy = cfg.Proxy.HTTPSURL
	}

	return &Client{
		cfg:        cfg,
		httpCfg:    httpCfg,
		limiter:    ythttp.NewRateLimiter(httpCfg.RateLimiter),
		log:        logrus.WithField("component", "yttranscript"),
		watchBase:  watchBaseURL,
		playerBase: innertube.PlayerEndpoint,
	}
}

// ListTranscripts returns the catalog of transcripts available for a video.
func (c *Client) ListTranscripts(ctx context.Context, videoID string) (*TranscriptList, error) {
	if !ValidVideoID(videoID) {
		return nil, &InvalidVideoIDError{VideoID: videoID}
	}

	session, err := ythttp.New(c.httpCfg, ythttp.WithRateLimiter(c.limiter))
	if err != nil {
		return nil, err
	}

	log := c.log.WithFields(logrus.Fields{
		"video_id": videoID,
		"op_id":    uuid.NewString(),
	})

	var list *TranscriptList
	err = retry.Do(ctx, c.blockedRetryConfig(), IsBlocked, func(ctx context.Context) error {
		var fetchErr error
		list, fetchErr = c.fetchTranscriptList(ctx, session, videoID, log)
		if fetchErr != nil && IsBlocked(fetchErr) {
			log.WithError(fetchErr).Debug("blocked by youtube")
		}
		return fetchErr
	})
	if err != nil {
		return nil, c.annotateBlocked(err)
	}

	log.WithField("tracks", len(list.All())).Debug("built transcript catalog")
	return list, nil
}

// FetchTranscript lists the video's transcripts, picks the first match of the
// language preference order (falling back to the configured default order),
// and downloads it.
func (c *Client) FetchTranscript(ctx context.Context, videoID string, languageCodes []string, opts *FetchOptions) (*FetchedTranscript, error) {
	if len(languageCodes) == 0 {
		languageCodes = c.cfg.Languages
	}

	list, err := c.ListTranscripts(ctx, videoID)
	if err != nil {
		return nil, err
	}

	transcript, err := list.Find(languageCodes)
	if err != nil {
		return nil, err
	}

	return transcript.Fetch(ctx, opts)
}

// blockedRetryConfig bounds the blocked-retry loop: the configured attempt
// count through a proxy, a single attempt otherwise. Retries reuse the same
// proxy immediately; rotating proxies is the caller's decision.
func (c *Client) blockedRetryConfig() retry.Config {
	attempts := 1
	if c.cfg.Proxy != nil && c.cfg.Proxy.RetriesWhenBlocked > 0 {
		attempts = c.cfg.Proxy.RetriesWhenBlocked
	}
	return retry.Config{Attempts: attempts}
}

// annotateBlocked attaches the proxy configuration to a terminal blocking
// failure so the caller can decide whether to rotate proxies.
func (c *Client) annotateBlocked(err error) error {
	if c.cfg.Proxy == nil {
		return err
	}
	var blocked *RequestBlockedError
	if errors.As(err, &blocked) {
		blocked.Proxy = c.cfg.Proxy
	}
	var ipBlocked *IPBlockedError
	if errors.As(err, &ipBlocked) {
		ipBlocked.Proxy = c.cfg.Proxy
	}
	return err
}

// fetchTranscriptList performs one full page-fetch-and-call sequence.
func (c *Client) fetchTranscriptList(ctx context.Context, session *ythttp.Client, videoID string, log *logrus.Entry) (*TranscriptList, error) {
	pageHTML, err := fetchWatchPage(ctx, session, c.watchBase, videoID)
	if err != nil {
		return nil, err
	}

	apiKey, ok := innertube.ExtractAPIKey(pageHTML)
	if !ok {
		if innertube.HasCaptchaMarker(pageHTML) {
			return nil, &IPBlockedError{VideoID: videoID}
		}
		return nil, &UnparsableResponseError{
			VideoID: videoID,
			Err:     errors.New("innertube api key not found in watch page"),
		}
	}

	player, err := c.fetchPlayerResponse(ctx, session, videoID, apiKey)
	if err != nil {
		return nil, err
	}

	if err := checkPlayability(player.PlayabilityStatus, videoID); err != nil {
		return nil, err
	}

	var renderer *innertube.CaptionsRenderer
	if player.Captions != nil {
		renderer = player.Captions.PlayerCaptionsTracklistRenderer
	}
	return newTranscriptList(session, videoID, renderer)
}

// fetchPlayerResponse issues the player RPC keyed by the page's API key.
func (c *Client) fetchPlayerResponse(ctx context.Context, session *ythttp.Client, videoID, apiKey string) (*innertube.PlayerResponse, error) {
	body, err := json.Marshal(innertube.NewPlayerRequest(videoID))
	if err != nil {
		return nil, fmt.Errorf("marshal player request: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	resp, err := session.Do(ctx, http.MethodPost, c.playerBase+"?key="+apiKey, bytes.NewReader(body), headers)
	if err != nil {
		return nil, mapHTTPError(err, videoID)
	}

	var player innertube.PlayerResponse
	if err := json.Unmarshal(resp.Body, &player); err != nil {
		return nil, &UnparsableResponseError{VideoID: videoID, Err: err}
	}
	return &player, nil
}
