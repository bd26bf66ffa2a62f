package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"yttranscript/config"
	"yttranscript/youtube/innertube"
)

const testVideoID = "dQw4w9WgXcQ"

// watchPageHTML builds a minimal watch page embedding the Innertube API key.
func watchPageHTML(apiKey string) string {
	return `<!DOCTYPE html><html><head><script>var ytcfg = {"INNERTUBE_API_KEY": "` + apiKey + `"};</script></head><body></body></html>`
}

const captchaPageHTML = `<!DOCTYPE html><html><body><div class="g-recaptcha"></div></body></html>`

const consentPageHTML = `<!DOCTYPE html><html><body>
<form action="https://consent.youtube.com/s" method="POST">
<input type="hidden" name="v" value="nonce-12345">
</form></body></html>`

// testBackend is an httptest server emulating the watch page, the player RPC,
// and the timed-text download behind one mux.
type testBackend struct {
	server *httptest.Server

	watchHits  atomic.Int32
	playerHits atomic.Int32

	watchHandler  func(w http.ResponseWriter, r *http.Request)
	playerHandler func(w http.ResponseWriter, r *http.Request)
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	b := &testBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		b.watchHits.Add(1)
		b.watchHandler(w, r)
	})
	mux.HandleFunc("/player", func(w http.ResponseWriter, r *http.Request) {
		b.playerHits.Add(1)
		b.playerHandler(w, r)
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleTimedText))
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)

	// Defaults: a healthy watch page and a playable video with one track.
	b.watchHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(watchPageHTML("test-api-key")))
	}
	b.playerHandler = func(w http.ResponseWriter, r *http.Request) {
		b.servePlayer(w, &innertube.PlayerResponse{
			PlayabilityStatus: &innertube.PlayabilityStatus{Status: "OK"},
			Captions: &innertube.Captions{
				PlayerCaptionsTracklistRenderer: &innertube.CaptionsRenderer{
					CaptionTracks: []innertube.CaptionTrack{{
						BaseURL:      b.server.URL + "/timedtext?v=" + testVideoID + "&lang=en",
						Name:         &innertube.TextRuns{SimpleText: "English"},
						LanguageCode: "en",
					}},
				},
			},
		})
	}

	return b
}

func (b *testBackend) servePlayer(w http.ResponseWriter, resp *innertube.PlayerResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// client builds a transcript client pointed at the backend.
func (b *testBackend) client(cfg *config.Config) *Client {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.RequestsPerSecond = 0
	cfg.HTTPTimeout = 5 * time.Second

	c := NewClient(cfg)
	c.watchBase = b.server.URL + "/watch"
	c.playerBase = b.server.URL + "/player"
	return c
}

func TestClientListTranscripts(t *testing.T) {
	backend := newTestBackend(t)
	client := backend.client(nil)

	list, err := client.ListTranscripts(context.Background(), testVideoID)
	if err != nil {
		t.Fatalf("ListTranscripts() failed: %v", err)
	}
	if got := len(list.All()); got != 1 {
		t.Fatalf("catalog has %d tracks, want 1", got)
	}
	if got := backend.watchHits.Load(); got != 1 {
		t.Errorf("watch page fetched %d times, want 1", got)
	}
	if got := backend.playerHits.Load(); got != 1 {
		t.Errorf("player called %d times, want 1", got)
	}
}

func TestClientFetchTranscriptEndToEnd(t *testing.T) {
	backend := newTestBackend(t)
	client := backend.client(nil)

	fetched, err := client.FetchTranscript(context.Background(), testVideoID, []string{"en"}, nil)
	if err != nil {
		t.Fatalf("FetchTranscript() failed: %v", err)
	}
	if fetched.LanguageCode != "en" || len(fetched.Snippets) != 3 {
		t.Errorf("fetched = %s with %d snippets, want en with 3", fetched.LanguageCode, len(fetched.Snippets))
	}
}

// With no language codes given, the configured preference order applies.
func TestClientFetchTranscriptDefaultLanguages(t *testing.T) {
	backend := newTestBackend(t)
	cfg := config.Default()
	cfg.Languages = []string{"de", "en"}
	client := backend.client(cfg)

	fetched, err := client.FetchTranscript(context.Background(), testVideoID, nil, nil)
	if err != nil {
		t.Fatalf("FetchTranscript() failed: %v", err)
	}
	if fetched.LanguageCode != "en" {
		t.Errorf("LanguageCode = %q, want en", fetched.LanguageCode)
	}
}

func TestClientInvalidVideoID(t *testing.T) {
	backend := newTestBackend(t)
	client := backend.client(nil)

	tests := []string{
		"",
		"short",
		"waytoolongvideoid",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"bad/chars!!!",
	}
	for _, id := range tests {
		_, err := client.ListTranscripts(context.Background(), id)
		var invalid *InvalidVideoIDError
		if !errors.As(err, &invalid) {
			t.Errorf("ListTranscripts(%q) error = %T (%v), want InvalidVideoIDError", id, err, err)
		}
	}

	// Validation rejects before any network activity.
	if got := backend.watchHits.Load(); got != 0 {
		t.Errorf("watch page fetched %d times for invalid ids, want 0", got)
	}
}

func TestClientConsentInterstitial(t *testing.T) {
	backend := newTestBackend(t)
	backend.watchHandler = func(w http.ResponseWriter, r *http.Request) {
		for _, c := range r.Cookies() {
			if c.Name == "CONSENT" && c.Value == "YES+nonce-12345" {
				w.Write([]byte(watchPageHTML("test-api-key")))
				return
			}
		}
		w.Write([]byte(consentPageHTML))
	}
	client := backend.client(nil)

	list, err := client.ListTranscripts(context.Background(), testVideoID)
	if err != nil {
		t.Fatalf("ListTranscripts() failed: %v", err)
	}
	if got := len(list.All()); got != 1 {
		t.Errorf("catalog has %d tracks, want 1", got)
	}
	// One initial GET plus exactly one retry after setting the cookie.
	if got := backend.watchHits.Load(); got != 2 {
		t.Errorf("watch page fetched %d times, want 2", got)
	}
}

func TestClientConsentPersists(t *testing.T) {
	backend := newTestBackend(t)
	backend.watchHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(consentPageHTML))
	}
	client := backend.client(nil)

	_, err := client.ListTranscripts(context.Background(), testVideoID)
	var consent *ConsentCookieError
	if !errors.As(err, &consent) {
		t.Fatalf("ListTranscripts() error = %T (%v), want ConsentCookieError", err, err)
	}
	if got := backend.watchHits.Load(); got != 2 {
		t.Errorf("watch page fetched %d times, want 2 (no endless retry)", got)
	}
}

func TestClientConsentMissingNonce(t *testing.T) {
	backend := newTestBackend(t)
	backend.watchHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><form action="https://consent.youtube.com/s"></form></body></html>`))
	}
	client := backend.client(nil)

	_, err := client.ListTranscripts(context.Background(), testVideoID)
	var consent *ConsentCookieError
	if !errors.As(err, &consent) {
		t.Fatalf("ListTranscripts() error = %T (%v), want ConsentCookieError", err, err)
	}
}

func TestClientCaptchaPage(t *testing.T) {
	backend := newTestBackend(t)
	backend.watchHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(captchaPageHTML))
	}
	client := backend.client(nil)

	_, err := client.ListTranscripts(context.Background(), testVideoID)
	var blocked *IPBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("ListTranscripts() error = %T (%v), want IPBlockedError", err, err)
	}
}

func TestClientMissingAPIKey(t *testing.T) {
	backend := newTestBackend(t)
	backend.watchHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>nothing to see here</body></html>`))
	}
	client := backend.client(nil)

	_, err := client.ListTranscripts(context.Background(), testVideoID)
	var unparsable *UnparsableResponseError
	if !errors.As(err, &unparsable) {
		t.Fatalf("ListTranscripts() error = %T (%v), want UnparsableResponseError", err, err)
	}
}

func TestClientMalformedPlayerResponse(t *testing.T) {
	backend := newTestBackend(t)
	backend.playerHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}
	client := backend.client(nil)

	_, err := client.ListTranscripts(context.Background(), testVideoID)
	var unparsable *UnparsableResponseError
	if !errors.As(err, &unparsable) {
		t.Fatalf("ListTranscripts() error = %T (%v), want UnparsableResponseError", err, err)
	}
}

func TestClientTranscriptsDisabled(t *testing.T) {
	backend := newTestBackend(t)
	backend.playerHandler = func(w http.ResponseWriter, r *http.Request) {
		backend.servePlayer(w, &innertube.PlayerResponse{
			PlayabilityStatus: &innertube.PlayabilityStatus{Status: "OK"},
		})
	}
	client := backend.client(nil)

	_, err := client.ListTranscripts(context.Background(), testVideoID)
	var disabled *TranscriptsDisabledError
	if !errors.As(err, &disabled) {
		t.Fatalf("ListTranscripts() error = %T (%v), want TranscriptsDisabledError", err, err)
	}
}

func TestClientPlayerAPIKeyForwarded(t *testing.T) {
	backend := newTestBackend(t)
	var gotKey atomic.Value
	defaultPlayer := backend.playerHandler
	backend.playerHandler = func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.URL.Query().Get("key"))
		defaultPlayer(w, r)
	}
	client := backend.client(nil)

	if _, err := client.ListTranscripts(context.Background(), testVideoID); err != nil {
		t.Fatalf("ListTranscripts() failed: %v", err)
	}
	if got, _ := gotKey.Load().(string); got != "test-api-key" {
		t.Errorf("player called with key %q, want the key extracted from the watch page", got)
	}
}

func TestClientPlayerRequestBody(t *testing.T) {
	backend := newTestBackend(t)
	var gotBody atomic.Value
	defaultPlayer := backend.playerHandler
	backend.playerHandler = func(w http.ResponseWriter, r *http.Request) {
		var req innertube.PlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			gotBody.Store(req)
		}
		defaultPlayer(w, r)
	}
	client := backend.client(nil)

	if _, err := client.ListTranscripts(context.Background(), testVideoID); err != nil {
		t.Fatalf("ListTranscripts() failed: %v", err)
	}

	req, ok := gotBody.Load().(innertube.PlayerRequest)
	if !ok {
		t.Fatal("player request body did not decode")
	}
	if req.VideoID != testVideoID {
		t.Errorf("videoId = %q, want %q", req.VideoID, testVideoID)
	}
	if req.Context.Client.ClientName != "WEB" || req.Context.Client.ClientVersion == "" {
		t.Errorf("client context = %+v, want the fixed web client", req.Context.Client)
	}
}

// Without a proxy, a rate-limit response surfaces after a single attempt.
func TestClientRateLimitedNoProxy(t *testing.T) {
	backend := newTestBackend(t)
	backend.watchHandler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}
	client := backend.client(nil)

	_, err := client.ListTranscripts(context.Background(), testVideoID)
	var blocked *IPBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("ListTranscripts() error = %T (%v), want IPBlockedError", err, err)
	}
	if blocked.Proxy != nil {
		t.Error("Proxy should be nil when no proxy is configured")
	}
	if got := backend.watchHits.Load(); got != 1 {
		t.Errorf("watch page fetched %d times, want 1", got)
	}
}

// With a proxy configured for 3 attempts, a persistent 429 is retried until
// exactly 3 attempts were made, then surfaced with the proxy attached.
func TestClientRateLimitedProxyRetries(t *testing.T) {
	backend := newTestBackend(t)
	backend.watchHandler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}

	cfg := config.Default()
	cfg.Proxy = &config.ProxyConfig{RetriesWhenBlocked: 3}
	client := backend.client(cfg)

	_, err := client.ListTranscripts(context.Background(), testVideoID)
	var blocked *IPBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("ListTranscripts() error = %T (%v), want IPBlockedError", err, err)
	}
	if blocked.Proxy == nil || blocked.Proxy.RetriesWhenBlocked != 3 {
		t.Error("terminal blocking error should carry the proxy configuration")
	}
	if got := backend.watchHits.Load(); got != 3 {
		t.Errorf("watch page fetched %d times, want exactly 3", got)
	}
}

// Bot detection through a proxy is retried and can succeed on a later attempt.
func TestClientBotDetectionRecoversOnRetry(t *testing.T) {
	backend := newTestBackend(t)
	defaultPlayer := backend.playerHandler
	backend.playerHandler = func(w http.ResponseWriter, r *http.Request) {
		if backend.playerHits.Load() == 1 {
			backend.servePlayer(w, &innertube.PlayerResponse{
				PlayabilityStatus: &innertube.PlayabilityStatus{
					Status: "LOGIN_REQUIRED",
					Reason: "Sign in to confirm you're not a bot",
				},
			})
			return
		}
		defaultPlayer(w, r)
	}

	cfg := config.Default()
	cfg.Proxy = &config.ProxyConfig{RetriesWhenBlocked: 3}
	client := backend.client(cfg)

	list, err := client.ListTranscripts(context.Background(), testVideoID)
	if err != nil {
		t.Fatalf("ListTranscripts() failed after retry: %v", err)
	}
	if got := len(list.All()); got != 1 {
		t.Errorf("catalog has %d tracks, want 1", got)
	}
	if got := backend.playerHits.Load(); got != 2 {
		t.Errorf("player called %d times, want 2", got)
	}
}

// Non-blocking failures are never retried, proxy or not.
func TestClientUnplayableNotRetried(t *testing.T) {
	backend := newTestBackend(t)
	backend.playerHandler = func(w http.ResponseWriter, r *http.Request) {
		backend.servePlayer(w, &innertube.PlayerResponse{
			PlayabilityStatus: &innertube.PlayabilityStatus{
				Status: "UNPLAYABLE",
				Reason: "This video is private",
			},
		})
	}

	cfg := config.Default()
	cfg.Proxy = &config.ProxyConfig{RetriesWhenBlocked: 3}
	client := backend.client(cfg)

	_, err := client.ListTranscripts(context.Background(), testVideoID)
	var unplayable *VideoUnplayableError
	if !errors.As(err, &unplayable) {
		t.Fatalf("ListTranscripts() error = %T (%v), want VideoUnplayableError", err, err)
	}
	if got := backend.playerHits.Load(); got != 1 {
		t.Errorf("player called %d times, want 1", got)
	}
}

func TestClientFetchTranscriptNoMatch(t *testing.T) {
	backend := newTestBackend(t)
	client := backend.client(nil)

	_, err := client.FetchTranscript(context.Background(), testVideoID, []string{"ja"}, nil)
	var notFound *NoTranscriptFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("FetchTranscript() error = %T (%v), want NoTranscriptFoundError", err, err)
	}
}

func TestValidVideoID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"dQw4w9WgXcQ", true},
		{"abc-DEF_123", true},
		{"", false},
		{"tooshort", false},
		{"twelvechars1", false},
		{"has spaces!", false},
	}

	for _, tt := range tests {
		if got := ValidVideoID(tt.id); got != tt.want {
			t.Errorf("ValidVideoID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
