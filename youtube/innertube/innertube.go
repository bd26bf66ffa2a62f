// Package innertube defines the wire schema for YouTube's internal player API
// ("Innertube") together with helpers for locating the per-page API key.
//
// The key is embedded in the watch-page HTML and rotates per page load; it
// must be re-extracted for every player call and never cached across videos.
package innertube

import (
	"regexp"
	"strings"
)

const (
	// PlayerEndpoint is the Innertube API endpoint for player metadata.
	PlayerEndpoint = "https://www.youtube.com/youtubei/v1/player"

	// clientName is the client identifier for web requests.
	clientName = "WEB"
	// clientVersion is the client version for web requests.
	clientVersion = "2.20230804.00.00"

	// KindASR marks a caption track as machine-generated (automatic speech
	// recognition).
	KindASR = "asr"

	// captchaMarker appears in watch pages served to blocked clients.
	captchaMarker = `class="g-recaptcha"`
)

// apiKeyPattern matches the transient API key embedded in watch-page HTML.
var apiKeyPattern = regexp.MustCompile(`"INNERTUBE_API_KEY":\s*"([a-zA-Z0-9_-]+)"`)

// ExtractAPIKey searches watch-page HTML for the Innertube API key.
func ExtractAPIKey(html string) (string, bool) {
	match := apiKeyPattern.FindStringSubmatch(html)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// HasCaptchaMarker reports whether the watch page is a CAPTCHA interstitial,
// which indicates the requesting IP has been blocked.
func HasCaptchaMarker(html string) bool {
	return strings.Contains(html, captchaMarker)
}

// PlayerRequest represents a request to the player endpoint.
type PlayerRequest struct {
	Context ClientContext `json:"context"`
	VideoID string        `json:"videoId"`
}

// ClientContext contains client identification for the API request.
type ClientContext struct {
	Client WebClient `json:"client"`
}

// WebClient identifies the client making the request.
type WebClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
}

// NewPlayerRequest builds a player request for one video using the fixed web
// client context.
func NewPlayerRequest(videoID string) *PlayerRequest {
	return &PlayerRequest{
		Context: ClientContext{
			Client: WebClient{
				ClientName:    clientName,
				ClientVersion: clientVersion,
			},
		},
		VideoID: videoID,
	}
}

// PlayerResponse represents the response from the player endpoint, reduced to
// the parts this client consumes.
type PlayerResponse struct {
	PlayabilityStatus *PlayabilityStatus `json:"playabilityStatus,omitempty"`
	Captions          *Captions          `json:"captions,omitempty"`
}

// PlayabilityStatus describes whether a video is playable and why not.
type PlayabilityStatus struct {
	Status      string       `json:"status,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	ErrorScreen *ErrorScreen `json:"errorScreen,omitempty"`
}

// ErrorScreen wraps the error message renderer shown for unplayable videos.
type ErrorScreen struct {
	PlayerErrorMessageRenderer *PlayerErrorMessageRenderer `json:"playerErrorMessageRenderer,omitempty"`
}

// PlayerErrorMessageRenderer carries the detailed unplayability subreasons.
type PlayerErrorMessageRenderer struct {
	Subreason *TextRuns `json:"subreason,omitempty"`
}

// Captions wraps the caption track catalog.
type Captions struct {
	PlayerCaptionsTracklistRenderer *CaptionsRenderer `json:"playerCaptionsTracklistRenderer,omitempty"`
}

// CaptionsRenderer lists the available caption tracks and the languages
// translatable tracks can be converted into.
type CaptionsRenderer struct {
	CaptionTracks        []CaptionTrack        `json:"captionTracks,omitempty"`
	TranslationLanguages []TranslationLanguage `json:"translationLanguages,omitempty"`
}

// CaptionTrack is one entry of the caption catalog.
type CaptionTrack struct {
	BaseURL        string    `json:"baseUrl,omitempty"`
	Name           *TextRuns `json:"name,omitempty"`
	LanguageCode   string    `json:"languageCode,omitempty"`
	Kind           string    `json:"kind,omitempty"`
	IsTranslatable bool      `json:"isTranslatable,omitempty"`
}

// TranslationLanguage is one language a translatable track can be converted
// into.
type TranslationLanguage struct {
	LanguageName *TextRuns `json:"languageName,omitempty"`
	LanguageCode string    `json:"languageCode,omitempty"`
}

// TextRuns contains text with optional runs for formatting.
type TextRuns struct {
	Runs       []TextRun `json:"runs,omitempty"`
	SimpleText string    `json:"simpleText,omitempty"`
}

// TextRun is a segment of text.
type TextRun struct {
	Text string `json:"text,omitempty"`
}

// GetText extracts plain text from TextRuns.
func (t *TextRuns) GetText() string {
	if t == nil {
		return ""
	}
	if t.SimpleText != "" {
		return t.SimpleText
	}
	var parts []string
	for _, run := range t.Runs {
		parts = append(parts, run.Text)
	}
	return strings.Join(parts, "")
}
