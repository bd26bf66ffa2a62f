package youtube

import (
	"errors"
	"fmt"
	"strings"

	"yttranscript/config"
)

// The error types below form the closed failure vocabulary of this package.
// Every failure surfaces as exactly one of them; none are swallowed
// internally except the bounded blocked-retry loop in Client.

// InvalidVideoIDError indicates the supplied identifier is not a video ID.
type InvalidVideoIDError struct {
	VideoID string
}

func (e *InvalidVideoIDError) Error() string {
	return fmt.Sprintf("invalid video id %q: provide the 11-character video id, not a url", e.VideoID)
}

// VideoUnavailableError indicates the video does not exist or was removed.
type VideoUnavailableError struct {
	VideoID string
}

func (e *VideoUnavailableError) Error() string {
	return fmt.Sprintf("video %s is unavailable", e.VideoID)
}

// VideoUnplayableError indicates the video cannot be played for a reason
// outside the more specific taxonomy entries.
type VideoUnplayableError struct {
	VideoID string
	// Reason is the top-level reason reported by the player endpoint.
	Reason string
	// SubReasons are the text runs under the error screen's subreason block.
	SubReasons []string
}

func (e *VideoUnplayableError) Error() string {
	msg := fmt.Sprintf("video %s is unplayable: %s", e.VideoID, e.Reason)
	if len(e.SubReasons) > 0 {
		msg += fmt.Sprintf(" (%s)", strings.Join(e.SubReasons, ", "))
	}
	return msg
}

// AgeRestrictedError indicates the video requires age verification.
type AgeRestrictedError struct {
	VideoID string
}

func (e *AgeRestrictedError) Error() string {
	return fmt.Sprintf("video %s is age-restricted and cannot be fetched without sign-in", e.VideoID)
}

// TranscriptsDisabledError indicates the video has no caption catalog at all.
type TranscriptsDisabledError struct {
	VideoID string
}

func (e *TranscriptsDisabledError) Error() string {
	return fmt.Sprintf("transcripts are disabled for video %s", e.VideoID)
}

// NoTranscriptFoundError indicates none of the requested language codes match
// an available transcript. The message enumerates the full catalog so the
// failure is self-diagnosing.
type NoTranscriptFoundError struct {
	VideoID string
	// RequestedLanguages are the language codes tried, in preference order.
	RequestedLanguages []string
	// Available is the catalog that was searched.
	Available *TranscriptList
}

func (e *NoTranscriptFoundError) Error() string {
	return fmt.Sprintf("no transcript found for video %s in languages %v\n%s",
		e.VideoID, e.RequestedLanguages, e.Available)
}

// NotTranslatableError indicates the source track offers no translations.
type NotTranslatableError struct {
	VideoID string
}

func (e *NotTranslatableError) Error() string {
	return fmt.Sprintf("transcript for video %s is not translatable", e.VideoID)
}

// TranslationLanguageNotAvailableError indicates the requested translation
// language is not offered by the source track.
type TranslationLanguageNotAvailableError struct {
	VideoID      string
	LanguageCode string
}

func (e *TranslationLanguageNotAvailableError) Error() string {
	return fmt.Sprintf("translation language %q is not available for video %s", e.LanguageCode, e.VideoID)
}

// PoTokenRequiredError indicates the caption track uses an access path that
// requires a proof-of-origin token this client does not implement.
type PoTokenRequiredError struct {
	VideoID string
}

func (e *PoTokenRequiredError) Error() string {
	return fmt.Sprintf("video %s requires a po_token, which this client does not support", e.VideoID)
}

// RequestBlockedError indicates YouTube blocked the request (bot detection).
type RequestBlockedError struct {
	VideoID string
	// Proxy is the proxy configuration in use when retries were exhausted,
	// nil when no proxy was configured.
	Proxy *config.ProxyConfig
}

func (e *RequestBlockedError) Error() string {
	if e.Proxy != nil {
		return fmt.Sprintf("request blocked for video %s (proxy retries exhausted)", e.VideoID)
	}
	return fmt.Sprintf("request blocked for video %s", e.VideoID)
}

// IPBlockedError indicates an explicit rate-limit signal (HTTP 429) or a
// CAPTCHA interstitial.
type IPBlockedError struct {
	VideoID string
	// Proxy is the proxy configuration in use when retries were exhausted,
	// nil when no proxy was configured.
	Proxy *config.ProxyConfig
}

func (e *IPBlockedError) Error() string {
	if e.Proxy != nil {
		return fmt.Sprintf("ip blocked while fetching video %s (proxy retries exhausted)", e.VideoID)
	}
	return fmt.Sprintf("ip blocked while fetching video %s", e.VideoID)
}

// ConsentCookieError indicates the cookie-consent interstitial could not be
// bypassed.
type ConsentCookieError struct {
	VideoID string
}

func (e *ConsentCookieError) Error() string {
	return fmt.Sprintf("failed to create consent cookie for video %s", e.VideoID)
}

// UnparsableResponseError indicates YouTube returned data this client could
// not interpret.
type UnparsableResponseError struct {
	VideoID string
	Err     error
}

func (e *UnparsableResponseError) Error() string {
	return fmt.Sprintf("could not parse youtube response for video %s: %v", e.VideoID, e.Err)
}

func (e *UnparsableResponseError) Unwrap() error {
	return e.Err
}

// RequestFailedError indicates an HTTP request failed, either with a non-2xx
// status or a transport-level error.
type RequestFailedError struct {
	VideoID string
	// StatusCode is the HTTP status, zero for transport failures.
	StatusCode int
	// Err is the underlying transport error, nil for status failures.
	Err error
}

func (e *RequestFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed for video %s: %v", e.VideoID, e.Err)
	}
	return fmt.Sprintf("request failed for video %s: status %d", e.VideoID, e.StatusCode)
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// IsBlocked reports whether err is a blocking failure, either generic bot
// detection or an explicit rate-limit signal. Blocking failures are the only
// ones retried through a configured proxy.
func IsBlocked(err error) bool {
	var blocked *RequestBlockedError
	var ipBlocked *IPBlockedError
	return errors.As(err, &blocked) || errors.As(err, &ipBlocked)
}

// IsSkippable reports whether err marks a video the calling pipeline should
// skip rather than retry: transcripts disabled, no matching language, or a
// track behind the unsupported po_token access path.
func IsSkippable(err error) bool {
	var disabled *TranscriptsDisabledError
	var notFound *NoTranscriptFoundError
	var poToken *PoTokenRequiredError
	return errors.As(err, &disabled) || errors.As(err, &notFound) || errors.As(err, &poToken)
}
