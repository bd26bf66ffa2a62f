package yttranscript

import "yttranscript/youtube"

// Error types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.As() for typed failures:
//
//	var notFound *yttranscript.NoTranscriptFoundError
//	if errors.As(err, &notFound) {
//		fmt.Printf("tried %v, catalog:\n%s\n", notFound.RequestedLanguages, notFound.Available)
//	}

// Type aliases for the transcript failure taxonomy.
type (
	// InvalidVideoIDError indicates the supplied identifier is not a video ID.
	InvalidVideoIDError = youtube.InvalidVideoIDError
	// VideoUnavailableError indicates the video does not exist or was removed.
	VideoUnavailableError = youtube.VideoUnavailableError
	// VideoUnplayableError indicates the video cannot be played.
	VideoUnplayableError = youtube.VideoUnplayableError
	// AgeRestrictedError indicates the video requires age verification.
	AgeRestrictedError = youtube.AgeRestrictedError
	// TranscriptsDisabledError indicates the video has no caption catalog.
	TranscriptsDisabledError = youtube.TranscriptsDisabledError
	// NoTranscriptFoundError indicates no requested language matched.
	NoTranscriptFoundError = youtube.NoTranscriptFoundError
	// NotTranslatableError indicates the track offers no translations.
	NotTranslatableError = youtube.NotTranslatableError
	// TranslationLanguageNotAvailableError indicates the requested translation
	// language is not offered.
	TranslationLanguageNotAvailableError = youtube.TranslationLanguageNotAvailableError
	// PoTokenRequiredError indicates the track needs a proof-of-origin token.
	PoTokenRequiredError = youtube.PoTokenRequiredError
	// RequestBlockedError indicates YouTube blocked the request.
	RequestBlockedError = youtube.RequestBlockedError
	// IPBlockedError indicates an explicit rate-limit or CAPTCHA signal.
	IPBlockedError = youtube.IPBlockedError
	// ConsentCookieError indicates the consent interstitial was not bypassed.
	ConsentCookieError = youtube.ConsentCookieError
	// UnparsableResponseError indicates YouTube returned unparsable data.
	UnparsableResponseError = youtube.UnparsableResponseError
	// RequestFailedError indicates an HTTP request failed.
	RequestFailedError = youtube.RequestFailedError
)

// IsBlocked reports whether err is a blocking failure (bot detection or an
// explicit rate-limit signal). Callers should back off or rotate proxies
// before retrying later.
func IsBlocked(err error) bool {
	return youtube.IsBlocked(err)
}

// IsSkippable reports whether err marks a video the calling pipeline should
// skip rather than retry.
func IsSkippable(err error) bool {
	return youtube.IsSkippable(err)
}
