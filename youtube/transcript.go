package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	ythttp "yttranscript/http"
)

// poTokenMarker flags caption tracks served through an experimental access
// path that requires a proof-of-origin token. Fetching such a track without
// the token returns garbage, so the download is refused up front.
const poTokenMarker = "&exp=xpe"

// TranslationLanguage is a language a translatable track can be converted
// into.
type TranslationLanguage struct {
	// Language is the human-readable language name.
	Language string
	// LanguageCode is the ISO language code (e.g. "en", "de").
	LanguageCode string
}

// FetchOptions controls transcript download behavior.
type FetchOptions struct {
	// PreserveFormatting keeps a small allow-list of inline formatting tags
	// (bold, italic, emphasis, mark, small, strikethrough, insert, sub, sup)
	// in the snippet text instead of stripping all markup.
	PreserveFormatting bool
}

// Transcript is a lazy reference to one caption track. It can download the
// track on demand or derive a translated handle; it performs no network
// activity until Fetch is called.
//
// A Transcript is owned by the TranscriptList that created it and borrows the
// HTTP session of the operation that built the list.
type Transcript struct {
	session *ythttp.Client

	// VideoID identifies the video this track belongs to.
	VideoID string
	// Language is the display name of the track language.
	Language string
	// LanguageCode is the track's language code.
	LanguageCode string
	// IsGenerated is true for machine-generated (ASR) tracks. Translated
	// tracks are always generated.
	IsGenerated bool
	// TranslationLanguages lists the languages this track can be translated
	// into; empty means the track is not translatable.
	TranslationLanguages []TranslationLanguage

	url               string
	translationByCode map[string]string
}

// IsTranslatable reports whether the track offers translations.
func (t *Transcript) IsTranslatable() bool {
	return len(t.TranslationLanguages) > 0
}

// Fetch downloads and parses the caption track.
func (t *Transcript) Fetch(ctx context.Context, opts *FetchOptions) (*FetchedTranscript, error) {
	if opts == nil {
		opts = &FetchOptions{}
	}

	if strings.Contains(t.url, poTokenMarker) {
		return nil, &PoTokenRequiredError{VideoID: t.VideoID}
	}

	resp, err := t.session.Get(ctx, t.url)
	if err != nil {
		return nil, mapHTTPError(err, t.VideoID)
	}

	parser := timedTextParser{preserveFormatting: opts.PreserveFormatting}
	snippets, err := parser.parse(resp.Body)
	if err != nil {
		return nil, &UnparsableResponseError{VideoID: t.VideoID, Err: err}
	}

	return &FetchedTranscript{
		Snippets:     snippets,
		VideoID:      t.VideoID,
		Language:     t.Language,
		LanguageCode: t.LanguageCode,
		IsGenerated:  t.IsGenerated,
	}, nil
}

// Translate returns a new handle for the same track translated into the given
// language. The translated track is always treated as generated and offers no
// further translations.
func (t *Transcript) Translate(languageCode string) (*Transcript, error) {
	if !t.IsTranslatable() {
		return nil, &NotTranslatableError{VideoID: t.VideoID}
	}

	language, ok := t.translationByCode[languageCode]
	if !ok {
		return nil, &TranslationLanguageNotAvailableError{
			VideoID:      t.VideoID,
			LanguageCode: languageCode,
		}
	}

	return &Transcript{
		session:      t.session,
		VideoID:      t.VideoID,
		Language:     language,
		LanguageCode: languageCode,
		IsGenerated:  true,
		url:          t.url + "&tlang=" + languageCode,
	}, nil
}

// String renders the track the way catalog listings do.
func (t *Transcript) String() string {
	suffix := ""
	if t.IsTranslatable() {
		suffix = " [translatable]"
	}
	return fmt.Sprintf("%s (%q)%s", t.LanguageCode, t.Language, suffix)
}

// FetchedTranscript is a downloaded, parsed transcript: an ordered sequence
// of snippets plus the metadata it was fetched under. It is immutable and
// safe to iterate any number of times.
type FetchedTranscript struct {
	// Snippets are the timed lines in document order.
	Snippets []Snippet `json:"snippets"`
	// VideoID identifies the source video.
	VideoID string `json:"video_id"`
	// Language is the display name of the transcript language.
	Language string `json:"language"`
	// LanguageCode is the transcript's language code.
	LanguageCode string `json:"language_code"`
	// IsGenerated is true for machine-generated tracks.
	IsGenerated bool `json:"is_generated"`
}

// Text returns the transcript as plain text, one snippet per line.
func (ft *FetchedTranscript) Text() string {
	lines := make([]string, 0, len(ft.Snippets))
	for _, s := range ft.Snippets {
		lines = append(lines, s.Text)
	}
	return strings.Join(lines, "\n")
}

// mapHTTPError converts session-level failures into the package taxonomy:
// HTTP 429 is an explicit blocking signal, any other non-2xx status or
// transport failure is a generic request failure.
func mapHTTPError(err error, videoID string) error {
	var httpErr *ythttp.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusTooManyRequests {
			return &IPBlockedError{VideoID: videoID}
		}
		return &RequestFailedError{VideoID: videoID, StatusCode: httpErr.StatusCode}
	}
	return &RequestFailedError{VideoID: videoID, Err: err}
}
