package youtube

import (
	"fmt"
	"strings"

	ythttp "yttranscript/http"
	"yttranscript/youtube/innertube"
)

// legacyFormatSuffix is an obsolete format selector some caption URLs still
// carry; it is stripped so downloads use the default timed-text format.
const legacyFormatSuffix = "&fmt=srv3"

// TranscriptList is the catalog of caption tracks available for one video,
// split into manually created and generated buckets keyed by language code.
// It is built once per fetch operation and never mutated afterwards.
type TranscriptList struct {
	// VideoID identifies the video the catalog belongs to.
	VideoID string

	manual               *transcriptBucket
	generated            *transcriptBucket
	translationLanguages []TranslationLanguage
}

// transcriptBucket keeps tracks keyed by language code in insertion order.
// A duplicate code overwrites the earlier entry in place; server ordering is
// assumed stable, so in practice this never reorders anything.
type transcriptBucket struct {
	order  []string
	byCode map[string]*Transcript
}

func newTranscriptBucket() *transcriptBucket {
	return &transcriptBucket{byCode: make(map[string]*Transcript)}
}

func (b *transcriptBucket) put(t *Transcript) {
	if _, ok := b.byCode[t.LanguageCode]; !ok {
		b.order = append(b.order, t.LanguageCode)
	}
	b.byCode[t.LanguageCode] = t
}

func (b *transcriptBucket) get(code string) (*Transcript, bool) {
	t, ok := b.byCode[code]
	return t, ok
}

func (b *transcriptBucket) all() []*Transcript {
	transcripts := make([]*Transcript, 0, len(b.order))
	for _, code := range b.order {
		transcripts = append(transcripts, b.byCode[code])
	}
	return transcripts
}

// newTranscriptList builds the catalog from the caption tracklist renderer of
// a player response. A missing renderer or missing caption-track array means
// the video has no transcripts at all.
func newTranscriptList(session *ythttp.Client, videoID string, renderer *innertube.CaptionsRenderer) (*TranscriptList, error) {
	if renderer == nil || renderer.CaptionTracks == nil {
		return nil, &TranscriptsDisabledError{VideoID: videoID}
	}

	translations := make([]TranslationLanguage, 0, len(renderer.TranslationLanguages))
	translationByCode := make(map[string]string, len(renderer.TranslationLanguages))
	for _, tl := range renderer.TranslationLanguages {
		translations = append(translations, TranslationLanguage{
			Language:     tl.LanguageName.GetText(),
			LanguageCode: tl.LanguageCode,
		})
		translationByCode[tl.LanguageCode] = tl.LanguageName.GetText()
	}

	list := &TranscriptList{
		VideoID:              videoID,
		manual:               newTranscriptBucket(),
		generated:            newTranscriptBucket(),
		translationLanguages: translations,
	}

	for _, track := range renderer.CaptionTracks {
		isGenerated := track.Kind == innertube.KindASR

		transcript := &Transcript{
			session:      session,
			VideoID:      videoID,
			Language:     track.Name.GetText(),
			LanguageCode: track.LanguageCode,
			IsGenerated:  isGenerated,
			url:          strings.ReplaceAll(track.BaseURL, legacyFormatSuffix, ""),
		}
		if track.IsTranslatable {
			transcript.TranslationLanguages = translations
			transcript.translationByCode = translationByCode
		}

		if isGenerated {
			list.generated.put(transcript)
		} else {
			list.manual.put(transcript)
		}
	}

	return list, nil
}

// Find returns the first transcript matching the caller's language-code
// preference order. For each code, a manually created track takes precedence
// over a generated one.
func (l *TranscriptList) Find(languageCodes []string) (*Transcript, error) {
	return l.find(languageCodes, l.manual, l.generated)
}

// FindManuallyCreated is Find restricted to manually created tracks.
func (l *TranscriptList) FindManuallyCreated(languageCodes []string) (*Transcript, error) {
	return l.find(languageCodes, l.manual)
}

// FindGenerated is Find restricted to generated tracks.
func (l *TranscriptList) FindGenerated(languageCodes []string) (*Transcript, error) {
	return l.find(languageCodes, l.generated)
}

func (l *TranscriptList) find(languageCodes []string, buckets ...*transcriptBucket) (*Transcript, error) {
	for _, code := range languageCodes {
		for _, bucket := range buckets {
			if t, ok := bucket.get(code); ok {
				return t, nil
			}
		}
	}
	return nil, &NoTranscriptFoundError{
		VideoID:            l.VideoID,
		RequestedLanguages: languageCodes,
		Available:          l,
	}
}

// All returns every transcript in the catalog, manually created tracks first,
// each bucket in server order.
func (l *TranscriptList) All() []*Transcript {
	return append(l.manual.all(), l.generated.all()...)
}

// TranslationLanguages returns the languages translatable tracks of this
// catalog can be converted into.
func (l *TranscriptList) TranslationLanguages() []TranslationLanguage {
	return l.translationLanguages
}

// String renders the full catalog, enumerating both buckets and the available
// translation languages.
func (l *TranscriptList) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "transcripts for video %s:\n", l.VideoID)

	writeSection := func(header string, transcripts []*Transcript) {
		fmt.Fprintf(&b, "(%s)\n", header)
		if len(transcripts) == 0 {
			b.WriteString(" - none\n")
			return
		}
		for _, t := range transcripts {
			fmt.Fprintf(&b, " - %s\n", t)
		}
	}

	writeSection("manually created", l.manual.all())
	writeSection("generated", l.generated.all())

	b.WriteString("(translation languages)\n")
	if len(l.translationLanguages) == 0 {
		b.WriteString(" - none\n")
	}
	for _, tl := range l.translationLanguages {
		fmt.Fprintf(&b, " - %s (%q)\n", tl.LanguageCode, tl.Language)
	}

	return strings.TrimRight(b.String(), "\n")
}
