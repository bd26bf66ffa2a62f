package innertube

import (
	"encoding/json"
	"testing"
)

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
		ok   bool
	}{
		{
			"compact",
			`{"INNERTUBE_API_KEY":"AIzaSyAO_Fr5p3-key"}`,
			"AIzaSyAO_Fr5p3-key",
			true,
		},
		{
			"spaced",
			`{"INNERTUBE_API_KEY":   "abc_DEF-123"}`,
			"abc_DEF-123",
			true,
		},
		{
			"embedded in page",
			`<script>var ytcfg = {"X":1,"INNERTUBE_API_KEY": "k3y"};</script>`,
			"k3y",
			true,
		},
		{"absent", `<html><body></body></html>`, "", false},
		{"empty value", `{"INNERTUBE_API_KEY": ""}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAPIKey(tt.html)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ExtractAPIKey() = %q, %v, want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHasCaptchaMarker(t *testing.T) {
	if !HasCaptchaMarker(`<div class="g-recaptcha" data-sitekey="x"></div>`) {
		t.Error("HasCaptchaMarker() = false on a captcha page")
	}
	if HasCaptchaMarker(`<div class="content"></div>`) {
		t.Error("HasCaptchaMarker() = true on a normal page")
	}
}

func TestNewPlayerRequest(t *testing.T) {
	req := NewPlayerRequest("dQw4w9WgXcQ")

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["videoId"] != "dQw4w9WgXcQ" {
		t.Errorf("videoId = %v", decoded["videoId"])
	}

	client := decoded["context"].(map[string]any)["client"].(map[string]any)
	if client["clientName"] != "WEB" {
		t.Errorf("clientName = %v, want WEB", client["clientName"])
	}
	if client["clientVersion"] == "" {
		t.Error("clientVersion is empty")
	}
}

func TestGetText(t *testing.T) {
	tests := []struct {
		name string
		text *TextRuns
		want string
	}{
		{"nil", nil, ""},
		{"simple text", &TextRuns{SimpleText: "English"}, "English"},
		{
			"runs joined",
			&TextRuns{Runs: []TextRun{{Text: "English "}, {Text: "(auto)"}}},
			"English (auto)",
		},
		{
			"simple text wins over runs",
			&TextRuns{SimpleText: "simple", Runs: []TextRun{{Text: "runs"}}},
			"simple",
		},
		{"empty", &TextRuns{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.text.GetText(); got != tt.want {
				t.Errorf("GetText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlayerResponseDecoding(t *testing.T) {
	raw := `{
		"playabilityStatus": {
			"status": "UNPLAYABLE",
			"reason": "nope",
			"errorScreen": {
				"playerErrorMessageRenderer": {
					"subreason": {"runs": [{"text": "detail"}]}
				}
			}
		},
		"captions": {
			"playerCaptionsTracklistRenderer": {
				"captionTracks": [
					{"baseUrl": "u", "name": {"simpleText": "English"}, "languageCode": "en", "kind": "asr", "isTranslatable": true}
				],
				"translationLanguages": [
					{"languageName": {"simpleText": "German"}, "languageCode": "de"}
				]
			}
		}
	}`

	var resp PlayerResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.PlayabilityStatus.Status != "UNPLAYABLE" || resp.PlayabilityStatus.Reason != "nope" {
		t.Errorf("playability = %+v", resp.PlayabilityStatus)
	}
	if got := resp.PlayabilityStatus.ErrorScreen.PlayerErrorMessageRenderer.Subreason.GetText(); got != "detail" {
		t.Errorf("subreason = %q", got)
	}

	renderer := resp.Captions.PlayerCaptionsTracklistRenderer
	if len(renderer.CaptionTracks) != 1 {
		t.Fatalf("caption tracks = %d, want 1", len(renderer.CaptionTracks))
	}
	track := renderer.CaptionTracks[0]
	if track.LanguageCode != "en" || track.Kind != KindASR || !track.IsTranslatable {
		t.Errorf("track = %+v", track)
	}
	if renderer.TranslationLanguages[0].LanguageName.GetText() != "German" {
		t.Errorf("translation language = %+v", renderer.TranslationLanguages[0])
	}
}

// A player response with no captions key decodes with Captions nil, which is
// how disabled transcripts are detected.
func TestPlayerResponseMissingCaptions(t *testing.T) {
	var resp PlayerResponse
	if err := json.Unmarshal([]byte(`{"playabilityStatus": {"status": "OK"}}`), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Captions != nil {
		t.Errorf("Captions = %+v, want nil", resp.Captions)
	}
}

// An empty caption-track array stays distinguishable from a missing one.
func TestCaptionsRendererEmptyVsMissingTracks(t *testing.T) {
	var withEmpty CaptionsRenderer
	if err := json.Unmarshal([]byte(`{"captionTracks": []}`), &withEmpty); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if withEmpty.CaptionTracks == nil {
		t.Error("empty captionTracks array decoded to nil")
	}

	var withMissing CaptionsRenderer
	if err := json.Unmarshal([]byte(`{}`), &withMissing); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if withMissing.CaptionTracks != nil {
		t.Error("missing captionTracks decoded to non-nil")
	}
}
