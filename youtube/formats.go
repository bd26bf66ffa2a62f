package youtube

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format represents a supported transcript output format.
type Format string

const (
	// FormatText is plain text, one snippet per line.
	FormatText Format = "text"
	// FormatJSON is a JSON document with snippet and video metadata.
	FormatJSON Format = "json"
	// FormatSRT is the SubRip format.
	FormatSRT Format = "srt"
	// FormatVTT is the WebVTT format.
	FormatVTT Format = "vtt"
)

// ParseFormat converts a format name into a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatText, FormatJSON, FormatSRT, FormatVTT:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown format: %q", name)
	}
}

// Render serializes a fetched transcript into the given format.
func Render(ft *FetchedTranscript, format Format) (string, error) {
	switch format {
	case FormatText:
		return ft.Text() + "\n", nil
	case FormatJSON:
		return renderJSON(ft)
	case FormatSRT:
		return renderSRT(ft), nil
	case FormatVTT:
		return renderVTT(ft), nil
	default:
		return "", fmt.Errorf("unknown format: %q", format)
	}
}

// renderJSON emits the full transcript with metadata, indented.
func renderJSON(ft *FetchedTranscript) (string, error) {
	data, err := json.MarshalIndent(ft, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}
	return string(data) + "\n", nil
}

// renderSRT emits SubRip cues with 1-based sequence numbers.
func renderSRT(ft *FetchedTranscript) string {
	var sb strings.Builder

	for i, snippet := range ft.Snippets {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(snippet.Start),
			formatSRTTime(snippet.Start+snippet.Duration)))
		sb.WriteString(snippet.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// renderVTT emits WebVTT cues.
func renderVTT(ft *FetchedTranscript) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for _, snippet := range ft.Snippets {
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(snippet.Start),
			formatVTTTime(snippet.Start+snippet.Duration)))
		sb.WriteString(snippet.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// formatVTTTime formats seconds as WebVTT time (HH:MM:SS.mmm).
func formatVTTTime(seconds float64) string {
	duration := time.Duration(seconds * float64(time.Second))
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	secs := int(duration.Seconds()) % 60
	millis := int(duration.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}

// formatSRTTime formats seconds as SRT time (HH:MM:SS,mmm).
func formatSRTTime(seconds float64) string {
	return strings.Replace(formatVTTTime(seconds), ".", ",", 1)
}
