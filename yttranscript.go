package yttranscript

import (
	"context"

	"yttranscript/config"
	"yttranscript/youtube"
)

// FetchTranscript downloads the transcript of a video using a default client,
// trying the given language codes in order. With no codes given, the
// configured default preference order is used.
func FetchTranscript(ctx context.Context, videoID string, languageCodes ...string) (*youtube.FetchedTranscript, error) {
	client, err := defaultClient()
	if err != nil {
		return nil, err
	}
	return client.FetchTranscript(ctx, videoID, languageCodes, nil)
}

// ListTranscripts enumerates the caption tracks available for a video using a
// default client.
func ListTranscripts(ctx context.Context, videoID string) (*youtube.TranscriptList, error) {
	client, err := defaultClient()
	if err != nil {
		return nil, err
	}
	return client.ListTranscripts(ctx, videoID)
}

// defaultClient builds a client from file/environment configuration.
func defaultClient() (*youtube.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return youtube.NewClient(cfg), nil
}
