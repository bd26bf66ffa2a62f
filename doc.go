// Package yttranscript retrieves YouTube video transcripts without an API
// key, using the same internal endpoints the YouTube web client uses.
//
// Overview
//
// yttranscript provides high-level convenience functions for the two common
// operations:
//
//   - FetchTranscript: Download the transcript of a video in a preferred language
//   - ListTranscripts: Enumerate the caption tracks available for a video
//
// Quick Start
//
// Fetch a transcript:
//
//	ctx := context.Background()
//	transcript, err := yttranscript.FetchTranscript(ctx, "dQw4w9WgXcQ", "en")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, snippet := range transcript.Snippets {
//		fmt.Printf("%.2f: %s\n", snippet.Start, snippet.Text)
//	}
//
// List available transcripts and translate one:
//
//	list, err := yttranscript.ListTranscripts(ctx, "dQw4w9WgXcQ")
//	if err != nil {
//		log.Fatal(err)
//	}
//	original, err := list.Find([]string{"en"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	german, err := original.Translate("de")
//	if err != nil {
//		log.Fatal(err)
//	}
//	translated, err := german.Fetch(ctx, nil)
//
// For custom configuration (proxies, timeouts, rate limits), build a client
// directly:
//
//	cfg := config.Default()
//	cfg.Proxy = &config.ProxyConfig{
//		HTTPSURL:           "https://proxy.example.com:8080",
//		RetriesWhenBlocked: 3,
//	}
//	client := youtube.NewClient(cfg)
//	transcript, err := client.FetchTranscript(ctx, "dQw4w9WgXcQ", []string{"en"}, nil)
//
// Error Handling
//
// Every failure is a typed error from the youtube package, re-exported here.
// Use errors.As to inspect details, or the helpers:
//
//	if yttranscript.IsSkippable(err) {
//		// transcripts disabled, no matching language, or po_token required:
//		// skip this video
//	}
//	if yttranscript.IsBlocked(err) {
//		// back off or rotate proxies before retrying later
//	}
package yttranscript
