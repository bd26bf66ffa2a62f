package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"yttranscript/config"
	"yttranscript/youtube"
)

// Exit codes for the calling pipeline: skippable outcomes (transcripts
// disabled, no matching language, po_token required) are distinguished from
// blocking ones so wrappers can decide between skipping and backing off.
const (
	exitError   = 1
	exitSkipped = 2
	exitBlocked = 3
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitError)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "list":
		cmdList(args)
	case "fetch":
		cmdFetch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(exitError)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `yttranscript - YouTube transcript fetcher

Usage:
  yttranscript list <video-id>           List available transcripts
  yttranscript fetch [flags] <video-id>  Fetch a transcript
  yttranscript help                      Show this help message

Examples:
  yttranscript list dQw4w9WgXcQ                         # Show the caption catalog
  yttranscript fetch dQw4w9WgXcQ                        # Fetch with default languages
  yttranscript fetch dQw4w9WgXcQ --lang en,es           # Language preference order
  yttranscript fetch dQw4w9WgXcQ --translate de         # Translate before fetching
  yttranscript fetch dQw4w9WgXcQ --format srt           # SubRip output
  yttranscript fetch dQw4w9WgXcQ --timestamps           # Annotated plain text

For help on specific command: yttranscript <command> -h
`)
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: yttranscript list [flags] <video-id>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	videoID := requireVideoID(fs)
	client := newClient(*verbose)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	list, err := client.ListTranscripts(ctx, videoID)
	if err != nil {
		exitWithError(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tLANGUAGE\tKIND\tTRANSLATABLE")
	for _, t := range list.All() {
		kind := "manual"
		if t.IsGenerated {
			kind = "generated"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", t.LanguageCode, t.Language, kind, t.IsTranslatable())
	}
	w.Flush()

	if translations := list.TranslationLanguages(); len(translations) > 0 {
		codes := make([]string, 0, len(translations))
		for _, tl := range translations {
			codes = append(codes, tl.LanguageCode)
		}
		fmt.Fprintf(os.Stderr, "\nTranslation languages: %s\n", strings.Join(codes, ", "))
	}
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	langStr := fs.String("lang", "", "Comma-separated language codes in preference order (e.g. en,es)")
	generatedOnly := fs.Bool("generated", false, "Only consider auto-generated captions")
	manualOnly := fs.Bool("manual", false, "Only consider manually created captions")
	translate := fs.String("translate", "", "Translate the matched transcript into this language code")
	preserve := fs.Bool("preserve-formatting", false, "Keep inline formatting tags (bold, italic, ...)")
	formatStr := fs.String("format", "text", "Output format: text, json, srt, or vtt")
	timestamps := fs.Bool("timestamps", false, "Prefix each text line with its start offset")
	verbose := fs.Bool("v", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: yttranscript fetch [flags] <video-id>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if *generatedOnly && *manualOnly {
		fmt.Fprintf(os.Stderr, "Error: --generated and --manual are mutually exclusive\n")
		os.Exit(exitError)
	}

	format, err := youtube.ParseFormat(*formatStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (use text, json, srt, or vtt)\n", err)
		os.Exit(exitError)
	}

	videoID := requireVideoID(fs)
	client := newClient(*verbose)

	var languages []string
	for _, lang := range strings.Split(*langStr, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			languages = append(languages, lang)
		}
	}
	if len(languages) == 0 {
		languages = []string{"en"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	list, err := client.ListTranscripts(ctx, videoID)
	if err != nil {
		exitWithError(err)
	}

	var transcript *youtube.Transcript
	switch {
	case *generatedOnly:
		transcript, err = list.FindGenerated(languages)
	case *manualOnly:
		transcript, err = list.FindManuallyCreated(languages)
	default:
		transcript, err = list.Find(languages)
	}
	if err != nil {
		exitWithError(err)
	}

	if *translate != "" {
		transcript, err = transcript.Translate(*translate)
		if err != nil {
			exitWithError(err)
		}
	}

	fetched, err := transcript.Fetch(ctx, &youtube.FetchOptions{PreserveFormatting: *preserve})
	if err != nil {
		exitWithError(err)
	}

	if *timestamps && format == youtube.FormatText {
		for _, snippet := range fetched.Snippets {
			fmt.Printf("[%s +%s] %s\n", formatTimestamp(snippet.Start), formatTimestamp(snippet.Duration), snippet.Text)
		}
		return
	}

	out, err := youtube.Render(fetched, format)
	if err != nil {
		exitWithError(err)
	}
	fmt.Print(out)
}

// requireVideoID returns the positional video id or exits with usage help.
func requireVideoID(fs *flag.FlagSet) string {
	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing video-id\n")
		fs.Usage()
		os.Exit(exitError)
	}
	return argv[0]
}

func newClient(verbose bool) *youtube.Client {
	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Error("Failed to load configuration")
		os.Exit(exitError)
	}
	return youtube.NewClient(cfg)
}

func exitWithError(err error) {
	logrus.WithError(err).Error("Transcript fetch failed")
	switch {
	case youtube.IsSkippable(err):
		os.Exit(exitSkipped)
	case youtube.IsBlocked(err):
		os.Exit(exitBlocked)
	default:
		os.Exit(exitError)
	}
}

func formatTimestamp(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
