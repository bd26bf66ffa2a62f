package youtube

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	ythttp "yttranscript/http"
)

const (
	// watchBaseURL is the canonical watch-page endpoint.
	watchBaseURL = "https://www.youtube.com/watch"

	// consentMarker identifies the cookie-consent interstitial.
	consentMarker = `action="https://consent.youtube.com/s"`

	consentCookieName = "CONSENT"
)

// fetchWatchPage retrieves the decoded watch-page HTML for a video. When the
// cookie-consent interstitial is served instead, it creates the consent
// cookie from the interstitial's form nonce and retries the GET exactly once.
func fetchWatchPage(ctx context.Context, session *ythttp.Client, base, videoID string) (string, error) {
	pageHTML, err := fetchWatchHTML(ctx, session, base, videoID)
	if err != nil {
		return "", err
	}
	if !strings.Contains(pageHTML, consentMarker) {
		return pageHTML, nil
	}

	if err := createConsentCookie(session, base, pageHTML, videoID); err != nil {
		return "", err
	}

	pageHTML, err = fetchWatchHTML(ctx, session, base, videoID)
	if err != nil {
		return "", err
	}
	if strings.Contains(pageHTML, consentMarker) {
		return "", &ConsentCookieError{VideoID: videoID}
	}
	return pageHTML, nil
}

// fetchWatchHTML performs one watch-page GET and entity-unescapes the body,
// so downstream stages never see raw entities.
func fetchWatchHTML(ctx context.Context, session *ythttp.Client, base, videoID string) (string, error) {
	resp, err := session.Get(ctx, fmt.Sprintf("%s?v=%s", base, videoID))
	if err != nil {
		return "", mapHTTPError(err, videoID)
	}
	return html.UnescapeString(string(resp.Body)), nil
}

// createConsentCookie extracts the nonce from the interstitial's hidden form
// field and registers it as a consent cookie on the session jar. The cookie is
// domain-scoped on youtube.com hosts and host-only elsewhere.
func createConsentCookie(session *ythttp.Client, base, pageHTML, videoID string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return &ConsentCookieError{VideoID: videoID}
	}

	nonce, ok := doc.Find(`input[name="v"]`).First().Attr("value")
	if !ok || nonce == "" {
		return &ConsentCookieError{VideoID: videoID}
	}

	cookie := &http.Cookie{
		Name:  consentCookieName,
		Value: "YES+" + nonce,
		Path:  "/",
	}
	if u, err := url.Parse(base); err == nil && strings.HasSuffix(u.Hostname(), "youtube.com") {
		cookie.Domain = ".youtube.com"
	}

	if err := session.SetCookie(base, cookie); err != nil {
		return &ConsentCookieError{VideoID: videoID}
	}
	return nil
}
