package youtube

import (
	"strings"

	"yttranscript/youtube/innertube"
)

// Playability status values returned by the player endpoint.
const (
	playabilityOK            = "OK"
	playabilityError         = "ERROR"
	playabilityLoginRequired = "LOGIN_REQUIRED"
)

// Reason strings the interpreter matches against. YouTube localizes these by
// request language; the session always asks for English.
const (
	reasonBotDetected      = "Sign in to confirm you're not a bot"
	reasonAgeRestricted    = "This video may be inappropriate for some users."
	reasonVideoUnavailable = "This video is unavailable"
)

// checkPlayability classifies the playability status of a player response
// into a typed outcome. It returns the most specific failure determinable and
// falls back to VideoUnplayableError only when no rule matches.
//
// A nil block or empty status field is treated as playable: some valid player
// responses omit the field entirely, and that upstream omission is trusted
// as-is rather than verified.
func checkPlayability(status *innertube.PlayabilityStatus, videoID string) error {
	if status == nil || status.Status == "" || status.Status == playabilityOK {
		return nil
	}

	if status.Status == playabilityLoginRequired {
		switch status.Reason {
		case reasonBotDetected:
			return &RequestBlockedError{VideoID: videoID}
		case reasonAgeRestricted:
			return &AgeRestrictedError{VideoID: videoID}
		}
	}

	if status.Status == playabilityError && status.Reason == reasonVideoUnavailable {
		// "This video is unavailable" for a URL-shaped identifier means the
		// caller passed a URL where a bare video id was expected. Any scheme
		// separator marks the identifier as a URL; bare ids cannot contain "/".
		if strings.Contains(videoID, "://") {
			return &InvalidVideoIDError{VideoID: videoID}
		}
		return &VideoUnavailableError{VideoID: videoID}
	}

	return &VideoUnplayableError{
		VideoID:    videoID,
		Reason:     status.Reason,
		SubReasons: subReasons(status),
	}
}

// subReasons collects the text runs under the error screen's subreason block.
func subReasons(status *innertube.PlayabilityStatus) []string {
	if status.ErrorScreen == nil ||
		status.ErrorScreen.PlayerErrorMessageRenderer == nil ||
		status.ErrorScreen.PlayerErrorMessageRenderer.Subreason == nil {
		return nil
	}

	runs := status.ErrorScreen.PlayerErrorMessageRenderer.Subreason.Runs
	reasons := make([]string, 0, len(runs))
	for _, run := range runs {
		reasons = append(reasons, run.Text)
	}
	return reasons
}
