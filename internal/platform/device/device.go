// Package device derives human-readable device summaries from User-Agent
// strings so audit records can show which client a verifier decided from.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Summary extracts a display name from a User-Agent string.
// Returns format: "Browser on OS" (e.g. "Chrome on Linux", "Safari on iPhone").
func Summary(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		platform := ua.Platform()
		if platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return browser + " on " + os
}
