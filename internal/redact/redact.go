// Package redact masks secret-looking values before they reach logs or
// diagnostic output.
package redact

import (
	"net/url"
	"strings"
)

// SecretKeyPatterns contains substrings that indicate a key likely holds
// sensitive data. Keys are matched case-insensitively.
var SecretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
}

// TokenPrefixes contains known API token prefixes that indicate sensitive
// values regardless of key name.
var TokenPrefixes = []string{
	"ghp_",  // GitHub personal access token
	"gho_",  // GitHub OAuth token
	"ghu_",  // GitHub user-to-server token
	"ghs_",  // GitHub server-to-server token
	"ghr_",  // GitHub refresh token
	"sk-",   // OpenAI/Anthropic keys
	"pk-",   // Stripe-style publishable keys
	"AKIA",  // AWS access key prefix
	"xoxb-", // Slack bot token
	"xoxp-", // Slack user token
	"xoxa-", // Slack app token
	"xoxr-", // Slack refresh token
}

// ShouldMask returns true if the key name suggests it contains sensitive data.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix returns true if the value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// MaskURL redacts the password from a URL with embedded credentials.
// Unparseable URLs and URLs without a password are returned unchanged.
func MaskURL(rawURL string) string {
	if !strings.Contains(rawURL, "://") {
		return rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}
	password, ok := parsed.User.Password()
	if !ok || password == "" {
		return rawURL
	}
	parsed.User = url.UserPassword(parsed.User.Username(), MaskValue(password))
	return parsed.String()
}

// Value returns value masked according to its key: secret-looking keys and
// token-prefixed values are masked, URLs have their password masked.
func Value(key, value string) string {
	if ShouldMask(key) || ContainsTokenPrefix(value) {
		return MaskValue(value)
	}
	return MaskURL(value)
}

// Env returns a copy of env with sensitive values masked.
func Env(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	masked := make(map[string]string, len(env))
	for k, v := range env {
		masked[k] = Value(k, v)
	}
	return masked
}

// Args returns a copy of a command-line argument list in which every
// "-e KEY=VALUE" pair has its value masked. Bare "-e KEY" pairs are kept.
func Args(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if out[i] != "-e" && out[i] != "--env" {
			continue
		}
		k, v, ok := strings.Cut(out[i+1], "=")
		if ok {
			out[i+1] = k + "=" + MaskValue(v)
		}
		i++
	}
	return out
}
