package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// FeedURLValidator checks the URL of a configured feed source.
type FeedURLValidator struct {
	// AllowLocalhost permits loopback hosts such as localhost or 127.0.0.1
	AllowLocalhost bool
	// AllowPrivateIPs permits RFC 1918, link-local and ULA addresses
	AllowPrivateIPs bool
	MaxLength       int
}

// NewFeedURLValidator creates a validator that rejects local and private hosts.
func NewFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{
		MaxLength: 2048,
	}
}

// NewPermissiveFeedURLValidator allows feeds served from the local network.
func NewPermissiveFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

var privateBlocks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
	"fc00::/7",
	"fe80::/10",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	blocks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, block, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// ValidateAndNormalize returns the canonical form of input. A missing
// scheme defaults to https.
func (v *FeedURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	parsed.Host = strings.ToLower(parsed.Host)

	if err := v.checkHost(strings.ToLower(hostname)); err != nil {
		return "", err
	}

	return parsed.String(), nil
}

func (v *FeedURLValidator) checkHost(hostname string) error {
	ip := net.ParseIP(hostname)

	if !v.AllowLocalhost && (isLocalhost(hostname) || (ip != nil && ip.IsLoopback())) {
		return fmt.Errorf("localhost URLs are not permitted")
	}

	if ip != nil && ip.IsUnspecified() {
		return fmt.Errorf("unspecified address %s is not a valid feed host", hostname)
	}

	if !v.AllowPrivateIPs && ip != nil && isPrivateIP(ip) {
		return fmt.Errorf("private IP addresses are not permitted")
	}

	return nil
}

func isLocalhost(hostname string) bool {
	return hostname == "localhost" || strings.HasSuffix(hostname, ".localhost")
}

func isPrivateIP(ip net.IP) bool {
	for _, block := range privateBlocks {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}
