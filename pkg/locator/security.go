package locator

import (
	"fmt"
	"net"
	"net/url"
)

// BlockedNetworks contains IP ranges remote sources may not resolve to
var BlockedNetworks = []string{
	"127.0.0.0/8",    // Localhost
	"10.0.0.0/8",     // Private network
	"172.16.0.0/12",  // Private network
	"192.168.0.0/16", // Private network
	"169.254.0.0/16", // Link-local (cloud metadata services)
}

// IsBlockedIP checks if an IP address is in a blocked network range
func IsBlockedIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	for _, cidr := range BlockedNetworks {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if network.Contains(ip) {
			return true
		}
	}

	return false
}

// ValidateHTTPURI rejects http/https sources whose host resolves into a
// blocked network (SSRF prevention). Called at the request boundary,
// before any fetch happens.
func ValidateHTTPURI(uri string) error {
	parsed, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid URI: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("expected http or https scheme")
	}

	hostname := parsed.Hostname()

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("failed to resolve hostname: %w", err)
	}

	for _, ip := range ips {
		if IsBlockedIP(ip.String()) {
			return fmt.Errorf("access denied: %s resolves to blocked address %s", hostname, ip)
		}
	}

	return nil
}
