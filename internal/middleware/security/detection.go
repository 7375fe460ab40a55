// Package security hardens the HTTP surface: response headers on every
// request and heuristics that flag scanner traffic.
package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
)

// DetectionMetrics tracks security detection events
type DetectionMetrics struct {
	SuspiciousRequests int64
}

// Detector flags requests that look like scanner probes and resolves the real
// client IP behind trusted proxies.
type Detector struct {
	metrics        *DetectionMetrics
	trustedProxies []*net.IPNet
}

// NewDetector creates a detector trusting the usual private proxy ranges.
func NewDetector() *Detector {
	return &Detector{
		metrics: &DetectionMetrics{},
		trustedProxies: []*net.IPNet{
			mustCIDR("127.0.0.0/8"),
			mustCIDR("10.0.0.0/8"),
			mustCIDR("172.16.0.0/12"),
			mustCIDR("192.168.0.0/16"),
		},
	}
}

func mustCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("bad trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// probePatterns are substrings scanners hit on a JSON API that serves none of
// them. Matching one is a strong signal the caller is enumerating.
var probePatterns = []string{
	"../", "..\\", ".env", ".git", ".ssh",
	"wp-admin", "phpmyadmin", "admin.php", "config.php",
	"<script", "union select", "etc/passwd", "cmd.exe",
}

// DetectSuspiciousRequest reports whether the request matches a probe
// heuristic. Callers log; they do not block, since heuristics misfire.
func (d *Detector) DetectSuspiciousRequest(r *http.Request) bool {
	suspicious := d.matchesProbe(r)
	if suspicious {
		atomic.AddInt64(&d.metrics.SuspiciousRequests, 1)
	}
	return suspicious
}

func (d *Detector) matchesProbe(r *http.Request) bool {
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	for _, pattern := range probePatterns {
		if strings.Contains(path, pattern) || strings.Contains(query, pattern) {
			return true
		}
	}

	switch r.Method {
	case "TRACE", "TRACK", "CONNECT":
		return true
	}

	// Overlong URLs point at overflow attempts.
	if len(r.URL.String()) > 2048 {
		return true
	}

	// A forwarding chain deeper than 5 hops is header manipulation.
	if xff := r.Header.Get("X-Forwarded-For"); strings.Count(xff, ",") > 5 {
		return true
	}

	return false
}

// ExtractClientIP resolves the caller's address. Forwarded headers are only
// honored when the direct peer is a trusted proxy.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}
	parsed := net.ParseIP(directIP)
	if parsed == nil {
		return directIP
	}

	if d.isTrustedProxy(parsed) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		if xri := r.Header.Get("X-Real-IP"); net.ParseIP(xri) != nil {
			return xri
		}
	}
	return directIP
}

func (d *Detector) isTrustedProxy(ip net.IP) bool {
	for _, network := range d.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// GetMetrics returns a snapshot of the detection counters.
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		SuspiciousRequests: atomic.LoadInt64(&d.metrics.SuspiciousRequests),
	}
}

// AddTrustedProxy extends the trusted proxy set.
func (d *Detector) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	d.trustedProxies = append(d.trustedProxies, network)
	return nil
}
