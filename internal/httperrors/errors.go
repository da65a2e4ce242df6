// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"coinly/cli/internal/logging"
)

// Category is the coarse reason a request produced no response.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryTimeout
	CategoryDNS
	CategoryRefused
	CategoryTLS
)

// Classify inspects a transport error.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryGeneric
	case isTimeoutError(err):
		return CategoryTimeout
	case isDNSError(err):
		return CategoryDNS
	case isConnectionRefusedError(err):
		return CategoryRefused
	case isTLSError(err):
		return CategoryTLS
	default:
		return CategoryGeneric
	}
}

// FormatNetworkError prints a troubleshooting hint for err and returns it wrapped.
// action describes what the CLI was doing, e.g. "checking your session".
func FormatNetworkError(err error, action, target string) error {
	if err == nil {
		return nil
	}
	displayErrorMessage(err, action, ExtractHostFromURL(target))
	return fmt.Errorf("network error: %w", err)
}

func displayErrorMessage(err error, action, host string) {
	switch Classify(err) {
	case CategoryTimeout:
		pterm.Warning.Printf("Timed out while %s (%s)\n", action, host)
		pterm.Println("  • The API took too long to answer; try again shortly")
		pterm.Println("  • Raise http_timeout in config.yaml on slow links")
	case CategoryDNS:
		pterm.Warning.Printf("Cannot resolve %s while %s\n", host, action)
		pterm.Println("  • Check COINLY_API_URL or api_url in config.yaml")
		pterm.Println("  • Check your DNS settings")
	case CategoryRefused:
		pterm.Warning.Printf("Connection to %s refused while %s\n", host, action)
		pterm.Println("  • Is the API running on that host and port?")
	case CategoryTLS:
		pterm.Warning.Printf("Secure connection to %s failed while %s\n", host, action)
		pterm.Println("  • Check the certificate and your system clock")
		pterm.Println("  • Use http:// only for local development servers")
	default:
		pterm.Warning.Printf("Cannot reach %s while %s\n", host, action)
		short := logging.Mask(err.Error())
		if len(short) > 100 {
			short = short[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", short)
	}
	pterm.Println()
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isTLSError checks if the error is an SSL/TLS error.
func isTLSError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "the API"
	}
	return u.Host
}
