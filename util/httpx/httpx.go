// Package httpx holds the shared outbound HTTP client. The only caller today
// is the Stripe gateway, so the pool is sized for one host with bursty
// front-desk traffic.
package httpx

import (
	"net"
	"net/http"
	"time"
)

var defaultClient = &http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        50,
		MaxConnsPerHost:     50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Client returns the process-wide client; callers must not mutate it.
func Client() *http.Client { return defaultClient }
