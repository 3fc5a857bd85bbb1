// Package analytics holds the click-tracking core: visit classification
// for the redirect path and the ledger aggregations behind the admin
// dashboard.
package analytics

import (
	"net/http"
	"strings"
)

// Visit is the classification of one redirect request, derived from the
// two signals that matter: whether the client is speculatively
// prefetching, and what the fetch destination is. Nothing else about the
// request participates in the countable decision.
type Visit struct {
	Prefetch  bool
	FetchDest string
}

// ClassifyRequest extracts the visit classification from request headers.
// The prefetch markers cover the standard Sec-Purpose/Purpose headers and
// the framework-specific ones browsers and proxies are known to send.
func ClassifyRequest(r *http.Request) Visit {
	return Visit{
		Prefetch: r.Header.Get("Purpose") == "prefetch" ||
			strings.Contains(r.Header.Get("Sec-Purpose"), "prefetch") ||
			r.Header.Get("X-Middleware-Prefetch") == "1" ||
			r.Header.Get("Next-Router-Prefetch") == "1",
		FetchDest: r.Header.Get("Sec-Fetch-Dest"),
	}
}

// Countable reports whether the visit represents a genuine top-level
// navigation: not a prefetch, and a document (or unspecified) fetch
// destination. Subresource fetches hitting the redirect path never count.
func (v Visit) Countable() bool {
	if v.Prefetch {
		return false
	}
	return v.FetchDest == "" || v.FetchDest == "document"
}
