package client

import (
	"net/http"

	"github.com/dmitrijs2005/glucosync/internal/common"
)

// headerTransport decorates every outgoing request with the fixed headers
// of the remote contract and the current bearer token.
type headerTransport struct {
	base   http.RoundTripper
	apiKey string
	tokens TokenSource
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	req.Header.Set(common.APIKeyHeaderName, t.apiKey)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil && req.Body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Authorization") == "" && t.tokens != nil {
		if tok, ok := t.tokens.CurrentToken(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	return t.base.RoundTrip(req)
}
