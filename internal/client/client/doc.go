// Package client contains the client-side building blocks that talk to the
// outside world: the remote service and the local database file.
//
// # Overview
//
//  1. Client is the contract the reconciliation engine consumes:
//     Authenticate, FetchReadings, SubmitReading, plus VerifyToken and Ping.
//     No retry logic lives here; each call reports its own outcome.
//  2. HTTPClient implements Client over HTTP/JSON. A RoundTripper adds the
//     API key, Accept and Content-Type headers and, when a token source
//     yields a token, the bearer Authorization header.
//  3. InitDatabase and RunMigrations open the SQLite file and apply the
//     embedded goose migrations.
//
// # Error Handling
//
// Failures are returned as *RemoteError. Use errors.Is with
// common.ErrAuthRejected (credentials refused) or common.ErrTransport
// (network failure, timeout, non-2xx status, malformed body).
package client
