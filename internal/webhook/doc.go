// Package webhook implements the Ghala webhook receiving pipeline:
// request authentication, payload decoding, and dispatch onto the event bus.
//
// # Security Model
//
// - Timestamp freshness window (default 5 minutes) rejects replayed requests
// - HMAC-SHA256 over "timestamp.body", base64-encoded, verified with
//   crypto/subtle (constant-time comparison)
// - Check order: header presence, then freshness, then signature
// - Body size limits enforced to prevent DoS
// - No digest or secret details leaked in error responses
// - Request logging excludes payload content
// - One secret per event category, required at startup
//
// # Request Flow
//
//  1. HTTP POST arrives at the event's route (e.g. /ghala/webhook/order-created)
//  2. Body size checked (reject with 413 if too large)
//  3. Timestamp and signature headers extracted (reject with 400 if absent)
//  4. Timestamp parsed and checked against the freshness window (400)
//  5. HMAC-SHA256 computed over timestamp + "." + raw body, compared in
//     constant time (400 on mismatch)
//  6. Body decoded against the event's schema; unknown fields ignored,
//     missing required fields reject with 422
//  7. Inner data block dispatched to subscribed and wildcard handlers
//  8. 200 returned with {"message": "<event> webhook received and verified"}
//
// A handler failure during step 7 surfaces as a 500 even though the request
// authenticated; see the event bus documentation for the dispatch contract.
package webhook
