// Package axis implements the client for the Axis audio control service.
//
// The client is the only component that talks to the vendor API. Every
// call makes exactly one authenticated HTTP request with a configured
// timeout; there are no retries. When the request fails for any reason
// (transport error, timeout, non-2xx status) the client logs the
// failure and returns a synthesized fallback result instead of an
// error, so orchestration code is never blocked by vendor outages.
//
// Every result carries a Provenance tag distinguishing real vendor
// responses from synthesized ones. Callers that need the distinction
// inspect the tag or the vendor_call telemetry; the orchestration
// layer treats both the same.
//
// The vendor endpoints live under {base_url}/api and speak JSON with
// HTTP basic auth. TLS verification is disabled when configured, since
// the service usually runs on-site with a self-signed certificate.
package axis
