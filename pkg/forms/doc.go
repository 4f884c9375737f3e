// Package forms forwards contact form submissions from the live client to
// the external form API.
//
// A Submitter checks the form id, throttles each browser with a
// ClientLimiter, validates known forms against their Schema and posts the
// cleaned data. Server failures trip a Breaker so visitors are answered
// immediately while the API is down. Every call yields a Result that the
// browser renders as-is.
package forms
