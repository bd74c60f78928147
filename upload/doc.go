// Package upload vets a candidate file against a size ceiling and a content
// type allow-list before callers persist or forward it.
//
// # Known limitation
//
// Only declared metadata is trusted. The validator never reads
// [Candidate.Body], so a client that lies about Content-Type is not caught
// here. Callers that need content-based verification must sniff the bytes
// themselves before persisting.
package upload
