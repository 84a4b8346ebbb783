// Package pipeline drives migration runs: transforming legacy rows into
// attendee records, writing them to a sink in fixed-size batches with
// all-settled semantics, and draining the target store for a clean re-run.
//
// Two sinks exist: a direct store sink and a registration-API sink. The
// executor is sink-agnostic; pacing (inter-item and inter-batch delays) is
// configured per sink because the API path's delays are a correctness
// requirement of the shared rate limit, not tuning.
package pipeline
