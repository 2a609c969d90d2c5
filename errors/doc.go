// Package errors provides the structured error type used across voxalign.
//
// The alignment core favors best-effort results over failures, so AppError
// is mostly seen at the edges: invalid settings, undecodable provider
// payloads, channels handed to the wrong attributor, and the HTTP host,
// which maps each code to a status via ToResponse and HTTPStatus.
package errors
