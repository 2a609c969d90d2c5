// Package server is the HTTP host for voxalign. It serves a Gin engine over
// HTTP/1.1 and cleartext HTTP/2 behind a net/http middleware stack; routes
// live in the endpoint subpackage.
package server
