// Package endpoint holds the voxalign HTTP handlers. Register wires them
// onto a server's Gin engine; the server package itself knows nothing about
// attribution.
package endpoint
