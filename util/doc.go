// Package util holds the small helpers shared by the config loader and the
// HTTP host: size parsing, input sanitizing and Coalesce.
package util
