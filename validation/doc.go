// Package validation checks settings and request payloads.
//
// Struct-tag validation goes through a shared go-playground validator that
// reports snake_case field names:
//
//	if err := validation.Validate(&settings.Alignment); err != nil { ... }
//
// Rules that span several fields use the programmatic collector:
//
//	v := validation.New()
//	v.Custom(o+l > 0, "alignment.overlap_weight", "weights must not both be zero")
//	return v.Validate()
package validation
