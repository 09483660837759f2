// Package validation binds request data and checks it against the payload's
// declared schema.
//
// Payload types declare required properties with `validate` struct tags. Failures
// are reported as one violation message per property, all at once, e.g.
//
//	instance requires property "author"
//	instance.pages is not of a type(s) integer
package validation
