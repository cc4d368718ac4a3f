// Package sanitizer performs lossy-safe normalization of loosely-typed
// reservation input into the canonical field set the persistence layer's
// schema validators will accept. Malformed values degrade to null; the
// sanitizer raises only on structurally absent input.
package sanitizer
