// Package media holds the request side of media resolution: the configuration
// value objects, the Args aggregate, the immutable Request and the fluent Builder
// that assembles them and hands the result to a Processor.
//
// # Layering
//
// Defaults reach a Request from three places, applied in this order:
//   - component configuration inherited by the subject resource (auto-crop flag,
//     accepted media formats and their mandatory flags)
//   - a complete Args value supplied through Builder.Args
//   - individual Builder setters
//
// # Value Semantics
//
// Args is a value type. Every boundary that stores an Args (Builder.Args,
// NewBuilderFromRequest, Request.Args) stores or returns a deep copy, so a shared
// template can be mutated freely without affecting requests built from it.
//
// # Errors
//
// Invalid arguments fail at the point they are supplied: constructors return an
// error and Builder setters record a sticky error visible through Builder.Err.
// The one deferred check is the mutual exclusion between image sizes and picture
// sources, which Build performs on the finalized Args so that call order does
// not matter. Resolution misses are never errors; they surface as an invalid
// Media or a nil Rendition.
package media
