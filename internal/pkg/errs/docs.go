// Package errs holds the typed errors shared by the domain, the use cases and
// the adapters of the fulfillment engine.
//
// Every kind comes as a sentinel plus a struct carrying the details:
//   - ErrValueIsRequired / ValueIsRequiredError: a mandatory value is missing
//   - ErrValueIsInvalid / ValueIsInvalidError: a value is malformed
//   - ErrValueIsOutOfRange / ValueIsOutOfRangeError: a number or instant lies outside its bounds
//   - ErrObjectNotFound / ObjectNotFoundError: a lookup by key found nothing
//   - ErrVersionIsInvalid / VersionIsInvalidError: a versioned row changed under us
//
// The structs unwrap to their sentinel, so callers classify with errors.Is and
// the HTTP adapter maps each sentinel to a status code. A cause only shows up
// in the message.
package errs
