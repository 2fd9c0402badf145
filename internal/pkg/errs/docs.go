// Package errs provides the error taxonomy shared by the order lifecycle engine.
//
// The package includes one error type per failure kind a caller must be able
// to tell apart:
//   - ObjectNotFoundError: a referenced order or courier does not exist
//   - ValueIsRequiredError / ValueIsInvalidError: input validation failures
//   - ForbiddenError: the actor's role or identity may not perform the action
//   - InvalidTransitionError: the requested status edge does not exist
//   - ConflictError: a concurrent writer changed the order first
//   - UpstreamFailureError: the persistence layer failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is classifies it
package errs
