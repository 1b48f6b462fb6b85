package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidRate indicates that a provider-supplied rate could not be
// parsed as a non-negative real number.
var ErrInvalidRate = errors.New("invalid rate")

// ErrDivision indicates a zero-rate data-integrity fault: a computation
// would have divided by a rate that is zero but not the "never observed"
// sentinel.
var ErrDivision = errors.New("division by zero rate")

// ErrSourceUnavailable indicates that the quote source could not be
// reached or reported failure. Fatal for the whole batch.
var ErrSourceUnavailable = errors.New("quote source unavailable")

// ErrStoreUnavailable indicates that the rate store failed a read or
// write. Reads degrade to the sentinel, writes are retried next cycle.
var ErrStoreUnavailable = errors.New("rate store unavailable")
