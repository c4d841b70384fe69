package usd

import "errors"

// The error taxonomy from §7. Each is a distinct sentinel so callers can
// errors.Is/errors.As against it instead of string-matching, mirroring the
// teacher's style of a handful of package-level sentinel errors
// (e.g. graph.ErrNotFound) rather than a bespoke error-code framework.
var (
	ErrMalformedInput           = errors.New("usd: malformed input")
	ErrInvalidName              = errors.New("usd: invalid name")
	ErrInvalidMetadataType      = errors.New("usd: invalid metadata value type")
	ErrUnknownMetadataKey       = errors.New("usd: unknown metadata key")
	ErrInvalidListEditQualifier = errors.New("usd: invalid list-edit qualifier")
	ErrUnknownEnumToken         = errors.New("usd: unknown enum token")
	ErrUnknownPrimType          = errors.New("usd: unknown prim type")
	ErrSchemaReconstructFailed  = errors.New("usd: schema reconstruction failed")
	ErrIndexOutOfRange          = errors.New("usd: index out of range")
	ErrDuplicateVariantChild    = errors.New("usd: duplicate variant child")
	ErrResourceLimitExceeded    = errors.New("usd: resource limit exceeded")
	ErrStateViolation           = errors.New("usd: state violation")
)
