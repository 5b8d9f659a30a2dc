package ldscmunge

import "errors"

// Error classes for a munging run. Every fatal error returned by this module
// wraps exactly one of these, so callers can branch with errors.Is.
var (
	// ErrConfigurationConflict: mutually exclusive options were both set.
	ErrConfigurationConflict = errors.New("configuration conflict")

	// ErrSchemaResolution: a column could not be resolved from the headers and
	// overrides, or an override argument was malformed.
	ErrSchemaResolution = errors.New("schema resolution error")

	// ErrSchemaValidation: the resolved column mapping violates a presence or
	// uniqueness rule.
	ErrSchemaValidation = errors.New("schema validation error")

	// ErrReferenceFile: the --merge-alleles file is unusable.
	ErrReferenceFile = errors.New("reference file error")

	// ErrUnsupportedCompression: the input carries a recognized compression
	// signature with no decoder, such as Unix compress.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrEmptyResult: no variants survived quality control.
	ErrEmptyResult = errors.New("empty result")

	// ErrInternalInvariant indicates a bug rather than bad input.
	ErrInternalInvariant = errors.New("internal invariant violated")
)
