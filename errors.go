// errors.go defines the public error kinds for the framehdr package.

package framehdr

import "errors"

// Errors returned by header construction, codec, and patch operations.
// Operations wrap these with the offending field or value; match with
// errors.Is.
var (
	// ErrInvalidChannelCount indicates an unsupported channel count.
	// Valid channel counts are 1 through 16.
	ErrInvalidChannelCount = errors.New("framehdr: invalid channel count (must be 1-16)")

	// ErrInvalidBitsPerSample indicates an unsupported bit depth.
	// Valid bit depths are 16, 24, and 32.
	ErrInvalidBitsPerSample = errors.New("framehdr: invalid bits per sample (must be 16, 24, or 32)")

	// ErrSampleSizeTooLarge indicates a sample count above the 12-bit
	// field maximum of 4095.
	ErrSampleSizeTooLarge = errors.New("framehdr: sample size exceeds 4095")

	// ErrInvalidSampleRate indicates an unsupported sample rate.
	// Valid sample rates are 44100, 48000, 88200, and 96000.
	ErrInvalidSampleRate = errors.New("framehdr: invalid sample rate (must be 44100, 48000, 88200, or 96000)")

	// ErrInvalidMagic indicates the buffer does not begin with the header
	// signature. Nothing else in the buffer is inspected after this.
	ErrInvalidMagic = errors.New("framehdr: invalid magic")

	// ErrInvalidCode indicates a field code with no assigned meaning,
	// such as bits-per-sample code 3 or encoding codes 6 and 7.
	ErrInvalidCode = errors.New("framehdr: invalid field code")

	// ErrBufferTooShort indicates the buffer ends before a field the
	// header word declares present.
	ErrBufferTooShort = errors.New("framehdr: buffer too short")

	// ErrInvalidLength indicates the buffer length does not equal the
	// length implied by the header flags. Full decode demands an exact
	// header; use the Extract functions on buffers that carry a payload.
	ErrInvalidLength = errors.New("framehdr: buffer length does not match header flags")
)
