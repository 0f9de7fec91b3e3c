package mlp

import "github.com/pkg/errors"

// ErrorKind classifies an MLP decode failure the way spec.md §7 does: each
// kind is either fatal for the current access unit (parsing stops, the
// caller's next call must start from params_valid==false) or handled
// elsewhere as a warning (see Decoder.Log) and never surfaces as an
// ErrorKind at all.
type ErrorKind int

// Fatal error kinds, in the rough order the decoder can encounter them.
const (
	ErrUnknown ErrorKind = iota
	ErrFrameTooShort
	ErrMajorSyncInvalid
	ErrRestartSyncMismatch
	ErrChannelOutOfRange
	ErrFilterOverflow
	ErrPrecisionMismatch
	ErrFIRStateSpecified
	ErrBlockOverflow
	ErrBlocksizeTooLarge
	ErrSubstreamLengthMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case ErrFrameTooShort:
		return "frame too short"
	case ErrMajorSyncInvalid:
		return "major sync invalid"
	case ErrRestartSyncMismatch:
		return "restart sync mismatch"
	case ErrChannelOutOfRange:
		return "channel out of range"
	case ErrFilterOverflow:
		return "filter overflow"
	case ErrPrecisionMismatch:
		return "FIR/IIR precision mismatch"
	case ErrFIRStateSpecified:
		return "FIR filter declares preset state"
	case ErrBlockOverflow:
		return "block overflow"
	case ErrBlocksizeTooLarge:
		return "blocksize too large"
	case ErrSubstreamLengthMismatch:
		return "substream length mismatch"
	default:
		return "unknown MLP error"
	}
}

// Error is a fatal MLP decode error, tagged with the ErrorKind from spec.md
// §7 and, where applicable, the substream it occurred in.
type Error struct {
	Kind      ErrorKind
	Substream int
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return errors.Wrapf(e.Err, "mlp: substream %d: %s", e.Substream, e.Kind).Error()
	}
	return errors.Errorf("mlp: substream %d: %s", e.Substream, e.Kind).Error()
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind ErrorKind, substream int, format string, args ...interface{}) error {
	return &Error{Kind: kind, Substream: substream, Err: errors.Errorf(format, args...)}
}
