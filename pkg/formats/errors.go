package formats

import "errors"

// Decode errors shared by every terrain format parser.
// Parsers wrap these with context, so compare with errors.Is.
var (
	ErrIOFailure          = errors.New("i/o failure")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrUnsupportedFeature = errors.New("unsupported feature")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrSizeMismatch       = errors.New("size mismatch")
	ErrDepthOutOfRange    = errors.New("depth out of range")
	ErrTileSizeMismatch   = errors.New("tile size mismatch")
	ErrTruncatedRead      = errors.New("truncated read")
)

// Supported quadtree depth range for both formats.
const (
	MinDepth = 1
	MaxDepth = 9
)

// ErrorType returns a short stable name for the decode error class of err,
// or "other" if err does not wrap one of the sentinels above.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, ErrTruncatedRead):
		return "truncated_read"
	case errors.Is(err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ErrUnsupportedFeature):
		return "unsupported_feature"
	case errors.Is(err, ErrUnsupportedVersion):
		return "unsupported_version"
	case errors.Is(err, ErrSizeMismatch):
		return "size_mismatch"
	case errors.Is(err, ErrDepthOutOfRange):
		return "depth_out_of_range"
	case errors.Is(err, ErrTileSizeMismatch):
		return "tile_size_mismatch"
	case errors.Is(err, ErrIOFailure):
		return "io_failure"
	default:
		return "other"
	}
}
