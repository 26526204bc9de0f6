package messages

import "errors"

var (
	ErrParsingCancelled  = errors.New("catalog parsing cancelled")
	ErrFailedToParseYAML = errors.New("failed to parse YAML catalog")
	ErrFailedToParseJSON = errors.New("failed to parse JSON catalog")
	ErrInvalidCatalog    = errors.New("invalid message catalog")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrFailedToReadFile  = errors.New("failed to read catalog file")
)
