package parse

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// Returned by Scanner when no further tag pair exists. This is
	// how a scan normally ends.
	ErrNotFound = errors.New("no more tags")

	// The document doesn't have the shape we expect: an unclosed
	// tag or a missing mandatory cell.
	ErrMalformed = errors.New("malformed input")

	// A station name isn't present in the station directory.
	ErrUnknownStation = errors.New("unknown station")
)

// Resolves station names, as printed in upstream documents, to
// station codes.
type StationLookup interface {
	Code(name string) (string, bool)
}

// Parser decodes departure boards and train stop lists.
type Parser struct {
	Stations StationLookup
	Logger   *zap.SugaredLogger
}

func NewParser(stations StationLookup, logger *zap.SugaredLogger) *Parser {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Parser{
		Stations: stations,
		Logger:   logger,
	}
}
