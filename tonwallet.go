package tonwallet

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logout = zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}

// Logger is used by the library for debug output,
// replace or silence it from the application side if needed.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	Level(zerolog.InfoLevel)
