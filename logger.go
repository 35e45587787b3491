package shsession

import (
	"go.uber.org/zap"

	"github.com/monopole/shsession/channeler"
)

// logger discards everything unless verbose logging is enabled.
var logger = zap.NewNop().Sugar()

// VerboseLoggingEnable enables detailed logging, here and in channeler.
func VerboseLoggingEnable() {
	l, err := zap.NewDevelopment()
	if err != nil {
		panic("constructing development logger: " + err.Error())
	}
	logger = l.Sugar().Named("shsession")
	channeler.VerboseLoggingEnable()
}

// VerboseLoggingDisable disables detailed logging.
func VerboseLoggingDisable() {
	logger = zap.NewNop().Sugar()
	channeler.VerboseLoggingDisable()
}
