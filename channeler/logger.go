package channeler

import (
	"go.uber.org/zap"
)

// logger discards everything unless verbose logging is enabled.
var logger = zap.NewNop().Sugar()

// AbbrevMaxLen bounds the length of logged line fragments.
const AbbrevMaxLen = 65

// Abbrev truncates x for logging.
func Abbrev(x string) string {
	if len(x) > AbbrevMaxLen {
		return x[0:AbbrevMaxLen-1] + "..."
	}
	return x
}

func abbrev(x string) string { return Abbrev(x) }

// VerboseLoggingEnable turns on detailed logging to stderr.
func VerboseLoggingEnable() {
	l, err := zap.NewDevelopment()
	if err != nil {
		panic("constructing development logger: " + err.Error())
	}
	logger = l.Sugar().Named("channeler")
}

// VerboseLoggingDisable turns detailed logging back off.
func VerboseLoggingDisable() {
	logger = zap.NewNop().Sugar()
}
