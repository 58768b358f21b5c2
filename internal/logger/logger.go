// Package logger provides the four leveled loggers shared by every
// urlguard package, following the same shape the teacher's own
// entrypoint uses: four independently-silenceable *log.Logger values
// set up once by main and read everywhere else through package
// variables.
package logger

import (
	"io"
	"log"
)

// Debug, Info, Warning and Error are the shared loggers. They default to
// writing to io.Discard so importing urlguard as a library produces no
// output until the embedding program calls Init.
var (
	Debug   = log.New(io.Discard, "TRACE: ", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
	Info    = log.New(io.Discard, "INFO: ", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
	Warning = log.New(io.Discard, "WARNING: ", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
	Error   = log.New(io.Discard, "ERROR: ", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
)

// Init rewires the four leveled loggers to the given writers. Pass
// io.Discard for any level that should be silenced.
func Init(debugHandle, infoHandle, warningHandle, errorHandle io.Writer) {
	Debug = log.New(debugHandle, "TRACE: ", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
	Info = log.New(infoHandle, "INFO: ", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
	Warning = log.New(warningHandle, "WARNING: ", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
	Error = log.New(errorHandle, "ERROR: ", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
}
