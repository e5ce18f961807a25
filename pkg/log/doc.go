// Package log is the logging seam of the egnyte client.
//
// The client never writes to a global logger. Callers hand it a Logger
// through egnyte.WithLogger; when they don't, NoopLogger swallows
// everything. ZerologAdapter bridges to github.com/rs/zerolog, which is
// what the egnyte command line tool uses:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//	client, err := egnyte.NewClient("acme", token, egnyte.WithLogger(logger))
package log
