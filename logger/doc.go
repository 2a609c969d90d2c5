// Package logger provides structured logging for voxalign using zerolog.
//
// Every alignment component takes a *Logger through its options and tags
// it with WithComponent, so a run's log lines can be filtered by stage.
// Components default to NewNop when the caller injects nothing; the core
// never writes to a shared output stream on its own.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, "voxalign").WithComponent("align")
//	log.Info("master aligned", logger.Fields(logger.FieldChannel, "MIX.WAV", "lines", 212))
package logger
