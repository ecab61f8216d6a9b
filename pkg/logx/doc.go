// Package logx configures dayplan's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured
//   - The planning engine free of stdout writes (loggers are always injected)
package logx
