// Package logger wraps zap with a global sugared console logger and
// context helpers (ToContext/FromContext/WithName/WithKV).
//
// Every service accepts a context and logs through the logger stored in it,
// so names and key-value pairs attached upstream follow the call chain.
package logger
