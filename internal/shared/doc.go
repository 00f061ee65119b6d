// Package shared holds helpers used by more than one fxdesk package that
// belong to no single domain.
//
// The testutil subpackage captures slog output so tests can assert on what a
// service logged:
//
//	logger, logs := testutil.NewCaptureLogger(t)
//	svc := services.NewSwapPointService(st, st, metrics, logger)
//	...
//	testutil.AssertLogged(t, logs, slog.LevelWarn, "swap point upload rejected")
package shared
