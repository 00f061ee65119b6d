// Package app wires the fxdesk HTTP server: configuration, logging,
// OpenTelemetry, the SQLite reference store, the pricing services and the
// chi router.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, optional YAML file, FXDESK_* environment)
//	2. Initialize the slog logger and OpenTelemetry providers
//	3. Open the store and load the holiday tables
//	4. Build the calendar, pricing, rate, swap point and health services
//	5. Mount the handlers under /api and Prometheus under /metrics
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return app.Run()
//
// Run blocks until SIGINT or SIGTERM and then shuts the server down within
// the configured shutdown timeout, closing the store and flushing telemetry.
// Initialization errors are returned; the package never calls os.Exit.
package app
