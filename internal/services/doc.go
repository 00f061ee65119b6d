// Package services implements the business logic layer of the FX desk.
// It sits between the HTTP handlers and the store, so pricing rules live in
// one place and can be tested without a server.
//
// # Available Services
//
//	- CalendarService: spot and tenor dates, days conversion, holiday reloads
//	- PricingService: forward calculation and store-backed forward quotes
//	- RateService: customer rates, MAR rates, base rates and spread settings
//	- SwapPointService: xlsx swap point uploads and listing
//	- HealthService: health, readiness and liveness checks
//
// # Service Pattern
//
// Services depend on small repository interfaces (see stores.go) that the
// SQLite store satisfies:
//
//	pairs, _ := st.GetCurrencyPair(ctx, "USD/KRW")
//	svc := NewRateService(st, st, st, metrics, cfg.Market, cfg.Quote, logger)
//	rq, err := svc.CustomerRate(ctx, quote.ProductSpot, pairs.ID, groups, "")
//
// # Error Handling
//
// Services return *errors.AppError values whose type drives the HTTP status
// chosen by the error handler:
//
//	- Validation and InvalidAmount errors for bad input
//	- NotFound and MissingBaseRate errors for absent data
//	- InvalidSettlement, UnpriceableDate and InsufficientCurveData errors
//	  for forwards that cannot be priced
//	- Storage errors for database failures
//
// # Concurrency
//
// RateService.CustomerRates quotes pairs concurrently with a bounded
// errgroup. PricingService.Curve collapses concurrent curve builds for the
// same pair and day with singleflight.
package services
