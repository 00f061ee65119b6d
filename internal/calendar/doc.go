// Package calendar implements settlement date arithmetic over the KR and US
// holiday tables used by the FX desk.
//
// Business days are counted on the KR calendar (weekends and KR holidays are
// skipped). A date produced by AddBusinessDays that lands on a US holiday is
// rolled forward by further business days until it does not. Spot is T+2.
//
// All dates are civil.Date values, so day differences never depend on a
// timezone or daylight saving transition. Holiday tables are immutable;
// Calendar.Replace swaps in a whole new table atomically.
package calendar
