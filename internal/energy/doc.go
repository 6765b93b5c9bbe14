// Package energy backs the dashboard's usage chart with daily kWh
// totals aggregated from stored samples.
package energy
