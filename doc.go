// Package stocktracker maintains a stock portfolio ledger and keeps it
// consistent with corporate actions.
//
// It fetches dividend and split events from a market-data provider,
// decides once per calendar day whether an event with today's ex-date
// applies to a tracked security, appends the corresponding ledger row,
// and, for splits, rewrites every prior row of that security so that
// historical units and prices stay consistent with the post-split share
// count.
package stocktracker
