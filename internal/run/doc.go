// Package run orchestrates passes of a main task over every row of a
// dataset, wiring hook dispatch into the call context and keeping a
// persisted ledger of run progress. The ledger records progress, not
// outcome classification: a run that fails or is cancelled stays visibly
// "started" forever rather than being retroactively marked failed.
package run
