// Package profile builds a qualitative profile for each text unit.
//
// Four stages run per unit, in order:
//
//  1. sentiment: a single label with confidence in [0, 1]
//  2. theme: a summary bounded to 5-10 words, or 10-30 words for texts
//     longer than LongTextWords
//  3. topic: confidence for each candidate topic, sorted descending
//  4. lexical: word, sentence and line counts with the derived complexity
//     and readability ratios
//
// The first three stages call injected models and may fail; each failure is
// reported as a *core.StageError. The lexical stage is pure and always
// present unless the FailUnit policy discards the whole unit.
//
// Batches are profiled with ProfileMany, which isolates failures per unit
// and can spread units over an ants worker pool.
package profile
