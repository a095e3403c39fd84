// Package incremental implements the incremental re-processing pipeline for
// context packs: detecting new or changed conversations between two exports,
// merging a freshly extracted pack into a previously persisted one with
// explicit conflict-resolution rules, deriving delta packs that carry only
// new information, and maintaining the ordered version ledger.
package incremental
