// Package nace holds the NACE-BEL classification model and the pure
// functions that turn the upstream delimited-text export into lookup
// structures.
//
// Nothing in this package performs I/O beyond reading an io.Reader handed
// to it; fetching, caching and serving live in the dataset, query and web
// packages.
//
// # Records
//
// A [Record] is one classification code (levels 2 through 5) with titles in
// the four Belgian working languages plus derived search fields. Records are
// built once per load by [Parse] and never mutated afterwards.
//
// # Code layout
//
// Codes use a dotted layout with the dot always at offset 2:
//
//	level 2   LL        01
//	level 3   LL.D      01.1
//	level 4   LL.DD     01.11
//	level 5   LL.DDD    01.111
//
// The table in layout.go is the single place that knows these lengths. Parent
// codes, identifier inversion and record validation all go through it.
//
// # Index
//
// [BuildIndex] produces three maps: by dotted code, by identifier without
// dots, and parent code to ordered child codes.
//
// # Errors
//
// Load failures surface as [*SchemaError] or [*UpstreamFetchError]; caller
// mistakes as [*ValidationError]; unknown identifiers as [ErrNotFound].
// [MapError] turns any of them into a [UserMessage] with a support code:
//
//	VAL001-VAL003  invalid page / limit / level parameters
//	NF001          unknown code identifier
//	SRC001         dataset is missing required columns
//	SRC002         dataset could not be fetched
//	SRC003         dataset load timed out
//	ERR000         anything else
package nace
