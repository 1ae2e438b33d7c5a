// Package report assembles the serializable result of a checkrun run.
//
// A Report mirrors the suite → test → check hierarchy and carries
// success/failure/total counts at every level. Reports hold no functions
// or other values encoding/json cannot represent, so they can be written
// to disk, stored in the run history and re-rendered later.
package report
