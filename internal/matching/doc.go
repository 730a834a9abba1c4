// Package matching implements the Pact rule engine: given an expected value,
// an actual value observed over the wire, and a compiled rule table, it
// decides whether the actual value conforms and produces a list of precise,
// path-qualified mismatches. It never short-circuits (except while searching
// for a satisfying element inside an arrayContains variant), so a single
// comparison surfaces every violation in one pass.
package matching
