// Package matcherdsl provides the value-level sentinels consumers sprinkle
// into expected request/response bodies: Like, EachLike, Term, Equals, and
// Includes. A matcher is data, not behaviour — it carries a concrete sample
// value and is recognised by the rule compiler via a type switch over the
// Matcher interface, never by reflection-based sniffing.
package matcherdsl
