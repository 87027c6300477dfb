// Package expiry implements the date handling used everywhere a product's
// shelf dates appear: masking of user input into the fixed DD-MM-YY form,
// strict parsing and validation of that form, and derivation of a display
// status (ok / expiring soon / expired) from the sell-by date.
//
// # Date Form
//
// Dates travel as masked strings, never as structured values: "01-01-26"
// means 1 January 2026 (years are 2000-based). MaskDate shapes arbitrary
// input into the form; ParseDate converts a masked string into a calendar
// date at UTC midnight, rejecting anything that does not round-trip (so
// "31-02-26" fails even though it matches the pattern); ValidateDate wraps
// ParseDate for form-level checks, treating the empty string as "no date
// entered" rather than an error.
//
// # Status Derivation
//
// ProductStatus compares the sell-by date with the current date using whole
// calendar days at UTC midnight, ignoring time of day on both sides. A
// product expiring within two days is flagged as expiring soon; a past date
// means expired; an absent or unparseable date is simply ok.
//
// All functions are pure and safe for concurrent use.
package expiry
