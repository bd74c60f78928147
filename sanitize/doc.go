// Package sanitize provides pure string transforms that neutralize characters
// dangerous in one specific target context.
//
// Every function is total: it accepts any string and never fails. Output is
// only safe for the context the function names. A string passed through
// [HTML] is not a safe filename, and a string passed through [Filename] is not
// safe to embed in markup.
//
// # Known limitation
//
// [HTML] escapes the five characters < > " ' / but not &. Re-applying it is
// therefore stable, but entity sequences supplied by an attacker survive
// untouched. Use [HTMLStrict] at render boundaries that must not pass through
// existing entities.
package sanitize
