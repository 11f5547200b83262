// Package textchunk splits long text into bounded segments for providers
// with a per-request character ceiling, such as speech synthesis and
// length-bounded rewriting.
//
// Lengths are counted in runes, so Vietnamese diacritics and CJK text are
// measured the same way a user would count characters.
package textchunk
