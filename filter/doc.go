// Package filter narrows and orders movie result lists.
//
// Refinements are expressed in the expr language, e.g.
//
//	Year == 1999 and VoteAverage >= 7.5
//	hasGenre(18) and VoteCount > 1000
//
// Compiled programs are cached so repeated criteria are compiled once.
package filter
