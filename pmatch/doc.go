/*
Package pmatch implements a pattern matching language for grading short
free-text answers.

# Overview

An answer expression such as

	match_mow(tom|dick harry)

is parsed once into an expression tree. Each student response is split into
words, and the tree is tested against those words. The result is a plain
match or no match; evaluation never fails.

# Expressions

Every expression is a function call:

  - match(...) and match_<options>(...) hold terms to find in the response.
  - not(expr) inverts another expression.
  - match_all(expr expr ...) and match_any(expr expr ...) combine whole
    expressions, each tested against the entire response.

# Terms

Inside match(...) the terms are:

  - words, where '?' matches any one character and '*' any run of
    characters; a backslash makes the next character literal
  - numbers such as 12, +1.98 or "- 50", compared numerically after rounding
    the response to the precision written in the pattern
  - [ ... ] groups, which act as one term
  - alternatives joined by '|', which bind tighter than delimiters
  - not(...), match_all(...) and match_any(...), which check the whole
    response without consuming any of its words

Terms are separated by a space, or by '_' to require that the next term
follows within a couple of words in the same sentence. The '_' delimiter
always enforces order, even under the 'o' option.

# Options

The letters after "match_" may be combined:

  - c: extra characters may appear anywhere within a word
  - w: extra words may appear anywhere in the response
  - o: the terms may appear in any order
  - m: one misspelling per word; m2, m3 ... allow more, and f, r, t, x
    limit the kind to fewer, replaced, transposed or extra characters

A word shorter than eight characters is never allowed more than one
misspelling (see WithShortWordLength). Without 'w' every response word
must be used by some term.

# Usage

	opts := pmatch.NewOptions()
	expr := pmatch.ParseExpression("match_mow(tom|dick harry)", opts)
	if !expr.IsValid() {
		kind, param := expr.ParseError()
		// look up a message for kind and param
	}
	ok := expr.Matches(pmatch.ParseString("rick and harry", opts))

# Search

Matching is a depth-first search over the ways each term can use the
response words, so a term that matched the wrong word is retried elsewhere.
Alternatives are tried leftmost first. Pathological expressions can make
the search exponential; Options.MaxSearchSteps bounds it, and Evaluate
reports Undetermined when the bound is hit.
*/
package pmatch
