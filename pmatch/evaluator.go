package pmatch

// Outcome is the result of evaluating an expression against a response.
type Outcome int

const (
	NoMatch Outcome = iota
	Match
	// Undetermined means the search step budget ran out first.
	Undetermined
)

func (o Outcome) String() string {
	switch o {
	case NoMatch:
		return "no match"
	case Match:
		return "match"
	case Undetermined:
		return "undetermined"
	default:
		return "unknown"
	}
}

// span is the range of word positions consumed by a node. Nodes that
// consume nothing, such as not(...), report noSpan.
type span struct {
	first, last int
}

var noSpan = span{first: -1, last: -1}

func (s span) empty() bool { return s.first < 0 }

func (s span) merge(o span) span {
	if s.empty() {
		return o
	}
	if o.empty() {
		return s
	}
	return span{first: min(s.first, o.first), last: max(s.last, o.last)}
}

// constraint limits where the next consumed word may be.
type constraint struct {
	after        int  // words must come after this position; -1 allows any
	adjacent     bool // the first word must be at after+1
	within       int  // at most this many words between after and the first word; -1 is unlimited
	sameSentence bool // the first word must be in the sentence of after
}

var unconstrained = constraint{after: -1, within: -1}

// allows reports whether the first word of a node may sit at pos.
func (c constraint) allows(pos int, words []Word) bool {
	if pos <= c.after {
		return false
	}
	if c.after < 0 {
		return !c.adjacent || pos == 0
	}
	if c.adjacent && pos != c.after+1 {
		return false
	}
	if c.within >= 0 && pos-c.after-1 > c.within {
		return false
	}
	if c.sameSentence && words[pos].Sentence != words[c.after].Sentence {
		return false
	}
	return true
}

// bound returns the last position the first word of a node may take.
func (c constraint) bound(n int) int {
	hi := n - 1
	if c.adjacent {
		hi = min(hi, c.after+1)
	}
	if c.within >= 0 && c.after >= 0 {
		hi = min(hi, c.after+1+c.within)
	}
	return hi
}

// cont is called with the span a node consumed. Returning false asks the
// node to try its next way of matching.
type cont func(span) bool

// evaluator runs one evaluation. The search is depth first: every node
// offers each way it can match to a continuation, and the words it
// consumed are released again when the continuation rejects them.
type evaluator struct {
	opts  *Options
	words []Word
	used  []bool

	steps     int
	limit     int
	exhausted bool

	wordMemo map[*WordNode][]int8
}

func newEvaluator(ps *ParsedString, opts *Options) *evaluator {
	return &evaluator{
		opts:     opts,
		words:    ps.words,
		limit:    opts.MaxSearchSteps,
		wordMemo: make(map[*WordNode][]int8),
	}
}

// step counts one unit of search and reports whether the budget allows it.
func (ev *evaluator) step() bool {
	if ev.exhausted {
		return false
	}
	ev.steps++
	if ev.limit > 0 && ev.steps > ev.limit {
		ev.exhausted = true
		return false
	}
	return true
}

// expression evaluates an expression node against the whole response.
func (ev *evaluator) expression(n Node) bool {
	if !ev.step() {
		return false
	}

	switch v := n.(type) {
	case *MatchNode:
		saved := ev.used
		ev.used = make([]bool, len(ev.words))
		defer func() { ev.used = saved }()

		mo := &v.Options
		root := unconstrained
		root.adjacent = !mo.AllowExtraWords && v.Contents.Ordered
		return ev.match(v.Contents, mo, root, func(span) bool {
			return mo.AllowExtraWords || ev.allUsed()
		})

	case *NotNode:
		return !ev.expression(v.Child)

	case *MatchAllNode:
		for _, c := range v.Children {
			if !ev.expression(c) {
				return false
			}
		}
		return true

	case *MatchAnyNode:
		for _, c := range v.Children {
			if ev.expression(c) {
				return true
			}
		}
		return false
	}
	return false
}

// match offers every way n can match under c to k.
func (ev *evaluator) match(n Node, mo *MatchOptions, c constraint, k cont) bool {
	if !ev.step() {
		return false
	}

	switch v := n.(type) {
	case *WordNode:
		return ev.matchWord(v, c, k)

	case *NumberNode:
		return ev.matchNumber(v, c, k)

	case *SequenceNode:
		if v.Ordered {
			return ev.matchOrdered(v, mo, c, k)
		}
		return ev.matchUnordered(v, mo, c, k)

	case *OrNode:
		// leftmost alternative first; later ones are tried on backtrack
		for _, alt := range v.Children {
			if ev.match(alt, mo, c, k) {
				return true
			}
			if ev.exhausted {
				return false
			}
		}
		return false

	case *GroupNode:
		return ev.match(v.Child, mo, c, k)

	case *NotNode, *MatchAllNode, *MatchAnyNode, *MatchNode:
		// whole-response constraints never consume words
		if !ev.expression(v) {
			return false
		}
		return k(noSpan)
	}
	return false
}

func (ev *evaluator) matchWord(n *WordNode, c constraint, k cont) bool {
	for pos := c.after + 1; pos <= c.bound(len(ev.words)); pos++ {
		if ev.used[pos] || !c.allows(pos, ev.words) || !ev.wordMatches(n, pos) {
			continue
		}
		ev.used[pos] = true
		ok := k(span{first: pos, last: pos})
		ev.used[pos] = false
		if ok {
			return true
		}
		if ev.exhausted {
			return false
		}
	}
	return false
}

// wordMatches memoizes the word matcher per node and position; the search
// asks the same question many times while backtracking.
func (ev *evaluator) wordMatches(n *WordNode, pos int) bool {
	memo, ok := ev.wordMemo[n]
	if !ok {
		memo = make([]int8, len(ev.words))
		ev.wordMemo[n] = memo
	}
	switch memo[pos] {
	case 1:
		return true
	case -1:
		return false
	}
	matched := n.Pattern.Match(ev.words[pos].Normalized, n.Options)
	if matched {
		memo[pos] = 1
	} else {
		memo[pos] = -1
	}
	return matched
}

// matchNumber tries a number in one word, or a lone sign followed by its
// digits in the next word.
func (ev *evaluator) matchNumber(n *NumberNode, c constraint, k cont) bool {
	for pos := c.after + 1; pos <= c.bound(len(ev.words)); pos++ {
		if ev.used[pos] || !c.allows(pos, ev.words) {
			continue
		}
		text := ev.words[pos].Normalized

		if n.matchesNumber(text) {
			ev.used[pos] = true
			ok := k(span{first: pos, last: pos})
			ev.used[pos] = false
			if ok {
				return true
			}
		}

		next := pos + 1
		if isSign(text) && next < len(ev.words) && !ev.used[next] &&
			ev.words[next].Sentence == ev.words[pos].Sentence &&
			n.matchesNumber(text+" "+ev.words[next].Normalized) {
			ev.used[pos], ev.used[next] = true, true
			ok := k(span{first: pos, last: next})
			ev.used[pos], ev.used[next] = false, false
			if ok {
				return true
			}
		}

		if ev.exhausted {
			return false
		}
	}
	return false
}

// matchOrdered places the children one after another. The first child obeys
// c; each later child must start after the last word of its predecessor.
func (ev *evaluator) matchOrdered(n *SequenceNode, mo *MatchOptions, c constraint, k cont) bool {
	var place func(i int, c constraint, acc span) bool
	place = func(i int, c constraint, acc span) bool {
		if i == len(n.Children) {
			return k(acc)
		}
		return ev.match(n.Children[i], mo, c, func(s span) bool {
			next := c
			if !s.empty() {
				next = constraint{
					after:        s.last,
					adjacent:     !mo.AllowExtraWords,
					within:       -1,
					sameSentence: n.Proximity,
				}
				if n.Proximity {
					next.within = ev.opts.ProximityGap
				}
			}
			return place(i+1, next, acc.merge(s))
		})
	}
	return place(0, c, noSpan)
}

// matchUnordered lets every child use any free words. The combined span
// must still satisfy c.
func (ev *evaluator) matchUnordered(n *SequenceNode, mo *MatchOptions, c constraint, k cont) bool {
	free := constraint{after: c.after, within: -1}

	var place func(i int, acc span) bool
	place = func(i int, acc span) bool {
		if i == len(n.Children) {
			if !acc.empty() && !c.allows(acc.first, ev.words) {
				return false
			}
			return k(acc)
		}
		return ev.match(n.Children[i], mo, free, func(s span) bool {
			return place(i+1, acc.merge(s))
		})
	}
	return place(0, noSpan)
}

func (ev *evaluator) allUsed() bool {
	for _, u := range ev.used {
		if !u {
			return false
		}
	}
	return true
}
