package pmatch

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchCase struct {
	want       bool
	response   string
	expression string
}

func runMatches(t *testing.T, opts *Options, cases []matchCase) {
	t.Helper()
	for _, tt := range cases {
		expr := ParseExpression(tt.expression, opts)
		require.True(t, expr.IsValid(), "expression %q: %v", tt.expression, expr.Err())
		got := expr.Matches(ParseString(tt.response, opts))
		assert.Equal(t, tt.want, got, "%q against %q", tt.response, tt.expression)
	}
}

func TestMatches_Documentation(t *testing.T) {
	t.Parallel()
	runMatches(t, nil, []matchCase{
		{true, "tom dick harry", "match(tom dick harry)"},
		{true, "thomas", "match_c(tom)"},
		{true, "tom dick and harry", "match_w(dick)"},
		{true, "harry dick tom", "match_o(tom dick harry)"},
		{true, "rick", "match_m(dick)"},
		{true, "rick and harry and tom", "match_mow(tom dick harry)"},
		{true, "dick and harry and thomas", "match_cow(tom dick harry)"},
		{true, "arthur harry and sid", "match_mow(tom|dick|harry)"},
		{true, "tomy harry and sid", "match_mow(tom|dick harry|sid)"},
		{true, "tom was mesmerised by maud", "match_mow([tom maud]|[sid jane])"},
		{true, "rick", "match(?ick)"},
		{true, "harold", "match(har*)"},
		{true, "tom married maud sid married jane", "match_mow(tom_maud)"},
		{false, "maud married tom sid married jane", "match_mow(tom_maud)"},
		{false, "tom married maud sid married jane", "match_mow(tom_jane)"},
	})
}

func TestMatches_OrderAndExtraWords(t *testing.T) {
	t.Parallel()
	runMatches(t, nil, []matchCase{
		{true, "married", "match_mow(marr*)"},
		{true, "tom married maud", "match_mow(tom|thomas marr* maud)"},
		{true, "maud marries thomas", "match_mow(tom|thomas marr* maud)"},
		{true, "tom is to marry maud", "match_w(tom|thomas marr* maud)"},
		{false, "tom is to marry maud", "match_o(tom|thomas marr* maud)"},
		{true, "tom is to maud marry", "match_ow(tom|thomas marr* maud)"},
		{false, "tom is to maud marry", "match_w(tom|thomas marr* maud)"},
		{true, "tempratur", "match_m2ow(temperature)"},
		{false, "tempratur", "match_mow(temperature)"},
		{true, "temporatur", "match_m2ow(temperature)"},
		{false, "temporatur", "match_mow(temperature)"},
		{false, "tmporatur", "match_m2ow(temperature)"},
		{false, "A A", "match(A)"},
	})
}

func TestMatches_GroupsAndProximity(t *testing.T) {
	t.Parallel()
	runMatches(t, nil, []matchCase{
		{true, "cat toad frog", "match(cat [toad|newt frog]|dog)"},
		{true, "cat newt frog", "match(cat [toad|newt frog]|dog)"},
		{true, "cat dog", "match(cat [toad|newt frog]|dog)"},
		{true, "dog", "match([toad frog]|dog)"},
		{true, "cat toad frog", "match(cat_[toad|newt frog]|dog)"},
		{true, "cat newt frog", "match(cat_[toad|newt frog]|dog)"},
		{true, "cat dog", "match(cat_[toad|newt frog]|dog)"},
		{true, "x cat x x toad frog x", "match_w(cat_[toad|newt frog]|dog)"},
		{true, "x cat newt x x x x x frog x", "match_w(cat_[toad|newt frog]|dog)"},
		{true, "x cat x x dog x", "match_w(cat_[toad|newt frog]|dog)"},
		{false, "x cat x x x dog x", "match_w(cat_[toad|newt frog]|dog)"},
		{false, "A C B D", "match([A B]_[C D])"},
		{false, "B C A D", "match_o([A B]_[C D])"},
		{true, "A x x x x B C D", "match_ow([A B]_[C D])"},
		{false, "B x x x x A C D", "match_ow([A B]_[C D])"},
		{false, "A B C", "match_ow([A B]_[B C])"},
	})
}

func TestMatches_Misspellings(t *testing.T) {
	t.Parallel()
	runMatches(t, nil, []matchCase{
		{true, "test", "match(test)"},
		{false, "tes", "match(test)"},
		{false, "testt", "match(test)"},
		{false, "tent", "match(test)"},
		{false, "tets", "match(test)"},

		{true, "test", "match_mf(test)"},
		{true, "tes", "match_mf(test)"},
		{false, "testt", "match_mf(test)"},
		{false, "tent", "match_mf(test)"},
		{false, "tets", "match_mf(test)"},
		{true, "te", "match_mf(tes)"},

		{true, "abc", "match_mf(abcd)"},
		{false, "acbd", "match_mf(abcd)"},
		{true, "abfd", "match_mr(abcd)"},
		{false, "abc", "match_mr(abcd)"},
		{true, "bacd", "match_mt(abcd)"},
		{false, "fbcd", "match_mt(abcd)"},
		{true, "gabcd", "match_mx(abcd)"},
		{false, "bcd", "match_mx(abcd)"},
		{true, "abdc", "match_m(abcd)"},
		{false, "badc", "match_m(abcd)"},
	})
}

func TestMatches_TwoMisspellingsOfShortWord(t *testing.T) {
	t.Parallel()

	responses := []string{
		"abcd", "abc", "acbd", "bacd", "abdc", "abfd", "abcf", "fbcd", "bcd",
		"abcdg", "gabcd", "bacde", "badc", "affd", "fbcf", "ffcd", "bfcd",
		"abccdg", "gabbcd", "abbcdg",
	}

	uncapped := NewOptions(WithShortWordLength(0))
	for _, r := range responses {
		ok, err := MatchString("match_m2(abcd)", r, uncapped)
		require.NoError(t, err)
		assert.True(t, ok, r)
	}

	// with the default cap a four letter word keeps a single misspelling
	ok, err := MatchString("match_m2(abcd)", "badc", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = MatchString("match_m2(abcd)", "abfd", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatches_Combinators(t *testing.T) {
	t.Parallel()
	runMatches(t, nil, []matchCase{
		{true, "tom loves maud", "match_all(match_w(tom) match_w(maud))"},
		{false, "tom loves jane", "match_all(match_w(tom) match_w(maud))"},
		{true, "maud", "match_any(match(tom) match(maud))"},
		{false, "jane", "match_any(match(tom) match(maud))"},
		{true, "maud", "not(match_w(tom))"},
		{false, "tom", "not(match_w(tom))"},
		{true, "tom and maud", "match_w(tom not(match_w(jane)))"},
		{false, "tom and jane", "match_w(tom not(match_w(jane)))"},
		{true, "tom and jane", "match_any(match_w(jane) match(tom))"},
		{true, "efgh", "match_all(not(match_c(a)) not(match_c(b)) not(match_c(c)))"},
		{false, "abc", "match_all(not(match_c(a)) not(match_c(b)) not(match_c(c)))"},
		{true, "lock", "match_any(not(match_c(a)) not(match_c(b)) not(match_c(c)))"},
		{true, "dog", "match_any(not(match_c(a)) not(match_c(b)) not(match_c(c)))"},
		{false, "abc", "match_any(not(match_c(a)) not(match_c(b)) not(match_c(c)))"},
	})
}

func TestMatches_Numbers(t *testing.T) {
	t.Parallel()
	runMatches(t, nil, []matchCase{
		{true, "1.98", "match(1.98)"},
		{true, "1.984", "match(1.98)"},
		{false, "1.99", "match(1.98)"},
		{true, "1.98.", "match(1.98)"},
		{true, "1.46", "match(1.5)"},
		{true, "12", "match(12)"},
		{true, "+12", "match(12)"},
		{false, "12.0", "match(12)"},
		{false, "twelve", "match(12)"},
		{true, "-50", "match(- 50)"},
		{true, "- 50", "match(- 50)"},
		{false, "50", "match(- 50)"},
		{true, "it is -50 degrees", "match_w(-50)"},
		{true, "about 3.14 metres", "match_w(3.14 metres)"},
		{true, "+1.98499999", "match(+1.98)"},
		{false, "- 50.333", "match(- 50)"},
	})
}

func TestMatches_MisspelledWordsAssignedAcrossLiterals(t *testing.T) {
	t.Parallel()
	runMatches(t, nil, []matchCase{
		{true, "abccffff bacdffff", "match_m2o(abcdffff baccffff)"},
		{true, "bacdffff abccffff", "match_m2o(abcdffff baccffff)"},
		{false, "abccffff", "match_m2o(abcdffff baccffff)"},
	})
}

func TestEvaluate_Deterministic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expression string
		response   string
		want       Outcome
	}{
		{"match_m2o(abcdffff baccffff)", "abccffff bacdffff", Match},
		{"match_mow(tom|dick harry)", "harry tom", Match},
		{"match(tom harry)", "tom", NoMatch},
	}
	for _, tt := range tests {
		expr := ParseExpression(tt.expression, nil)
		require.True(t, expr.IsValid())
		ps := ParseString(tt.response, nil)

		first := expr.Evaluate(ps)
		second := expr.Evaluate(ps)
		assert.Equal(t, tt.want, first, "%q against %q", tt.response, tt.expression)
		assert.Equal(t, first, second, "%q against %q", tt.response, tt.expression)
	}
}

func TestMatches_Case(t *testing.T) {
	t.Parallel()

	ok, err := MatchString("match(abcd)", "ABCD", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MatchString("match(abcd)", "ABCD", NewOptions(WithIgnoreCase(false)))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = MatchString("match(École)", "ECOLE", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = MatchString("match(école)", "ÉCOLE", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatches_Sentences(t *testing.T) {
	t.Parallel()
	runMatches(t, nil, []matchCase{
		{true, "tom and maud", "match_w(tom_maud)"},
		{false, "tom left. maud stayed", "match_w(tom_maud)"},
		{true, "tom left. maud stayed", "match_w(tom maud)"},
		{true, "tom, dick; harry", "match(tom dick harry)"},
	})
}

func TestMatches_ProximityGap(t *testing.T) {
	t.Parallel()

	runMatches(t, NewOptions(WithProximityGap(0)), []matchCase{
		{true, "tom maud", "match_w(tom_maud)"},
		{false, "tom x maud", "match_w(tom_maud)"},
	})
	runMatches(t, NewOptions(WithProximityGap(4)), []matchCase{
		{true, "tom a b c d maud", "match_w(tom_maud)"},
		{false, "tom a b c d e maud", "match_w(tom_maud)"},
	})
}

func TestMatches_Synonyms(t *testing.T) {
	t.Parallel()
	opts := NewOptions(WithSynonyms(map[string][]string{
		"car": {"automobile", "motor car"},
	}))
	runMatches(t, opts, []matchCase{
		{true, "a red car", "match_w(red car)"},
		{true, "a red automobile", "match_w(red car)"},
		{true, "a red motor car", "match_w(red car)"},
		{true, "motor car", "match(car)"},
		{false, "car", "match(automobile)"},
		{false, "a red bicycle", "match_w(red car)"},
	})
}

func TestExpression_Invalid(t *testing.T) {
	t.Parallel()

	expr := ParseExpression("  match_mow([tom maud]|[sid jane]  ", nil)
	assert.False(t, expr.IsValid())
	assert.Nil(t, expr.Root())
	assert.Equal(t, "match_mow([tom maud]|[sid jane]", expr.Text())

	kind, param := expr.ParseError()
	assert.Equal(t, ErrMissingClosingBracket, kind)
	assert.Equal(t, "match_mow([tom maud]|[sid jane]", param)

	assert.False(t, expr.Matches(ParseString("tom maud", nil)))
	assert.Equal(t, NoMatch, expr.Evaluate(ParseString("tom maud", nil)))

	ok, err := MatchString("match_mow()", "tom", nil)
	assert.False(t, ok)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ErrUnrecognisedSubContents, pe.Kind)
}

func TestExpression_Valid(t *testing.T) {
	t.Parallel()

	expr := ParseExpression("match_mow(tom)", nil)
	require.True(t, expr.IsValid())
	assert.NoError(t, expr.Err())
	kind, param := expr.ParseError()
	assert.Empty(t, kind)
	assert.Empty(t, param)
	assert.Contains(t, expr.String(), "Match(match_mow)")
}

func TestEvaluate_StepBudget(t *testing.T) {
	t.Parallel()

	opts := NewOptions(WithMaxSearchSteps(3))
	expr := ParseExpression("match_ow(a b c d e f)", opts)
	require.True(t, expr.IsValid())

	ps := ParseString("f e d c b a", opts)
	assert.Equal(t, Undetermined, expr.Evaluate(ps))
	assert.False(t, expr.Matches(ps))

	// a negated search that ran out is still undetermined
	neg := ParseExpression("not(match_ow(a b c d e f))", opts)
	assert.Equal(t, Undetermined, neg.Evaluate(ps))

	unbounded := NewOptions(WithMaxSearchSteps(0))
	expr = ParseExpression("match_ow(a b c d e f)", unbounded)
	assert.Equal(t, Match, expr.Evaluate(ParseString("f e d c b a", unbounded)))
}

func TestExpression_ConcurrentUse(t *testing.T) {
	t.Parallel()

	expr := ParseExpression("match_mow(tom|dick harry|sid)", nil)
	require.True(t, expr.IsValid())

	responses := map[string]bool{
		"tomy harry and sid": true,
		"harry dick":         true,
		"jane":               false,
		"sid tom":            true,
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		for response, want := range responses {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.Equal(t, want, expr.Matches(ParseString(response, nil)), response)
			}()
		}
	}
	wg.Wait()
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "match", Match.String())
	assert.Equal(t, "no match", NoMatch.String())
	assert.Equal(t, "undetermined", Undetermined.String())
}
