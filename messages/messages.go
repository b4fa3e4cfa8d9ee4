// Package messages turns parse errors and grading notices into text for
// people. The pattern matcher itself only reports a kind and a parameter;
// the strings live here, one catalog entry per kind and language.
package messages

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/gnolang/pmatch/pmatch"
)

// Keys for notices that are not parse errors.
const (
	AnswerMustBeGiven = "answer_must_be_given"
	NotEnoughAnswers  = "not_enough_answers"
	FractionsNoMax    = "fractions_no_max"
	ResponseTooLong   = "response_too_long"
	Undetermined      = "undetermined"
	NoMatchingAnswer  = "no_matching_answer"
	UnknownQuestion   = "unknown_question"
	DidYouMean        = "did_you_mean"
)

var english = map[string]string{
	string(pmatch.ErrMissingClosingBracket):     "Missing closing bracket in '%s'.",
	string(pmatch.ErrUnrecognisedSubContents):   "Unrecognised sub-contents in '%s'.",
	string(pmatch.ErrLastSubContentOrCharacter): "The last item in '%s' must not be an or character '|'.",
	string(pmatch.ErrLastSubContentWordDelim):   "The last item in '%s' must not be a word delimiter, a space or '_'.",
	string(pmatch.ErrUnrecognisedExpression):    "Unrecognised expression '%s'. An expression must start with match, not, match_all or match_any.",
	string(pmatch.ErrIllegalOptions):            "Illegal options '%s'. Use c, w, o and m with optional digits and f, r, t or x.",

	AnswerMustBeGiven: "Answer %s has a grade or feedback but no expression.",
	NotEnoughAnswers:  "Question '%s' needs at least one answer.",
	FractionsNoMax:    "Question '%s' has no answer worth full marks.",
	ResponseTooLong:   "The response has %d words, more than this question grades.",
	Undetermined:      "Answer %d was too costly to evaluate and was skipped.",
	NoMatchingAnswer:  "No answer matched.",
	UnknownQuestion:   "Unknown question '%s'.",
	DidYouMean:        "Did you mean '%s'?",
}

var french = map[string]string{
	string(pmatch.ErrMissingClosingBracket):     "Parenthèse fermante manquante dans '%s'.",
	string(pmatch.ErrUnrecognisedSubContents):   "Contenu non reconnu dans '%s'.",
	string(pmatch.ErrLastSubContentOrCharacter): "Le dernier élément de '%s' ne doit pas être le caractère '|'.",
	string(pmatch.ErrLastSubContentWordDelim):   "Le dernier élément de '%s' ne doit pas être un séparateur de mots, une espace ou '_'.",
	string(pmatch.ErrUnrecognisedExpression):    "Expression non reconnue '%s'. Une expression commence par match, not, match_all ou match_any.",
	string(pmatch.ErrIllegalOptions):            "Options invalides '%s'. Utilisez c, w, o et m, suivi éventuellement de chiffres et de f, r, t ou x.",

	AnswerMustBeGiven: "La réponse %s a une note ou un commentaire mais pas d'expression.",
	NotEnoughAnswers:  "La question '%s' doit avoir au moins une réponse.",
	FractionsNoMax:    "La question '%s' n'a aucune réponse qui vaut la note maximale.",
	ResponseTooLong:   "La réponse contient %d mots, plus que cette question n'en évalue.",
	Undetermined:      "La réponse %d était trop coûteuse à évaluer et a été ignorée.",
	NoMatchingAnswer:  "Aucune réponse ne correspond.",
	UnknownQuestion:   "Question inconnue '%s'.",
	DidYouMean:        "Vouliez-vous dire '%s' ?",
}

var (
	supported = []language.Tag{language.English, language.French}
	matcher   = language.NewMatcher(supported)
	builder   = newBuilder()
)

func newBuilder() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range map[language.Tag]map[string]string{
		language.English: english,
		language.French:  french,
	} {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("messages: %s/%s: %v", tag, key, err))
			}
		}
	}
	return b
}

// Catalog renders messages in one language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCatalog returns the catalog closest to lang, a BCP 47 tag such as
// "fr" or "en-GB". Unknown or malformed tags get English.
func NewCatalog(lang string) *Catalog {
	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

// Language returns the tag the catalog renders in.
func (c *Catalog) Language() language.Tag { return c.tag }

// Lookup renders the message for a parse error kind.
func (c *Catalog) Lookup(kind pmatch.ErrorKind, param string) string {
	return c.Sprintf(string(kind), param)
}

// Sprintf renders the message stored under key.
func (c *Catalog) Sprintf(key string, args ...any) string {
	return c.printer.Sprintf(key, args...)
}

// Error renders err when it is a parse error and falls back to err.Error().
func (c *Catalog) Error(err error) string {
	var pe *pmatch.ParseError
	if errors.As(err, &pe) {
		return c.Lookup(pe.Kind, pe.Param)
	}
	return err.Error()
}

var defaultCatalog = NewCatalog("en")

// Lookup renders kind in English.
func Lookup(kind pmatch.ErrorKind, param string) string {
	return defaultCatalog.Lookup(kind, param)
}
