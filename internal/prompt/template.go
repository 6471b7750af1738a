package prompt

import (
	"fmt"
	"strings"

	"github.com/legistyr/termbench/internal/dataset"
	"github.com/legistyr/termbench/internal/openrouter"
)

// Template identifies one of the built-in prompt templates. Each dataset is
// paired with the template of the same name, which also determines which
// dataset column holds the candidate translations.
type Template string

const (
	// Homonyms constrains a term that has several admissible translations.
	Homonyms Template = "homonyms"
	// SimpleTerms constrains a term with exactly one admissible translation.
	SimpleTerms Template = "simple_terms"
	// Abbreviations constrains the expansion of an abbreviated term.
	Abbreviations Template = "abbreviations"
	// Gender constrains the gender-marked form of a person-denoting term.
	Gender Template = "gender"
)

const (
	preamble = "You are a German translator based in South-Tyrol and this is a translation task. " +
		"You are tasked to translate a legal sentence from Italian into South-Tyrolean German. " +
		"South-Tyrolean German is a standard variety of German. "
	closing = "You must output only the translated text without any explanation, " +
		"enclosing it in '<>' symbols. This is the text to be translated into German:"
)

var constraints = map[Template]string{
	Homonyms:      "There are terminological constraints you must adhere to: %s can be translated with only one of these terms: %s. ",
	SimpleTerms:   "There are terminological constraints you must adhere to: %s must be translated with %s. ",
	Abbreviations: "There are terminological constraints you must adhere to: The abbreviation %s must be translated with %s. ",
	Gender:        "There are terminological constraints you must adhere to: %s must be translated with one of these gender-marked forms: %s. ",
}

// Lookup resolves a template by name. Unknown names fail before any work is
// scheduled, so a typo never burns API budget.
func Lookup(name string) (Template, error) {
	t := Template(name)
	if _, ok := constraints[t]; !ok {
		return "", fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return t, nil
}

// Names returns the available template names in stable order.
func Names() []string {
	return []string{string(Homonyms), string(SimpleTerms), string(Abbreviations), string(Gender)}
}

// OptionsColumn returns the dataset column that feeds the candidate
// translations for this template.
func (t Template) OptionsColumn() string {
	switch t {
	case Homonyms, Gender:
		return dataset.ColumnOptions
	default:
		return dataset.ColumnTarget
	}
}

// Build renders the two-message prompt for one row. It is pure: the same row
// always yields the same messages, which keeps dispatch order irrelevant.
func (t Template) Build(row dataset.Row) []openrouter.Message {
	system := preamble + fmt.Sprintf(constraints[t], row.Term, row.Options) + closing
	user := fmt.Sprintf("<%s>. German: ", row.Example)
	return []openrouter.Message{
		{Role: openrouter.RoleSystem, Content: system},
		{Role: openrouter.RoleUser, Content: user},
	}
}
