package validator

import "fmt"

// Translator looks up localized message templates by key. *messages.Catalog
// implements it.
type Translator interface {
	Message(lang, key string, params map[string]string) (string, bool)
}

// Localize returns a copy of the failures with default messages replaced by
// their translation in lang. Custom messages declared on rules and keys
// missing from the translator are kept as they are.
func (ve ValidationErrors) Localize(tr Translator, lang string) ValidationErrors {
	if tr == nil || len(ve) == 0 {
		return ve
	}

	out := make(ValidationErrors, len(ve))
	for i, err := range ve {
		out[i] = err
		if err.custom || err.TranslationKey == "" {
			continue
		}
		params := make(map[string]string, len(err.TranslationValues))
		for k, v := range err.TranslationValues {
			params[k] = fmt.Sprint(v)
		}
		if msg, ok := tr.Message(lang, err.TranslationKey, params); ok {
			out[i].Message = msg
		}
	}
	return out
}
