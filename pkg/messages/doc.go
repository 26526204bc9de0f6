// Package messages provides a message catalog for localizing validation
// failures.
//
// A catalog maps a language code to a tree of keys. Keys are looked up with
// dot notation ("validation.required") and templates use %{name}
// placeholders, the same syntax validator messages use. Missing keys fall
// back to the fallback language (DefaultLanguage unless configured).
//
// # Usage
//
//	catalog, err := messages.Load(ctx, "messages.yaml",
//	    messages.WithLogger(log),
//	    messages.WithFallbackLanguage("en"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	errs = errs.Localize(catalog, "de")
//
// Catalog files are YAML or JSON, picked by extension:
//
//	en:
//	  validation:
//	    required: "%{field} is required"
//	    length: "%{field} must be %{0} to %{1} characters long"
//
// # Error Handling
//
// Load joins parse failures with ErrFailedToParseYAML or ErrFailedToParseJSON
// and reports structural problems as ErrInvalidCatalog.
package messages
