package messages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// DefaultLanguage is used as fallback when no other is configured.
const DefaultLanguage = "en"

// Catalog holds message templates per language and renders them with
// %{name} placeholders. It satisfies validator.Translator.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]any
	fallbackLang string
	logMissing   bool
	logger       *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithFallbackLanguage sets the language consulted when a key is missing in
// the requested one. An empty value disables the fallback.
func WithFallbackLanguage(lang string) Option {
	return func(c *Catalog) {
		c.fallbackLang = lang
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMissingLogging logs lookups that found no template at warn level.
func WithMissingLogging(enabled bool) Option {
	return func(c *Catalog) {
		c.logMissing = enabled
	}
}

// New creates a catalog from an in-memory language -> key tree.
func New(translations map[string]map[string]any, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		fallbackLang: DefaultLanguage,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	for lang, tree := range translations {
		if lang == "" {
			return nil, fmt.Errorf("%w: empty language code", ErrInvalidCatalog)
		}
		if tree == nil {
			return nil, fmt.Errorf("%w: nil messages for language %q", ErrInvalidCatalog, lang)
		}
	}
	if translations == nil {
		translations = make(map[string]map[string]any)
	}
	c.translations = translations

	c.logger.Info("message catalog loaded", slog.Any("languages", c.Languages()))
	return c, nil
}

// Load reads a YAML or JSON catalog file, picking the format by extension.
func Load(ctx context.Context, path string, opts ...Option) (*Catalog, error) {
	parser := ParserForFile(path)
	if parser == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}

	translations, err := parser.Parse(ctx, content)
	if err != nil {
		return nil, err
	}
	return New(translations, opts...)
}

// Languages returns the language codes present in the catalog, sorted.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	langs := make([]string, 0, len(c.translations))
	for lang := range c.translations {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Has reports whether lang defines a template for key.
func (c *Catalog) Has(lang, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.lookup(lang, key)
	return ok
}

// Message renders the template stored under the dot-separated key for lang,
// falling back to the fallback language. Placeholders without a matching
// parameter are kept as is. ok is false when no template exists.
func (c *Catalog) Message(lang, key string, params map[string]string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tmpl, ok := c.lookup(lang, key)
	if !ok && c.fallbackLang != "" && c.fallbackLang != lang {
		tmpl, ok = c.lookup(c.fallbackLang, key)
	}
	if !ok {
		if c.logMissing {
			c.logger.Warn("message not found", slog.String("lang", lang), slog.String("key", key))
		}
		return "", false
	}
	return interpolate(tmpl, params), true
}

// T renders key for lang with parameters given as name, value pairs and
// returns the key itself when no template exists.
//
//	catalog.T("en", "validation.length", "field", "password", "0", "6", "1", "20")
func (c *Catalog) T(lang, key string, args ...string) string {
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	if msg, ok := c.Message(lang, key, params); ok {
		return msg
	}
	return interpolate(key, params)
}

// Set stores a template, replacing any existing one.
func (c *Catalog) Set(lang, key, tmpl string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tree, ok := c.translations[lang]
	if !ok {
		tree = make(map[string]any)
		c.translations[lang] = tree
	}

	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := tree[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			tree[part] = next
		}
		tree = next
	}
	tree[parts[len(parts)-1]] = tmpl
}

// lookup walks the dot-separated key through the language tree.
func (c *Catalog) lookup(lang, key string) (string, bool) {
	tree, ok := c.translations[lang]
	if !ok {
		return "", false
	}

	parts := strings.Split(key, ".")
	var current any = tree
	for _, part := range parts {
		m, ok := asMap(current)
		if !ok {
			return "", false
		}
		if current, ok = m[part]; !ok {
			return "", false
		}
	}

	switch v := current.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	}
	return "", false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	}
	return nil, false
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

func interpolate(tmpl string, params map[string]string) string {
	if len(params) == 0 {
		return tmpl
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}
