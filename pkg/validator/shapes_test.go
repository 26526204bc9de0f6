package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/validator"
)

const shapesYAML = `
shapes:
  address:
    validation: {}
    fields:
      - name: zip
        rules: ["required", "regex('^[0-9]{5}$') 'zip must have 5 digits'"]
  signup:
    validation:
      exhaustive: true
    fields:
      - name: username
        rules: [required, "length(3,32)"]
      - name: password
        rules: ["required; length(6,20)"]
      - name: address
        model: address
  draft:
    fields:
      - name: title
        rules: [required]
`

func TestLoadShapes(t *testing.T) {
	t.Parallel()

	shapes, err := validator.LoadShapes(strings.NewReader(shapesYAML))
	require.NoError(t, err)
	require.Len(t, shapes, 3)

	t.Run("resolves nested models", func(t *testing.T) {
		policy, rules := validator.ResolveShape(shapes["signup"])
		require.NotNil(t, policy)
		assert.True(t, policy.Exhaustive)
		assert.Equal(t, []string{"password", "username", "zip"}, rules.Fields())
		assert.Len(t, rules.Rules("password"), 2)
		assert.Equal(t, "zip must have 5 digits", rules.Rules("zip")[1].Message)
	})

	t.Run("shape without validation key has no policy", func(t *testing.T) {
		policy, rules := validator.ResolveShape(shapes["draft"])
		assert.Nil(t, policy)
		assert.Nil(t, rules)
	})

	t.Run("validates through the engine", func(t *testing.T) {
		e := newEngine(t)
		errs := e.Validate(shapes["signup"], map[string]any{
			"username": "",
			"password": "abc",
			"address":  map[string]any{"zip": "1"},
		})
		assert.Equal(t, map[string]string{
			"username": "field is required",
			"password": "must be between 6 and 20 characters long",
			"zip":      "zip must have 5 digits",
		}, errs.Map())
	})
}

func TestLoadShapes_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty document", func(t *testing.T) {
		shapes, err := validator.LoadShapes(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, shapes)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := validator.LoadShapes(strings.NewReader("shapes: [unclosed"))
		assert.ErrorIs(t, err, validator.ErrInvalidShapes)
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := validator.LoadShapes(strings.NewReader(`
shapes:
  a:
    validation: {}
    fields:
      - name: b
        model: missing
`))
		assert.ErrorIs(t, err, validator.ErrUnknownShape)
	})

	t.Run("bad rule", func(t *testing.T) {
		_, err := validator.LoadShapes(strings.NewReader(`
shapes:
  a:
    validation: {}
    fields:
      - name: b
        rules: ["length(1"]
`))
		assert.ErrorIs(t, err, validator.ErrInvalidTag)
	})

	t.Run("leaf without name", func(t *testing.T) {
		_, err := validator.LoadShapes(strings.NewReader(`
shapes:
  a:
    validation: {}
    fields:
      - rules: [required]
`))
		assert.ErrorIs(t, err, validator.ErrInvalidShapes)
	})
}
