package validator

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// shapeDocument is the YAML form of a set of named shapes:
//
//	shapes:
//	  address:
//	    validation: {}
//	    fields:
//	      - name: zip
//	        rules: ["required", "regex('^[0-9]{5}$') 'zip must have 5 digits'"]
//	  signup:
//	    validation: {exhaustive: true}
//	    fields:
//	      - name: username
//	        rules: [required, "length(3,32)"]
//	      - name: address
//	        model: address
//
// A shape without a validation key has no policy. Rules use ParseRules syntax,
// one or more rules per list item. Fields keep their document order, which
// decides which nested field wins a name collision.
type shapeDocument struct {
	Shapes map[string]shapeSpec `yaml:"shapes"`
}

type shapeSpec struct {
	Validation *policySpec `yaml:"validation"`
	Fields     []fieldDoc  `yaml:"fields"`
}

type policySpec struct {
	Exhaustive bool `yaml:"exhaustive"`
}

type fieldDoc struct {
	Name  string   `yaml:"name"`
	Rules []string `yaml:"rules"`
	Model string   `yaml:"model"`
}

// LoadShapes decodes named shapes from a YAML document. Models may reference
// any shape of the same document, including themselves.
func LoadShapes(r io.Reader) (map[string]Shape, error) {
	var doc shapeDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]Shape{}, nil
		}
		return nil, errors.Join(ErrInvalidShapes, err)
	}

	built := make(map[string]*describedShape, len(doc.Shapes))
	for name, spec := range doc.Shapes {
		s := &describedShape{}
		if spec.Validation != nil {
			s.policy = &Policy{Exhaustive: spec.Validation.Exhaustive}
		}
		built[name] = s
	}

	for name, spec := range doc.Shapes {
		s := built[name]
		for i, fd := range spec.Fields {
			f, err := fd.field(built)
			if err != nil {
				return nil, fmt.Errorf("shape %q field %d: %w", name, i, err)
			}
			s.fields = append(s.fields, f)
		}
	}

	shapes := make(map[string]Shape, len(built))
	for name, s := range built {
		shapes[name] = s
	}
	return shapes, nil
}

func (fd fieldDoc) field(built map[string]*describedShape) (Field, error) {
	f := Field{Name: strings.TrimSpace(fd.Name)}
	for _, src := range fd.Rules {
		rules, err := ParseRules(src)
		if err != nil {
			return Field{}, err
		}
		f.Rules = append(f.Rules, rules...)
	}

	if fd.Model != "" {
		model, ok := built[fd.Model]
		if !ok {
			return Field{}, fmt.Errorf("%w: %q", ErrUnknownShape, fd.Model)
		}
		f.Model = model
	}

	if f.Name == "" && !f.IsModel() {
		return Field{}, fmt.Errorf("%w: field name is required", ErrInvalidShapes)
	}
	return f, nil
}
