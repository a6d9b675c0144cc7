package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/validator"
)

type publisher struct {
	Name string
}

type release struct {
	Title     string
	Pages     int
	Publisher *publisher
	Website   string
}

func (r release) CheckTitle() string {
	if strings.Contains(r.Title, "TODO") {
		return "title is a placeholder"
	}
	return ""
}

const releaseManifest = `
fields:
  - name: Title
    rules:
      - required: "title is required"
      - length: {max: 20, message: "title is too long"}
      - method: CheckTitle
  - name: Pages
    rules:
      - range: {min: 1, message: "pages must be positive"}
      - expr: {expression: "value < 5000 || entity.Title != ''", message: "suspicious page count"}
  - name: Publisher.Name
    rules:
      - pattern: {expr: "^[A-Z]", message: "publisher must be capitalized"}
  - name: Website
    rules:
      - tag: {tag: "omitempty,url", message: "website must be a URL"}
`

func TestManifest(t *testing.T) {
	m, err := validator.LoadManifest(strings.NewReader(releaseManifest))
	require.NoError(t, err)
	require.Len(t, m.Fields, 4)

	r := validator.NewRegistry()
	require.NoError(t, validator.DeclareManifest[release](r, m))
	c := validator.Compile[release](r)

	valid := release{Title: "Go", Pages: 300, Publisher: &publisher{Name: "Acme"}}
	assert.Equal(t, "", c.Message(valid))

	tests := []struct {
		name   string
		mutate func(*release)
		want   string
	}{
		{"required", func(r *release) { r.Title = "" }, "title is required"},
		{"length", func(r *release) { r.Title = strings.Repeat("a", 21) }, "title is too long"},
		{"method", func(r *release) { r.Title = "TODO" }, "title is a placeholder"},
		{"range with open max", func(r *release) { r.Pages = 0 }, "pages must be positive"},
		{"nested pattern", func(r *release) { r.Publisher = &publisher{Name: "acme"} }, "publisher must be capitalized"},
		{"tag", func(r *release) { r.Website = "not a url" }, "website must be a URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := valid
			tt.mutate(&v)
			assert.Equal(t, tt.want, c.Message(v))
		})
	}

	t.Run("nil pointer on the path yields the zero leaf", func(t *testing.T) {
		v := valid
		v.Publisher = nil
		assert.Equal(t, "", c.Message(v))
	})
}

func TestManifest_Errors(t *testing.T) {
	t.Run("unknown keys", func(t *testing.T) {
		_, err := validator.LoadManifest(strings.NewReader("fields:\n  - name: Title\n    rulez: []\n"))
		assert.ErrorIs(t, err, validator.ErrInvalidManifest)
	})

	t.Run("unknown field", func(t *testing.T) {
		m := &validator.Manifest{Fields: []validator.ManifestField{{Name: "Publisher.City"}}}
		assert.ErrorIs(t, validator.DeclareManifest[release](validator.NewRegistry(), m), validator.ErrUnknownField)
	})

	t.Run("empty rule entry", func(t *testing.T) {
		m := &validator.Manifest{Fields: []validator.ManifestField{{Name: "Title", Rules: []validator.ManifestRule{{}}}}}
		assert.ErrorIs(t, validator.DeclareManifest[release](validator.NewRegistry(), m), validator.ErrUnknownRule)
	})

	t.Run("non-struct target", func(t *testing.T) {
		assert.ErrorIs(t, validator.DeclareManifest[string](validator.NewRegistry(), &validator.Manifest{}), validator.ErrNotStruct)
	})
}
