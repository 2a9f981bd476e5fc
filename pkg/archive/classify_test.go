package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oneconcern/projar/pkg/model"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	for _, toPin := range []struct {
		name     string
		files    map[string][]byte
		opts     []ClassifyOption
		expected model.ProjectType
	}{
		{
			name:     "no evidence",
			files:    map[string][]byte{"src/index.code": []byte("x")},
			expected: model.ProjectCode,
		},
		{
			name:     "marker extension",
			files:    map[string][]byte{"main.blocks": []byte("<xml/>")},
			expected: model.ProjectVisual,
		},
		{
			name: "marker extension wins over manifest",
			files: map[string][]byte{
				"deep/main.blocks": []byte("<xml/>"),
				"package.json":     []byte(`{"tool":{"type":"code"}}`),
			},
			expected: model.ProjectVisual,
		},
		{
			name:     "visual manifest",
			files:    map[string][]byte{"package.json": []byte(`{"name":"demo","tool":{"type":"blocks"}}`)},
			expected: model.ProjectVisual,
		},
		{
			name:     "code manifest",
			files:    map[string][]byte{"package.json": []byte(`{"tool":{"type":"code"}}`)},
			expected: model.ProjectCode,
		},
		{
			name:     "nested manifest is ignored",
			files:    map[string][]byte{"lib/package.json": []byte(`{"tool":{"type":"blocks"}}`)},
			expected: model.ProjectCode,
		},
		{
			name:     "malformed manifest",
			files:    map[string][]byte{"package.json": []byte(`{"tool":{"type":"blocks"`)},
			expected: model.ProjectCode,
		},
		{
			name:     "type is not a string",
			files:    map[string][]byte{"package.json": []byte(`{"tool":{"type":["blocks"]}}`)},
			expected: model.ProjectCode,
		},
		{
			name:     "tool is not an object",
			files:    map[string][]byte{"package.json": []byte(`{"tool":"blocks"}`)},
			expected: model.ProjectCode,
		},
		{
			name:     "custom namespace and tag",
			files:    map[string][]byte{"package.json": []byte(`{"ide":{"type":"visual"}}`)},
			opts:     []ClassifyOption{Namespace("ide"), VisualTag("visual")},
			expected: model.ProjectVisual,
		},
		{
			name:     "custom marker extension",
			files:    map[string][]byte{"main.vis": []byte("x")},
			opts:     []ClassifyOption{MarkerExtension("vis")},
			expected: model.ProjectVisual,
		},
		{
			name:     "custom manifest",
			files:    map[string][]byte{"project.json": []byte(`{"tool":{"type":"blocks"}}`)},
			opts:     []ClassifyOption{Manifest("project.json")},
			expected: model.ProjectVisual,
		},
	} {
		fixture := toPin

		t.Run(fixture.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, fixture.expected, Classify(fixture.files, fixture.opts...))
		})
	}
}
