package serializer

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsdoc/internal/checker"
	"tsdoc/internal/converter"
	"tsdoc/internal/models"
)

const source = `
export interface Shape { area(): number }
export class Circle implements Shape {
  constructor(public radius: number) {}
  area(): number { return 3 * this.radius; }
}
export type Pair<T> = [T, T];
export const names: string[] = [];
export function pick(kind: "a" | "b", shapes?: Shape[]): Shape | undefined { return undefined; }
`

func convert(t *testing.T) *models.ProjectReflection {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/shapes.ts", []byte(source), 0o644))

	c := converter.New(converter.Options{Name: "shapes", Mode: converter.ModeFile}, nil)
	result, err := c.ConvertFiles(context.Background(), []string{"shapes.ts"}, checker.NewHost(fs, "/src"), checker.Options{})
	require.NoError(t, err)
	require.NotNil(t, result.Project)
	return result.Project
}

func TestSerialize(t *testing.T) {
	project := convert(t)

	data, err := Serialize(project)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "shapes", doc["name"])
	assert.EqualValues(t, 0, doc["kind"])

	children, ok := doc["children"].([]any)
	require.True(t, ok)
	var names []string
	for _, c := range children {
		names = append(names, c.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"Shape", "Circle", "Pair", "names", "pick"}, names)

	again, err := Serialize(project)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again), "output is deterministic")

	_, err = Serialize(nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	data, err := Serialize(convert(t))
	require.NoError(t, err)
	assert.NoError(t, Validate(data))

	assert.Error(t, Validate([]byte(`{"id": 0, "name": "x", "kind": 0, "kindString": "Project", "flags": {}, "children": [{"name": 1}]}`)))
	assert.Error(t, Validate([]byte(`{"id": 0, "name": "x", "kind": 0, "kindString": "Project", "flags": {}, "children": [], "type": {"type": "mystery"}}`)))
	assert.Error(t, Validate([]byte(`not json`)))
}

func TestExport(t *testing.T) {
	fs := afero.NewMemMapFs()
	project := convert(t)

	require.NoError(t, Export(fs, "/out/docs/project.json", project, true))
	data, err := afero.ReadFile(fs, "/out/docs/project.json")
	require.NoError(t, err)
	assert.NoError(t, Validate(data))
	assert.Contains(t, string(data), `"name": "Circle"`)
}
