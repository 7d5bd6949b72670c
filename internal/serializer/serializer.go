// Package serializer renders a converted project as JSON and checks the
// result against the bundled project schema.
package serializer

import (
	"bytes"
	_ "embed"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/afero"

	"tsdoc/internal/errors"
	"tsdoc/internal/models"
)

const schemaURL = "https://tsdoc.dev/schema/project.json"

//go:embed project.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the raw bundled schema.
func Schema() []byte { return schemaJSON }

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = errors.Wrap(err, "load project schema")
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = errors.Wrap(schemaErr, "compile project schema")
		}
	})
	return compiledSchema, schemaErr
}

// Serialize renders the project's ToObject tree as indented JSON. Object
// keys are written in sorted order, so equal projects give equal bytes.
func Serialize(project *models.ProjectReflection) ([]byte, error) {
	if project == nil {
		return nil, errors.New("serialize: project is nil")
	}
	data, err := json.MarshalIndent(project.ToObject(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "serialize project")
	}
	return data, nil
}

// Validate checks an exported document against the project schema.
func Validate(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, "decode export for validation")
	}
	if err := schema.Validate(doc); err != nil {
		return errors.Wrap(err, "export does not match the project schema")
	}
	return nil
}

// Export serializes project, optionally validates it, and writes it to path.
func Export(fs afero.Fs, path string, project *models.ProjectReflection, validate bool) error {
	data, err := Serialize(project)
	if err != nil {
		return err
	}
	if validate {
		if err := Validate(data); err != nil {
			return err
		}
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	if err := afero.WriteFile(fs, path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
