package todo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var tasksSchemaJSON string

const tasksSchemaURL = "tasks.schema.json"

var (
	tasksSchemaOnce sync.Once
	tasksSchema     *jsonschema.Schema
	tasksSchemaErr  error
)

func compiledTasksSchema() (*jsonschema.Schema, error) {
	tasksSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(tasksSchemaURL, strings.NewReader(tasksSchemaJSON)); err != nil {
			tasksSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		tasksSchema, tasksSchemaErr = compiler.Compile(tasksSchemaURL)
		if tasksSchemaErr != nil {
			tasksSchemaErr = fmt.Errorf("compile schema: %w", tasksSchemaErr)
		}
	})
	return tasksSchema, tasksSchemaErr
}

// validatePayload checks a stored list against the task list schema.
func validatePayload(payload string) error {
	schema, err := compiledTasksSchema()
	if err != nil {
		return err
	}

	decoder := json.NewDecoder(strings.NewReader(payload))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("parse stored tasks: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("stored tasks do not match schema: %w", err)
	}
	return nil
}
