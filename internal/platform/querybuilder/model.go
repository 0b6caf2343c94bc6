package querybuilder

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// InsertModel builds an INSERT from the db tags of a struct.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	return InsertModels(table, []any{model}, suffix)
}

// InsertModels builds one multi-row INSERT. Every model must map to the same columns.
// Fields tagged insert:"-" are left to the database.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, errors.New("insert: no models")
	}

	stmt := insertStatement{table: strings.TrimSpace(table), suffix: suffix}
	for i, model := range models {
		columns, values, err := taggedFields(model)
		if err != nil {
			return "", nil, fmt.Errorf("insert: model %d: %w", i, err)
		}
		if i == 0 {
			stmt.columns = columns
		} else if !slices.Equal(columns, stmt.columns) {
			return "", nil, fmt.Errorf("insert: model %d maps to %v, want %v", i, columns, stmt.columns)
		}
		stmt.rows = append(stmt.rows, values)
	}
	return stmt.toSQL()
}

func taggedFields(model any) ([]string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil, errors.New("nil model")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("%s is not a struct", v.Kind())
	}

	var (
		columns []string
		values  []any
	)
	for _, field := range reflect.VisibleFields(v.Type()) {
		if !field.IsExported() || field.Anonymous || field.Tag.Get("insert") == "-" {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		if name = strings.TrimSpace(name); name == "" || name == "-" {
			continue
		}
		columns = append(columns, name)
		values = append(values, v.FieldByIndex(field.Index).Interface())
	}
	if len(columns) == 0 {
		return nil, nil, errors.New("no db columns")
	}
	return columns, values, nil
}
