package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds a single-row INSERT from the model's `db` tags.
// onConflict is appended verbatim after the VALUES clause, which is how
// the repositories attach their partial-index upsert targets.
func InsertModel(table string, model any, onConflict string) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, fmt.Errorf("insert needs a table")
	}

	columns, values, err := modelColumns(model)
	if err != nil {
		return "", nil, err
	}

	q := &query{}
	q.sql.WriteString("INSERT INTO ")
	q.sql.WriteString(table)
	q.sql.WriteString(" (")
	q.sql.WriteString(strings.Join(columns, ", "))
	q.sql.WriteString(") VALUES (")
	for i, value := range values {
		if i > 0 {
			q.sql.WriteString(", ")
		}
		q.sql.WriteString(q.bind(value))
	}
	q.sql.WriteString(")")

	if clause := strings.TrimSpace(onConflict); clause != "" {
		q.sql.WriteString(" ")
		q.sql.WriteString(clause)
	}

	return q.sql.String(), q.args, nil
}

// modelColumns lists the insertable columns of a struct in declaration
// order. Unexported fields and fields tagged db:"-" are skipped.
func modelColumns(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be a struct")
	}

	typ := value.Type()
	columns := make([]string, 0, typ.NumField())
	values := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}

		column, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		column = strings.TrimSpace(column)
		if column == "" || column == "-" {
			continue
		}

		columns = append(columns, column)
		values = append(values, value.Field(i).Interface())
	}

	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("model has no db-tagged columns")
	}

	return columns, values, nil
}
