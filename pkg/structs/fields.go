package structs

import (
	"github.com/oleiade/reflections"
	"github.com/pkg/errors"
)

// GetField returns the value of the provided obj field. obj can whether be a structure or pointer to structure.
func GetField(obj any, name string) (any, error) {
	v, err := reflections.GetField(obj, name)
	return v, errors.Wrapf(err, "field %s", name)
}

// Project returns the values of the given fields of obj.
// All the exported fields, including the embedded ones, are returned when no field is provided.
func Project(obj any, fields ...string) (map[string]any, error) {
	if len(fields) == 0 {
		var err error
		fields, err = reflections.FieldsDeep(obj)
		if err != nil {
			return nil, errors.Wrap(err, "could not list fields")
		}
	}

	projection := make(map[string]any, len(fields))
	for _, name := range fields {
		v, err := GetField(obj, name)
		if err != nil {
			return nil, err
		}
		projection[name] = v
	}
	return projection, nil
}
