package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/moonrake/cashier-go/errors"
)

var Validator = NewStructValidator()
var queryBinder = schema.NewDecoder()

func init() {
	queryBinder.SetAliasTag("query")
	queryBinder.IgnoreUnknownKeys(true)
}

type structValidator struct {
	validator *validator.Validate
}

func (s *structValidator) Validate(v any) error {
	return s.validator.Struct(v)
}

func NewStructValidator() *structValidator {
	v := &structValidator{validator: validator.New()}

	v.validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		var name string
		if tag, ok := fld.Tag.Lookup("query"); ok {
			name = strings.SplitN(tag, ",", 2)[0]
		} else if tag, ok := fld.Tag.Lookup("uri"); ok {
			name = strings.SplitN(tag, ",", 2)[0]
		} else {
			name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		}
		return name
	})

	return v
}

func bindUri(r *http.Request, data any) error {
	t := reflect.TypeOf(data)
	switch {
	case t.Kind() != reflect.Pointer,
		t.Elem().Kind() != reflect.Struct:
		return errors.NewValidationError("invalid data type")
	}
	fields := reflect.VisibleFields(t.Elem())
	for _, field := range fields {
		if !field.IsExported() || field.Type.Kind() != reflect.String {
			continue
		}
		if key, ok := field.Tag.Lookup("uri"); ok {
			if value := r.PathValue(key); value != "" {
				reflect.Indirect(reflect.ValueOf(data)).FieldByName(field.Name).SetString(value)
			}
		}
	}
	return nil
}

func Bind(r *http.Request, data any) error {
	if err := defaults.Set(data); err != nil {
		return err
	}
	if err := bindUri(r, data); err != nil {
		return err
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	if err := queryBinder.Decode(data, r.Form); err != nil {
		return err
	}
	bodyData, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bodyData) > 0 {
		if err := json.Unmarshal(bodyData, data); err != nil {
			return err
		}
	}

	return Validator.Validate(data)
}
