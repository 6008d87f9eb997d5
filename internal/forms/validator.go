// Package forms holds the dashboard's form models: parsing from submitted
// values, validation with administrator-facing messages, population from
// backend records, and serialisation back to the backend's payloads.
package forms

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// messages overrides the stock English texts. {0} is the field label, {1}
// the tag parameter.
var messages = map[string]string{
	"required": "{0} is required",
	"email":    "Invalid email address",
	"url":      "Invalid {0}",
	"min":      "{0} must be at least {1} characters",
	"max":      "{0} must be at most {1} characters",
}

// Errors maps input names to the first validation message for that input.
type Errors map[string]string

// Get returns the message for the named input, or "".
func (e Errors) Get(name string) string {
	return e[name]
}

// Any reports whether there is at least one message.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Validator validates form models and renders English messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Messages name fields by their label tag.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	for tag, text := range messages {
		registerTranslation(validate, translator, tag, text)
	}
	return &Validator{validate: validate, translator: translator}
}

// registerTranslation registers text for tag, replacing the stock message.
func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

// Validate checks form and returns the messages keyed by input name. A nil
// result means the form is valid.
func (v *Validator) Validate(form any) Errors {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"": err.Error()}
	}

	root := reflect.TypeOf(form)
	for root.Kind() == reflect.Pointer {
		root = root.Elem()
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		key, field := resolveField(root, fe.StructNamespace())
		if _, seen := out[key]; seen {
			continue
		}
		if msg := field.Tag.Get("message"); msg != "" {
			out[key] = msg
			continue
		}
		out[key] = fe.Translate(v.translator)
	}
	return out
}

// resolveField converts a validator struct namespace such as
// "Campuses.Campuses[1].GoogleMapURL" into the input name
// "campuses[1].googleMapUrl" using the form tags along the path. It also
// returns the struct field the namespace ends at; a field carrying a
// message tag reports that text instead of the translated one.
func resolveField(root reflect.Type, namespace string) (string, reflect.StructField) {
	segments := strings.Split(namespace, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}

	t := root
	var last reflect.StructField
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		name, index := seg, ""
		if i := strings.IndexByte(seg, '['); i >= 0 {
			name, index = seg[:i], seg[i:]
		}

		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			parts = append(parts, seg)
			continue
		}
		field, ok := t.FieldByName(name)
		if !ok {
			parts = append(parts, seg)
			continue
		}
		last = field
		tag := field.Tag.Get("form")
		if tag == "" {
			tag = name
		}
		parts = append(parts, tag+index)

		t = field.Type
		if index != "" && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
			t = t.Elem()
		}
	}
	return strings.Join(parts, "."), last
}

// indexedName builds the input name of field in the i-th row of list.
func indexedName(list string, i int, field string) string {
	return list + "[" + strconv.Itoa(i) + "]." + field
}
