package treeview

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Item is the plain description a Node is built from. A nil Children marks a
// leaf; unset booleans take the defaults (checked, enabled, expanded).
type Item[T any] struct {
	Text      string    `json:"text"`
	Value     any       `json:"value,omitempty"`
	Disabled  *bool     `json:"disabled,omitempty"`
	Checked   *bool     `json:"checked,omitempty"`
	Collapsed *bool     `json:"collapsed,omitempty"`
	Children  []Item[T] `json:"children,omitempty"`
	Data      T         `json:"data,omitempty"`
}

// ValidationError reports a malformed description.
type ValidationError struct {
	Errors field.ErrorList
}

func (e *ValidationError) Error() string {
	return e.Errors.ToAggregate().Error()
}

func validateItem[T any](item Item[T], path *field.Path) field.ErrorList {
	var errs field.ErrorList
	if item.Text == "" {
		errs = append(errs, field.Required(path.Child("text"), "text must be a non-empty string"))
	}
	if item.Children != nil && len(item.Children) == 0 {
		errs = append(errs, field.Invalid(path.Child("children"), "[]", "must not be empty"))
	}
	for i := range item.Children {
		errs = append(errs, validateItem(item.Children[i], path.Child("children").Index(i))...)
	}
	return errs
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DecodeItems parses a YAML or JSON list of item descriptions. Scalars
// resolve by YAML 1.2 rules, so plain words such as no or on stay strings.
func DecodeItems[T any](data []byte) ([]Item[T], error) {
	var raw []any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing items")
	}
	return ItemsFromUnstructured[T](raw)
}

// ItemsFromUnstructured converts decoded, untyped descriptions, checking
// field types along the way.
func ItemsFromUnstructured[T any](raw []any) ([]Item[T], error) {
	var errs field.ErrorList
	items := make([]Item[T], 0, len(raw))
	path := field.NewPath("items")
	for i, obj := range raw {
		item, itemErrs := itemFromUnstructured[T](obj, path.Index(i))
		errs = append(errs, itemErrs...)
		items = append(items, item)
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return items, nil
}

func itemFromUnstructured[T any](raw any, path *field.Path) (Item[T], field.ErrorList) {
	var item Item[T]
	obj, ok := raw.(map[string]any)
	if !ok {
		return item, field.ErrorList{field.TypeInvalid(path, raw, "must be an object")}
	}

	var errs field.ErrorList
	text, found, err := unstructured.NestedString(obj, "text")
	switch {
	case err != nil:
		errs = append(errs, field.TypeInvalid(path.Child("text"), obj["text"], "must be a string"))
	case !found || text == "":
		errs = append(errs, field.Required(path.Child("text"), "text must be a non-empty string"))
	}
	item.Text = text
	item.Value = obj["value"]

	for _, flag := range []struct {
		name string
		dst  **bool
	}{
		{"disabled", &item.Disabled},
		{"checked", &item.Checked},
		{"collapsed", &item.Collapsed},
	} {
		v, found, err := unstructured.NestedBool(obj, flag.name)
		if err != nil {
			errs = append(errs, field.TypeInvalid(path.Child(flag.name), obj[flag.name], "must be a boolean"))
			continue
		}
		if found {
			*flag.dst = &v
		}
	}

	if rawData, found := obj["data"]; found && rawData != nil {
		if err := convertData(rawData, &item.Data); err != nil {
			errs = append(errs, field.Invalid(path.Child("data"), rawData, err.Error()))
		}
	}

	if rawChildren, found := obj["children"]; found && rawChildren != nil {
		children, ok := rawChildren.([]any)
		if !ok {
			return item, append(errs, field.TypeInvalid(path.Child("children"), rawChildren, "must be a list"))
		}
		if len(children) == 0 {
			errs = append(errs, field.Invalid(path.Child("children"), "[]", "must not be empty"))
		}
		item.Children = make([]Item[T], 0, len(children))
		for i, rawChild := range children {
			child, childErrs := itemFromUnstructured[T](rawChild, path.Child("children").Index(i))
			errs = append(errs, childErrs...)
			item.Children = append(item.Children, child)
		}
	}
	return item, errs
}

func convertData(raw any, dst any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return errors.Wrap(err, "cannot convert data")
	}
	return nil
}
