// Package validate provides struct-tag validation for request payloads.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required     field must not be zero/empty
//	nullable     if empty, skip all remaining rules for this field
//	email        valid email address
//	url          absolute http/https URL
//	safe_url     http/https URL or a relative path (no scheme, no "//" prefix)
//	phone        10 to 15 digits
//	numeric      any number
//	integer      whole number
//	min=N        string: min char length | number: min value | slice: min items
//	max=N        string: max char length | number: max value | slice: max items
//	between=a;b  number or string length between a and b (inclusive)
//	in=a|b|c     value must be one of the listed items
//
// Example:
//
//	type LoginRequest struct {
//	    Password string `json:"password" validate:"required,max=200"`
//	}
//
// Nested structs and slices of structs are validated too; their errors are
// keyed by dotted path ("variants.0.price").
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Errors maps a json field path to its first failing rule's message.
type Errors map[string]string

// Struct validates all exported fields of v that carry a `validate` tag.
// An empty map means no errors.
func Struct(v interface{}) Errors {
	errs := Errors{}
	walk(reflect.ValueOf(v), "", errs)
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs Errors) bool { return len(errs) > 0 }

// Value checks a single string against a rule list, e.g. Value("bannerImage", s, "nullable,url").
// It returns "" when the value passes.
func Value(field, value, rules string) string {
	return check(field, reflect.ValueOf(value), strings.Split(rules, ","))
}

// IsHTTPURL reports whether s is an absolute http or https URL with a host.
func IsHTTPURL(s string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsSafePath reports whether s is a relative or root-relative path that a
// browser cannot treat as a scheme or protocol-relative URL.
func IsSafePath(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "//") || strings.ContainsAny(s, "\\<>\"'`") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme == "" && u.Host == ""
}

func walk(rv reflect.Value, prefix string, errs Errors) {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		value := rv.Field(i)
		name := prefix + jsonFieldName(field)

		if tag := field.Tag.Get("validate"); tag != "" {
			if msg := check(name, value, strings.Split(tag, ",")); msg != "" {
				errs[name] = msg
				continue
			}
		}

		switch value.Kind() {
		case reflect.Struct, reflect.Ptr:
			walk(value, name+".", errs)
		case reflect.Slice:
			for j := 0; j < value.Len(); j++ {
				walk(value.Index(j), name+"."+strconv.Itoa(j)+".", errs)
			}
		}
	}
}

func check(field string, v reflect.Value, rules []string) string {
	for _, r := range rules {
		if strings.TrimSpace(r) == "nullable" && isEmpty(v) {
			return ""
		}
	}
	for _, r := range rules {
		r = strings.TrimSpace(r)
		if r == "" || r == "nullable" {
			continue
		}
		if msg := applyRule(r, field, v); msg != "" {
			return msg
		}
	}
	return ""
}

func applyRule(rule, field string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "url":
		if !IsHTTPURL(raw) {
			return fmt.Sprintf("The %s must be a valid http or https URL.", field)
		}
	case "safe_url":
		if !IsHTTPURL(raw) && !IsSafePath(raw) {
			return fmt.Sprintf("The %s must be an http(s) URL or a relative path.", field)
		}
	case "phone":
		if !phoneRE.MatchString(raw) {
			return fmt.Sprintf("The %s must contain 10 to 15 digits.", field)
		}
	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", field)
		}
	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}
	case "min":
		n := parseFloat(param)
		switch {
		case isNumericKind(v):
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		case v.Kind() == reflect.Slice || v.Kind() == reflect.Map:
			if float64(v.Len()) < n {
				return fmt.Sprintf("The %s must have at least %s items.", field, param)
			}
		default:
			if float64(utf8.RuneCountInString(raw)) < n {
				return fmt.Sprintf("The %s must be at least %s characters.", field, param)
			}
		}
	case "max":
		n := parseFloat(param)
		switch {
		case isNumericKind(v):
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		case v.Kind() == reflect.Slice || v.Kind() == reflect.Map:
			if float64(v.Len()) > n {
				return fmt.Sprintf("The %s must not have more than %s items.", field, param)
			}
		default:
			if float64(utf8.RuneCountInString(raw)) > n {
				return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
			}
		}
	case "between":
		lo, hi, ok := strings.Cut(param, ";")
		if !ok {
			return ""
		}
		f := float64(utf8.RuneCountInString(raw))
		if isNumericKind(v) {
			f = toFloat(v)
		}
		if f < parseFloat(lo) || f > parseFloat(hi) {
			return fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
		}
	case "in":
		for _, a := range strings.Split(param, "|") {
			if raw == a {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}
	return ""
}

var (
	emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRE = regexp.MustCompile(`^\d{10,15}$`)
)

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false // false is a valid boolean value, not empty
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return parseFloat(fmt.Sprintf("%v", v.Interface()))
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}
