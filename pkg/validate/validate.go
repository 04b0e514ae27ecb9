// Package validate provides Laravel-inspired struct-tag validation.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required                 field must not be zero/empty
//	nullable                 if empty, skip all remaining rules for this field
//	string                   value must be a string
//	email                    valid email address
//	url                      valid URL (http/https)
//	ip                       valid IPv4 or IPv6 address
//	alpha                    letters only
//	alpha_dash               letters, digits, hyphens, underscores
//	integer                  whole number
//	min=N                    string: min length | number: min value | file: min kilobytes
//	max=N                    string: max length | number: max value | file: max kilobytes
//	gte=N lte=N              numeric comparisons
//	between=min,max          number or string length between min and max (inclusive)
//	in=a,b,c                 value must be one of the listed items
//	confirmed                value must equal a sibling field named <field>_confirmation
//	image                    uploaded file content must be an image
//	mimes=a,b,c              uploaded file content type must map to one of the extensions
//	exists=table,column      a row with column = value must exist
//	unique=table,column[,ignore]
//	                         no row with column = value may exist; the optional
//	                         ignore names a sibling field holding an id to exclude
//	unique_scoped=table,column,scope[,ignore]
//	                         as unique, restricted to rows whose scope column equals
//	                         the sibling field of the same name
//	unique_rescoped=table,column,field,ignore
//	                         on a scope field: when field is not submitted, the
//	                         ignored row's stored column must be free in the new
//	                         scope; failures are reported on field
//
// Database rules run through a PresenceVerifier supplied to New.
//
// Fields are named by their `form` tag, then `json` tag, then lower-cased Go name.
//
//	type InsertCategory struct {
//	    Name  string                `form:"category_name"  validate:"required,string,max=100,unique=category,name"`
//	    Image *multipart.FileHeader `form:"category_image" validate:"required,image,mimes=jpeg,png,jpg,gif,svg,max=2024"`
//	}
package validate

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Errors maps a field name to every message its failing rules produced.
type Errors map[string][]string

// Add appends msg to field's messages.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has at least one message.
func (e Errors) Has(field string) bool { return len(e[field]) > 0 }

// First returns field's first message or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Merge copies other into e; other's messages replace e's for the same field.
func (e Errors) Merge(other Errors) {
	for f, msgs := range other {
		e[f] = append([]string(nil), msgs...)
	}
}

// HasErrors returns true when errs is non-empty.
func HasErrors(errs Errors) bool { return len(errs) > 0 }

// ErrNoVerifier is returned when a database rule runs without a PresenceVerifier.
var ErrNoVerifier = errors.New("validate: database rule used without a presence verifier")

// Validator runs struct-tag rules. The zero value supports every rule
// except exists, unique and unique_scoped.
type Validator struct {
	presence PresenceVerifier
}

// New returns a Validator whose database rules query p.
func New(p PresenceVerifier) *Validator {
	return &Validator{presence: p}
}

// Struct validates v with a Validator that has no database access.
// It panics if v uses a database rule.
func Struct(v interface{}) Errors {
	errs, err := (&Validator{}).Struct(context.Background(), v)
	if err != nil {
		panic(err)
	}
	return errs
}

// Struct validates all exported fields of v that carry a `validate` tag.
// A non-nil error means a rule could not be evaluated (e.g. the database
// was unreachable); errs is nil in that case.
func (val *Validator) Struct(ctx context.Context, v interface{}) (Errors, error) {
	errs := make(Errors)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs, nil
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		f := newField(fieldName(field), rv.Field(i), rv)
		rules := splitRules(tag)

		if f.empty {
			if hasRule(rules, "required") {
				errs.Add(f.name, fmt.Sprintf("The %s field is required.", f.name))
			}
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" || rule == "required" {
				continue
			}
			msg, err := val.applyRule(ctx, rule, f)
			if err != nil {
				return nil, err
			}
			if msg == "" {
				continue
			}
			errs.Add(reportedOn(rule, f), msg)
			if bails(rule) {
				break
			}
		}
	}

	return errs, nil
}

// field is one struct field prepared for rule evaluation.
type field struct {
	name   string
	value  reflect.Value // dereferenced when the field is a non-nil pointer
	raw    string
	file   *multipart.FileHeader
	parent reflect.Value
	empty  bool
}

var fileHeaderType = reflect.TypeOf(&multipart.FileHeader{})

// typed returns the dereferenced value for database comparisons.
func (f field) typed() any {
	if f.file == nil && f.value.IsValid() && f.value.CanInterface() {
		return f.value.Interface()
	}
	return f.raw
}

func newField(name string, v, parent reflect.Value) field {
	f := field{name: name, parent: parent, empty: isEmpty(v)}
	if v.Type() == fileHeaderType {
		if !v.IsNil() {
			f.file = v.Interface().(*multipart.FileHeader)
			f.raw = f.file.Filename
		}
		f.value = v
		return f
	}
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	f.value = v
	if v.IsValid() && v.CanInterface() {
		f.raw = fmt.Sprintf("%v", v.Interface())
	}
	return f
}

// bails reports whether a failing rule stops evaluation of the field.
// Type and presence failures make later rules meaningless or costly.
func bails(rule string) bool {
	key, _, _ := strings.Cut(rule, "=")
	switch key {
	case "string", "integer", "image":
		return true
	}
	return false
}

// reportedOn names the field a failing rule is reported under.
func reportedOn(rule string, f field) string {
	key, param, _ := strings.Cut(rule, "=")
	if key == "unique_rescoped" {
		if args := strings.Split(param, ","); len(args) > 2 {
			return strings.TrimSpace(args[2])
		}
	}
	return f.name
}

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func (val *Validator) applyRule(ctx context.Context, rule string, f field) (string, error) {
	key, param, _ := strings.Cut(rule, "=")
	name, raw, v := f.name, f.raw, f.value

	switch key {
	// ── Type ──────────────────────────────────────────────────────────
	case "string":
		if v.Kind() != reflect.String {
			return fmt.Sprintf("The %s must be a string.", name), nil
		}

	// ── Format ────────────────────────────────────────────────────────
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", name), nil
		}
	case "url":
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("The %s must be a valid URL.", name), nil
		}
	case "ip":
		if net.ParseIP(raw) == nil {
			return fmt.Sprintf("The %s must be a valid IP address.", name), nil
		}

	// ── Character class ───────────────────────────────────────────────
	case "alpha":
		for _, c := range raw {
			if !unicode.IsLetter(c) {
				return fmt.Sprintf("The %s field must contain only letters.", name), nil
			}
		}
	case "alpha_dash":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", name), nil
			}
		}
	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", name), nil
		}

	// ── Size / range ──────────────────────────────────────────────────
	case "min":
		n := mustParseFloat(param)
		switch {
		case f.file != nil:
			if kilobytes(f.file) < n {
				return fmt.Sprintf("The %s must be at least %s kilobytes.", name, param), nil
			}
		case isNumericKind(v):
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", name, param), nil
			}
		default:
			if float64(len([]rune(raw))) < n {
				return fmt.Sprintf("The %s must be at least %s characters.", name, param), nil
			}
		}
	case "max":
		n := mustParseFloat(param)
		switch {
		case f.file != nil:
			if kilobytes(f.file) > n {
				return fmt.Sprintf("The %s must not be greater than %s kilobytes.", name, param), nil
			}
		case isNumericKind(v):
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", name, param), nil
			}
		default:
			if float64(len([]rune(raw))) > n {
				return fmt.Sprintf("The %s must not be greater than %s characters.", name, param), nil
			}
		}
	case "gte":
		if toFloat(v) < mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", name, param), nil
		}
	case "lte":
		if toFloat(v) > mustParseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", name, param), nil
		}
	case "between":
		parts := strings.SplitN(param, ",", 2)
		if len(parts) == 2 {
			lo, hi := mustParseFloat(parts[0]), mustParseFloat(parts[1])
			if isNumericKind(v) {
				if n := toFloat(v); n < lo || n > hi {
					return fmt.Sprintf("The %s must be between %s and %s.", name, parts[0], parts[1]), nil
				}
			} else if l := float64(len([]rune(raw))); l < lo || l > hi {
				return fmt.Sprintf("The %s must be between %s and %s characters.", name, parts[0], parts[1]), nil
			}
		}

	// ── Inclusion ─────────────────────────────────────────────────────
	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return "", nil
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", name), nil

	// ── Cross-field ───────────────────────────────────────────────────
	case "confirmed":
		other, ok := sibling(f.parent, name+"_confirmation")
		if !ok || other != raw {
			return fmt.Sprintf("The %s confirmation does not match.", name), nil
		}

	// ── Files ─────────────────────────────────────────────────────────
	case "image":
		return imageRule(f)
	case "mimes":
		return mimesRule(f, param)

	// ── Database ──────────────────────────────────────────────────────
	case "exists", "unique", "unique_scoped", "unique_rescoped":
		if val.presence == nil {
			return "", ErrNoVerifier
		}
		return val.databaseRule(ctx, key, param, f)
	}

	return "", nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// isEmpty treats nil pointers, blank strings and empty collections as empty.
// A non-nil pointer to a zero number is present: "0" was submitted.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return true
		}
		if e := v.Elem(); e.Kind() == reflect.String {
			return strings.TrimSpace(e.String()) == ""
		}
		return false
	case reflect.Bool:
		return false
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
	if !v.IsValid() || !v.CanInterface() {
		return 0
	}
	f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v.Interface()), 64)
	return f
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func kilobytes(fh *multipart.FileHeader) float64 {
	return float64(fh.Size) / 1024
}

// fieldName resolves the request-facing name of a struct field.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name := f.Tag.Get(key)
		if idx := strings.Index(name, ","); idx != -1 {
			name = name[:idx]
		}
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

// sibling returns the formatted value of the field named name in parent.
// ok is false when the field is missing or empty.
func sibling(parent reflect.Value, name string) (value string, ok bool) {
	v, ok := siblingValue(parent, name)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%v", v), true
}

// siblingValue is sibling without formatting: pointers are dereferenced and
// the underlying value returned.
func siblingValue(parent reflect.Value, name string) (any, bool) {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if fieldName(rt.Field(i)) != name {
			continue
		}
		v := parent.Field(i)
		if isEmpty(v) {
			return nil, false
		}
		for v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		if !v.CanInterface() {
			return nil, false
		}
		return v.Interface(), true
	}
	return nil, false
}

// splitRules splits the validate tag by comma while keeping multi-value
// rule parameters (in=, mimes=, unique=, …) intact.
// e.g. "required,in=ON,OFF,max=100" → ["required","in=ON,OFF","max=100"]
func splitRules(tag string) []string {
	var rules []string
	var current strings.Builder
	inParam := false

	multiValuePrefixes := []string{
		"in=", "between=", "mimes=",
		"exists=", "unique=", "unique_scoped=", "unique_rescoped=",
	}

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch == ',' {
			if inParam {
				if looksLikeNewRule(tag[i+1:]) {
					rules = append(rules, current.String())
					current.Reset()
					inParam = false
				} else {
					current.WriteByte(ch)
				}
			} else {
				rules = append(rules, current.String())
				current.Reset()
			}
			continue
		}

		current.WriteByte(ch)
		if !inParam && ch == '=' {
			for _, pfx := range multiValuePrefixes {
				if current.String() == pfx {
					inParam = true
					break
				}
			}
		}
	}
	if current.Len() > 0 {
		rules = append(rules, current.String())
	}
	return rules
}

var knownRules = []string{
	"required", "nullable", "string", "email", "url", "ip",
	"alpha", "alpha_dash", "integer", "confirmed", "image",
	"min=", "max=", "gte=", "lte=", "in=", "between=",
	"mimes=", "exists=", "unique=", "unique_scoped=", "unique_rescoped=",
}

// looksLikeNewRule reports whether the token starting s is a rule keyword
// rather than the continuation of a multi-value parameter.
func looksLikeNewRule(s string) bool {
	token, _, _ := strings.Cut(s, ",")
	for _, k := range knownRules {
		if strings.HasSuffix(k, "=") {
			if strings.HasPrefix(token, k) {
				return true
			}
		} else if token == k {
			return true
		}
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
