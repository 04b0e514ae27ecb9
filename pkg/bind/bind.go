// Package bind decodes an HTTP request into a struct.
//
// Form reads multipart or urlencoded bodies plus the query string, keyed by
// the `form` struct tag:
//
//	type UpdateProduct struct {
//	    ID     int64                 `form:"id"`
//	    Name   *string               `form:"product_name"`
//	    Image  *multipart.FileHeader `form:"product_image"`
//	}
//
// Values that cannot be converted to the field's type are reported as
// validate.Errors and leave the field unset, so they take precedence over
// whatever the validation rules later say about the same field.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// multipartMemory is how much of a multipart body is held in memory before
// file parts spill to temporary files.
const multipartMemory = 2 << 20

// ErrTooLarge is wrapped by Form and JSON when the body exceeds MAX_UPLOAD_BYTES.
var ErrTooLarge = errors.New("request body too large")

// JSON decodes r.Body as JSON into dest.
// The body is capped at MAX_UPLOAD_BYTES.
func JSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxUploadBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w (max %d bytes)", ErrTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// Form parses r and fills dest, which must be a pointer to a struct.
// A non-nil error means the body itself could not be read.
func Form(r *http.Request, dest interface{}) (validate.Errors, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind: dest must be a pointer to a struct, got %T", dest)
	}

	if err := parse(r); err != nil {
		return nil, err
	}

	var files map[string][]*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File
	}

	errs := make(validate.Errors)
	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := sf.Tag.Get("form")
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)

		if sf.Type == fileHeaderType {
			if fhs := files[name]; len(fhs) > 0 {
				fv.Set(reflect.ValueOf(fhs[0]))
			}
			continue
		}

		vals, present := r.Form[name]
		if !present || len(vals) == 0 {
			continue
		}
		if msg := assign(fv, name, vals[0]); msg != "" {
			errs.Add(name, msg)
		}
	}
	return errs, nil
}

var fileHeaderType = reflect.TypeOf(&multipart.FileHeader{})

func parse(r *http.Request) error {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, config.MaxUploadBytes())
	}

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w (max %d bytes)", ErrTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("invalid form body: %w", err)
}

// assign converts raw into fv. It returns a validation message on failure.
// Blank values leave pointer fields nil.
func assign(fv reflect.Value, name, raw string) string {
	t := fv.Type()
	isPtr := t.Kind() == reflect.Ptr
	if isPtr {
		if strings.TrimSpace(raw) == "" {
			return ""
		}
		t = t.Elem()
	}

	target := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		target.SetString(raw)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if strings.TrimSpace(raw) == "" {
			return ""
		}
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, t.Bits())
		if err != nil {
			return fmt.Sprintf("The %s field must be an integer.", name)
		}
		target.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if strings.TrimSpace(raw) == "" {
			return ""
		}
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, t.Bits())
		if err != nil {
			return fmt.Sprintf("The %s field must be an integer.", name)
		}
		target.SetUint(n)

	case reflect.Bool:
		if strings.TrimSpace(raw) == "" {
			return ""
		}
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Sprintf("The %s field must be true or false.", name)
		}
		target.SetBool(b)

	default:
		return ""
	}

	if isPtr {
		p := reflect.New(t)
		p.Elem().Set(target)
		fv.Set(p)
	} else {
		fv.Set(target)
	}
	return ""
}
