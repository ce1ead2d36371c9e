// AngelaMos | 2026
// validate.go

package core

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// NewValidator reports fields by their JSON names so messages match the
// request bodies clients send.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeAndValidate reads a JSON body into dst and runs struct validation.
// The returned error is always an *AppError with status 400.
func DecodeAndValidate(
	r *http.Request,
	v *validator.Validate,
	dst any,
) error {
	if err := DecodeJSON(r, dst); err != nil {
		return err
	}
	return ValidateStruct(v, dst)
}

func DecodeJSON(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return BadRequestError("invalid request body")
	}
	return nil
}

func ValidateStruct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return BadRequestError(FormatValidationError(err))
	}
	return nil
}

func ParseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequestError("invalid " + name)
	}
	return id, nil
}
