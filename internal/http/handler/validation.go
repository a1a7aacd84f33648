package handler

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

var errInvalidBody = errors.New("invalid body")

func newValidator() *validator.Validate {
	v := validator.New()

	// Details name fields the way clients send them.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Numeric tags (gte, lte) compare decimals as floats.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// A nullableID validates like the *int64 it wraps.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		n, _ := field.Interface().(nullableID)
		return n.Value
	}, nullableID{})

	return v
}

// nullableID tells an explicit JSON null apart from an absent field.
type nullableID struct {
	Set   bool
	Value *int64
}

func (n *nullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// decodeBody decodes the JSON request body into dst and validates it.
func decodeBody(c *fiber.Ctx, dst any) error {
	if err := c.App().Config().JSONDecoder(c.Body(), dst); err != nil {
		return errInvalidBody
	}
	return validate.Struct(dst)
}

// writeBodyError answers a decodeBody failure with 400.
func writeBodyError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
	}

	details := make([]fieldDetail, 0, len(ve))
	for _, fe := range ve {
		details = append(details, fieldDetail{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "request validation failed", details...)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "ne":
		return "must not be " + fe.Param()
	case "email":
		return "invalid email format"
	default:
		return "invalid value"
	}
}

// pathID parses the :id route parameter as a positive integer.
func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(c *fiber.Ctx, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
