package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all handlers; a Validate instance caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their json names so Param matches the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs struct validation on req and, on failure, writes the
// 400 {"errors": [...]} response. messages maps json field names to the
// client-facing message for that field; every invalid field is reported so
// clients can surface all errors at once.
func validateRequest(w http.ResponseWriter, logger *slog.Logger, req interface{}, messages map[string]string) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(w, logger, err)
		return false
	}

	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "Invalid value for " + fe.Field()
		}
		out = append(out, fieldError{Msg: msg, Param: fe.Field()})
	}
	writeJSON(w, logger, http.StatusBadRequest, errorsResponse{Errors: out})
	return false
}
