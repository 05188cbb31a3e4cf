package http

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rack-inventario-api/internal/application/dto"
	"github.com/jhoicas/rack-inventario-api/internal/domain"
)

var (
	validate  = newValidator()
	labelExpr = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// newValidator usa los nombres JSON en los errores y registra la regla slot_label.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slot_label", func(fl validator.FieldLevel) bool {
		return labelExpr.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// statusFor traduce la clasificación del error a código HTTP.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindAuth:
		if errors.Is(err, domain.ErrForbidden) {
			return fiber.StatusForbidden
		}
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError escribe el error con su código estable. Las fallas de sistema no exponen la causa.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Message
	}
	if status == fiber.StatusInternalServerError {
		msg = domain.ErrStorageFailure.Message
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: domain.CodeOf(err), Message: msg})
}

// parseBody decodifica el JSON y aplica las reglas `validate`. Devuelve false si ya respondió.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		if derr := decodeError(out, err); derr != nil {
			return false, respondError(c, derr)
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return checkStruct(c, out)
}

// decodeError traduce un valor no numérico en una cantidad al mismo código que devuelve el motor
// para una cantidad inválida: INVALID_REQUEST en traslados, INVALID_QUANTITY en el resto.
func decodeError(out any, err error) error {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return nil
	}
	switch typeErr.Field {
	case "quantity":
		if _, ok := out.(*dto.MoveStockRequest); ok {
			return domain.ErrInvalidRequest
		}
		return domain.ErrInvalidQuantity
	case "slot_capacity":
		return domain.ErrInvalidQuantity
	}
	return nil
}

func checkStruct(c *fiber.Ctx, v any) (bool, error) {
	err := validate.Struct(v)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: domain.ErrInvalidInput.Code, Message: err.Error()})
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    domain.ErrInvalidInput.Code,
		Message: domain.ErrInvalidInput.Message,
		Fields:  fields,
	})
}
