package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"go.uber.org/zap"
)

// respondError writes err as {"error": message} with the status of its kind.
// Infrastructure causes are logged and replaced by a generic message.
func respondError(c echo.Context, err error) error {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInfrastructure {
		logger.FromEcho(c).Error("Request failed",
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	return c.JSON(kind.StatusCode(), echo.Map{"error": apperror.PublicMessage(err)})
}

// bindAndValidate decodes the request body into dst and runs its validate tags.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperror.Validation("invalid request body", err)
	}
	if err := c.Validate(dst); err != nil {
		return apperror.Validation(validationMessage(err), err)
	}
	return nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid "+name+" id", err)
	}
	return uint(id), nil
}
