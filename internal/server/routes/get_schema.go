package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/quiz"

	"github.com/labstack/echo/v4"
)

// GetQuestionSchemaHandler publishes the JSON schema generators are
// expected to follow when emitting question records.
func GetQuestionSchemaHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, quiz.QuestionSchema())
}
