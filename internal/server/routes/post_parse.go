package routes

import (
	"net/http"
	"strings"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/graph"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/quiz"

	"github.com/labstack/echo/v4"
)

// ParseOutputHandler parses one raw generator output synchronously and
// returns the structured records. Large batches belong on the parse
// queue; this route serves interactive inspection of a single output.
func ParseOutputHandler(c echo.Context) error {
	type parseOutputBody struct {
		Output string `json:"output"`
		Format string `json:"format"`
		Quiz   bool   `json:"quiz"`
		Graph  bool   `json:"graph"`
	}

	type parseOutputResponse struct {
		Message   string                 `json:"message,omitempty"`
		Questions []common.Question      `json:"questions,omitempty"`
		Quiz      *common.Quiz           `json:"quiz,omitempty"`
		Graph     *common.KnowledgeGraph `json:"graph,omitempty"`
	}

	data := new(parseOutputBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, parseOutputResponse{
			Message: "Invalid request body",
		})
	}
	if strings.TrimSpace(data.Output) == "" {
		return c.JSON(http.StatusBadRequest, parseOutputResponse{
			Message: "Output is required",
		})
	}

	response := parseOutputResponse{}

	switch {
	case data.Quiz:
		parsed, err := quiz.ParseQuiz(data.Output)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, parseOutputResponse{
				Message: "Output could not be parsed",
			})
		}
		response.Quiz = &parsed
		response.Questions = parsed.Questions
	case data.Format == "json":
		questions, err := quiz.ParseQuestionsJSON(data.Output)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, parseOutputResponse{
				Message: "Output could not be parsed",
			})
		}
		response.Questions = questions
	default:
		questions, err := quiz.ParseQuestions(data.Output)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, parseOutputResponse{
				Message: "Output could not be parsed",
			})
		}
		response.Questions = questions
	}

	if data.Graph {
		kg, err := graph.ParseKnowledgeGraph(data.Output)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, parseOutputResponse{
				Message: "Output could not be parsed",
			})
		}
		response.Graph = &kg
	}

	return c.JSON(http.StatusOK, response)
}
