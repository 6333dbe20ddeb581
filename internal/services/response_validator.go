package services

import (
	"maps"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"betafeedback/internal/models/db_models"
	"betafeedback/internal/models/request_models"
	"betafeedback/pkg/utils"
)

const (
	minRating = 1
	maxRating = 5
)

// ValidateAnswers checks every submitted answer against the catalog and
// returns the response rows to store, or a ValidationError listing every
// rejected entry keyed by question id. Rows come back sorted by the
// question's order_index, then question id, so storage order does not
// depend on map iteration.
func ValidateAnswers(
	sessionID uuid.UUID,
	answers map[string]request_models.AnswerInput,
	catalog map[uuid.UUID]db_models.Question,
	maxTextLength int,
) ([]db_models.Response, *utils.ValidationError) {
	if len(answers) == 0 {
		return nil, utils.NewValidationError("No responses provided").WithCode(utils.CodeNoResponses)
	}
	if maxTextLength <= 0 {
		maxTextLength = utils.DefaultTextMaxLength
	}

	type accepted struct {
		order    int
		response db_models.Response
	}
	var (
		rows []accepted
		errs []utils.FieldError
		// uuid.Parse accepts several spellings of one id
		seen = make(map[uuid.UUID]string, len(answers))
	)

	for _, rawID := range slices.Sorted(maps.Keys(answers)) {
		answer := answers[rawID]
		fail := func(msg string) {
			errs = append(errs, utils.FieldError{Field: rawID, Message: msg})
		}

		questionID, err := uuid.Parse(rawID)
		if err != nil {
			fail("question not found")
			continue
		}
		question, ok := catalog[questionID]
		if !ok {
			fail("question not found")
			continue
		}
		if _, dup := seen[questionID]; dup {
			fail("duplicate answer for question")
			continue
		}
		seen[questionID] = rawID

		response := db_models.Response{SessionID: sessionID, QuestionID: questionID}
		switch question.QuestionType {
		case db_models.QuestionTypeRating:
			rating, msg := checkRating(answer.Score())
			if msg != "" {
				fail(msg)
				continue
			}
			response.RatingValue = &rating

		case db_models.QuestionTypeText:
			text, msg := checkText(answer.Text(), maxTextLength)
			if msg != "" {
				fail(msg)
				continue
			}
			response.ResponseValue = &text

		case db_models.QuestionTypeMultipleChoice:
			choice, msg := checkChoice(answer.Text(), &question)
			if msg != "" {
				fail(msg)
				continue
			}
			response.ResponseValue = &choice

		default:
			fail("question has an unsupported type")
			continue
		}
		rows = append(rows, accepted{order: question.OrderIndex, response: response})
	}

	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
		return nil, utils.NewValidationError("Some responses are invalid", errs...)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].order != rows[j].order {
			return rows[i].order < rows[j].order
		}
		return rows[i].response.QuestionID.String() < rows[j].response.QuestionID.String()
	})
	out := make([]db_models.Response, len(rows))
	for i, r := range rows {
		out[i] = r.response
	}
	return out, nil
}

func checkRating(score *float64) (int, string) {
	if score == nil {
		return 0, "rating is required"
	}
	v := *score
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, "rating must be a whole number between 1 and 5"
	}
	if v < minRating || v > maxRating {
		return 0, "rating must be between 1 and 5"
	}
	return int(v), ""
}

func checkText(value *string, maxLen int) (string, string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", "response text is required"
	}
	if utils.TextLength(*value) > maxLen {
		return "", "response text is too long"
	}
	return utils.SanitizeText(*value, maxLen), ""
}

func checkChoice(value *string, question *db_models.Question) (string, string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", "an option must be selected"
	}
	choice := strings.TrimSpace(*value)
	if !question.HasOption(choice) {
		return "", "selected option is not offered by this question"
	}
	return choice, ""
}
