package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"betafeedback/internal/models/db_models"
	rm "betafeedback/internal/models/request_models"
	"betafeedback/pkg/utils"
)

func TestSubmitFeedback_CompletesSessionAndRecomputes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rating := env.addQuestion(t, db_models.QuestionTypeRating, db_models.CategoryFeatures, 1)
	text := env.addQuestion(t, db_models.QuestionTypeText, db_models.CategoryBugs, 2)
	choice := env.addQuestion(t, db_models.QuestionTypeMultipleChoice, db_models.CategoryGeneral, 3, "Daily", "Weekly")
	session := env.startSession(t)

	res, err := env.feedbackSvc.SubmitFeedback(ctx, rm.SubmitFeedbackRequest{
		SessionID: session.ID.String(),
		Responses: map[string]rm.AnswerInput{
			rating.ID.String(): {Rating: floatPtr(4)},
			text.ID.String():   {Value: strPtr("  works   fine\n\tmostly ")},
			choice.ID.String(): {Value: strPtr(" Weekly ")},
		},
	})
	if err != nil {
		t.Fatalf("SubmitFeedback() = %v", err)
	}
	if !res.Session.IsCompleted() || res.Session.CompletedAt == nil {
		t.Fatalf("session = %+v, want completed", res.Session)
	}
	if len(res.Responses) != 3 {
		t.Fatalf("got %d responses, want 3", len(res.Responses))
	}

	byQuestion := map[uuid.UUID]db_models.Response{}
	for _, r := range res.Responses {
		byQuestion[r.QuestionID] = r
	}
	if r := byQuestion[rating.ID]; r.RatingValue == nil || *r.RatingValue != 4 || r.ResponseValue != nil {
		t.Errorf("rating response = %+v", r)
	}
	if r := byQuestion[text.ID]; r.ResponseValue == nil || *r.ResponseValue != "works fine mostly" || r.RatingValue != nil {
		t.Errorf("text response = %+v", r)
	}
	if r := byQuestion[choice.ID]; r.ResponseValue == nil || *r.ResponseValue != "Weekly" {
		t.Errorf("choice response = %+v", r)
	}

	// the synchronous scheduler has already rebuilt the summaries
	summaries, err := env.dashboard.ListSummaries(ctx)
	if err != nil {
		t.Fatalf("ListSummaries() = %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(summaries))
	}
	for _, s := range summaries {
		if s.TotalResponses != 1 {
			t.Errorf("summary %s total = %d, want 1", s.QuestionID, s.TotalResponses)
		}
	}
}

func TestSubmitFeedback_RejectsOutOfRangeRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.addQuestion(t, db_models.QuestionTypeRating, db_models.CategoryFeatures, 1)
	session := env.startSession(t)

	_, err := env.feedbackSvc.SubmitFeedback(ctx, rm.SubmitFeedbackRequest{
		SessionID: session.ID.String(),
		Responses: map[string]rm.AnswerInput{q.ID.String(): {Rating: floatPtr(6)}},
	})
	var verr *utils.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("SubmitFeedback() = %v, want ValidationError", err)
	}
	if !verr.HasField(q.ID.String()) {
		t.Fatalf("errors = %+v, want one for %s", verr.Errors, q.ID)
	}
	if n := env.countResponses(t); n != 0 {
		t.Fatalf("stored %d responses, want 0", n)
	}
}

func TestSubmitFeedback_RejectsTwoSpellingsOfOneQuestion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.addQuestion(t, db_models.QuestionTypeRating, db_models.CategoryFeatures, 1)
	session := env.startSession(t)

	_, err := env.feedbackSvc.SubmitFeedback(ctx, rm.SubmitFeedbackRequest{
		SessionID: session.ID.String(),
		Responses: map[string]rm.AnswerInput{
			q.ID.String():                  {Rating: floatPtr(4)},
			strings.ToUpper(q.ID.String()): {Rating: floatPtr(2)},
		},
	})
	var verr *utils.ValidationError
	if !errors.As(err, &verr) || errors.Is(err, utils.ErrDatabaseError) {
		t.Fatalf("SubmitFeedback() = %v, want ValidationError", err)
	}
	if len(verr.Errors) != 1 || verr.Errors[0].Message != "duplicate answer for question" {
		t.Fatalf("errors = %+v", verr.Errors)
	}
	if n := env.countResponses(t); n != 0 {
		t.Fatalf("stored %d responses, want 0", n)
	}
}

func TestSubmitFeedback_BatchIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	good := env.addQuestion(t, db_models.QuestionTypeRating, db_models.CategoryFeatures, 1)
	text := env.addQuestion(t, db_models.QuestionTypeText, db_models.CategoryBugs, 2)
	session := env.startSession(t)
	unknown := uuid.NewString()

	_, err := env.feedbackSvc.SubmitFeedback(ctx, rm.SubmitFeedbackRequest{
		SessionID: session.ID.String(),
		Responses: map[string]rm.AnswerInput{
			good.ID.String(): {Rating: floatPtr(5)},
			text.ID.String(): {Value: strPtr("   ")},
			unknown:          {Rating: floatPtr(3)},
			"not-a-uuid":     {Rating: floatPtr(3)},
		},
	})
	var verr *utils.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("SubmitFeedback() = %v, want ValidationError", err)
	}
	if len(verr.Errors) != 3 {
		t.Fatalf("errors = %+v, want 3 entries", verr.Errors)
	}
	for _, field := range []string{text.ID.String(), unknown, "not-a-uuid"} {
		if !verr.HasField(field) {
			t.Errorf("missing error for %s", field)
		}
	}

	if n := env.countResponses(t); n != 0 {
		t.Fatalf("stored %d responses, want 0", n)
	}
	got, _ := env.sessions.FindByID(ctx, session.ID)
	if got.Status != db_models.SessionStatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}
}

func TestSubmitFeedback_CompletedSessionConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.addQuestion(t, db_models.QuestionTypeRating, db_models.CategoryFeatures, 1)
	session := env.startSession(t)
	req := rm.SubmitFeedbackRequest{
		SessionID: session.ID.String(),
		Responses: map[string]rm.AnswerInput{q.ID.String(): {Rating: floatPtr(3)}},
	}
	if _, err := env.feedbackSvc.SubmitFeedback(ctx, req); err != nil {
		t.Fatalf("first SubmitFeedback() = %v", err)
	}

	req.Responses = map[string]rm.AnswerInput{q.ID.String(): {Rating: floatPtr(1)}}
	if _, err := env.feedbackSvc.SubmitFeedback(ctx, req); !errors.Is(err, utils.ErrSessionCompleted) {
		t.Fatalf("second SubmitFeedback() = %v, want ErrSessionCompleted", err)
	}
	if n := env.countResponses(t); n != 1 {
		t.Fatalf("stored %d responses, want 1", n)
	}
}

func TestSubmitFeedback_ConcurrentSubmissionsOnlyOneWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.addQuestion(t, db_models.QuestionTypeRating, db_models.CategoryFeatures, 1)
	session := env.startSession(t)

	const attempts = 4
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.feedbackSvc.SubmitFeedback(ctx, rm.SubmitFeedbackRequest{
				SessionID: session.ID.String(),
				Responses: map[string]rm.AnswerInput{q.ID.String(): {Rating: floatPtr(5)}},
			})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			} else if !errors.Is(err, utils.ErrSessionCompleted) {
				t.Errorf("SubmitFeedback() = %v", err)
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("%d submissions succeeded, want exactly 1", success)
	}
	if n := env.countResponses(t); n != 1 {
		t.Fatalf("stored %d responses, want 1", n)
	}
}

func TestSubmitFeedback_SessionAndInputChecks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := env.startSession(t)

	_, err := env.feedbackSvc.SubmitFeedback(ctx, rm.SubmitFeedbackRequest{
		SessionID: uuid.NewString(),
		Responses: map[string]rm.AnswerInput{uuid.NewString(): {Rating: floatPtr(3)}},
	})
	if !errors.Is(err, utils.ErrSessionNotFound) {
		t.Fatalf("unknown session: err = %v, want ErrSessionNotFound", err)
	}

	_, err = env.feedbackSvc.SubmitFeedback(ctx, rm.SubmitFeedbackRequest{
		SessionID: session.ID.String(),
		Responses: map[string]rm.AnswerInput{},
	})
	var verr *utils.ValidationError
	if !errors.As(err, &verr) || verr.Code != utils.CodeNoResponses {
		t.Fatalf("empty responses: err = %v, want NO_RESPONSES", err)
	}
}

func TestSubmitFeedback_AcceptsInactiveQuestionsAndAliases(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.addQuestion(t, db_models.QuestionTypeRating, db_models.CategoryCommunity, 1)
	if _, err := env.questions.ToggleActive(ctx, q.ID); err != nil {
		t.Fatalf("ToggleActive() = %v", err)
	}
	session := env.startSession(t)

	res, err := env.feedbackSvc.SubmitFeedback(ctx, rm.SubmitFeedbackRequest{
		SessionID: session.ID.String(),
		Responses: map[string]rm.AnswerInput{q.ID.String(): {RatingValue: floatPtr(2)}},
	})
	if err != nil {
		t.Fatalf("SubmitFeedback() = %v", err)
	}
	if *res.Responses[0].RatingValue != 2 {
		t.Fatalf("rating = %d, want 2", *res.Responses[0].RatingValue)
	}
}

func TestValidateAnswers(t *testing.T) {
	rating := db_models.Question{QuestionType: db_models.QuestionTypeRating, OrderIndex: 2}
	rating.ID = uuid.New()
	text := db_models.Question{QuestionType: db_models.QuestionTypeText, OrderIndex: 1}
	text.ID = uuid.New()
	choice := db_models.Question{QuestionType: db_models.QuestionTypeMultipleChoice, OrderIndex: 3, Options: []string{"A", "B"}}
	choice.ID = uuid.New()
	catalog := map[uuid.UUID]db_models.Question{rating.ID: rating, text.ID: text, choice.ID: choice}
	session := uuid.New()

	tests := []struct {
		name    string
		answers map[string]rm.AnswerInput
		wantErr string
	}{
		{"rating zero", map[string]rm.AnswerInput{rating.ID.String(): {Rating: floatPtr(0)}}, "between 1 and 5"},
		{"rating fraction", map[string]rm.AnswerInput{rating.ID.String(): {Rating: floatPtr(3.5)}}, "whole number"},
		{"rating missing", map[string]rm.AnswerInput{rating.ID.String(): {Value: strPtr("5")}}, "rating is required"},
		{"text too long", map[string]rm.AnswerInput{text.ID.String(): {Value: strPtr(strings.Repeat("ü", 11))}}, "too long"},
		{"text missing", map[string]rm.AnswerInput{text.ID.String(): {}}, "required"},
		{"unknown option", map[string]rm.AnswerInput{choice.ID.String(): {Value: strPtr("C")}}, "not offered"},
		{"same question twice", map[string]rm.AnswerInput{
			rating.ID.String():                  {Rating: floatPtr(4)},
			strings.ToUpper(rating.ID.String()): {Rating: floatPtr(2)},
		}, "duplicate answer"},
		{"braced spelling twice", map[string]rm.AnswerInput{
			rating.ID.String():             {Rating: floatPtr(4)},
			"{" + rating.ID.String() + "}": {Rating: floatPtr(4)},
		}, "duplicate answer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, verr := ValidateAnswers(session, tt.answers, catalog, 10)
			if verr == nil {
				t.Fatalf("ValidateAnswers() = nil, want error containing %q", tt.wantErr)
			}
			if len(verr.Errors) != 1 || !strings.Contains(verr.Errors[0].Message, tt.wantErr) {
				t.Fatalf("errors = %+v, want %q", verr.Errors, tt.wantErr)
			}
		})
	}

	rows, verr := ValidateAnswers(session, map[string]rm.AnswerInput{
		choice.ID.String(): {Value: strPtr("B")},
		rating.ID.String(): {Rating: floatPtr(5)},
		text.ID.String():   {Value: strPtr("exactly10!")},
	}, catalog, 10)
	if verr != nil {
		t.Fatalf("ValidateAnswers() = %v", verr)
	}
	want := []uuid.UUID{text.ID, rating.ID, choice.ID}
	for i, r := range rows {
		if r.QuestionID != want[i] || r.SessionID != session {
			t.Fatalf("rows[%d] = %+v, want question %s in order_index order", i, r, want[i])
		}
	}
}
