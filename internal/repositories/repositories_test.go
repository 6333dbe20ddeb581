package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"betafeedback/internal/models/db_models"
	"betafeedback/internal/testutil"
)

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func seedQuestion(t *testing.T, db *gorm.DB, qtype db_models.QuestionType, order int) db_models.Question {
	t.Helper()
	q := db_models.Question{
		QuestionText: "question",
		QuestionType: qtype,
		Category:     db_models.CategoryGeneral,
		OrderIndex:   order,
		IsActive:     true,
	}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func seedSession(t *testing.T, db *gorm.DB, createdAt time.Time) db_models.FeedbackSession {
	t.Helper()
	s := db_models.FeedbackSession{Status: db_models.SessionStatusPending, CreatedAt: createdAt}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}

func TestSessionRepository_MarkCompletedOnlyOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	s := seedSession(t, db, time.Now().UTC())

	if err := repo.MarkCompleted(ctx, s.ID, time.Now().UTC()); err != nil {
		t.Fatalf("first MarkCompleted() = %v", err)
	}
	if err := repo.MarkCompleted(ctx, s.ID, time.Now().UTC()); !IsNotPending(err) {
		t.Fatalf("second MarkCompleted() = %v, want ErrSessionNotPending", err)
	}
	if err := repo.MarkCompleted(ctx, uuid.New(), time.Now().UTC()); !IsNotPending(err) {
		t.Fatalf("MarkCompleted(unknown) = %v, want ErrSessionNotPending", err)
	}

	got, err := repo.FindByID(ctx, s.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID() = %v, %v", got, err)
	}
	if got.Status != db_models.SessionStatusCompleted || got.CompletedAt == nil {
		t.Fatalf("session = %+v, want completed with completed_at", got)
	}
}

func TestFeedbackRepository_SaveSubmissionIsAtomic(t *testing.T) {
	db := testutil.NewDB(t)
	sessions := NewSessionRepository(db)
	feedback := NewFeedbackRepository(db)
	ctx := context.Background()

	q := seedQuestion(t, db, db_models.QuestionTypeRating, 1)
	s := seedSession(t, db, time.Now().UTC())

	rows := []db_models.Response{{SessionID: s.ID, QuestionID: q.ID, RatingValue: intPtr(4)}}
	if err := feedback.SaveSubmission(ctx, s.ID, time.Now().UTC(), rows); err != nil {
		t.Fatalf("SaveSubmission() = %v", err)
	}

	again := []db_models.Response{{SessionID: s.ID, QuestionID: q.ID, RatingValue: intPtr(2)}}
	if err := feedback.SaveSubmission(ctx, s.ID, time.Now().UTC(), again); !IsNotPending(err) {
		t.Fatalf("second SaveSubmission() = %v, want ErrSessionNotPending", err)
	}

	saved, err := feedback.ListBySession(ctx, s.ID)
	if err != nil {
		t.Fatalf("ListBySession() = %v", err)
	}
	if len(saved) != 1 || *saved[0].RatingValue != 4 || saved[0].Question == nil {
		t.Fatalf("saved = %+v, want the single first response with its question", saved)
	}

	got, _ := sessions.FindByID(ctx, s.ID)
	if !got.IsCompleted() {
		t.Fatalf("status = %s, want completed", got.Status)
	}
}

func TestFeedbackRepository_FailedInsertRollsBackCompletion(t *testing.T) {
	db := testutil.NewDB(t)
	sessions := NewSessionRepository(db)
	feedback := NewFeedbackRepository(db)
	ctx := context.Background()

	q := seedQuestion(t, db, db_models.QuestionTypeRating, 1)
	s := seedSession(t, db, time.Now().UTC())

	// rating 9 violates the check constraint
	rows := []db_models.Response{{SessionID: s.ID, QuestionID: q.ID, RatingValue: intPtr(9)}}
	if err := feedback.SaveSubmission(ctx, s.ID, time.Now().UTC(), rows); err == nil {
		t.Fatalf("SaveSubmission() with invalid rating = nil, want error")
	}

	got, _ := sessions.FindByID(ctx, s.ID)
	if got.Status != db_models.SessionStatusPending {
		t.Fatalf("status = %s, want pending after rollback", got.Status)
	}
	saved, _ := feedback.ListBySession(ctx, s.ID)
	if len(saved) != 0 {
		t.Fatalf("saved %d responses, want 0", len(saved))
	}
}

func TestQuestionRepository_DeleteCascade(t *testing.T) {
	db := testutil.NewDB(t)
	questions := NewQuestionRepository(db)
	feedback := NewFeedbackRepository(db)
	dashboard := NewDashboardRepository(db)
	ctx := context.Background()

	q := seedQuestion(t, db, db_models.QuestionTypeRating, 1)
	other := seedQuestion(t, db, db_models.QuestionTypeText, 2)
	s := seedSession(t, db, time.Now().UTC())
	rows := []db_models.Response{
		{SessionID: s.ID, QuestionID: q.ID, RatingValue: intPtr(5)},
		{SessionID: s.ID, QuestionID: other.ID, ResponseValue: strPtr("fine")},
	}
	if err := feedback.SaveSubmission(ctx, s.ID, time.Now().UTC(), rows); err != nil {
		t.Fatalf("SaveSubmission() = %v", err)
	}
	summary := db_models.AnalyticsSummary{QuestionID: q.ID, AvgRating: 5, TotalResponses: 1, LastUpdated: time.Now().UTC()}
	if err := dashboard.ReplaceSummaries(ctx, []db_models.AnalyticsSummary{summary}, []uuid.UUID{q.ID}); err != nil {
		t.Fatalf("ReplaceSummaries() = %v", err)
	}

	found, err := questions.DeleteCascade(ctx, q.ID)
	if err != nil || !found {
		t.Fatalf("DeleteCascade() = %v, %v; want true, nil", found, err)
	}

	left, _ := feedback.ListBySession(ctx, s.ID)
	if len(left) != 1 || left[0].QuestionID != other.ID {
		t.Fatalf("remaining responses = %+v, want only the other question's", left)
	}
	summaries, _ := dashboard.ListSummaries(ctx)
	if len(summaries) != 0 {
		t.Fatalf("summaries = %+v, want none", summaries)
	}

	found, err = questions.DeleteCascade(ctx, q.ID)
	if err != nil || found {
		t.Fatalf("DeleteCascade(missing) = %v, %v; want false, nil", found, err)
	}
}

func TestQuestionRepository_ToggleAndSeed(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()

	seeded, err := repo.SeedIfEmpty(ctx, []db_models.Question{
		{QuestionText: "a", QuestionType: db_models.QuestionTypeRating, Category: "general", OrderIndex: 2, IsActive: true},
		{QuestionText: "b", QuestionType: db_models.QuestionTypeMultipleChoice, Category: "general", OrderIndex: 1, IsActive: true,
			Options: datatypes.JSONSlice[string]{"yes", "no"}},
	})
	if err != nil || !seeded {
		t.Fatalf("SeedIfEmpty() = %v, %v", seeded, err)
	}
	seeded, err = repo.SeedIfEmpty(ctx, []db_models.Question{{QuestionText: "c", QuestionType: "text", Category: "general", OrderIndex: 3}})
	if err != nil || seeded {
		t.Fatalf("second SeedIfEmpty() = %v, %v; want false", seeded, err)
	}

	active, err := repo.ListActive(ctx)
	if err != nil || len(active) != 2 {
		t.Fatalf("ListActive() = %d, %v", len(active), err)
	}
	if active[0].QuestionText != "b" || !active[0].HasOption("no") {
		t.Fatalf("first active = %+v, want b ordered first with options", active[0])
	}

	toggled, err := repo.ToggleActive(ctx, active[0].ID)
	if err != nil || toggled == nil || toggled.IsActive {
		t.Fatalf("ToggleActive() = %+v, %v; want inactive", toggled, err)
	}
	active, _ = repo.ListActive(ctx)
	all, _ := repo.ListAll(ctx)
	if len(active) != 1 || len(all) != 2 {
		t.Fatalf("active/all = %d/%d, want 1/2", len(active), len(all))
	}

	missing, err := repo.ToggleActive(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("ToggleActive(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestSessionRepository_DeleteExpiredPending(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	old := seedSession(t, db, now.Add(-10*24*time.Hour))
	fresh := seedSession(t, db, now.Add(-time.Hour))
	oldDone := seedSession(t, db, now.Add(-10*24*time.Hour))
	if err := repo.MarkCompleted(ctx, oldDone.ID, now); err != nil {
		t.Fatalf("MarkCompleted() = %v", err)
	}

	n, err := repo.DeleteExpiredPending(ctx, now.Add(-7*24*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpiredPending() = %d, %v; want 1", n, err)
	}
	if got, _ := repo.FindByID(ctx, old.ID); got != nil {
		t.Fatalf("old pending session still present")
	}
	for _, id := range []uuid.UUID{fresh.ID, oldDone.ID} {
		if got, _ := repo.FindByID(ctx, id); got == nil {
			t.Fatalf("session %s was reaped, want kept", id)
		}
	}
}

func TestSessionRepository_ListAndCount(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seedSession(t, db, base.Add(time.Duration(i)*time.Hour))
	}
	page, total, err := repo.List(ctx, 2, 1)
	if err != nil || total != 5 || len(page) != 2 {
		t.Fatalf("List() = %d items, total %d, %v", len(page), total, err)
	}
	if !page[0].CreatedAt.Equal(base.Add(3 * time.Hour)) {
		t.Fatalf("page[0].CreatedAt = %v, want newest-but-one", page[0].CreatedAt)
	}

	if err := repo.MarkCompleted(ctx, page[0].ID, base.Add(4*time.Hour)); err != nil {
		t.Fatalf("MarkCompleted() = %v", err)
	}
	all, completed, err := repo.CountByStatus(ctx)
	if err != nil || all != 5 || completed != 1 {
		t.Fatalf("CountByStatus() = %d, %d, %v", all, completed, err)
	}

	since, err := repo.ListSince(ctx, base.Add(2*time.Hour))
	if err != nil || len(since) != 3 {
		t.Fatalf("ListSince() = %d, %v; want 3", len(since), err)
	}
}
