package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dhima/catalog-service/internal/models"
	"github.com/dhima/catalog-service/internal/scheduler"
	"github.com/dhima/catalog-service/internal/storage"
	"github.com/dhima/catalog-service/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 2, 3, 0, 0, 0, time.UTC)

func newCatalog(t *testing.T) (*Catalog, *clock.ManualClock, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	store := storage.NewStore(path, Collections)
	require.NoError(t, store.Load(context.Background()))
	clk := clock.NewManual(epoch)
	return New(store, clk), clk, path
}

func validEvent() models.Event {
	return models.Event{
		Title:     "Spring cohort",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-03",
		StartTime: "09:00",
		EndTime:   "17:00",
		TimeZone:  "Europe/Berlin",
	}
}

func ptr[V any](v V) *V { return &v }

func problemFields(t *testing.T, err error) []string {
	t.Helper()
	var verr ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	fields := make([]string, 0, len(verr.Problems))
	for _, p := range verr.Problems {
		fields = append(fields, p.Field)
	}
	return fields
}

func TestTrainingsCreate_WhenValid_ThenStampedAndRetrievable(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	in := models.CreateTrainingRequest{
		Title: "Go", Description: "Intro", Duration: "2 days", Level: "beginner", Price: ptr(0.0),
		Objectives: []string{"write tests"},
	}.Record()

	// Act
	created, err := cat.Trainings.Create(context.Background(), in)
	require.NoError(t, err)
	got, err := cat.Trainings.Get(context.Background(), created.ID)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, epoch.Equal(got.CreatedAt))
	assert.True(t, epoch.Equal(got.UpdatedAt))
	assert.Equal(t, created, got)
	assert.Equal(t, []string{"write tests"}, got.Objectives)
}

func TestTrainingsCreate_WhenRequiredMissing_ThenValidationFailed(t *testing.T) {
	// Arrange
	cat, _, path := newCatalog(t)
	before, _ := os.ReadFile(path)

	// Act
	_, err := cat.Trainings.Create(context.Background(), models.Training{Title: "Go", Price: -1})

	// Assert
	assert.ElementsMatch(t, []string{"description", "duration", "level", "price"}, problemFields(t, err))
	after, _ := os.ReadFile(path)
	assert.Equal(t, before, after)
}

func TestTrainingsUpdate_WhenPatchPartial_ThenAbsentFieldsPreserved(t *testing.T) {
	// Arrange
	cat, clk, _ := newCatalog(t)
	created, err := cat.Trainings.Create(context.Background(), models.Training{
		Title: "Go", Description: "Intro", Duration: "2 days", Level: "beginner", Price: 100,
		Curriculum: []string{"syntax", "tooling"},
	})
	require.NoError(t, err)
	clk.Advance(time.Hour)

	// Act
	updated, err := cat.Trainings.Update(context.Background(), created.ID, models.UpdateTrainingRequest{
		Level: ptr("advanced"),
		Price: ptr(250.0),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "advanced", updated.Level)
	assert.Equal(t, 250.0, updated.Price)
	assert.Equal(t, "Intro", updated.Description)
	assert.Equal(t, []string{"syntax", "tooling"}, updated.Curriculum)
	assert.True(t, epoch.Equal(updated.CreatedAt))
	assert.True(t, epoch.Add(time.Hour).Equal(updated.UpdatedAt))
}

func TestTrainingsUpdate_WhenPatchBlanksRequiredField_ThenRejected(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	created, err := cat.Trainings.Create(context.Background(), models.Training{
		Title: "Go", Description: "Intro", Duration: "2 days", Level: "beginner",
	})
	require.NoError(t, err)

	// Act
	_, err = cat.Trainings.Update(context.Background(), created.ID, models.UpdateTrainingRequest{Title: ptr(" ")})

	// Assert
	assert.Equal(t, []string{"title"}, problemFields(t, err))
	got, _ := cat.Trainings.Get(context.Background(), created.ID)
	assert.Equal(t, "Go", got.Title)
}

func TestTrainingsUpdate_WhenMissing_ThenNotFound(t *testing.T) {
	cat, _, _ := newCatalog(t)

	_, err := cat.Trainings.Update(context.Background(), "missing", models.UpdateTrainingRequest{Title: ptr("x")})

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEventsCreate_WhenEndBeforeStart_ThenValidationFailed(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	ev := validEvent()
	ev.StartDate, ev.EndDate = "2024-03-05", "2024-03-01"

	// Act
	_, err := cat.Events.Create(context.Background(), ev)

	// Assert
	assert.Equal(t, []string{"endDate"}, problemFields(t, err))
	all, _ := cat.Events.List(context.Background())
	assert.Empty(t, all)
}

func TestEventsCreate_WhenFieldsMalformed_ThenEveryProblemReported(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	ev := models.Event{
		StartDate: "tomorrow",
		EndDate:   "2024-03-01",
		StartTime: "9",
		EndTime:   "17:00",
		TimeZone:  "Atlantis/Capital",
	}

	// Act
	_, err := cat.Events.Create(context.Background(), ev)

	// Assert
	assert.ElementsMatch(t, []string{"title", "startDate", "startTime", "timeZone"}, problemFields(t, err))
}

func TestEventsCreate_WhenTrainingReferenceDangling_ThenValidationFailed(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	ev := validEvent()
	ev.TrainingID = "does-not-exist"

	// Act
	_, err := cat.Events.Create(context.Background(), ev)

	// Assert
	assert.Equal(t, []string{"trainingId"}, problemFields(t, err))
}

func TestEventsCreate_WhenTrainingExists_ThenAccepted(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	training, err := cat.Trainings.Create(context.Background(), models.Training{
		Title: "Go", Description: "Intro", Duration: "2 days", Level: "beginner",
	})
	require.NoError(t, err)
	ev := validEvent()
	ev.TrainingID = training.ID

	// Act
	created, err := cat.Events.Create(context.Background(), ev)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, training.ID, created.TrainingID)
}

func TestTrainingsDelete_WhenEventReferencesIt_ThenConflictAndEventStillEditable(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	training, err := cat.Trainings.Create(context.Background(), models.Training{
		Title: "Go", Description: "Intro", Duration: "2 days", Level: "beginner",
	})
	require.NoError(t, err)
	ev := validEvent()
	ev.TrainingID = training.ID
	event, err := cat.Events.Create(context.Background(), ev)
	require.NoError(t, err)

	// Act
	deleteErr := cat.Trainings.Delete(context.Background(), training.ID)
	_, updateErr := cat.Events.Update(context.Background(), event.ID, models.UpdateEventRequest{Title: ptr("renamed")})

	// Assert
	var conflict ConflictError
	require.ErrorAs(t, deleteErr, &conflict)
	_, err = cat.Trainings.Get(context.Background(), training.ID)
	assert.NoError(t, err)
	assert.NoError(t, updateErr)
}

func TestTrainingsDelete_WhenReferencingEventRemoved_ThenAllowed(t *testing.T) {
	cat, _, _ := newCatalog(t)
	training, err := cat.Trainings.Create(context.Background(), models.Training{
		Title: "Go", Description: "Intro", Duration: "2 days", Level: "beginner",
	})
	require.NoError(t, err)
	ev := validEvent()
	ev.TrainingID = training.ID
	event, err := cat.Events.Create(context.Background(), ev)
	require.NoError(t, err)
	require.NoError(t, cat.Events.Delete(context.Background(), event.ID))

	err = cat.Trainings.Delete(context.Background(), training.ID)

	assert.NoError(t, err)
}

func TestTrainingsDelete_WhenRacingEventCreate_ThenNoDanglingReference(t *testing.T) {
	for i := 0; i < 20; i++ {
		// Arrange
		cat, _, _ := newCatalog(t)
		training, err := cat.Trainings.Create(context.Background(), models.Training{
			Title: "Go", Description: "Intro", Duration: "2 days", Level: "beginner",
		})
		require.NoError(t, err)
		ev := validEvent()
		ev.TrainingID = training.ID

		// Act
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = cat.Events.Create(context.Background(), ev)
		}()
		go func() {
			defer wg.Done()
			_ = cat.Trainings.Delete(context.Background(), training.ID)
		}()
		wg.Wait()

		// Assert
		events, err := cat.Events.List(context.Background())
		require.NoError(t, err)
		_, getErr := cat.Trainings.Get(context.Background(), training.ID)
		if len(events) == 1 {
			assert.NoError(t, getErr, "event committed but its training is gone")
		} else {
			assert.ErrorIs(t, getErr, storage.ErrNotFound)
		}
	}
}

func TestEventsCreate_WhenEndTimeNotAfterStartTime_ThenValidationFailed(t *testing.T) {
	for _, tc := range []struct{ start, end string }{
		{"17:00", "09:00"},
		{"09:00", "09:00"},
	} {
		cat, _, _ := newCatalog(t)
		ev := validEvent()
		ev.StartTime, ev.EndTime = tc.start, tc.end

		_, err := cat.Events.Create(context.Background(), ev)

		assert.Equal(t, []string{"endTime"}, problemFields(t, err), "%s-%s", tc.start, tc.end)
	}
}

func TestEventsUpdate_WhenPatchInvertsDates_ThenRejectedAndUnchanged(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	created, err := cat.Events.Create(context.Background(), validEvent())
	require.NoError(t, err)

	// Act
	_, err = cat.Events.Update(context.Background(), created.ID, models.UpdateEventRequest{EndDate: ptr("2024-02-01")})

	// Assert
	assert.Equal(t, []string{"endDate"}, problemFields(t, err))
	got, _ := cat.Events.Get(context.Background(), created.ID)
	assert.Equal(t, "2024-03-03", got.EndDate)
}

func TestEventsOnDate_WhenEventsOverlap_ThenStoredOrder(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	a := validEvent()
	a.Title = "A"
	b := validEvent()
	b.Title, b.StartDate, b.EndDate = "B", "2024-03-03", "2024-03-05"
	for _, ev := range []models.Event{a, b} {
		_, err := cat.Events.Create(context.Background(), ev)
		require.NoError(t, err)
	}
	day, _ := scheduler.ParseDate("2024-03-03")

	// Act
	got, err := cat.Events.OnDate(context.Background(), day)

	// Assert
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "B", got[1].Title)
}

func TestEventsAgenda_WhenMissing_ThenNotFound(t *testing.T) {
	cat, _, _ := newCatalog(t)

	_, err := cat.Events.Agenda(context.Background(), "missing")

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestContactsSubmit_WhenValid_ThenStatusNewAndCreatedAtStamped(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)

	// Act
	created, err := cat.Contacts.Submit(context.Background(), models.ContactSubmission{
		Name: "Grace", Email: "grace@example.com", Message: "hello",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusNew, created.Status)
	assert.True(t, epoch.Equal(created.CreatedAt))
}

func TestContactsSubmit_WhenEmailRejectedByBindingRules_ThenRejected(t *testing.T) {
	for _, email := range []string{"", "not-an-address", "Ada <ada@example.com>"} {
		cat, _, _ := newCatalog(t)

		_, err := cat.Contacts.Submit(context.Background(), models.ContactSubmission{
			Name: "Ada", Email: email, Message: "hello",
		})

		assert.Equal(t, []string{"email"}, problemFields(t, err), "email %q", email)
	}
}

func TestContactsUpdate_WhenStatusUnknown_ThenRejected(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	created, err := cat.Contacts.Submit(context.Background(), models.ContactSubmission{
		Name: "Grace", Email: "grace@example.com", Message: "hello",
	})
	require.NoError(t, err)
	bogus := models.ContactStatus("spam")

	// Act
	_, err = cat.Contacts.Update(context.Background(), created.ID, models.UpdateContactRequest{Status: &bogus})

	// Assert
	assert.Equal(t, []string{"status"}, problemFields(t, err))
}

func TestSiteContent_WhenUnset_ThenEmptyDefaults(t *testing.T) {
	cat, _, _ := newCatalog(t)

	got, err := cat.Site.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.SiteContentID, got.ID)
	assert.Empty(t, got.Title)
}

func TestSiteContentPut_WhenCalledTwice_ThenSingleRecordReplaced(t *testing.T) {
	// Arrange
	cat, clk, _ := newCatalog(t)
	first := models.UpdateSiteContentRequest{Title: "About", Description: "d", Vision: "v", Mission: "m"}
	second := models.UpdateSiteContentRequest{Title: "About us", Description: "d2", Vision: "v2", Mission: "m2"}

	// Act
	_, err := cat.Site.Put(context.Background(), first)
	require.NoError(t, err)
	clk.Advance(time.Minute)
	updated, err := cat.Site.Put(context.Background(), second)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "About us", updated.Title)
	assert.True(t, epoch.Equal(updated.CreatedAt))
	assert.True(t, epoch.Add(time.Minute).Equal(updated.UpdatedAt))
	got, _ := cat.Site.Get(context.Background())
	assert.Equal(t, updated, got)
}

func TestSiteContentPut_WhenFieldBlank_ThenRejected(t *testing.T) {
	cat, _, _ := newCatalog(t)

	_, err := cat.Site.Put(context.Background(), models.UpdateSiteContentRequest{Title: "About"})

	assert.ElementsMatch(t, []string{"description", "vision", "mission"}, problemFields(t, err))
}

func TestUsersCreate_WhenUsernameTakenIgnoringCase_ThenConflict(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	_, err := cat.Users.Create(context.Background(), models.User{Username: "admin", PasswordHash: "h", Role: models.RoleAdmin})
	require.NoError(t, err)

	// Act
	_, err = cat.Users.Create(context.Background(), models.User{Username: "Admin", PasswordHash: "h", Role: models.RoleUser})

	// Assert
	var conflict ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestUsersCreate_WhenConcurrentSameName_ThenExactlyOneSucceeds(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup

	// Act
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cat.Users.Create(context.Background(), models.User{Username: "racer", PasswordHash: "h", Role: models.RoleUser})
		}(i)
	}
	wg.Wait()

	// Assert
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	users, _ := cat.Users.List(context.Background())
	assert.Len(t, users, 1)
}

func TestUsersFindByUsername(t *testing.T) {
	// Arrange
	cat, _, _ := newCatalog(t)
	created, err := cat.Users.Create(context.Background(), models.User{Username: "  editor ", PasswordHash: "h", Role: models.RoleUser})
	require.NoError(t, err)

	// Act
	found, ok, err := cat.Users.FindByUsername(context.Background(), "EDITOR")
	_, missing, _ := cat.Users.FindByUsername(context.Background(), "nobody")

	// Assert
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, missing)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "editor", found.Username)
}

func TestValidationError_Message(t *testing.T) {
	err := ValidationError{Problems: []Problem{{Field: "title", Message: "is required"}, {Field: "price", Message: "must not be negative"}}}

	assert.Equal(t, "validation failed: title is required; price must not be negative", err.Error())
	assert.Equal(t, "validation failed: endDate bad", NewValidationError("endDate", "bad").Error())
}
