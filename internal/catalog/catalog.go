// Package catalog holds the typed repositories for every record kind the
// service publishes, together with the rules a record must satisfy before it
// is committed.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhima/catalog-service/internal/models"
	"github.com/dhima/catalog-service/internal/scheduler"
	"github.com/dhima/catalog-service/internal/storage"
	"github.com/dhima/catalog-service/pkg/clock"
	"github.com/go-playground/validator/v10"
)

// fieldRules applies the same tag rules the HTTP binding layer uses.
var fieldRules = validator.New()

// Collection names in the persisted document.
const (
	CollectionTrainings   = "trainings"
	CollectionEvents      = "events"
	CollectionTrainers    = "trainers"
	CollectionContacts    = "contacts"
	CollectionSiteContent = "about"
	CollectionUsers       = "users"
)

// Collections lists every collection the catalog reads or writes.
var Collections = []string{
	CollectionTrainings,
	CollectionEvents,
	CollectionTrainers,
	CollectionContacts,
	CollectionSiteContent,
	CollectionUsers,
}

// Catalog groups the repositories sharing one store.
type Catalog struct {
	Trainings *Resource[models.Training, *models.Training]
	Trainers  *Resource[models.Trainer, *models.Trainer]
	Events    *Events
	Contacts  *Contacts
	Site      *SiteContent
	Users     *Users
}

// New wires every repository to store.
func New(store *storage.Store, clk clock.Clock) *Catalog {
	trainings := NewResource[models.Training](store, CollectionTrainings, clk, validateTraining)
	events := NewEvents(store, clk, trainings)
	trainings.deleteCheck = events.rejectReferenced
	return &Catalog{
		Trainings: trainings,
		Trainers:  NewResource[models.Trainer](store, CollectionTrainers, clk, validateTrainer),
		Events:    events,
		Contacts:  NewContacts(store, clk),
		Site:      NewSiteContent(store, clk),
		Users:     NewUsers(store, clk),
	}
}

func validateTraining(_ context.Context, t models.Training) error {
	var p problems
	p.require("title", t.Title)
	p.require("description", t.Description)
	p.require("duration", t.Duration)
	p.require("level", t.Level)
	if t.Price < 0 {
		p.add("price", "must not be negative")
	}
	return p.err()
}

func validateTrainer(_ context.Context, t models.Trainer) error {
	var p problems
	p.require("name", t.Name)
	p.require("specialization", t.Specialization)
	p.require("experience", t.Experience)
	return p.err()
}

// Events is the event repository. Reads can be narrowed through the
// scheduling queries.
type Events struct {
	*Resource[models.Event, *models.Event]
	trainings *Resource[models.Training, *models.Training]
}

// NewEvents returns the event repository. trainings resolves trainingId
// references.
func NewEvents(store *storage.Store, clk clock.Clock, trainings *Resource[models.Training, *models.Training]) *Events {
	e := &Events{trainings: trainings}
	e.Resource = NewResource[models.Event](store, CollectionEvents, clk, e.validate)
	return e
}

func (e *Events) validate(ctx context.Context, ev models.Event) error {
	var p problems
	p.require("title", ev.Title)

	start, startErr := scheduler.ParseDate(ev.StartDate)
	if startErr != nil {
		p.add("startDate", "must be a YYYY-MM-DD date")
	}
	end, endErr := scheduler.ParseDate(ev.EndDate)
	if endErr != nil {
		p.add("endDate", "must be a YYYY-MM-DD date")
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		p.add("endDate", "must not be before startDate")
	}

	from, fromErr := scheduler.ParseClock(ev.StartTime)
	if fromErr != nil {
		p.add("startTime", "must be an HH:MM time")
	}
	until, untilErr := scheduler.ParseClock(ev.EndTime)
	if untilErr != nil {
		p.add("endTime", "must be an HH:MM time")
	}
	// Sessions are same-day: each day runs from startTime to endTime.
	if fromErr == nil && untilErr == nil && !from.Before(until) {
		p.add("endTime", "must be after startTime")
	}
	if _, err := scheduler.LoadZone(ev.TimeZone); err != nil {
		p.add("timeZone", "must be an IANA time zone name")
	}

	if ev.TrainingID != "" {
		_, err := e.trainings.Get(ctx, ev.TrainingID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			p.add("trainingId", "does not reference an existing training")
		case err != nil:
			return err
		}
	}
	return p.err()
}

// rejectReferenced vetoes deleting a training that events still point to.
func (e *Events) rejectReferenced(ctx context.Context, t models.Training) error {
	events, err := e.List(ctx)
	if err != nil {
		return err
	}
	n := 0
	for _, ev := range events {
		if ev.TrainingID == t.ID {
			n++
		}
	}
	if n > 0 {
		return NewConflictError("training %q is referenced by %d event(s)", t.ID, n)
	}
	return nil
}

// OnDate returns the events taking place on date, in stored order.
func (e *Events) OnDate(ctx context.Context, date scheduler.Date) ([]models.Event, error) {
	events, err := e.List(ctx)
	if err != nil {
		return nil, err
	}
	return scheduler.EventsOnDate(events, date), nil
}

// MarkedDays returns the days in window on which any event takes place.
func (e *Events) MarkedDays(ctx context.Context, window scheduler.Span) ([]scheduler.Date, error) {
	events, err := e.List(ctx)
	if err != nil {
		return nil, err
	}
	return scheduler.MarkedDays(events, window), nil
}

// Agenda returns the per-day sessions of the event with id.
func (e *Events) Agenda(ctx context.Context, id string) (models.EventDaysResponse, error) {
	ev, err := e.Get(ctx, id)
	if err != nil {
		return models.EventDaysResponse{}, err
	}
	return scheduler.Agenda(ev)
}

// Contacts is the repository of contact form submissions.
type Contacts struct {
	*Resource[models.Contact, *models.Contact]
}

// NewContacts returns the contact repository.
func NewContacts(store *storage.Store, clk clock.Clock) *Contacts {
	return &Contacts{Resource: NewResource[models.Contact](store, CollectionContacts, clk, validateContact)}
}

// Submit stores a new submission with status "new".
func (c *Contacts) Submit(ctx context.Context, sub models.ContactSubmission) (models.Contact, error) {
	return c.Create(ctx, sub.Record())
}

func validateContact(_ context.Context, c models.Contact) error {
	var p problems
	p.require("name", c.Name)
	p.require("message", c.Message)
	if err := fieldRules.Var(c.Email, "required,email"); err != nil {
		p.add("email", "must be a valid email address")
	}
	switch c.Status {
	case models.ContactStatusNew, models.ContactStatusRead, models.ContactStatusReplied, models.ContactStatusArchived:
	default:
		p.add("status", fmt.Sprintf("unknown status %q", c.Status))
	}
	return p.err()
}

// SiteContent holds the single editable "about" record.
type SiteContent struct {
	repo  *storage.Repository[models.SiteContent, *models.SiteContent]
	clock clock.Clock
}

// NewSiteContent returns the site content repository.
func NewSiteContent(store *storage.Store, clk clock.Clock) *SiteContent {
	return &SiteContent{
		repo:  storage.NewRepository[models.SiteContent](store, CollectionSiteContent),
		clock: clk,
	}
}

// Get returns the site content, or empty content when none has been saved.
func (s *SiteContent) Get(ctx context.Context) (models.SiteContent, error) {
	content, err := s.repo.Get(ctx, models.SiteContentID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.SiteContent{Meta: models.Meta{ID: models.SiteContentID}}, nil
	}
	return content, err
}

// Put replaces the site content, creating it on first use.
func (s *SiteContent) Put(ctx context.Context, patch Patch[models.SiteContent]) (models.SiteContent, error) {
	return s.repo.Upsert(ctx, models.SiteContentID, func(rec *models.SiteContent, _ bool) error {
		patch.Apply(rec)
		rec.Touch(s.clock.Now())

		var p problems
		p.require("title", rec.Title)
		p.require("description", rec.Description)
		p.require("vision", rec.Vision)
		p.require("mission", rec.Mission)
		return p.err()
	})
}
