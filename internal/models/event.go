package models

import "time"

// Event is a scheduled occurrence spanning one or more calendar days.
// StartDate and EndDate are inclusive YYYY-MM-DD dates; StartTime and EndTime
// are HH:MM wall-clock times in TimeZone.
type Event struct {
	Meta
	Title       string `json:"title" example:"Kubernetes Fundamentals, spring cohort"`
	Description string `json:"description,omitempty" example:"Three day instructor-led workshop"`
	StartDate   string `json:"startDate" example:"2024-03-01"`
	EndDate     string `json:"endDate" example:"2024-03-03"`
	StartTime   string `json:"startTime" example:"09:00"`
	EndTime     string `json:"endTime" example:"17:00"`
	TimeZone    string `json:"timeZone" example:"Europe/Berlin"`
	Location    string `json:"location,omitempty" example:"Berlin, Room 4"`
	TrainingID  string `json:"trainingId,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	ImageURL    string `json:"imageUrl,omitempty"`
} // @name Event

// CreateEventRequest represents the request to schedule an event.
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required" example:"Kubernetes Fundamentals, spring cohort"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate" binding:"required,datetime=2006-01-02" example:"2024-03-01"`
	EndDate     string `json:"endDate" binding:"required,datetime=2006-01-02" example:"2024-03-03"`
	StartTime   string `json:"startTime" binding:"required,datetime=15:04" example:"09:00"`
	EndTime     string `json:"endTime" binding:"required,datetime=15:04" example:"17:00"`
	TimeZone    string `json:"timeZone" binding:"required,timezone" example:"Europe/Berlin"`
	Location    string `json:"location,omitempty"`
	TrainingID  string `json:"trainingId,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty" binding:"omitempty,url"`
} // @name CreateEventRequest

// Record converts the request into a new event.
func (r CreateEventRequest) Record() Event {
	return Event{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		TimeZone:    r.TimeZone,
		Location:    r.Location,
		TrainingID:  r.TrainingID,
		ImageURL:    r.ImageURL,
	}
}

// UpdateEventRequest represents a partial event update.
type UpdateEventRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"startDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"endDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"startTime,omitempty" binding:"omitempty,datetime=15:04"`
	EndTime     *string `json:"endTime,omitempty" binding:"omitempty,datetime=15:04"`
	TimeZone    *string `json:"timeZone,omitempty" binding:"omitempty,timezone"`
	Location    *string `json:"location,omitempty"`
	TrainingID  *string `json:"trainingId,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty" binding:"omitempty,url"`
} // @name UpdateEventRequest

// Apply overwrites every field present in the request.
func (r UpdateEventRequest) Apply(e *Event) {
	set(&e.Title, r.Title)
	set(&e.Description, r.Description)
	set(&e.StartDate, r.StartDate)
	set(&e.EndDate, r.EndDate)
	set(&e.StartTime, r.StartTime)
	set(&e.EndTime, r.EndTime)
	set(&e.TimeZone, r.TimeZone)
	set(&e.Location, r.Location)
	set(&e.TrainingID, r.TrainingID)
	set(&e.ImageURL, r.ImageURL)
}

// ListEventsQuery represents query parameters for listing events.
type ListEventsQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02" example:"2024-03-03"`
} // @name ListEventsQuery

// CalendarQuery selects the inclusive date range of a calendar view.
type CalendarQuery struct {
	From string `form:"from" binding:"required,datetime=2006-01-02" example:"2024-03-01"`
	To   string `form:"to" binding:"required,datetime=2006-01-02" example:"2024-03-31"`
} // @name CalendarQuery

// CalendarResponse lists the dates in a range on which any event takes place.
type CalendarResponse struct {
	From string   `json:"from" example:"2024-03-01"`
	To   string   `json:"to" example:"2024-03-31"`
	Days []string `json:"days" example:"2024-03-01,2024-03-02"`
} // @name CalendarResponse

// EventDaysResponse enumerates the calendar days an event covers.
type EventDaysResponse struct {
	EventID   string     `json:"eventId" example:"550e8400-e29b-41d4-a716-446655440000"`
	TimeRange string     `json:"timeRange" example:"09:00 - 17:00"`
	TimeZone  string     `json:"timeZone" example:"Europe/Berlin"`
	Days      []EventDay `json:"days"`
} // @name EventDaysResponse

// EventDay is one calendar day of an event with its session bounds.
type EventDay struct {
	Date  string    `json:"date" example:"2024-03-01"`
	Start time.Time `json:"start" example:"2024-03-01T09:00:00+01:00"`
	End   time.Time `json:"end" example:"2024-03-01T17:00:00+01:00"`
} // @name EventDay
