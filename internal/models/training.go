package models

// Training is a course offering in the catalog.
type Training struct {
	Meta
	Title         string   `json:"title" example:"Kubernetes Fundamentals"`
	Description   string   `json:"description" example:"Hands-on introduction to cluster operations"`
	Duration      string   `json:"duration" example:"3 days"`
	Level         string   `json:"level" example:"beginner"`
	Price         float64  `json:"price" example:"1200"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	Objectives    []string `json:"objectives,omitempty"`
	Curriculum    []string `json:"curriculum,omitempty"`
	TrainerID     string   `json:"trainerId,omitempty" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	ImageURL      string   `json:"imageUrl,omitempty" example:"https://cdn.example.com/k8s.png"`
} // @name Training

// CreateTrainingRequest represents the request to create a training.
type CreateTrainingRequest struct {
	Title         string   `json:"title" binding:"required" example:"Kubernetes Fundamentals"`
	Description   string   `json:"description" binding:"required" example:"Hands-on introduction to cluster operations"`
	Duration      string   `json:"duration" binding:"required" example:"3 days"`
	Level         string   `json:"level" binding:"required" example:"beginner"`
	Price         *float64 `json:"price" binding:"required,gte=0" example:"1200"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	Objectives    []string `json:"objectives,omitempty"`
	Curriculum    []string `json:"curriculum,omitempty"`
	TrainerID     string   `json:"trainerId,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty" binding:"omitempty,url"`
} // @name CreateTrainingRequest

// Record converts the request into a new training.
func (r CreateTrainingRequest) Record() Training {
	t := Training{
		Title:         r.Title,
		Description:   r.Description,
		Duration:      r.Duration,
		Level:         r.Level,
		Prerequisites: r.Prerequisites,
		Objectives:    r.Objectives,
		Curriculum:    r.Curriculum,
		TrainerID:     r.TrainerID,
		ImageURL:      r.ImageURL,
	}
	if r.Price != nil {
		t.Price = *r.Price
	}
	return t
}

// UpdateTrainingRequest represents a partial training update. Absent fields
// are left untouched.
type UpdateTrainingRequest struct {
	Title         *string   `json:"title,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Duration      *string   `json:"duration,omitempty"`
	Level         *string   `json:"level,omitempty"`
	Price         *float64  `json:"price,omitempty" binding:"omitempty,gte=0"`
	Prerequisites *[]string `json:"prerequisites,omitempty"`
	Objectives    *[]string `json:"objectives,omitempty"`
	Curriculum    *[]string `json:"curriculum,omitempty"`
	TrainerID     *string   `json:"trainerId,omitempty"`
	ImageURL      *string   `json:"imageUrl,omitempty" binding:"omitempty,url"`
} // @name UpdateTrainingRequest

// Apply overwrites every field present in the request.
func (r UpdateTrainingRequest) Apply(t *Training) {
	set(&t.Title, r.Title)
	set(&t.Description, r.Description)
	set(&t.Duration, r.Duration)
	set(&t.Level, r.Level)
	set(&t.Price, r.Price)
	set(&t.Prerequisites, r.Prerequisites)
	set(&t.Objectives, r.Objectives)
	set(&t.Curriculum, r.Curriculum)
	set(&t.TrainerID, r.TrainerID)
	set(&t.ImageURL, r.ImageURL)
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
