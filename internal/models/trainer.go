package models

// Trainer is an instructor profile.
type Trainer struct {
	Meta
	Name           string   `json:"name" example:"Ada Lovelace"`
	Specialization string   `json:"specialization" example:"Cloud infrastructure"`
	Experience     string   `json:"experience" example:"12 years"`
	Education      []string `json:"education,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Achievements   []string `json:"achievements,omitempty"`
	ProfileImage   string   `json:"profileImage,omitempty"`
} // @name Trainer

// CreateTrainerRequest represents the request to add a trainer.
type CreateTrainerRequest struct {
	Name           string   `json:"name" binding:"required" example:"Ada Lovelace"`
	Specialization string   `json:"specialization" binding:"required" example:"Cloud infrastructure"`
	Experience     string   `json:"experience" binding:"required" example:"12 years"`
	Education      []string `json:"education,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Achievements   []string `json:"achievements,omitempty"`
	ProfileImage   string   `json:"profileImage,omitempty" binding:"omitempty,url"`
} // @name CreateTrainerRequest

// Record converts the request into a new trainer.
func (r CreateTrainerRequest) Record() Trainer {
	return Trainer{
		Name:           r.Name,
		Specialization: r.Specialization,
		Experience:     r.Experience,
		Education:      r.Education,
		Certifications: r.Certifications,
		Achievements:   r.Achievements,
		ProfileImage:   r.ProfileImage,
	}
}

// UpdateTrainerRequest represents a partial trainer update.
type UpdateTrainerRequest struct {
	Name           *string   `json:"name,omitempty"`
	Specialization *string   `json:"specialization,omitempty"`
	Experience     *string   `json:"experience,omitempty"`
	Education      *[]string `json:"education,omitempty"`
	Certifications *[]string `json:"certifications,omitempty"`
	Achievements   *[]string `json:"achievements,omitempty"`
	ProfileImage   *string   `json:"profileImage,omitempty" binding:"omitempty,url"`
} // @name UpdateTrainerRequest

// Apply overwrites every field present in the request.
func (r UpdateTrainerRequest) Apply(t *Trainer) {
	set(&t.Name, r.Name)
	set(&t.Specialization, r.Specialization)
	set(&t.Experience, r.Experience)
	set(&t.Education, r.Education)
	set(&t.Certifications, r.Certifications)
	set(&t.Achievements, r.Achievements)
	set(&t.ProfileImage, r.ProfileImage)
}
