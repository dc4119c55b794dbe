package models

// ContactStatus tracks how far a contact submission has been handled.
type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusReplied  ContactStatus = "replied"
	ContactStatusArchived ContactStatus = "archived"
)

// Contact is a message left through the public contact form.
type Contact struct {
	Meta
	Name    string        `json:"name" example:"Grace Hopper"`
	Email   string        `json:"email" example:"grace@example.com"`
	Message string        `json:"message" example:"Do you run on-site sessions?"`
	Status  ContactStatus `json:"status,omitempty" example:"new"`
} // @name Contact

// ContactSubmission represents the public contact form payload.
type ContactSubmission struct {
	Name    string `json:"name" binding:"required" example:"Grace Hopper"`
	Email   string `json:"email" binding:"required,email" example:"grace@example.com"`
	Message string `json:"message" binding:"required" example:"Do you run on-site sessions?"`
} // @name ContactSubmission

// Record converts the submission into a new, unhandled contact.
func (r ContactSubmission) Record() Contact {
	return Contact{
		Name:    r.Name,
		Email:   r.Email,
		Message: r.Message,
		Status:  ContactStatusNew,
	}
}

// UpdateContactRequest changes the handling status of a submission.
type UpdateContactRequest struct {
	Status *ContactStatus `json:"status,omitempty" binding:"omitempty,oneof=new read replied archived" example:"read"`
} // @name UpdateContactRequest

// Apply overwrites every field present in the request.
func (r UpdateContactRequest) Apply(c *Contact) {
	set(&c.Status, r.Status)
}
