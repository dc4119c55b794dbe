package models

// SiteContentID is the identifier of the single site content record.
const SiteContentID = "about"

// SiteContent is the editable "about" copy shown on the public site.
type SiteContent struct {
	Meta
	Title       string `json:"title" example:"About us"`
	Description string `json:"description" example:"We teach practical infrastructure skills."`
	Vision      string `json:"vision" example:"Every team ships with confidence."`
	Mission     string `json:"mission" example:"Hands-on training led by practitioners."`
} // @name SiteContent

// UpdateSiteContentRequest replaces the site content.
type UpdateSiteContentRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Vision      string `json:"vision" binding:"required"`
	Mission     string `json:"mission" binding:"required"`
} // @name UpdateSiteContentRequest

// Apply overwrites the content fields.
func (r UpdateSiteContentRequest) Apply(s *SiteContent) {
	s.Title = r.Title
	s.Description = r.Description
	s.Vision = r.Vision
	s.Mission = r.Mission
}
