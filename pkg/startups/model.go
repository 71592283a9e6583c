package startups

import "time"

// StartupProfile is the startup aggregate root. UserID is the public id;
// the internal ID never leaves the server.
type StartupProfile struct {
	ID                       int64     `json:"-"`
	UserID                   string    `json:"user_id"`
	Name                     string    `json:"name"`
	EntityName               string    `json:"entity_name"`
	Sector                   string    `json:"sector"`
	Categories               string    `json:"categories"`
	Year                     int       `json:"year"`
	BrandName                *string   `json:"brand_name,omitempty"`
	EntityRegistrationStatus *bool     `json:"entityRegistrationStatus,omitempty"`
	Stage                    *string   `json:"stage,omitempty"`
	DetailsText              *string   `json:"detailsText,omitempty"`
	Size                     int       `json:"size"`
	IncubationStatus         bool      `json:"incubation_status"`
	IsApproved               bool      `json:"isApproved"`
	StartupIndiaRegister     bool      `json:"startupIndiaRegister"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// ProfileUpdate lists the fields a founder may change. Approval is not one
// of them.
type ProfileUpdate struct {
	Name                     *string `json:"name"`
	EntityName               *string `json:"entity_name"`
	Sector                   *string `json:"sector"`
	Categories               *string `json:"categories"`
	Year                     *int    `json:"year"`
	BrandName                *string `json:"brand_name"`
	EntityRegistrationStatus *bool   `json:"entityRegistrationStatus"`
	Stage                    *string `json:"stage"`
	DetailsText              *string `json:"detailsText"`
	Size                     *int    `json:"size"`
	IncubationStatus         *bool   `json:"incubation_status"`
	StartupIndiaRegister     *bool   `json:"startupIndiaRegister"`
}

// assignments returns column/value pairs for the fields that are set.
func (u ProfileUpdate) assignments() ([]string, []any) {
	var cols []string
	var vals []any
	add := func(col string, set bool, v any) {
		if set {
			cols = append(cols, col)
			vals = append(vals, v)
		}
	}
	add("name", u.Name != nil, u.Name)
	add("entity_name", u.EntityName != nil, u.EntityName)
	add("sector", u.Sector != nil, u.Sector)
	add("categories", u.Categories != nil, u.Categories)
	add("year", u.Year != nil, u.Year)
	add("brand_name", u.BrandName != nil, u.BrandName)
	add("entity_registration_status", u.EntityRegistrationStatus != nil, u.EntityRegistrationStatus)
	add("stage", u.Stage != nil, u.Stage)
	add("details_text", u.DetailsText != nil, u.DetailsText)
	add("size", u.Size != nil, u.Size)
	add("incubation_status", u.IncubationStatus != nil, u.IncubationStatus)
	add("startup_india_register", u.StartupIndiaRegister != nil, u.StartupIndiaRegister)
	return cols, vals
}

func (u ProfileUpdate) IsEmpty() bool {
	cols, _ := u.assignments()
	return len(cols) == 0
}

// FounderContact is the subset of a founder needed to tell them about a decision.
type FounderContact struct {
	FounderID string
	Name      string
	Email     string
}
