package registration

import (
	"strings"

	"incubator/pkg/startups"
)

// Payload is the flattened four-step registration form.
type Payload struct {
	// startup basics
	Name                     string  `json:"name"`
	EntityName               string  `json:"entity_name"`
	Sector                   string  `json:"sector"`
	Categories               string  `json:"categories"`
	Year                     int     `json:"year"`
	BrandName                *string `json:"brand_name,omitempty"`
	EntityRegistrationStatus *bool   `json:"entityRegistrationStatus,omitempty"`
	Stage                    *string `json:"stage,omitempty"`
	DetailsText              *string `json:"detailsText,omitempty"`
	Size                     int     `json:"size"`
	IncubationStatus         bool    `json:"incubation_status"`
	StartupIndiaRegister     bool    `json:"startupIndiaRegister"`

	// registration and compliance
	RegNumber      string `json:"reg_number,omitempty"`
	RegDate        string `json:"reg_date,omitempty"`
	RegCertificate string `json:"reg_certificate,omitempty"`
	GST            string `json:"gst,omitempty"`
	IPR            bool   `json:"ipr"`

	// registered address
	AddrLine1 string `json:"addrLine1,omitempty"`
	AddrLine2 string `json:"addLine2,omitempty"`
	State     string `json:"state,omitempty"`
	City      string `json:"city,omitempty"`
	District  string `json:"district,omitempty"`
	Pincode   int    `json:"pincode,omitempty"`

	// founder, credentials and documents
	FounderName  string  `json:"founderName"`
	Designation  string  `json:"designation,omitempty"`
	Mobile       string  `json:"mobile,omitempty"`
	Address      string  `json:"address,omitempty"`
	Equity       float64 `json:"equity"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	PitchDeck    string  `json:"pitch_deck,omitempty"`
	AadharNumber string  `json:"Aadhar_Number,omitempty"`
	PanNumber    string  `json:"Pan_Number,omitempty"`
	DippNumber   string  `json:"Dipp_number,omitempty"`
}

const missingFieldsMessage = "Required fields missing: name, entity_name, sector, categories, year, size, founderName, email, password"

// hasRequired checks only the minimal server-side subset.
func (p Payload) hasRequired() bool {
	for _, v := range []string{p.Name, p.EntityName, p.Sector, p.Categories, p.FounderName, p.Email, p.Password} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return p.Year != 0 && p.Size != 0
}

func (p Payload) hasDetails() bool   { return strings.TrimSpace(p.RegNumber) != "" }
func (p Payload) hasAddress() bool   { return strings.TrimSpace(p.AddrLine1) != "" }
func (p Payload) hasDocuments() bool { return p.PitchDeck != "" || p.AadharNumber != "" || p.PanNumber != "" || p.DippNumber != "" }

type FounderSummary struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type Result struct {
	Startup startups.StartupProfile `json:"startup"`
	Founder FounderSummary          `json:"founder"`
}
