package client

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"incubator/pkg/registration"
)

const (
	FirstStep = 1
	LastStep  = 4
)

var (
	ErrLastStep    = errors.New("already on the last step")
	ErrNotLastStep = errors.New("submit is only available on the last step")
)

type Step1 struct {
	Name                     string `json:"name" validate:"required"`
	EntityName               string `json:"entity_name" validate:"required"`
	Sector                   string `json:"sector" validate:"required"`
	Categories               string `json:"categories" validate:"required"`
	Year                     int    `json:"year" validate:"min=1900,notfuture"`
	BrandName                string `json:"brand_name"`
	EntityRegistrationStatus bool   `json:"entityRegistrationStatus"`
	Stage                    string `json:"stage"`
	DetailsText              string `json:"detailsText"`
	Size                     int    `json:"size" validate:"min=1"`
	IncubationStatus         bool   `json:"incubation_status"`
	StartupIndiaRegister     bool   `json:"startupIndiaRegister"`
}

type Step2 struct {
	RegNumber      string `json:"reg_number" validate:"required"`
	RegDate        string `json:"reg_date" validate:"required"`
	RegCertificate string `json:"reg_certificate" validate:"required"`
	GST            string `json:"gst" validate:"required"`
	IPR            bool   `json:"ipr"`
}

type Step3 struct {
	AddrLine1 string `json:"addrLine1" validate:"required"`
	AddrLine2 string `json:"addLine2" validate:"required"`
	State     string `json:"state" validate:"required"`
	City      string `json:"city" validate:"required"`
	District  string `json:"district" validate:"required"`
	Pincode   int    `json:"pincode" validate:"min=100000,max=999999"`
}

type Step4 struct {
	FounderName     string  `json:"founderName" validate:"required"`
	Designation     string  `json:"designation" validate:"required"`
	Mobile          string  `json:"mobile" validate:"min=10"`
	Address         string  `json:"address" validate:"required"`
	Equity          float64 `json:"equity" validate:"min=0,max=100"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"min=6,max=100"`
	ConfirmPassword string  `json:"confirmPassword" validate:"required,eqfield=Password"`
	PitchDeck       string  `json:"pitch_deck" validate:"required"`
	AadharNumber    string  `json:"Aadhar_Number" validate:"len=12"`
	PanNumber       string  `json:"Pan_Number" validate:"len=10"`
	DippNumber      string  `json:"Dipp_number" validate:"required"`
}

// fieldMessages maps "<json field>.<tag>" to the text shown under the input.
var fieldMessages = map[string]string{
	"name.required":        "Startup name is required",
	"entity_name.required": "Entity name is required",
	"sector.required":      "Please select a sector",
	"categories.required":  "Please select a category",
	"year.min":             "Year must be after 1900",
	"year.notfuture":       "Year cannot be in the future",
	"size.min":             "Team size must be at least 1",

	"reg_number.required":      "Registration number is required",
	"reg_date.required":        "Registration date is required",
	"reg_certificate.required": "Registration certificate is required",
	"gst.required":             "GST number is required",

	"addrLine1.required": "Address line 1 is required",
	"addLine2.required":  "Address line 2 is required",
	"state.required":     "Please select a state",
	"city.required":      "Please select a city",
	"district.required":  "District is required",
	"pincode.min":        "Invalid PIN code",
	"pincode.max":        "Invalid PIN code",

	"founderName.required":     "Founder name is required",
	"designation.required":     "Please select a designation",
	"mobile.min":               "Mobile number must be at least 10 digits",
	"address.required":         "Founder address is required",
	"equity.min":               "Equity cannot be negative",
	"equity.max":               "Equity cannot exceed 100%",
	"email.required":           "Invalid email address",
	"email.email":              "Invalid email address",
	"password.min":             "Password must be at least 6 characters",
	"password.max":             "Password too long",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords don't match",
	"pitch_deck.required":      "Pitch deck link is required",
	"Aadhar_Number.len":        "Aadhar number must be 12 digits",
	"Pan_Number.len":           "PAN number must be 10 characters",
	"Dipp_number.required":     "DIPP number is required",
}

// FieldErrors maps a form field to its first failing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Registrar submits a flattened registration.
type Registrar interface {
	Register(ctx context.Context, p registration.Payload) (registration.Result, error)
}

// Wizard is the four-step registration form. Only the current step is
// validated when moving forward; going back never validates.
type Wizard struct {
	Step1 Step1
	Step2 Step2
	Step3 Step3
	Step4 Step4

	current   int
	completed map[int]bool
	validate  *validator.Validate
	now       func() time.Time
}

func NewWizard() *Wizard {
	w := &Wizard{
		current:   FirstStep,
		completed: make(map[int]bool),
		now:       time.Now,
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(w.now().Year())
	})
	w.validate = v
	return w
}

func (w *Wizard) Current() int { return w.current }

func (w *Wizard) Completed(step int) bool { return w.completed[step] }

// Validate checks a single step. It returns FieldErrors on failure.
func (w *Wizard) Validate(step int) error {
	var target any
	switch step {
	case 1:
		target = &w.Step1
	case 2:
		target = &w.Step2
	case 3:
		target = &w.Step3
	case 4:
		target = &w.Step4
	default:
		return fmt.Errorf("unknown step %d", step)
	}

	err := w.validate.Struct(target)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out[fe.Field()] = msg
	}
	return out
}

// Next validates the current step and advances on success.
func (w *Wizard) Next() error {
	if err := w.Validate(w.current); err != nil {
		return err
	}
	w.completed[w.current] = true
	if w.current == LastStep {
		return ErrLastStep
	}
	w.current++
	return nil
}

func (w *Wizard) Back() {
	if w.current > FirstStep {
		w.current--
	}
}

// Payload flattens the four steps. confirmPassword is not sent.
func (w *Wizard) Payload() registration.Payload {
	s1, s2, s3, s4 := w.Step1, w.Step2, w.Step3, w.Step4
	entityStatus := s1.EntityRegistrationStatus

	return registration.Payload{
		Name:                     s1.Name,
		EntityName:               s1.EntityName,
		Sector:                   s1.Sector,
		Categories:               s1.Categories,
		Year:                     s1.Year,
		BrandName:                optional(s1.BrandName),
		EntityRegistrationStatus: &entityStatus,
		Stage:                    optional(s1.Stage),
		DetailsText:              optional(s1.DetailsText),
		Size:                     s1.Size,
		IncubationStatus:         s1.IncubationStatus,
		StartupIndiaRegister:     s1.StartupIndiaRegister,

		RegNumber:      s2.RegNumber,
		RegDate:        s2.RegDate,
		RegCertificate: s2.RegCertificate,
		GST:            s2.GST,
		IPR:            s2.IPR,

		AddrLine1: s3.AddrLine1,
		AddrLine2: s3.AddrLine2,
		State:     s3.State,
		City:      s3.City,
		District:  s3.District,
		Pincode:   s3.Pincode,

		FounderName:  s4.FounderName,
		Designation:  s4.Designation,
		Mobile:       s4.Mobile,
		Address:      s4.Address,
		Equity:       s4.Equity,
		Email:        s4.Email,
		Password:     s4.Password,
		PitchDeck:    s4.PitchDeck,
		AadharNumber: s4.AadharNumber,
		PanNumber:    s4.PanNumber,
		DippNumber:   s4.DippNumber,
	}
}

// Submit posts the registration. It is refused before the last step and when
// the last step does not validate.
func (w *Wizard) Submit(ctx context.Context, api Registrar) (registration.Result, error) {
	if w.current != LastStep {
		return registration.Result{}, ErrNotLastStep
	}
	if err := w.Validate(LastStep); err != nil {
		return registration.Result{}, err
	}
	w.completed[LastStep] = true
	return api.Register(ctx, w.Payload())
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
