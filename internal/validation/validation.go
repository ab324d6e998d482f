// Package validation enforces format and business rules on a lead before
// anything is persisted. Expected failures are reported in a Result, never
// as errors.
package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"container_leads_backend/internal/leads/domain"
	"container_leads_backend/internal/pricing"
	"container_leads_backend/platform/phone"

	"github.com/shopspring/decimal"
)

const (
	msgNameRequired     = "El nombre es obligatorio"
	msgPhoneLength      = "El teléfono debe tener 10 dígitos"
	msgPhonePrefix      = "El teléfono no puede iniciar con 0 o 1"
	msgEmailRequired    = "El correo electrónico es obligatorio"
	msgEmailInvalid     = "El correo electrónico no es válido"
	msgPostalInvalid    = "El código postal debe tener 5 dígitos"
	msgPostalRequired   = "El código postal es obligatorio"
	msgServiceInvalid   = "Selecciona un tipo de servicio válido"
	msgHasLandRequired  = "Indica si cuentas con terreno"
	msgLandPostalNeeded = "Indica el código postal del terreno"
	msgSizeRequired     = "Selecciona el tamaño del contenedor"
	msgDurationRequired = "Selecciona la duración de la renta"
	msgDurationInvalid  = "La duración debe ser un número de meses o 12+"
	msgSizeInvalid      = "Selecciona un tamaño de contenedor válido"
	msgLocationRequired = "Indica dónde se usará el contenedor"
	msgLocationInvalid  = "Selecciona una ubicación válida"
	msgModelRequired    = "Selecciona un modelo"
	msgBudgetMinimum    = "El presupuesto mínimo para %s es de $%s MXN"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalPattern = regexp.MustCompile(`^[0-9]{5}$`)
)

// Result is the outcome of a check. Errors keeps the order in which rules ran.
type Result struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`
}

func result(errs []string) Result {
	if len(errs) == 0 {
		return Result{Valid: true, Errors: []string{}}
	}
	return Result{Valid: false, Errors: errs}
}

// collector accumulates messages once each, in order.
type collector struct {
	errs []string
	seen map[string]struct{}
}

func (c *collector) add(r Result) {
	for _, msg := range r.Errors {
		c.addMsg(msg)
	}
}

func (c *collector) addMsg(msg string) {
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, dup := c.seen[msg]; dup {
		return
	}
	c.seen[msg] = struct{}{}
	c.errs = append(c.errs, msg)
}

func (c *collector) result() Result {
	return result(c.errs)
}

// ValidatePhone strips non-digits and requires 10 digits not starting with 0 or 1.
func ValidatePhone(raw string) Result {
	digits := phone.Digits(raw)
	if len(digits) != 10 {
		return result([]string{msgPhoneLength})
	}
	if digits[0] == '0' || digits[0] == '1' {
		return result([]string{msgPhonePrefix})
	}
	return result(nil)
}

// ValidateEmail checks local@domain.tld. Empty is only an error when required.
func ValidateEmail(email string, required bool) Result {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		if required {
			return result([]string{msgEmailRequired})
		}
		return result(nil)
	}
	if !emailPattern.MatchString(trimmed) {
		return result([]string{msgEmailInvalid})
	}
	return result(nil)
}

// ValidatePostalCode requires exactly 5 digits.
func ValidatePostalCode(code string) Result {
	if !postalPattern.MatchString(strings.TrimSpace(code)) {
		return result([]string{msgPostalInvalid})
	}
	return result(nil)
}

// Rules are the tunable business thresholds. RentalSizes and Locations are
// checked only when set.
type Rules struct {
	MinimumBudgets map[domain.ServiceType]decimal.Decimal
	RentalSizes    []string
	Locations      []string
}

// DefaultRules returns the current minimum budgets in MXN.
func DefaultRules() Rules {
	return Rules{
		MinimumBudgets: map[domain.ServiceType]decimal.Decimal{
			domain.ServiceStandardModel: decimal.NewFromInt(50000),
			domain.ServiceCustom:        decimal.NewFromInt(150000),
		},
	}
}

// RulesForCatalog returns DefaultRules plus the sizes and locations the
// catalog can price.
func RulesForCatalog(c *pricing.Catalog) Rules {
	rules := DefaultRules()
	rules.RentalSizes = c.Sizes()
	rules.Locations = c.Locations()
	return rules
}

// Service applies Rules. It holds no per-request state.
type Service struct {
	rules Rules
}

func NewService(rules Rules) *Service {
	return &Service{rules: rules}
}

// BusinessRuleInput is the subset of a lead the business rules look at.
type BusinessRuleInput struct {
	ServiceType domain.ServiceType
	Budget      string
	PostalCode  string
	HasLand     *bool
}

// ValidateBusinessRules checks the minimum budget for the service type and,
// for home builds, the land answer. A budget that cannot be read as a number
// is not judged here.
func (s *Service) ValidateBusinessRules(in BusinessRuleInput) Result {
	var c collector

	if minimum, ok := s.rules.MinimumBudgets[in.ServiceType]; ok {
		if budget, parsed := domain.ParseBudget(in.Budget); parsed && budget.LessThan(minimum) {
			c.addMsg(fmt.Sprintf(msgBudgetMinimum, in.ServiceType.Label(), pricing.GroupThousands(minimum)))
		}
	}

	if in.ServiceType.RequiresLandAnswer() {
		switch {
		case in.HasLand == nil:
			c.addMsg(msgHasLandRequired)
		case *in.HasLand:
			if strings.TrimSpace(in.PostalCode) == "" {
				c.addMsg(msgLandPostalNeeded)
			} else {
				c.add(ValidatePostalCode(in.PostalCode))
			}
		}
	}

	return c.result()
}

// LeadData is everything the intake form sends that rules apply to.
type LeadData struct {
	Name              string
	Phone             string
	Email             string
	Company           string
	ServiceType       string
	PostalCode        string
	Budget            string
	HasLand           *bool
	ContactPreference string
	Size              string
	Duration          string
	Location          string
	Model             string
}

// ValidateLeadData runs every rule and returns all messages at once.
func (s *Service) ValidateLeadData(in LeadData) Result {
	var c collector

	if strings.TrimSpace(in.Name) == "" {
		c.addMsg(msgNameRequired)
	}
	c.add(ValidatePhone(in.Phone))
	c.add(ValidateEmail(in.Email, strings.EqualFold(strings.TrimSpace(in.ContactPreference), "email")))

	serviceType, ok := domain.ParseServiceType(in.ServiceType)
	if !ok {
		c.addMsg(msgServiceInvalid)
		if strings.TrimSpace(in.PostalCode) != "" {
			c.add(ValidatePostalCode(in.PostalCode))
		}
		return c.result()
	}

	switch {
	case needsPostalCode(serviceType) && strings.TrimSpace(in.PostalCode) == "":
		c.addMsg(msgPostalRequired)
	case strings.TrimSpace(in.PostalCode) != "":
		c.add(ValidatePostalCode(in.PostalCode))
	}

	switch serviceType {
	case domain.ServiceStorage, domain.ServiceStorageAndMoving:
		s.checkRental(&c, in)
	case domain.ServiceStandardModel:
		if strings.TrimSpace(in.Model) == "" {
			c.addMsg(msgModelRequired)
		}
	}

	c.add(s.ValidateBusinessRules(BusinessRuleInput{
		ServiceType: serviceType,
		Budget:      in.Budget,
		PostalCode:  in.PostalCode,
		HasLand:     in.HasLand,
	}))

	return c.result()
}

func (s *Service) checkRental(c *collector, in LeadData) {
	size := strings.TrimSpace(in.Size)
	switch {
	case size == "":
		c.addMsg(msgSizeRequired)
	case len(s.rules.RentalSizes) > 0 && !slices.Contains(s.rules.RentalSizes, size):
		c.addMsg(msgSizeInvalid)
	}

	if strings.TrimSpace(in.Duration) == "" {
		c.addMsg(msgDurationRequired)
	} else if _, err := pricing.ParseDuration(in.Duration); err != nil {
		c.addMsg(msgDurationInvalid)
	}

	location := strings.TrimSpace(in.Location)
	switch {
	case location == "":
		c.addMsg(msgLocationRequired)
	case len(s.rules.Locations) > 0 && !slices.Contains(s.rules.Locations, location):
		c.addMsg(msgLocationInvalid)
	}
}

func needsPostalCode(t domain.ServiceType) bool {
	switch t {
	case domain.ServiceStorage, domain.ServiceMoving, domain.ServiceStorageAndMoving:
		return true
	default:
		return false
	}
}
