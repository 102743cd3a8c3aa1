package domain

import "fmt"

// DomainID identifies an institution domain configuration.
type DomainID string

const (
	DomainCollege      DomainID = "college"
	DomainHospital     DomainID = "hospital"
	DomainMunicipality DomainID = "municipality"
)

// UserType is the reporter role vocabulary of a domain.
type UserType string

// DomainConfig holds the per-institution classification vocabulary:
// categories, departments, the category->department routing table, and the
// escalation signals that bump severity. Configs are built once at process
// start and never mutated afterwards.
type DomainConfig struct {
	ID          DomainID `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`

	// Ordered vocabularies. Order is display order and the category
	// declaration order used for probability tie-breaks.
	Categories  []string `json:"categories"`
	Departments []string `json:"departments"`

	SeverityLevels []Severity `json:"severity_levels"`
	PriorityLevels []Priority `json:"priority_levels"`

	UserTypes []UserType `json:"user_types"`

	// Routing maps a category to its owning department.
	// A category absent from this table is a routing gap.
	Routing map[string]string `json:"routing"`

	// EscalationCategories bump severity one level when they win the
	// classification (safety, financial-deadline style categories).
	EscalationCategories []string `json:"escalation_categories"`

	// EscalationKeywords bump severity one level when present in the
	// complaint text regardless of category.
	EscalationKeywords []string `json:"escalation_keywords"`
}

// Clone returns a deep copy. The registry hands out clones so callers
// cannot mutate the shared vocabularies or routing table.
func (c *DomainConfig) Clone() *DomainConfig {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Categories = append([]string(nil), c.Categories...)
	cp.Departments = append([]string(nil), c.Departments...)
	cp.SeverityLevels = append([]Severity(nil), c.SeverityLevels...)
	cp.PriorityLevels = append([]Priority(nil), c.PriorityLevels...)
	cp.UserTypes = append([]UserType(nil), c.UserTypes...)
	cp.EscalationCategories = append([]string(nil), c.EscalationCategories...)
	cp.EscalationKeywords = append([]string(nil), c.EscalationKeywords...)
	if c.Routing != nil {
		cp.Routing = make(map[string]string, len(c.Routing))
		for cat, dept := range c.Routing {
			cp.Routing[cat] = dept
		}
	}
	return &cp
}

// HasCategory reports whether the category belongs to this domain.
func (c *DomainConfig) HasCategory(category string) bool {
	for _, cat := range c.Categories {
		if cat == category {
			return true
		}
	}
	return false
}

// HasDepartment reports whether the department belongs to this domain.
func (c *DomainConfig) HasDepartment(department string) bool {
	for _, dept := range c.Departments {
		if dept == department {
			return true
		}
	}
	return false
}

// HasUserType reports whether the user type belongs to this domain.
func (c *DomainConfig) HasUserType(ut UserType) bool {
	for _, t := range c.UserTypes {
		if t == ut {
			return true
		}
	}
	return false
}

// RouteCategory resolves the owning department for a category.
// The second return is false when the routing table has no entry.
func (c *DomainConfig) RouteCategory(category string) (string, bool) {
	dept, ok := c.Routing[category]
	return dept, ok
}

// CategoryOrder returns the declaration index of a category, or len(Categories)
// for unknown labels so they sort last.
func (c *DomainConfig) CategoryOrder(category string) int {
	for i, cat := range c.Categories {
		if cat == category {
			return i
		}
	}
	return len(c.Categories)
}

// IsEscalationCategory reports whether the category escalates severity.
func (c *DomainConfig) IsEscalationCategory(category string) bool {
	for _, cat := range c.EscalationCategories {
		if cat == category {
			return true
		}
	}
	return false
}

// Validate checks structural invariants: non-empty unique vocabularies and
// routing targets that exist in the department set.
func (c *DomainConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("domain config: empty id")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("domain %s: no categories", c.ID)
	}
	if len(c.Departments) == 0 {
		return fmt.Errorf("domain %s: no departments", c.ID)
	}

	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if seen[cat] {
			return fmt.Errorf("domain %s: duplicate category %q", c.ID, cat)
		}
		seen[cat] = true
	}

	seenDept := make(map[string]bool, len(c.Departments))
	for _, dept := range c.Departments {
		if seenDept[dept] {
			return fmt.Errorf("domain %s: duplicate department %q", c.ID, dept)
		}
		seenDept[dept] = true
	}

	for cat, dept := range c.Routing {
		if !seen[cat] {
			return fmt.Errorf("domain %s: routing for unknown category %q", c.ID, cat)
		}
		if !seenDept[dept] {
			return fmt.Errorf("domain %s: routing to unknown department %q", c.ID, dept)
		}
	}

	for _, cat := range c.EscalationCategories {
		if !seen[cat] {
			return fmt.Errorf("domain %s: escalation for unknown category %q", c.ID, cat)
		}
	}

	return nil
}

// defaultSeverityLevels ordered most to least severe.
var defaultSeverityLevels = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// defaultPriorityLevels ordered most to least urgent.
var defaultPriorityLevels = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// BuiltinDomains returns the static institution registry in display order.
// Returned configs are fresh copies so callers cannot mutate shared state.
func BuiltinDomains() []DomainConfig {
	return []DomainConfig{
		{
			ID:          DomainCollege,
			Name:        "College",
			Icon:        "🎓",
			Description: "Complaint management for colleges and universities",
			Categories: []string{
				"Infrastructure/Facilities",
				"Fee & Financial Issues",
				"IT & Technical Support",
				"Food Services/Canteen",
				"Parking & Transportation",
				"Academic Administration",
				"Hostel & Accommodation",
				"Safety & Security",
				"Other",
			},
			Departments: []string{
				"Maintenance & Facilities",
				"Finance Office",
				"IT Department",
				"Food Services",
				"Transport Office",
				"Academic Office",
				"Hostel Office",
				"Security Office",
				"Student Affairs",
			},
			SeverityLevels: defaultSeverityLevels,
			PriorityLevels: defaultPriorityLevels,
			UserTypes: []UserType{
				"Student",
				"Faculty/Staff",
				"Parent/Guardian",
				"Visitor",
				"Other",
			},
			Routing: map[string]string{
				"Infrastructure/Facilities": "Maintenance & Facilities",
				"Fee & Financial Issues":    "Finance Office",
				"IT & Technical Support":    "IT Department",
				"Food Services/Canteen":     "Food Services",
				"Parking & Transportation":  "Transport Office",
				"Academic Administration":   "Academic Office",
				"Hostel & Accommodation":    "Hostel Office",
				"Safety & Security":         "Security Office",
				"Other":                     "Student Affairs",
			},
			EscalationCategories: []string{
				"Safety & Security",
				"Fee & Financial Issues",
			},
			EscalationKeywords: []string{
				"fire", "injury", "unsafe", "harassment", "deadline", "electric shock",
			},
		},
		{
			ID:          DomainHospital,
			Name:        "Hospital",
			Icon:        "🏥",
			Description: "Complaint management for hospitals and clinics",
			Categories: []string{
				"Patient Care & Treatment",
				"Billing & Insurance",
				"Facilities & Hygiene",
				"Staff Behavior",
				"Pharmacy & Medication",
				"Appointments & Wait Times",
				"Medical Equipment",
				"Other",
			},
			Departments: []string{
				"Nursing Administration",
				"Billing Department",
				"Housekeeping & Maintenance",
				"Human Resources",
				"Pharmacy",
				"Patient Relations",
				"Biomedical Engineering",
			},
			SeverityLevels: defaultSeverityLevels,
			PriorityLevels: defaultPriorityLevels,
			UserTypes: []UserType{
				"Patient",
				"Family/Caregiver",
				"Staff",
				"Visitor",
				"Other",
			},
			Routing: map[string]string{
				"Patient Care & Treatment":  "Nursing Administration",
				"Billing & Insurance":       "Billing Department",
				"Facilities & Hygiene":      "Housekeeping & Maintenance",
				"Staff Behavior":            "Human Resources",
				"Pharmacy & Medication":     "Pharmacy",
				"Appointments & Wait Times": "Patient Relations",
				"Medical Equipment":         "Biomedical Engineering",
				"Other":                     "Patient Relations",
			},
			EscalationCategories: []string{
				"Patient Care & Treatment",
				"Pharmacy & Medication",
			},
			EscalationKeywords: []string{
				"emergency", "overdose", "infection", "wrong medication", "bleeding", "allergic",
			},
		},
		{
			ID:          DomainMunicipality,
			Name:        "Municipality",
			Icon:        "🏛️",
			Description: "Complaint management for city and municipal services",
			Categories: []string{
				"Roads & Infrastructure",
				"Water Supply & Drainage",
				"Waste Management",
				"Street Lighting",
				"Public Safety",
				"Parks & Recreation",
				"Property Tax & Billing",
				"Other",
			},
			Departments: []string{
				"Public Works",
				"Water Department",
				"Sanitation Department",
				"Electrical Department",
				"Municipal Security",
				"Parks Department",
				"Revenue Office",
				"Citizen Services",
			},
			SeverityLevels: defaultSeverityLevels,
			PriorityLevels: defaultPriorityLevels,
			UserTypes: []UserType{
				"Resident",
				"Business Owner",
				"Visitor",
				"Other",
			},
			Routing: map[string]string{
				"Roads & Infrastructure":  "Public Works",
				"Water Supply & Drainage": "Water Department",
				"Waste Management":        "Sanitation Department",
				"Street Lighting":         "Electrical Department",
				"Public Safety":           "Municipal Security",
				"Parks & Recreation":      "Parks Department",
				"Property Tax & Billing":  "Revenue Office",
				"Other":                   "Citizen Services",
			},
			EscalationCategories: []string{
				"Public Safety",
			},
			EscalationKeywords: []string{
				"accident", "sewage", "live wire", "collapse", "contaminated", "gas leak",
			},
		},
	}
}
