package domain

import "testing"

func TestBuiltinDomainsValid(t *testing.T) {
	domains := BuiltinDomains()
	if len(domains) != 3 {
		t.Fatalf("builtin domains = %d, want college, hospital, municipality", len(domains))
	}

	for _, cfg := range domains {
		t.Run(string(cfg.ID), func(t *testing.T) {
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			// Every category routes to a declared department, so builtin
			// domains can never produce a routing gap.
			for _, category := range cfg.Categories {
				dept, ok := cfg.RouteCategory(category)
				if !ok {
					t.Errorf("category %q has no routing entry", category)
					continue
				}
				if !cfg.HasDepartment(dept) {
					t.Errorf("category %q routes to undeclared department %q", category, dept)
				}
			}

			for _, category := range cfg.EscalationCategories {
				if !cfg.HasCategory(category) {
					t.Errorf("escalation category %q not declared", category)
				}
			}

			if len(cfg.UserTypes) == 0 {
				t.Error("no user types declared")
			}
			if cfg.Icon == "" || cfg.Name == "" {
				t.Error("missing display metadata")
			}
		})
	}
}

func TestBuiltinDomainsReturnCopies(t *testing.T) {
	first := BuiltinDomains()
	first[0].Categories[0] = "mutated"
	second := BuiltinDomains()
	if second[0].Categories[0] == "mutated" {
		t.Error("BuiltinDomains() exposes shared state")
	}
}

func TestDomainConfigClone(t *testing.T) {
	original := BuiltinDomains()[0]
	clone := original.Clone()

	clone.Categories[0] = "mutated"
	clone.Departments[0] = "mutated"
	clone.UserTypes[0] = "mutated"
	clone.Routing["Infrastructure/Facilities"] = "mutated"
	clone.EscalationCategories[0] = "mutated"
	clone.EscalationKeywords[0] = "mutated"

	if original.Categories[0] == "mutated" || original.Departments[0] == "mutated" ||
		original.UserTypes[0] == "mutated" || original.EscalationCategories[0] == "mutated" ||
		original.EscalationKeywords[0] == "mutated" {
		t.Error("Clone() shares vocabulary slices with the original")
	}
	if original.Routing["Infrastructure/Facilities"] == "mutated" {
		t.Error("Clone() shares the routing table with the original")
	}

	var nilCfg *DomainConfig
	if nilCfg.Clone() != nil {
		t.Error("Clone() of nil = non-nil")
	}
}

func TestRouteCategoryUnknown(t *testing.T) {
	cfg := BuiltinDomains()[0]
	if _, ok := cfg.RouteCategory("Telepathy"); ok {
		t.Error("unknown category routed")
	}
}

func TestCategoryOrder(t *testing.T) {
	cfg := BuiltinDomains()[0]
	for i, category := range cfg.Categories {
		if got := cfg.CategoryOrder(category); got != i {
			t.Errorf("CategoryOrder(%q) = %d, want %d", category, got, i)
		}
	}
	if got := cfg.CategoryOrder("Telepathy"); got != len(cfg.Categories) {
		t.Errorf("CategoryOrder(unknown) = %d, want %d (sorts last)", got, len(cfg.Categories))
	}
}
