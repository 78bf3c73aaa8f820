package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// CasbinService owns the enforcer backed by the casbin_rule table
type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService loads the model from disk and the policies from the database
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	m, err := model.NewModelFromFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	return newCasbinService(db, m)
}

// NewCasbinServiceFromString is used where the model ships inline, e.g. tests
func NewCasbinServiceFromString(db *gorm.DB, text string) (*CasbinService, error) {
	m, err := model.NewModelFromString(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	return newCasbinService(db, m)
}

func newCasbinService(db *gorm.DB, m model.Model) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, err
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E: e}, nil
}

// Subject maps a role name onto its policy subject
func Subject(role string) string {
	return "role_" + role
}

// DefaultPolicies are seeded on startup when missing
var DefaultPolicies = [][]string{
	{"role_customer", "/auth/me", "GET|PATCH"},
	{"role_customer", "/auth/logout", "POST"},
	{"role_customer", "/vehicles", "GET|POST"},
	{"role_customer", "/vehicles/:id", "GET|DELETE"},
	{"role_customer", "/bookings", "GET"},
	{"role_customer", "/bookings/:id", "GET"},
	{"role_owner", "/auth/me", "GET|PATCH"},
	{"role_owner", "/auth/logout", "POST"},
	{"role_owner", "/vehicles", "GET|POST"},
	{"role_owner", "/vehicles/:id", "GET|DELETE"},
	{"role_owner", "/bookings", "GET"},
	{"role_owner", "/bookings/:id", "GET"},
	{"role_watchman", "/auth/me", "GET|PATCH"},
	{"role_watchman", "/auth/logout", "POST"},
	{"role_watchman", "/bookings", "GET"},
	{"role_watchman", "/bookings/:id", "GET"},
	{"role_admin", "/auth/me", "GET|PATCH"},
	{"role_admin", "/auth/logout", "POST"},
	{"role_admin", "/vehicles", "GET|POST"},
	{"role_admin", "/vehicles/:id", "GET|DELETE"},
	{"role_admin", "/bookings", "GET"},
	{"role_admin", "/bookings/:id", "GET"},
	{"role_admin", "/admin/*", "GET|POST|DELETE"},
}

// SeedDefaultPolicies adds every default rule not yet stored and returns how many were added
func (s *CasbinService) SeedDefaultPolicies() (int, error) {
	added := 0
	for _, p := range DefaultPolicies {
		exists, err := s.E.HasPolicy(p[0], p[1], p[2])
		if err != nil {
			return added, fmt.Errorf("failed to look up policy %v: %w", p, err)
		}
		if exists {
			continue
		}
		ok, err := s.E.AddPolicy(p[0], p[1], p[2])
		if err != nil {
			return added, fmt.Errorf("failed to seed policy %v: %w", p, err)
		}
		if ok {
			added++
		}
	}
	return added, nil
}
