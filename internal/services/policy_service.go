package services

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/you/parkease/domain"
	"github.com/you/parkease/internal/infrastructure/auth"
)

// CasbinEnforcerWrapper wraps the real Casbin enforcer to implement our interface
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

func (w *CasbinEnforcerWrapper) SavePolicy() error {
	return w.enforcer.SavePolicy()
}

// PolicyServiceImpl implements domain.PolicyService using Casbin.
// Callers speak in role names; rules are stored against role_<role> subjects.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: NewCasbinEnforcerWrapper(enforcer),
	}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: enforcer,
	}
}

// AddPolicy implements domain.PolicyService
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	sub, err := policySubject(role, resource, action)
	if err != nil {
		return err
	}
	added, err := p.enforcer.AddPolicy(sub, resource, action)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy implements domain.PolicyService
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	sub, err := policySubject(role, resource, action)
	if err != nil {
		return err
	}
	removed, err := p.enforcer.RemovePolicy(sub, resource, action)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}
	return p.enforcer.SavePolicy()
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return false, err
	}
	return p.enforcer.Enforce(auth.Subject(r.String()), resource, action)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}

func policySubject(role, resource, action string) (string, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(resource, "/") {
		return "", fmt.Errorf("%w: resource must be a path", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(action) == "" {
		return "", fmt.Errorf("%w: action is required", domain.ErrInvalidInput)
	}
	return auth.Subject(r.String()), nil
}
