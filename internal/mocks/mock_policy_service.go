package mocks

import "github.com/you/parkease/domain"

// PolicyCall records the arguments of one AddPolicy or RemovePolicy call
type PolicyCall struct {
	Role     string
	Resource string
	Action   string
}

// MockPolicyService implements domain.PolicyService. Unset funcs succeed and
// every add or remove is recorded for assertions.
type MockPolicyService struct {
	AddPolicyFunc       func(role, resource, action string) error
	RemovePolicyFunc    func(role, resource, action string) error
	CheckPermissionFunc func(role, resource, action string) (bool, error)
	GetPoliciesFunc     func() [][]string

	Added   []PolicyCall
	Removed []PolicyCall
}

func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

func (m *MockPolicyService) AddPolicy(role, resource, action string) error {
	m.Added = append(m.Added, PolicyCall{Role: role, Resource: resource, Action: action})
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, resource, action)
	}
	return nil
}

func (m *MockPolicyService) RemovePolicy(role, resource, action string) error {
	m.Removed = append(m.Removed, PolicyCall{Role: role, Resource: resource, Action: action})
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(role, resource, action)
	}
	return nil
}

func (m *MockPolicyService) CheckPermission(role, resource, action string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, resource, action)
	}
	return false, nil
}

func (m *MockPolicyService) GetPolicies() [][]string {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return [][]string{}
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
