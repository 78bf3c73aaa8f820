package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/parkease/domain"
)

// PolicyHandlers exposes RBAC rule management to admins
type PolicyHandlers struct {
	policies domain.PolicyService
}

func NewPolicyHandlers(policies domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policies: policies}
}

type policyReq struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.policies.GetPolicies()})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.policies.AddPolicy(r.Role, r.Resource, r.Action); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.policies.RemovePolicy(r.Role, r.Resource, r.Action); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
