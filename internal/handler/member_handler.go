package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/service"
)

// MemberService grants users access to tenants
type MemberService interface {
	AddMember(ctx context.Context, tenantID uint, input service.AddMemberInput) (*model.UserTenant, error)
}

// MemberHandler serves tenant membership routes
type MemberHandler struct {
	members MemberService
}

func NewMemberHandler(members MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// Register mounts the membership routes on the tenants group
func (h *MemberHandler) Register(g *echo.Group) {
	g.POST("/:id/members", h.AddMember)
}

// AddMember grants a registered user access to the tenant
func (h *MemberHandler) AddMember(c echo.Context) error {
	id, err := parseID(c, "tenant")
	if err != nil {
		return respondError(c, err)
	}

	var req service.AddMemberInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	membership, err := h.members.AddMember(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, membership)
}
