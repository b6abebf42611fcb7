package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/repository"
	apperrors "github.com/helpdeskd/helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller: the user record plus their
// active department memberships, which drive ticket access decisions.
type Principal struct {
	User        *domain.User
	Memberships []domain.DepartmentMember
}

// DepartmentIDs returns the departments the principal belongs to.
func (p *Principal) DepartmentIDs() []string {
	ids := make([]string, 0, len(p.Memberships))
	for _, m := range p.Memberships {
		ids = append(ids, m.DepartmentID)
	}
	return ids
}

// MembershipIn returns the principal's membership in the given department.
func (p *Principal) MembershipIn(departmentID string) *domain.DepartmentMember {
	for i := range p.Memberships {
		if p.Memberships[i].DepartmentID == departmentID {
			return &p.Memberships[i]
		}
	}
	return nil
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens  *TokenManager
	users   repository.UserRepository
	members repository.MemberRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, members repository.MemberRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, members: members}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if !user.Active {
		return apperrors.NewForbidden("account disabled")
	}

	memberships, err := m.members.ListByUser(c.Context(), user.ID)
	if err != nil {
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user, Memberships: memberships})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireSuperuser gates admin-only routes.
func RequireSuperuser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.User.IsSuperuser {
			return apperrors.NewForbidden("superuser required")
		}
		return c.Next()
	}
}
