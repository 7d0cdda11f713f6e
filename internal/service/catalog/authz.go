package catalog

import (
	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models"
)

// authorize fails with Unauthorized for a missing actor and Forbidden when
// the actor's role lacks the capability.
func authorize(actor *models.Actor, can func(models.Role) bool, denied string) error {
	if actor == nil || actor.ID == "" {
		return &domain.UnauthorizedError{Message: "login required"}
	}
	if !can(actor.Role) {
		return &domain.ForbiddenError{Message: denied}
	}
	return nil
}
