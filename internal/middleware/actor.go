package middleware

import (
	"errors"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/solidon/donation-backend/internal/repository"
	"gorm.io/gorm"
)

// ActorMiddleware resolves the authenticated uid to its stored profile and
// exposes it as "actor". A uid without a profile passes through with no
// actor set so first-time users can still reach registration.
type ActorMiddleware struct {
	userRepo repository.UserRepository
}

func NewActorMiddleware(userRepo repository.UserRepository) *ActorMiddleware {
	return &ActorMiddleware{userRepo: userRepo}
}

func (m *ActorMiddleware) LoadActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, _ := c.Get("uid").(string)
		if uid == "" {
			return next(c)
		}
		u, err := m.userRepo.FindByUID(c.Request().Context(), uid)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("actor lookup failed for uid=%s: %v", uid, err)
			}
			return next(c)
		}
		c.Set("actor", u)
		return next(c)
	}
}
