package repositories

import (
	"errors"
	"sort"

	"hobbyd/internal/models"
)

var errEmptyInput = errors.New("input and id cannot be empty")

func sortHobbies(hobbies []*models.Hobby) {
	sort.SliceStable(hobbies, func(i, j int) bool {
		a, b := hobbies[i], hobbies[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// finishSessions orders sessions and applies the optional limit.
func finishSessions(sessions []*models.Session, limit int) []*models.Session {
	models.SortSessions(sessions)
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Hobbies = append([]string(nil), u.Hobbies...)
	if c.Hobbies == nil {
		c.Hobbies = []string{}
	}
	return &c
}

func copyHobby(h *models.Hobby) *models.Hobby {
	c := *h
	return &c
}

func copySession(s *models.Session) *models.Session {
	c := *s
	return &c
}
