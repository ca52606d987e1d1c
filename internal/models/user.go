package models

import "time"

// User is the single profile of an installation.
// Hobbies mirrors the owned hobby ids; Hobby.UserID stays authoritative.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Location  string    `json:"location" db:"location"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Hobbies   []string  `json:"hobbies" db:"-"`
}

func (u *User) HasHobby(hobbyID string) bool {
	for _, id := range u.Hobbies {
		if id == hobbyID {
			return true
		}
	}
	return false
}

func (u *User) AddHobby(hobbyID string) {
	if u.HasHobby(hobbyID) {
		return
	}
	u.Hobbies = append(u.Hobbies, hobbyID)
}

func (u *User) RemoveHobby(hobbyID string) {
	kept := u.Hobbies[:0]
	for _, id := range u.Hobbies {
		if id != hobbyID {
			kept = append(kept, id)
		}
	}
	u.Hobbies = kept
}
