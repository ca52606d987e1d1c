package models

// StorageVersion is written into every snapshot envelope.
const StorageVersion = 1

// Storage is the persistence envelope of the in-memory record store.
type Storage struct {
	Version  int        `json:"version"`
	Users    []*User    `json:"users"`
	Hobbies  []*Hobby   `json:"hobbies"`
	Sessions []*Session `json:"sessions"`
}

func NewStorage() *Storage {
	return &Storage{
		Version:  StorageVersion,
		Users:    make([]*User, 0),
		Hobbies:  make([]*Hobby, 0),
		Sessions: make([]*Session, 0),
	}
}
