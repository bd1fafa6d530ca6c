// Package inmem provides repositories backed by process memory.
package inmem

import (
	"sync"

	"github.com/Br01t/feedback-fort/core/questionnaire"
	"github.com/Br01t/feedback-fort/core/user"
)

type (
	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	profileTable struct {
		mutex sync.RWMutex
		table map[string]*user.Profile
	}

	responseTable struct {
		mutex sync.RWMutex
		table map[string]*questionnaire.Response
		order []string // insertion order
	}

	DB struct {
		user      *userTable
		profile   *profileTable
		responses *responseTable
	}
)

func Open() *DB {
	return &DB{
		user:      &userTable{table: make(map[string]*user.User)},
		profile:   &profileTable{table: make(map[string]*user.Profile)},
		responses: &responseTable{table: make(map[string]*questionnaire.Response)},
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.mutex.Unlock()

	db.profile.mutex.Lock()
	db.profile.table = make(map[string]*user.Profile)
	db.profile.mutex.Unlock()

	db.responses.mutex.Lock()
	db.responses.table = make(map[string]*questionnaire.Response)
	db.responses.order = nil
	db.responses.mutex.Unlock()
}
