package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/Br01t/feedback-fort/core"
)

// Roles
const (
	RoleUser       = "user"
	RoleSuperAdmin = "super_admin"
)

var Roles = []Role{
	{Name: "Utente", Value: RoleUser},
	{Name: "Super admin", Value: RoleSuperAdmin},
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r.Value == role {
			return true
		}
	}
	return false
}

type (
	// User is the credential record of an account.
	User struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		PasswordHash []byte    `json:"-"`
		IsActive     *bool     `json:"isActive"`
		CreatedAt    time.Time `json:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
		LastLogin    time.Time `json:"lastLogin"`
	}

	// Profile is the per-account document keyed by the user's ID.
	Profile struct {
		UserID      string    `json:"userId"`
		Email       string    `json:"email"`
		Role        string    `json:"role"`
		CompanyIDs  []string  `json:"companyIds"`
		SiteIDs     []string  `json:"siteIds"`
		DisplayName string    `json:"displayName,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// NewUser is the sign-up payload; the password policy applies.
	NewUser struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		Role     string `json:"-"`
	}

	Credentials struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	ResetUserPassword struct {
		UID             string `json:"uid" validate:"required"`
		Token           string `json:"token" validate:"required"`
		Password        string `json:"password" validate:"required"`
		ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	}

	GetFilter struct {
		ID    string
		Email string
	}

	QueryFilter struct {
		Search string `query:"search"`
		Role   string `query:"role"`
	}
)

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Active reports whether the account may sign in; a nil flag counts as active.
func (u User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// NewProfile builds the default profile created at sign-up.
func NewProfile(usr User, role string) Profile {
	if role == "" {
		role = RoleUser
	}
	return Profile{
		UserID:      usr.ID,
		Email:       usr.Email,
		Role:        role,
		CompanyIDs:  []string{},
		SiteIDs:     []string{},
		DisplayName: DisplayName(usr.Email),
		CreatedAt:   usr.CreatedAt,
	}
}

// DisplayName is the local part of an email address.
func DisplayName(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

func (p Profile) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

func (c *Credentials) Clean() {
	c.Email = core.CleanString(c.Email, true /* lower */)
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Clean()
	return validate.Struct(c)
}

func (data *ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(data)
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
	f.Role = core.CleanString(f.Role, true /* lower */)
}

// Match reports whether p satisfies every set field of the filter.
func (f QueryFilter) Match(p Profile) bool {
	if f.Role != "" && p.Role != f.Role {
		return false
	}
	if f.Search != "" {
		return strings.Contains(strings.ToLower(p.Email), f.Search) ||
			strings.Contains(strings.ToLower(p.DisplayName), f.Search)
	}
	return true
}
