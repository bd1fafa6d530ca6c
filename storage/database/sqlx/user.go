// Package sqlxrepos implements the repositories on PostgreSQL with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/user"
)

const uniqueViolation = "23505"

type (
	userRow struct {
		ID           string     `db:"id"`
		Email        string     `db:"email"`
		PasswordHash null.Bytes `db:"password_hash"`
		IsActive     null.Bool  `db:"is_active"`
		CreatedAt    time.Time  `db:"created_at"`
		UpdatedAt    time.Time  `db:"updated_at"`
		LastLogin    null.Time  `db:"last_login"`
	}

	profileRow struct {
		UserID      string         `db:"user_id"`
		Email       string         `db:"email"`
		Role        string         `db:"role"`
		CompanyIDs  pq.StringArray `db:"company_ids"`
		SiteIDs     pq.StringArray `db:"site_ids"`
		DisplayName null.String    `db:"display_name"`
		CreatedAt   time.Time      `db:"created_at"`
	}
)

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Email:        usr.Email,
		PasswordHash: null.NewBytes(usr.PasswordHash, usr.PasswordHash != nil),
		IsActive:     null.BoolFromPtr(usr.IsActive),
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (row userRow) user() user.User {
	var lastLogin time.Time
	if row.LastLogin.Valid {
		lastLogin = row.LastLogin.Time.UTC()
	}
	return user.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash.Bytes,
		IsActive:     row.IsActive.Ptr(),
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
		LastLogin:    lastLogin,
	}
}

func toProfileRow(p user.Profile) profileRow {
	row := profileRow{
		UserID:      p.UserID,
		Email:       p.Email,
		Role:        p.Role,
		CompanyIDs:  pq.StringArray(p.CompanyIDs),
		SiteIDs:     pq.StringArray(p.SiteIDs),
		DisplayName: null.NewString(p.DisplayName, p.DisplayName != ""),
		CreatedAt:   p.CreatedAt.UTC(),
	}
	if row.CompanyIDs == nil {
		row.CompanyIDs = pq.StringArray{}
	}
	if row.SiteIDs == nil {
		row.SiteIDs = pq.StringArray{}
	}
	return row
}

func (row profileRow) profile() user.Profile {
	p := user.Profile{
		UserID:      row.UserID,
		Email:       row.Email,
		Role:        row.Role,
		CompanyIDs:  []string(row.CompanyIDs),
		SiteIDs:     []string(row.SiteIDs),
		DisplayName: row.DisplayName.String,
		CreatedAt:   row.CreatedAt.UTC(),
	}
	if p.CompanyIDs == nil {
		p.CompanyIDs = []string{}
	}
	if p.SiteIDs == nil {
		p.SiteIDs = []string{}
	}
	return p
}

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) user.Repository {
	return &userRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// trapUniqueErr maps a unique constraint violation on the email to user.ErrEmailExists
func trapUniqueErr(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return user.ErrEmailExists
	}
	return errors.Wrap(err, msg)
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	ids := make([]string, 0, len(excludedUsers))
	for _, u := range excludedUsers {
		ids = append(ids, u.ID)
	}

	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND NOT (id::text = ANY($2)))`
	if err := repo.exec.GetContext(ctx, &exists, q, email, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}
	q := `INSERT INTO users (id, email, password_hash, is_active, created_at, updated_at, last_login)
		VALUES (:id, :email, :password_hash, :is_active, :created_at, :updated_at, :last_login)`
	row := toUserRow(usr)
	if _, err := repo.exec.NamedExecContext(ctx, q, row); err != nil {
		return user.User{}, trapUniqueErr(err, "inserting user")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var (
		row userRow
		err error
	)
	switch {
	case filter.ID != "":
		if _, err = uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		err = repo.exec.GetContext(ctx, &row, `SELECT * FROM users WHERE id = $1`, filter.ID)
	case filter.Email != "":
		err = repo.exec.GetContext(ctx, &row, `SELECT * FROM users WHERE email = $1`, filter.Email)
	default:
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, trapNoRowsErr(err, "finding user")
	}
	return row.user(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE users SET
			email = :email,
			password_hash = :password_hash,
			is_active = :is_active,
			updated_at = :updated_at,
			last_login = :last_login
		WHERE id = :id`
	row := toUserRow(usr)
	res, err := repo.exec.NamedExecContext(ctx, q, row)
	if err != nil {
		return user.User{}, trapUniqueErr(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return row.user(), nil
}

func (repo *userRepository) SaveProfile(ctx context.Context, p user.Profile) (user.Profile, error) {
	q := `INSERT INTO user_profiles (user_id, email, role, company_ids, site_ids, display_name, created_at)
		VALUES (:user_id, :email, :role, :company_ids, :site_ids, :display_name, :created_at)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			company_ids = EXCLUDED.company_ids,
			site_ids = EXCLUDED.site_ids,
			display_name = EXCLUDED.display_name,
			created_at = EXCLUDED.created_at`
	row := toProfileRow(p)
	if _, err := repo.exec.NamedExecContext(ctx, q, row); err != nil {
		return user.Profile{}, errors.Wrap(err, "saving profile")
	}
	return row.profile(), nil
}

func (repo *userRepository) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return user.Profile{}, user.ErrNotFound
	}
	var row profileRow
	if err := repo.exec.GetContext(ctx, &row, `SELECT * FROM user_profiles WHERE user_id = $1`, userID); err != nil {
		return user.Profile{}, trapNoRowsErr(err, "finding profile")
	}
	return row.profile(), nil
}

func (repo *userRepository) QueryProfiles(ctx context.Context, filter user.QueryFilter) ([]user.Profile, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, "role = $1")
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, "(email ILIKE $"+strconv.Itoa(n)+" OR display_name ILIKE $"+strconv.Itoa(n)+")")
	}

	q := `SELECT * FROM user_profiles`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + core.DBOrdering{Field: "created_at"}.String()

	var rows []profileRow
	if err := repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying profiles")
	}
	profiles := make([]user.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.profile())
	}
	return profiles, nil
}
