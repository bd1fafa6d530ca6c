package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Br01t/feedback-fort/core"
)

var errInvalidResetLink = "link non valido o scaduto"

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		// SaveProfile creates or overwrites the profile keyed by p.UserID.
		SaveProfile(ctx context.Context, p Profile) (Profile, error)
		GetProfile(ctx context.Context, userID string) (Profile, error)
		QueryProfiles(ctx context.Context, filter QueryFilter) ([]Profile, error)
	}

	Service interface {
		Signup(ctx context.Context, nu NewUser) (User, *Profile, error)
		Authenticate(ctx context.Context, creds Credentials) (User, *Profile, error)
		Restore(ctx context.Context, usr User) *Profile
		Logout(ctx context.Context, usr User)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Profile(ctx context.Context, usr User) *Profile
		QueryProfiles(ctx context.Context, filter QueryFilter) ([]Profile, error)
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, data ResetUserPassword) error
		Events() *Events
	}

	service struct {
		repo     Repository
		mailSvc  core.EmailService
		logger   core.Logger
		validate *validator.Validate
		conf     *core.Config
		events   *Events
		tokens   *tokenGenerator
		throttle *loginThrottle
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	mailSvc core.EmailService,
	logger core.Logger,
	validate *validator.Validate,
	conf *core.Config,
) Service {
	return &service{
		repo:     repo,
		mailSvc:  mailSvc,
		logger:   logger,
		validate: validate,
		conf:     conf,
		events:   NewEvents(),
		tokens:   newTokenGenerator(conf.SecretKey, conf.Auth.PasswordResetTimeoutDelta),
		throttle: newLoginThrottle(conf.Auth.MaxLoginAttempts, conf.Auth.LoginLockoutDelta),
	}
}

func (svc *service) Events() *Events {
	return svc.events
}

// Signup creates the account and its default profile, then signs the user in.
// A profile that cannot be written is logged; the account stays signed in with a nil profile.
func (svc *service) Signup(ctx context.Context, nu NewUser) (User, *Profile, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, nil, authErrorFromValidation(err)
	}
	if err := svc.repo.CheckEmailUniqueness(ctx, nu.Email); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return User{}, nil, NewAuthError(CodeEmailAlreadyInUse, err)
		}
		return User{}, nil, errors.Wrap(err, "checking email uniqueness")
	}

	now := time.Now().UTC()
	usr := User{
		ID:        uuid.NewString(),
		Email:     nu.Email,
		IsActive:  core.Bool(true),
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, nil, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return User{}, nil, NewAuthError(CodeEmailAlreadyInUse, err)
		}
		return User{}, nil, errors.Wrap(err, "creating user")
	}

	var profile *Profile
	if p, err := svc.repo.SaveProfile(ctx, NewProfile(usr, nu.Role)); err != nil {
		svc.logger.Error(fmt.Sprintf("creating profile: %v", err), err, usr)
	} else {
		profile = &p
	}

	svc.sendWelcomeMail(usr)
	svc.publish(EventSignedIn, usr, profile)
	return usr, profile, nil
}

// Authenticate checks the credentials and signs the user in.
func (svc *service) Authenticate(ctx context.Context, creds Credentials) (User, *Profile, error) {
	if err := creds.Validate(svc.validate); err != nil {
		return User{}, nil, authErrorFromValidation(err)
	}
	if svc.throttle.locked(creds.Email) {
		return User{}, nil, NewAuthError(CodeTooManyRequests)
	}

	usr, err := svc.repo.GetUser(ctx, GetFilter{Email: creds.Email})
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			svc.throttle.fail(creds.Email)
			return User{}, nil, NewAuthError(CodeInvalidCredential, err)
		}
		return User{}, nil, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		svc.throttle.fail(creds.Email)
		return User{}, nil, NewAuthError(CodeInvalidCredential, err)
	}
	if !usr.Active() {
		return User{}, nil, NewAuthError(CodeUserDisabled)
	}
	svc.throttle.reset(creds.Email)

	usr.LastLogin = time.Now().UTC()
	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return User{}, nil, errors.Wrap(err, "setting lastLogin")
	}

	profile := svc.Profile(ctx, usr)
	svc.publish(EventSignedIn, usr, profile)
	return usr, profile, nil
}

// Restore re-establishes a session from a still valid token.
func (svc *service) Restore(ctx context.Context, usr User) *Profile {
	profile := svc.Profile(ctx, usr)
	svc.publish(EventRestored, usr, profile)
	return profile
}

func (svc *service) Logout(_ context.Context, usr User) {
	svc.publish(EventSignedOut, usr, nil)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

// Profile loads the user's profile. Any failure is logged and yields nil.
func (svc *service) Profile(ctx context.Context, usr User) *Profile {
	p, err := svc.repo.GetProfile(ctx, usr.ID)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			svc.logger.Error(fmt.Sprintf("loading profile: %v", err), err, usr)
		}
		return nil
	}
	return &p
}

func (svc *service) QueryProfiles(ctx context.Context, filter QueryFilter) ([]Profile, error) {
	filter.Clean()
	return svc.repo.QueryProfiles(ctx, filter)
}

func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.Active() {
		return ErrNotFound
	}
	svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) ResetPassword(ctx context.Context, data ResetUserPassword) error {
	if err := data.Validate(svc.validate); err != nil {
		return err
	}
	invalid := core.NewValidationError(nil, core.FieldError{Field: "token", Error: errInvalidResetLink})

	id, err := decodeUID(data.UID)
	if err != nil {
		return invalid
	}
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return invalid
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err = svc.tokens.verifyToken(usr, data.Token); err != nil {
		return invalid
	}

	if err = usr.SetPassword(data.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return errors.Wrap(err, "updating user")
	}
	svc.throttle.reset(usr.Email)
	return nil
}

func (svc *service) publish(typ EventType, usr User, profile *Profile) {
	svc.events.Publish(Event{Type: typ, UserID: usr.ID, Profile: profile})
}

func (svc *service) sendWelcomeMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: usr.Email}},
		Subject:      "Benvenuto",
		TemplateName: "welcome",
		TemplateData: map[string]string{
			"Name":  DisplayName(usr.Email),
			"Email": usr.Email,
		},
	})
}

func (svc *service) sendPasswordResetMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: usr.Email}},
		Subject:      "Reset della password",
		TemplateName: "password_reset",
		TemplateData: map[string]string{
			"Name":  DisplayName(usr.Email),
			"UID":   EncodeUID(usr),
			"Token": svc.tokens.makeToken(usr),
		},
	})
}
