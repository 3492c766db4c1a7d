package managers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"bookstore-server/internal/auth"
	"bookstore-server/internal/interfaces"
	"bookstore-server/internal/schemas"
)

var (
	// ErrEmailRequired is returned when a user is created without an email.
	ErrEmailRequired = errors.New("you must provide an email address")

	// ErrStaffFlagRequired is returned when a superuser is created with
	// is_staff explicitly overridden to false.
	ErrStaffFlagRequired = errors.New("superuser must be assigned is_staff=true")

	// ErrSuperuserFlagRequired is returned when a superuser is created with
	// is_superuser explicitly overridden to false.
	ErrSuperuserFlagRequired = errors.New("superuser must be assigned is_superuser=true")
)

// CreateUserParams carries the fields of a new account. The flag pointers
// distinguish "not provided" from an explicit override.
type CreateUserParams struct {
	Email    string
	UserName string
	Password string

	FirstName    string
	About        string
	Country      string
	PhoneNumber  string
	Postcode     string
	AddressLine1 string
	AddressLine2 string
	TownCity     string

	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// ProfileUpdate carries the editable delivery-profile fields.
type ProfileUpdate struct {
	FirstName    string
	About        string
	Country      string
	PhoneNumber  string
	Postcode     string
	AddressLine1 string
	AddressLine2 string
	TownCity     string
}

// AccountMgr creates and mutates account records. All methods run their
// statements on the given querier, so they join whatever transaction the
// caller has open.
type AccountMgr interface {
	CreateUser(ctx context.Context, q interfaces.PgxQuerier, params CreateUserParams) (*schemas.User, error)
	CreateSuperuser(ctx context.Context, q interfaces.PgxQuerier, params CreateUserParams) (*schemas.User, error)
	GetUserByID(ctx context.Context, q interfaces.PgxQuerier, id uuid.UUID) (*schemas.User, error)
	GetUserByEmail(ctx context.Context, q interfaces.PgxQuerier, email string) (*schemas.User, error)
	UpdateProfile(ctx context.Context, q interfaces.PgxQuerier, id uuid.UUID, update ProfileUpdate) error
	Activate(ctx context.Context, q interfaces.PgxQuerier, id uuid.UUID) error
	Deactivate(ctx context.Context, q interfaces.PgxQuerier, id uuid.UUID) error
}

// AccountManager is the production implementation of AccountMgr.
type AccountManager struct{}

// NewAccountManager creates an AccountManager.
func NewAccountManager() AccountMgr {
	log.Info("Initializing account manager")
	return &AccountManager{}
}

const userColumns = "user_id, email, user_name, password, first_name, about, country, phone_number, " +
	"postcode, address_line_1, address_line_2, town_city, is_active, is_staff, is_superuser, created_at, updated_at"

// CreateUser validates, normalizes and persists a new account. The password
// is stored as a salted hash, never as plaintext. Unless overridden, the
// account starts inactive and must be activated by email.
func (am *AccountManager) CreateUser(ctx context.Context, q interfaces.PgxQuerier, params CreateUserParams) (*schemas.User, error) {
	if params.Email == "" {
		return nil, ErrEmailRequired
	}

	hashedPassword, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &schemas.User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(params.Email),
		UserName:     params.UserName,
		Password:     hashedPassword,
		FirstName:    params.FirstName,
		About:        params.About,
		Country:      params.Country,
		PhoneNumber:  params.PhoneNumber,
		Postcode:     params.Postcode,
		AddressLine1: params.AddressLine1,
		AddressLine2: params.AddressLine2,
		TownCity:     params.TownCity,
		IsActive:     flagValue(params.IsActive, false),
		IsStaff:      flagValue(params.IsStaff, false),
		IsSuperuser:  flagValue(params.IsSuperuser, false),
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}

	queryString := "INSERT INTO store_schema.users (" + userColumns + ") " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)"
	if _, err := q.Exec(ctx, queryString, user.ID, user.Email, user.UserName, user.Password,
		user.FirstName, user.About, user.Country, user.PhoneNumber, user.Postcode,
		user.AddressLine1, user.AddressLine2, user.TownCity,
		user.IsActive, user.IsStaff, user.IsSuperuser, user.CreatedAt, user.UpdatedAt); err != nil {
		return nil, err
	}

	return user, nil
}

// CreateSuperuser forces the staff, superuser and active flags on and
// delegates to CreateUser. Explicitly overriding either permission flag to
// false is an error.
func (am *AccountManager) CreateSuperuser(ctx context.Context, q interfaces.PgxQuerier, params CreateUserParams) (*schemas.User, error) {
	if params.IsStaff != nil && !*params.IsStaff {
		return nil, ErrStaffFlagRequired
	}
	if params.IsSuperuser != nil && !*params.IsSuperuser {
		return nil, ErrSuperuserFlagRequired
	}

	enabled := true
	params.IsStaff = &enabled
	params.IsSuperuser = &enabled
	if params.IsActive == nil {
		params.IsActive = &enabled
	}

	return am.CreateUser(ctx, q, params)
}

// GetUserByID loads a single account row by primary key.
func (am *AccountManager) GetUserByID(ctx context.Context, q interfaces.PgxQuerier, id uuid.UUID) (*schemas.User, error) {
	queryString := "SELECT " + userColumns + " FROM store_schema.users WHERE user_id = $1"
	return scanUser(q.QueryRow(ctx, queryString, id))
}

// GetUserByEmail loads a single account row by the normalized email.
func (am *AccountManager) GetUserByEmail(ctx context.Context, q interfaces.PgxQuerier, email string) (*schemas.User, error) {
	queryString := "SELECT " + userColumns + " FROM store_schema.users WHERE email = $1"
	return scanUser(q.QueryRow(ctx, queryString, NormalizeEmail(email)))
}

// UpdateProfile applies a field-level update to the delivery profile.
func (am *AccountManager) UpdateProfile(ctx context.Context, q interfaces.PgxQuerier, id uuid.UUID, update ProfileUpdate) error {
	queryString := "UPDATE store_schema.users SET first_name = $1, about = $2, country = $3, phone_number = $4, " +
		"postcode = $5, address_line_1 = $6, address_line_2 = $7, town_city = $8, updated_at = $9 WHERE user_id = $10"
	_, err := q.Exec(ctx, queryString, update.FirstName, update.About, update.Country, update.PhoneNumber,
		update.Postcode, update.AddressLine1, update.AddressLine2, update.TownCity, time.Now(), id)
	return err
}

// Activate flips the account to active.
func (am *AccountManager) Activate(ctx context.Context, q interfaces.PgxQuerier, id uuid.UUID) error {
	return am.setActive(ctx, q, id, true)
}

// Deactivate soft-deletes the account. The row stays in place; only the
// active flag changes.
func (am *AccountManager) Deactivate(ctx context.Context, q interfaces.PgxQuerier, id uuid.UUID) error {
	return am.setActive(ctx, q, id, false)
}

func (am *AccountManager) setActive(ctx context.Context, q interfaces.PgxQuerier, id uuid.UUID, active bool) error {
	queryString := "UPDATE store_schema.users SET is_active = $1, updated_at = $2 WHERE user_id = $3"
	_, err := q.Exec(ctx, queryString, active, time.Now(), id)
	return err
}

// NormalizeEmail lowercases the domain part of the address, matching the
// standard email-normalization rule. The local part is left untouched.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func flagValue(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}

func scanUser(row interface{ Scan(dest ...interface{}) error }) (*schemas.User, error) {
	user := &schemas.User{}
	if err := row.Scan(&user.ID, &user.Email, &user.UserName, &user.Password,
		&user.FirstName, &user.About, &user.Country, &user.PhoneNumber, &user.Postcode,
		&user.AddressLine1, &user.AddressLine2, &user.TownCity,
		&user.IsActive, &user.IsStaff, &user.IsSuperuser, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	return user, nil
}
