// Package handlers implements the HTTP handlers of the API.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bookstore-server/internal/auth"
	"bookstore-server/internal/config"
	"bookstore-server/internal/interfaces"
	"bookstore-server/internal/managers"
	"bookstore-server/internal/schemas"
	"bookstore-server/internal/tokens"
	"bookstore-server/internal/utils"
	"bookstore-server/internal/validators"
)

type UserHdl interface {
	RegisterUser(c *gin.Context)
	ActivateUser(c *gin.Context)
	LoginUser(c *gin.Context)
	LoginPrompt(c *gin.Context)
	Dashboard(c *gin.Context)
	EditProfile(c *gin.Context)
	DeleteUser(c *gin.Context)
	DeleteConfirmation(c *gin.Context)
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr
	SessionManager  managers.SessionMgr
	AccountManager  managers.AccountMgr
	TokenService    *tokens.ActivationTokenService
	Validator       *validators.Validator

	domain     string
	sessionTTL time.Duration
}

func NewUserHandler(cfg *config.Config, databaseMgr managers.DatabaseMgr, jwtMgr managers.JWTMgr,
	mailMgr managers.MailMgr, sessionMgr managers.SessionMgr) UserHdl {
	return &UserHandler{
		DatabaseManager: databaseMgr,
		JWTManager:      jwtMgr,
		MailManager:     mailMgr,
		SessionManager:  sessionMgr,
		AccountManager:  managers.NewAccountManager(),
		TokenService:    tokens.NewActivationTokenService(cfg.Auth.ActivationSecret, cfg.Auth.ActivationExpiryHours),
		Validator:       validators.GetValidator(),
		domain:          cfg.Domain,
		sessionTTL:      time.Duration(cfg.Auth.SessionTTLHours) * time.Hour,
	}
}

// RegisterUser creates a new inactive account and sends the activation mail.
// A caller who is already logged in has nothing to register and lands on the
// dashboard instead.
func (handler *UserHandler) RegisterUser(c *gin.Context) {
	if handler.hasLiveSession(c) {
		c.Redirect(http.StatusFound, "/api/users/dashboard")
		c.Abort()
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer utils.RollbackTransaction(c, tx, err)

	registrationRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.RegistrationRequest)

	if !handler.Validator.VerifyEmail(registrationRequest.Email) {
		err = errors.New("email failed verification")
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if err = checkUsernameEmailTaken(c, tx, registrationRequest.UserName, registrationRequest.Email); err != nil {
		return
	}

	user, err := handler.AccountManager.CreateUser(c, tx, managers.CreateUserParams{
		Email:        registrationRequest.Email,
		UserName:     registrationRequest.UserName,
		Password:     registrationRequest.Password,
		FirstName:    registrationRequest.FirstName,
		About:        registrationRequest.About,
		Country:      registrationRequest.Country,
		PhoneNumber:  registrationRequest.PhoneNumber,
		Postcode:     registrationRequest.Postcode,
		AddressLine1: registrationRequest.AddressLine1,
		AddressLine2: registrationRequest.AddressLine2,
		TownCity:     registrationRequest.TownCity,
	})
	if err != nil {
		if errors.Is(err, managers.ErrEmailRequired) {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// The mail is sent before the commit, so a dispatch failure rolls the
	// registration back instead of stranding a user nobody notified.
	token := handler.TokenService.MakeToken(user)
	activationURL := fmt.Sprintf("https://%s/api/users/activate/%s/%s", handler.domain, tokens.EncodeUID(user.ID), token)
	if err = handler.MailManager.SendActivationMail(user.Email, user.UserName, activationURL); err != nil {
		utils.WriteAndLogError(c, schemas.EmailNotSent, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	c.String(http.StatusOK, "registered succesfully and activation sent")
}

// ActivateUser completes the registration. Decode failures, unknown users,
// expired tokens and already consumed tokens all collapse into the same
// invalid-activation outcome.
func (handler *UserHandler) ActivateUser(c *gin.Context) {
	userID, err := tokens.DecodeUID(c.Param(utils.UidKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.ActivationLinkInvalid, http.StatusUnauthorized, err)
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	defer utils.RollbackTransaction(c, tx, err)

	user, err := handler.AccountManager.GetUserByID(c, tx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.ActivationLinkInvalid, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// An already activated account fails here on its own: the token was
	// derived from is_active=false and the recomputation uses the current
	// flag.
	if !handler.TokenService.CheckToken(user, c.Param(utils.TokenKey)) {
		err = errors.New("activation token rejected")
		utils.WriteAndLogError(c, schemas.ActivationLinkInvalid, http.StatusUnauthorized, err)
		return
	}

	if err = handler.AccountManager.Activate(c, tx, user.ID); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	user.IsActive = true
	if _, err := handler.startSession(c, user); err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	c.Redirect(http.StatusFound, "/api/users/dashboard")
}

// LoginUser authenticates by email and password and opens a session.
func (handler *UserHandler) LoginUser(c *gin.Context) {
	loginRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	user, err := handler.AccountManager.GetUserByEmail(c, handler.DatabaseManager.GetPool(), loginRequest.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if !user.IsActive {
		utils.WriteAndLogError(c, schemas.UserNotActivated, http.StatusForbidden, errors.New("user not activated"))
		return
	}

	if !auth.VerifyPassword(user.Password, loginRequest.Password) {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusForbidden, errors.New("wrong password"))
		return
	}

	token, err := handler.startSession(c, user)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.TokenDTO{Token: token}, http.StatusOK)
}

// LoginPrompt is the target of the unauthenticated redirect.
func (handler *UserHandler) LoginPrompt(c *gin.Context) {
	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "please log in to continue"}, http.StatusOK)
}

// Dashboard renders the caller's profile.
func (handler *UserHandler) Dashboard(c *gin.Context) {
	user, ok := handler.currentUser(c)
	if !ok {
		return
	}

	utils.WriteAndLogResponse(c, profileDTO(user), http.StatusOK)
}

// EditProfile applies a field-level update to the caller's own record. A
// validation failure is only logged and the prior profile re-rendered,
// mirroring the original workflow's silent swallow.
func (handler *UserHandler) EditProfile(c *gin.Context) {
	user, ok := handler.currentUser(c)
	if !ok {
		return
	}

	editRequest := &schemas.EditProfileRequest{}
	valid := true
	if err := c.ShouldBindJSON(editRequest); err != nil {
		utils.LogMessageWithFieldsAndError(c, "warn", "Profile edit rejected by binding, re-rendering form", err)
		valid = false
	} else if err := handler.Validator.Validate.Struct(editRequest); err != nil {
		utils.LogMessageWithFieldsAndError(c, "warn", "Profile edit rejected by validation, re-rendering form", err)
		valid = false
	}

	if !valid {
		utils.WriteAndLogResponse(c, profileDTO(user), http.StatusOK)
		return
	}

	if err := handler.Validator.SanitizeData(editRequest); err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	update := managers.ProfileUpdate{
		FirstName:    editRequest.FirstName,
		About:        editRequest.About,
		Country:      editRequest.Country,
		PhoneNumber:  editRequest.PhoneNumber,
		Postcode:     editRequest.Postcode,
		AddressLine1: editRequest.AddressLine1,
		AddressLine2: editRequest.AddressLine2,
		TownCity:     editRequest.TownCity,
	}
	if err := handler.AccountManager.UpdateProfile(c, handler.DatabaseManager.GetPool(), user.ID, update); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	user.FirstName = update.FirstName
	user.About = update.About
	user.Country = update.Country
	user.PhoneNumber = update.PhoneNumber
	user.Postcode = update.Postcode
	user.AddressLine1 = update.AddressLine1
	user.AddressLine2 = update.AddressLine2
	user.TownCity = update.TownCity

	utils.WriteAndLogResponse(c, profileDTO(user), http.StatusOK)
}

// DeleteUser soft-deletes the caller. The record stays in the database with
// is_active=false, and the session ends immediately.
func (handler *UserHandler) DeleteUser(c *gin.Context) {
	user, ok := handler.currentUser(c)
	if !ok {
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer utils.RollbackTransaction(c, tx, err)

	if err = handler.AccountManager.Deactivate(c, tx, user.ID); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	if err := handler.SessionManager.DeleteSession(c, sessionIDOf(c)); err != nil {
		utils.LogMessageWithFieldsAndError(c, "warn", "Could not delete session after soft delete", err)
	}
	c.SetCookie(utils.SessionCookie, "", -1, "/", "", false, true)

	c.Redirect(http.StatusFound, "/api/users/delete-confirmation")
}

// DeleteConfirmation is the redirect target after a soft delete.
func (handler *UserHandler) DeleteConfirmation(c *gin.Context) {
	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "your account has been deactivated"}, http.StatusOK)
}

// hasLiveSession reports whether the request carries a session token whose
// login session still exists. Unlike the auth middleware it never writes a
// response; registration only needs a yes or no.
func (handler *UserHandler) hasLiveSession(c *gin.Context) bool {
	tokenString, err := c.Cookie(utils.SessionCookie)
	if err != nil || tokenString == "" {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return false
		}
		tokenString = strings.TrimPrefix(header, "Bearer ")
	}

	claims, err := handler.JWTManager.ValidateJWT(tokenString)
	if err != nil {
		return false
	}

	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	sessionID, _ := mapClaims["jti"].(string)
	session, err := handler.SessionManager.GetSession(c, sessionID)
	return err == nil && session != nil
}

// startSession opens a login session and sets the session cookie.
func (handler *UserHandler) startSession(c *gin.Context, user *schemas.User) (string, error) {
	sessionID, err := handler.SessionManager.CreateSession(c, managers.Session{
		UserID:      user.ID.String(),
		UserName:    user.UserName,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	})
	if err != nil {
		return "", err
	}

	claims := handler.JWTManager.GenerateClaims(user.ID.String(), user.UserName, sessionID, handler.sessionTTL)
	token, err := handler.JWTManager.GenerateJWT(claims)
	if err != nil {
		return "", err
	}

	c.SetCookie(utils.SessionCookie, token, int(handler.sessionTTL.Seconds()), "/", "", false, true)
	return token, nil
}

// currentUser loads the authenticated caller's account row.
func (handler *UserHandler) currentUser(c *gin.Context) (*schemas.User, bool) {
	session, ok := c.Value(utils.SessionKey.String()).(*managers.Session)
	if !ok {
		utils.RedirectToLogin(c)
		return nil, false
	}

	userID, err := uuid.Parse(session.UserID)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return nil, false
	}

	user, err := handler.AccountManager.GetUserByID(c, handler.DatabaseManager.GetPool(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return nil, false
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, false
	}

	return user, true
}

// sessionIDOf pulls the session id out of the validated JWT claims.
func sessionIDOf(c *gin.Context) string {
	claims, ok := c.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
	if !ok {
		return ""
	}
	sessionID, _ := claims["jti"].(string)
	return sessionID
}

func profileDTO(user *schemas.User) *schemas.ProfileDTO {
	return &schemas.ProfileDTO{
		Email:        user.Email,
		UserName:     user.UserName,
		FirstName:    user.FirstName,
		About:        user.About,
		Country:      user.Country,
		PhoneNumber:  user.PhoneNumber,
		Postcode:     user.Postcode,
		AddressLine1: user.AddressLine1,
		AddressLine2: user.AddressLine2,
		TownCity:     user.TownCity,
	}
}

// checkUsernameEmailTaken rejects a registration whose username or email is
// already in use.
func checkUsernameEmailTaken(c *gin.Context, q interfaces.PgxQuerier, userName, email string) error {
	queryString := "SELECT user_name, email FROM store_schema.users WHERE user_name = $1 OR email = $2"
	rows, err := q.Query(c, queryString, userName, managers.NormalizeEmail(email))
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		var foundUserName string
		var foundEmail string
		if err := rows.Scan(&foundUserName, &foundEmail); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return err
		}

		customErr := schemas.EmailTaken
		if foundUserName == userName {
			customErr = schemas.UsernameTaken
		}

		err = errors.New("username or email taken")
		utils.WriteAndLogError(c, customErr, http.StatusConflict, err)
		return err
	}

	return nil
}
