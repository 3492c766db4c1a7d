package routing

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bookstore-server/internal/config"
	"bookstore-server/internal/managers"
	"bookstore-server/internal/managers/mocks"
	"bookstore-server/internal/schemas"
	"bookstore-server/internal/tokens"
)

type testEnv struct {
	pool       pgxmock.PgxPoolIface
	jwtMgr     managers.JWTMgr
	mailMgr    *mocks.MockMailManager
	sessionMgr *mocks.MockSessionManager
	basketMgr  *mocks.MockBasketManager
	cfg        *config.Config
	server     *httptest.Server
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Domain:      "localhost:8080",
		Auth: config.AuthConfig{
			ActivationSecret:      "test-secret",
			ActivationExpiryHours: 48,
			SessionTTLHours:       24,
		},
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	poolMock, err := pgxmock.NewPool()
	require.NoError(t, err)

	databaseMgrMock := &mocks.MockDatabaseManager{}
	databaseMgrMock.On("GetPool").Return(poolMock)

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	jwtMgr := managers.NewJWTManager(privateKey, publicKey)

	mailMgrMock := &mocks.MockMailManager{}
	sessionMgrMock := &mocks.MockSessionManager{}

	basketMgrMock := &mocks.MockBasketManager{}
	basketMgrMock.On("GetBasket", mock.Anything, mock.AnythingOfType("string")).
		Return(&schemas.BasketDTO{Items: []schemas.BasketItemDTO{}}, nil)

	cfg := testConfig()
	router := InitRouter(cfg, Managers{
		DatabaseMgr: databaseMgrMock,
		JWTMgr:      jwtMgr,
		MailMgr:     mailMgrMock,
		SessionMgr:  sessionMgrMock,
		BasketMgr:   basketMgrMock,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{
		pool:       poolMock,
		jwtMgr:     jwtMgr,
		mailMgr:    mailMgrMock,
		sessionMgr: sessionMgrMock,
		basketMgr:  basketMgrMock,
		cfg:        cfg,
		server:     server,
	}
}

// expect builds a client that does not follow redirects, so the tests can
// assert on the redirect responses themselves.
func (env *testEnv) expect(t *testing.T) *httpexpect.Expect {
	return httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  env.server.URL,
		Reporter: httpexpect.NewAssertReporter(t),
		Client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	})
}

func (env *testEnv) bearerToken(t *testing.T, userID, userName, sessionID string) string {
	claims := env.jwtMgr.GenerateClaims(userID, userName, sessionID, time.Hour)
	token, err := env.jwtMgr.GenerateJWT(claims)
	require.NoError(t, err)
	return token
}

func userRow(id uuid.UUID, email, userName, passwordHash string, isActive, isStaff, isSuperuser bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"user_id", "email", "user_name", "password", "first_name", "about", "country",
		"phone_number", "postcode", "address_line_1", "address_line_2", "town_city",
		"is_active", "is_staff", "is_superuser", "created_at", "updated_at",
	}).AddRow(id, email, userName, passwordHash, "", "", "", "", "", "", "", "",
		isActive, isStaff, isSuperuser, &now, &now)
}

func TestUserRegistration(t *testing.T) {
	registration := map[string]interface{}{
		"userName": "testUser",
		"email":    "test@example.com",
		"password": "test.Password123",
	}

	t.Run("ValidRegistration", func(t *testing.T) {
		env := setupTestEnv(t)

		var activationURL string
		env.mailMgr.On("SendActivationMail", "test@example.com", "testUser", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { activationURL = args.String(2) }).
			Return(nil)

		env.pool.ExpectBegin()
		env.pool.ExpectQuery("SELECT user_name, email").
			WithArgs("testUser", "test@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_name", "email"}))
		env.pool.ExpectExec("INSERT INTO store_schema.users").
			WithArgs(pgxmock.AnyArg(), "test@example.com", "testUser", pgxmock.AnyArg(),
				"", "", "", "", "", "", "", "",
				false, false, false, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		env.pool.ExpectCommit()
		env.pool.ExpectRollback()

		env.expect(t).POST("/api/users/").WithJSON(registration).
			Expect().Status(http.StatusOK).
			Body().IsEqual("registered succesfully and activation sent")

		env.mailMgr.AssertExpectations(t)
		require.NoError(t, env.pool.ExpectationsWereMet())

		// The mailed link must carry a decodable uid and a token that
		// validates for the fresh account and dies with activation.
		require.True(t, strings.HasPrefix(activationURL, "https://localhost:8080/api/users/activate/"), activationURL)
		parts := strings.Split(activationURL, "/")
		require.GreaterOrEqual(t, len(parts), 2)
		uid := parts[len(parts)-2]
		mailedToken := parts[len(parts)-1]

		mailedUserID, err := tokens.DecodeUID(uid)
		require.NoError(t, err)

		tokenService := tokens.NewActivationTokenService(env.cfg.Auth.ActivationSecret, env.cfg.Auth.ActivationExpiryHours)
		mailedUser := &schemas.User{ID: mailedUserID, IsActive: false}
		assert.True(t, tokenService.CheckToken(mailedUser, mailedToken))

		mailedUser.IsActive = true
		assert.False(t, tokenService.CheckToken(mailedUser, mailedToken))
	})

	t.Run("AuthenticatedCallerGoesToDashboard", func(t *testing.T) {
		env := setupTestEnv(t)

		userID := uuid.New()
		token := env.bearerToken(t, userID.String(), "testUser", "session-id")
		env.sessionMgr.On("GetSession", mock.Anything, "session-id").
			Return(&managers.Session{UserID: userID.String(), UserName: "testUser"}, nil)

		// No pool expectations: a logged-in caller must not touch the
		// database, let alone create another account.
		response := env.expect(t).POST("/api/users/").
			WithHeader("Authorization", "Bearer "+token).
			WithJSON(registration).
			Expect().Status(http.StatusFound)
		response.Header("Location").IsEqual("/api/users/dashboard")

		env.sessionMgr.AssertExpectations(t)
		require.NoError(t, env.pool.ExpectationsWereMet())
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		env := setupTestEnv(t)

		env.pool.ExpectBegin()
		env.pool.ExpectQuery("SELECT user_name, email").
			WithArgs("testUser", "test@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_name", "email"}).
				AddRow("testUser", "other@example.com"))
		env.pool.ExpectRollback()

		response := env.expect(t).POST("/api/users/").WithJSON(registration).
			Expect().Status(http.StatusConflict)
		response.JSON().Object().Value("error").Object().Value("code").IsEqual("ERR-002")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})

	t.Run("EmailTaken", func(t *testing.T) {
		env := setupTestEnv(t)

		env.pool.ExpectBegin()
		env.pool.ExpectQuery("SELECT user_name, email").
			WithArgs("testUser", "test@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_name", "email"}).
				AddRow("otherUser", "test@example.com"))
		env.pool.ExpectRollback()

		response := env.expect(t).POST("/api/users/").WithJSON(registration).
			Expect().Status(http.StatusConflict)
		response.JSON().Object().Value("error").Object().Value("code").IsEqual("ERR-003")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		env := setupTestEnv(t)

		invalid := map[string]interface{}{
			"userName": "testUser",
			"email":    "not-an-email",
			"password": "test.Password123",
		}
		response := env.expect(t).POST("/api/users/").WithJSON(invalid).
			Expect().Status(http.StatusBadRequest)
		response.JSON().Object().Value("error").Object().Value("code").IsEqual("ERR-001")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})

	t.Run("WeakPassword", func(t *testing.T) {
		env := setupTestEnv(t)

		weak := map[string]interface{}{
			"userName": "testUser",
			"email":    "test@example.com",
			"password": "alllowercase",
		}
		response := env.expect(t).POST("/api/users/").WithJSON(weak).
			Expect().Status(http.StatusBadRequest)
		response.JSON().Object().Value("error").Object().Value("code").IsEqual("ERR-001")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})
}

func TestUserActivation(t *testing.T) {
	t.Run("ValidActivation", func(t *testing.T) {
		env := setupTestEnv(t)

		userID := uuid.New()
		tokenService := tokens.NewActivationTokenService(env.cfg.Auth.ActivationSecret, env.cfg.Auth.ActivationExpiryHours)
		token := tokenService.MakeToken(&schemas.User{ID: userID, IsActive: false})

		env.pool.ExpectBegin()
		env.pool.ExpectQuery("SELECT (.+) FROM store_schema.users WHERE user_id").
			WithArgs(userID).
			WillReturnRows(userRow(userID, "test@example.com", "testUser", "irrelevant", false, false, false))
		env.pool.ExpectExec("UPDATE store_schema.users SET is_active").
			WithArgs(true, pgxmock.AnyArg(), userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		env.pool.ExpectCommit()
		env.pool.ExpectRollback()

		env.sessionMgr.On("CreateSession", mock.Anything, mock.AnythingOfType("managers.Session")).
			Return("session-id", nil)

		response := env.expect(t).GET("/api/users/activate/" + tokens.EncodeUID(userID) + "/" + token).
			Expect().Status(http.StatusFound)
		response.Header("Location").IsEqual("/api/users/dashboard")
		response.Cookie("session_token").Value().NotEmpty()

		env.sessionMgr.AssertExpectations(t)
		require.NoError(t, env.pool.ExpectationsWereMet())
	})

	t.Run("GarbageUID", func(t *testing.T) {
		env := setupTestEnv(t)

		response := env.expect(t).GET("/api/users/activate/not-base64!!/whatever").
			Expect().Status(http.StatusUnauthorized)
		response.JSON().Object().Value("error").Object().Value("code").IsEqual("ERR-005")
	})

	t.Run("TokenForAlreadyActiveUser", func(t *testing.T) {
		env := setupTestEnv(t)

		userID := uuid.New()
		tokenService := tokens.NewActivationTokenService(env.cfg.Auth.ActivationSecret, env.cfg.Auth.ActivationExpiryHours)
		token := tokenService.MakeToken(&schemas.User{ID: userID, IsActive: false})

		env.pool.ExpectBegin()
		env.pool.ExpectQuery("SELECT (.+) FROM store_schema.users WHERE user_id").
			WithArgs(userID).
			WillReturnRows(userRow(userID, "test@example.com", "testUser", "irrelevant", true, false, false))
		env.pool.ExpectRollback()

		response := env.expect(t).GET("/api/users/activate/" + tokens.EncodeUID(userID) + "/" + token).
			Expect().Status(http.StatusUnauthorized)
		response.JSON().Object().Value("error").Object().Value("code").IsEqual("ERR-005")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})
}

func TestUserLogin(t *testing.T) {
	login := map[string]interface{}{
		"email":    "test@example.com",
		"password": "test.Password123",
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("test.Password123"), bcrypt.DefaultCost)

	t.Run("ValidLogin", func(t *testing.T) {
		env := setupTestEnv(t)

		userID := uuid.New()
		env.pool.ExpectQuery("SELECT (.+) FROM store_schema.users WHERE email").
			WithArgs("test@example.com").
			WillReturnRows(userRow(userID, "test@example.com", "testUser", string(hash), true, false, false))
		env.sessionMgr.On("CreateSession", mock.Anything, mock.AnythingOfType("managers.Session")).
			Return("session-id", nil)

		response := env.expect(t).POST("/api/users/login").WithJSON(login).
			Expect().Status(http.StatusOK)
		response.JSON().Object().Value("token").String().NotEmpty()
		response.Cookie("session_token").Value().NotEmpty()

		env.sessionMgr.AssertExpectations(t)
		require.NoError(t, env.pool.ExpectationsWereMet())
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		env := setupTestEnv(t)

		env.pool.ExpectQuery("SELECT (.+) FROM store_schema.users WHERE email").
			WithArgs("test@example.com").
			WillReturnError(pgx.ErrNoRows)

		response := env.expect(t).POST("/api/users/login").WithJSON(login).
			Expect().Status(http.StatusNotFound)
		response.JSON().Object().Value("error").Object().Value("code").IsEqual("ERR-006")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})

	t.Run("NotActivated", func(t *testing.T) {
		env := setupTestEnv(t)

		userID := uuid.New()
		env.pool.ExpectQuery("SELECT (.+) FROM store_schema.users WHERE email").
			WithArgs("test@example.com").
			WillReturnRows(userRow(userID, "test@example.com", "testUser", string(hash), false, false, false))

		response := env.expect(t).POST("/api/users/login").WithJSON(login).
			Expect().Status(http.StatusForbidden)
		response.JSON().Object().Value("error").Object().Value("code").IsEqual("ERR-007")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})

	t.Run("WrongPassword", func(t *testing.T) {
		env := setupTestEnv(t)

		otherHash, _ := bcrypt.GenerateFromPassword([]byte("other.Password123"), bcrypt.DefaultCost)
		userID := uuid.New()
		env.pool.ExpectQuery("SELECT (.+) FROM store_schema.users WHERE email").
			WithArgs("test@example.com").
			WillReturnRows(userRow(userID, "test@example.com", "testUser", string(otherHash), true, false, false))

		response := env.expect(t).POST("/api/users/login").WithJSON(login).
			Expect().Status(http.StatusForbidden)
		response.JSON().Object().Value("error").Object().Value("code").IsEqual("ERR-006")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})
}

func TestAuthenticationRedirects(t *testing.T) {
	t.Run("NoToken", func(t *testing.T) {
		env := setupTestEnv(t)

		response := env.expect(t).GET("/api/users/dashboard").
			Expect().Status(http.StatusFound)
		response.Header("Location").IsEqual("/api/users/login")
	})

	t.Run("RevokedSession", func(t *testing.T) {
		env := setupTestEnv(t)

		token := env.bearerToken(t, uuid.New().String(), "testUser", "revoked-session")
		env.sessionMgr.On("GetSession", mock.Anything, "revoked-session").Return(nil, nil)

		response := env.expect(t).GET("/api/users/dashboard").
			WithHeader("Authorization", "Bearer "+token).
			Expect().Status(http.StatusFound)
		response.Header("Location").IsEqual("/api/users/login")

		env.sessionMgr.AssertExpectations(t)
	})

	t.Run("LoginPrompt", func(t *testing.T) {
		env := setupTestEnv(t)

		env.expect(t).GET("/api/users/login").
			Expect().Status(http.StatusOK).
			JSON().Object().Value("message").IsEqual("please log in to continue")
	})
}

func TestSoftDelete(t *testing.T) {
	env := setupTestEnv(t)

	userID := uuid.New()
	session := &managers.Session{UserID: userID.String(), UserName: "testUser"}
	token := env.bearerToken(t, userID.String(), "testUser", "session-id")

	env.sessionMgr.On("GetSession", mock.Anything, "session-id").Return(session, nil)
	env.sessionMgr.On("DeleteSession", mock.Anything, "session-id").Return(nil)

	env.pool.ExpectQuery("SELECT (.+) FROM store_schema.users WHERE user_id").
		WithArgs(userID).
		WillReturnRows(userRow(userID, "test@example.com", "testUser", "irrelevant", true, false, false))
	env.pool.ExpectBegin()
	env.pool.ExpectExec("UPDATE store_schema.users SET is_active").
		WithArgs(false, pgxmock.AnyArg(), userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	env.pool.ExpectCommit()
	env.pool.ExpectRollback()

	response := env.expect(t).DELETE("/api/users/").
		WithHeader("Authorization", "Bearer "+token).
		Expect().Status(http.StatusFound)
	response.Header("Location").IsEqual("/api/users/delete-confirmation")

	env.sessionMgr.AssertExpectations(t)
	require.NoError(t, env.pool.ExpectationsWereMet())

	// The row is still there; only the flag flipped. The next request with
	// the same token bounces because the session is gone.
	env.sessionMgr.ExpectedCalls = nil
	env.sessionMgr.On("GetSession", mock.Anything, "session-id").Return(nil, nil)

	redirect := env.expect(t).GET("/api/users/dashboard").
		WithHeader("Authorization", "Bearer "+token).
		Expect().Status(http.StatusFound)
	redirect.Header("Location").IsEqual("/api/users/login")
}

func TestDashboardAndProfileEdit(t *testing.T) {
	t.Run("Dashboard", func(t *testing.T) {
		env := setupTestEnv(t)

		userID := uuid.New()
		session := &managers.Session{UserID: userID.String(), UserName: "testUser"}
		token := env.bearerToken(t, userID.String(), "testUser", "session-id")
		env.sessionMgr.On("GetSession", mock.Anything, "session-id").Return(session, nil)

		env.pool.ExpectQuery("SELECT (.+) FROM store_schema.users WHERE user_id").
			WithArgs(userID).
			WillReturnRows(userRow(userID, "test@example.com", "testUser", "irrelevant", true, false, false))

		response := env.expect(t).GET("/api/users/dashboard").
			WithHeader("Authorization", "Bearer "+token).
			Expect().Status(http.StatusOK)
		response.JSON().Object().Value("userName").IsEqual("testUser")
		response.JSON().Object().Value("email").IsEqual("test@example.com")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})

	t.Run("ValidEdit", func(t *testing.T) {
		env := setupTestEnv(t)

		userID := uuid.New()
		session := &managers.Session{UserID: userID.String(), UserName: "testUser"}
		token := env.bearerToken(t, userID.String(), "testUser", "session-id")
		env.sessionMgr.On("GetSession", mock.Anything, "session-id").Return(session, nil)

		env.pool.ExpectQuery("SELECT (.+) FROM store_schema.users WHERE user_id").
			WithArgs(userID).
			WillReturnRows(userRow(userID, "test@example.com", "testUser", "irrelevant", true, false, false))
		env.pool.ExpectExec("UPDATE store_schema.users SET first_name").
			WithArgs("Jane", "", "DE", "", "", "", "", "", pgxmock.AnyArg(), userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		response := env.expect(t).PUT("/api/users/").
			WithHeader("Authorization", "Bearer "+token).
			WithJSON(map[string]interface{}{"firstName": "Jane", "country": "DE"}).
			Expect().Status(http.StatusOK)
		response.JSON().Object().Value("firstName").IsEqual("Jane")
		response.JSON().Object().Value("country").IsEqual("DE")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})

	t.Run("InvalidEditIsSwallowed", func(t *testing.T) {
		env := setupTestEnv(t)

		userID := uuid.New()
		session := &managers.Session{UserID: userID.String(), UserName: "testUser"}
		token := env.bearerToken(t, userID.String(), "testUser", "session-id")
		env.sessionMgr.On("GetSession", mock.Anything, "session-id").Return(session, nil)

		env.pool.ExpectQuery("SELECT (.+) FROM store_schema.users WHERE user_id").
			WithArgs(userID).
			WillReturnRows(userRow(userID, "test@example.com", "testUser", "irrelevant", true, false, false))

		// Country is limited to 2 characters; the edit fails validation but
		// the response is still the unchanged profile, not an error.
		response := env.expect(t).PUT("/api/users/").
			WithHeader("Authorization", "Bearer "+token).
			WithJSON(map[string]interface{}{"country": "Germany"}).
			Expect().Status(http.StatusOK)
		response.JSON().Object().Value("country").IsEqual("")
		response.JSON().Object().Value("userName").IsEqual("testUser")

		require.NoError(t, env.pool.ExpectationsWereMet())
	})
}
