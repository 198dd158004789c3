package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/perfhub/performance-hub-api/internal/auth"
	"github.com/perfhub/performance-hub-api/internal/database"
	"github.com/perfhub/performance-hub-api/internal/hierarchy"
	"github.com/perfhub/performance-hub-api/internal/middleware"
	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/perfhub/performance-hub-api/internal/repository"
	"github.com/perfhub/performance-hub-api/internal/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "supersecret"

// testEnv wires the full authenticated API against an in-memory database.
type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.TeamMember{},
		&models.Objective{},
		&models.KeyResult{},
		&models.MeetingLog{},
		&models.ActionItem{},
	)
	require.NoError(t, err)

	database.SetDB(db)
	require.NoError(t, auth.Init("test-secret", 60))

	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)
	objectiveRepo := repository.NewObjectiveRepository(db)
	meetingLogRepo := repository.NewMeetingLogRepository(db)
	actionItemRepo := repository.NewActionItemRepository(db)

	resolver := hierarchy.NewResolver(memberRepo)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	memberService := services.NewTeamMemberService(memberRepo, userRepo, resolver)
	objectiveService := services.NewObjectiveService(objectiveRepo, memberRepo, resolver)
	meetingLogService := services.NewMeetingLogService(meetingLogRepo, memberRepo, resolver)
	actionItemService := services.NewActionItemService(actionItemRepo, memberRepo, resolver)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	memberHandler := NewTeamMemberHandler(memberService)
	objectiveHandler := NewObjectiveHandler(objectiveService)
	meetingLogHandler := NewMeetingLogHandler(meetingLogService)
	actionItemHandler := NewActionItemHandler(actionItemService)

	r := gin.New()

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
		authRoutes.POST("/reset-password", authHandler.ResetPassword)
	}

	users := r.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("/me", userHandler.GetMe)
		users.PUT("/me", userHandler.UpdateMe)
		users.DELETE("/me", userHandler.DeleteMe)
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	members := r.Group("/team-members")
	members.Use(middleware.RequireAuth())
	{
		members.GET("/me", memberHandler.GetMe)
		members.GET("/hierarchy", memberHandler.Hierarchy)
		members.GET("", memberHandler.List)
		members.POST("", memberHandler.Create)
		members.GET("/:id", memberHandler.Get)
		members.PUT("/:id", memberHandler.Update)
		members.DELETE("/:id", memberHandler.Delete)
	}

	objectives := r.Group("/objectives")
	objectives.Use(middleware.RequireAuth())
	{
		objectives.GET("", objectiveHandler.List)
		objectives.POST("", objectiveHandler.Create)
		objectives.GET("/:id", objectiveHandler.Get)
		objectives.PUT("/:id", objectiveHandler.Update)
		objectives.DELETE("/:id", objectiveHandler.Delete)
		objectives.POST("/:id/key-results", objectiveHandler.AddKeyResult)
	}

	keyResults := r.Group("/key-results")
	keyResults.Use(middleware.RequireAuth())
	{
		keyResults.PUT("/:id", objectiveHandler.UpdateKeyResult)
		keyResults.DELETE("/:id", objectiveHandler.DeleteKeyResult)
	}

	meetingLogs := r.Group("/meeting-logs")
	meetingLogs.Use(middleware.RequireAuth())
	{
		meetingLogs.GET("", meetingLogHandler.List)
		meetingLogs.POST("", meetingLogHandler.Create)
		meetingLogs.GET("/:id", meetingLogHandler.Get)
		meetingLogs.PUT("/:id", meetingLogHandler.Update)
		meetingLogs.DELETE("/:id", meetingLogHandler.Delete)
	}

	actionItems := r.Group("/action-items")
	actionItems.Use(middleware.RequireAuth())
	{
		actionItems.GET("", actionItemHandler.List)
		actionItems.POST("", actionItemHandler.Create)
		actionItems.GET("/:id", actionItemHandler.Get)
		actionItems.PUT("/:id", actionItemHandler.Update)
		actionItems.DELETE("/:id", actionItemHandler.Delete)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &testEnv{db: db, router: r}
}

func (e *testEnv) createUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createMember(t *testing.T, firstName, email string, userID, superiorID *uint64) *models.TeamMember {
	t.Helper()

	member := &models.TeamMember{
		FirstName:  firstName,
		LastName:   "Test",
		Email:      email,
		UserID:     userID,
		SuperiorID: superiorID,
		IsActive:   true,
	}
	require.NoError(t, e.db.Create(member).Error)
	return member
}

func (e *testEnv) token(t *testing.T, email string) string {
	t.Helper()

	token, err := auth.GenerateToken(email)
	require.NoError(t, err)
	return token
}

// request performs a JSON request against the test router. A non-empty token
// is sent as a bearer credential.
func (e *testEnv) request(t *testing.T, method, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// formRequest performs a form-encoded request, used by the login endpoint.
func (e *testEnv) formRequest(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
