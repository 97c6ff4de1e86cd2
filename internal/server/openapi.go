package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Globetrotter API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Globetrotter travel guessing game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/auth/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/auth/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Creates an account, sets the session cookie, and accepts any pending invites addressed to the username.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Login")
	postLogin.SetDescription("Authenticates with username and password. Sets the session cookie.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/auth/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/auth/logout")
	postLogout.SetSummary("Logout")
	postLogout.SetDescription("Clears the session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/auth/username-available
	getAvailable, _ := r.NewOperationContext(http.MethodGet, "/api/auth/username-available")
	getAvailable.SetSummary("Username availability")
	getAvailable.SetDescription("Checks whether a username can still be registered.")
	getAvailable.AddReqStructure(struct {
		Username string `query:"username"`
	}{})
	getAvailable.AddRespStructure(struct {
		Available bool `json:"available"`
	}{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getAvailable)

	// GET /api/game/round
	getRound, _ := r.NewOperationContext(http.MethodGet, "/api/game/round")
	getRound.SetSummary("New round")
	getRound.SetDescription("Returns clues and four shuffled city options. Requires session cookie.")
	getRound.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	getRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getRound)

	// POST /api/game/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/game/answer")
	postAnswer.SetSummary("Submit answer")
	postAnswer.SetDescription("Scores the round, updates streaks and achievements. A timed-out round counts as wrong. Requires session cookie.")
	postAnswer.AddReqStructure(AnswerRequest{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postAnswer)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current user profile")
	getMe.SetDescription("Returns stats, unlocked achievements, and sent invites. Requires session cookie.")
	getMe.AddRespStructure(ProfileResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/users/{username}
	getUser, _ := r.NewOperationContext(http.MethodGet, "/api/users/{username}")
	getUser.SetSummary("Public profile")
	getUser.SetDescription("Limited profile shown on challenge links.")
	getUser.AddRespStructure(PublicProfileResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getUser)

	// GET /api/achievements
	getAchievements, _ := r.NewOperationContext(http.MethodGet, "/api/achievements")
	getAchievements.SetSummary("Achievement catalog")
	getAchievements.AddRespStructure([]AchievementInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getAchievements)

	// GET /api/destinations
	getDestinations, _ := r.NewOperationContext(http.MethodGet, "/api/destinations")
	getDestinations.SetSummary("Destination catalog")
	getDestinations.SetDescription("Cities and countries in the guessing pool, without clues.")
	getDestinations.AddRespStructure([]DestinationSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getDestinations)

	// GET /api/notifications
	getNotifications, _ := r.NewOperationContext(http.MethodGet, "/api/notifications")
	getNotifications.SetSummary("List notifications")
	getNotifications.SetDescription("Newest first. Requires session cookie.")
	getNotifications.AddRespStructure([]NotificationInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	getNotifications.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getNotifications)

	// POST /api/notifications/{id}/read
	markRead, _ := r.NewOperationContext(http.MethodPost, "/api/notifications/{id}/read")
	markRead.SetSummary("Mark notification read")
	markRead.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	markRead.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(markRead)

	// DELETE /api/notifications/{id}
	deleteNotification, _ := r.NewOperationContext(http.MethodDelete, "/api/notifications/{id}")
	deleteNotification.SetSummary("Delete notification")
	deleteNotification.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteNotification.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteNotification)

	// DELETE /api/notifications
	deleteAll, _ := r.NewOperationContext(http.MethodDelete, "/api/notifications")
	deleteAll.SetSummary("Delete all notifications")
	deleteAll.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(deleteAll)

	// POST /api/invites
	postInvite, _ := r.NewOperationContext(http.MethodPost, "/api/invites")
	postInvite.SetSummary("Send invite")
	postInvite.SetDescription("Invites a friend by username. One invite per (inviter, invitee) pair. Requires session cookie.")
	postInvite.AddReqStructure(SendInviteRequest{})
	postInvite.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusCreated))
	postInvite.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postInvite)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.Marshal(spec)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}
