package http

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clipstream/internal/domain"
	"clipstream/internal/service"
	"clipstream/internal/token"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// CookieConfig controls how session cookies are issued.
type CookieConfig struct {
	Secure        bool
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// Handler wires HTTP routes to the user service.
type Handler struct {
	users   service.UserService
	tokens  *token.Manager
	cookies CookieConfig
	tempDir string
}

func NewHandler(users service.UserService, tokens *token.Manager, cookies CookieConfig, tempDir string) *Handler {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Handler{
		users:   users,
		tokens:  tokens,
		cookies: cookies,
		tempDir: tempDir,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	users := router.Group("/api/v1/users")
	{
		users.POST("/register", h.register)
		users.POST("/login", h.login)
		users.POST("/refresh-token", h.refreshToken)

		users.POST("/logout", requireAuth(h.tokens), h.logout)
		users.POST("/change-password", requireAuth(h.tokens), h.changePassword)
		users.GET("/current-user", requireAuth(h.tokens), h.currentUser)
		users.PATCH("/update-account", requireAuth(h.tokens), h.updateAccount)
		users.PATCH("/avatar", requireAuth(h.tokens), h.updateAvatar)
		users.PATCH("/cover-image", requireAuth(h.tokens), h.updateCoverImage)
		users.GET("/history", requireAuth(h.tokens), h.watchHistory)

		users.GET("/c/:username", optionalAuth(h.tokens), h.channelProfile)
	}

	router.GET("/api/v1/health", func(ctx *gin.Context) {
		respond(ctx, http.StatusOK, gin.H{"ok": "ok"}, "healthy")
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) register(c *gin.Context) {
	in := service.RegisterInput{
		FullName: c.PostForm("fullname"),
		Email:    c.PostForm("email"),
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	avatarPath, cleanupAvatar, err := h.spoolUpload(c, "avatar")
	if err != nil {
		respond(c, http.StatusInternalServerError, nil, "failed to read uploaded file")
		return
	}
	defer cleanupAvatar()
	in.AvatarPath = avatarPath

	coverPath, cleanupCover, err := h.spoolUpload(c, "coverImage")
	if err != nil {
		respond(c, http.StatusInternalServerError, nil, "failed to read uploaded file")
		return
	}
	defer cleanupCover()
	in.CoverImagePath = coverPath

	user, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, userToResponse(user), "user registered")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	user, pair, err := h.users.Login(c.Request.Context(), service.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	respond(c, http.StatusOK, gin.H{
		"user":         userToResponse(user),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "logged in")
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	h.clearSessionCookies(c)
	respond(c, http.StatusOK, nil, "logged out")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) refreshToken(c *gin.Context) {
	raw, err := c.Cookie(refreshTokenCookie)
	if err != nil || raw == "" {
		var req refreshRequest
		_ = c.ShouldBindJSON(&req)
		raw = req.RefreshToken
	}

	pair, err := h.users.RefreshTokens(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	respond(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "tokens refreshed")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), currentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "password changed")
}

func (h *Handler) currentUser(c *gin.Context) {
	user, err := h.users.GetCurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, userToResponse(user), "current user")
}

type updateAccountRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

func (h *Handler) updateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	user, err := h.users.UpdateAccountDetails(c.Request.Context(), currentUserID(c), req.FullName, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, userToResponse(user), "account details updated")
}

func (h *Handler) updateAvatar(c *gin.Context) {
	h.updateImage(c, func(path string) (*domain.User, error) {
		return h.users.UpdateAvatar(c.Request.Context(), currentUserID(c), path)
	}, "avatar updated")
}

func (h *Handler) updateCoverImage(c *gin.Context) {
	h.updateImage(c, func(path string) (*domain.User, error) {
		return h.users.UpdateCoverImage(c.Request.Context(), currentUserID(c), path)
	}, "cover image updated")
}

func (h *Handler) updateImage(c *gin.Context, update func(path string) (*domain.User, error), message string) {
	path, cleanup, err := h.spoolUpload(c, "file")
	if err != nil {
		respond(c, http.StatusInternalServerError, nil, "failed to read uploaded file")
		return
	}
	defer cleanup()

	user, err := update(path)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, userToResponse(user), message)
}

func (h *Handler) channelProfile(c *gin.Context) {
	profile, err := h.users.GetChannelProfile(c.Request.Context(), c.Param("username"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profileToResponse(profile), "channel profile")
}

func (h *Handler) watchHistory(c *gin.Context) {
	entries, err := h.users.GetWatchHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]WatchHistoryResponse, len(entries))
	for i := range entries {
		resp[i] = watchEntryToResponse(entries[i])
	}
	respond(c, http.StatusOK, resp, "watch history")
}

// spoolUpload saves the first file of a multipart field to the temp dir
// and returns its local path plus a cleanup func. A missing field yields
// an empty path; presence requirements belong to the use case.
func (h *Handler) spoolUpload(c *gin.Context, field string) (string, func(), error) {
	noop := func() {}

	file, err := c.FormFile(field)
	if err != nil {
		// missing field, or no multipart body at all
		return "", noop, nil
	}

	path := filepath.Join(h.tempDir, fmt.Sprintf("upload-%s%s", uuid.NewString(), filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", noop, fmt.Errorf("save uploaded file: %w", err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}

func (h *Handler) setSessionCookies(c *gin.Context, pair domain.TokenPair) {
	c.SetCookie(accessTokenCookie, pair.AccessToken, int(h.cookies.AccessMaxAge.Seconds()), "/", "", h.cookies.Secure, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken, int(h.cookies.RefreshMaxAge.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
}

type UserResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"fullname"`
	AvatarURL     string `json:"avatarUrl"`
	CoverImageURL string `json:"coverImageUrl"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

type ChannelProfileResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"fullname"`
	Email           string `json:"email,omitempty"`
	AvatarURL       string `json:"avatarUrl"`
	CoverImageURL   string `json:"coverImageUrl"`
	SubscriberCount int64  `json:"subscriberCount"`
	SubscribedTo    int64  `json:"channelsSubscribedToCount"`
	IsSubscribed    bool   `json:"isSubscribed"`
}

type VideoResponse struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	ThumbnailURL string             `json:"thumbnailUrl"`
	VideoURL     string             `json:"videoUrl"`
	Duration     int64              `json:"duration"`
	Views        int64              `json:"views"`
	Owner        VideoOwnerResponse `json:"owner"`
}

type VideoOwnerResponse struct {
	Username  string `json:"username"`
	FullName  string `json:"fullname"`
	AvatarURL string `json:"avatarUrl"`
}

type WatchHistoryResponse struct {
	Video     VideoResponse `json:"video"`
	WatchedAt string        `json:"watchedAt"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		FullName:      user.FullName,
		AvatarURL:     user.AvatarURL,
		CoverImageURL: user.CoverImageURL,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     user.UpdatedAt.Format(time.RFC3339),
	}
}

func profileToResponse(p *domain.ChannelProfile) ChannelProfileResponse {
	return ChannelProfileResponse{
		ID:              p.ID,
		Username:        p.Username,
		FullName:        p.FullName,
		Email:           p.Email,
		AvatarURL:       p.AvatarURL,
		CoverImageURL:   p.CoverImageURL,
		SubscriberCount: p.SubscriberCount,
		SubscribedTo:    p.SubscribedTo,
		IsSubscribed:    p.IsSubscribed,
	}
}

func watchEntryToResponse(e domain.WatchHistoryEntry) WatchHistoryResponse {
	return WatchHistoryResponse{
		Video: VideoResponse{
			ID:           e.Video.ID,
			Title:        e.Video.Title,
			Description:  e.Video.Description,
			ThumbnailURL: e.Video.ThumbnailURL,
			VideoURL:     e.Video.VideoURL,
			Duration:     e.Video.Duration,
			Views:        e.Video.Views,
			Owner: VideoOwnerResponse{
				Username:  e.Owner.Username,
				FullName:  e.Owner.FullName,
				AvatarURL: e.Owner.AvatarURL,
			},
		},
		WatchedAt: e.WatchedAt.Format(time.RFC3339),
	}
}
