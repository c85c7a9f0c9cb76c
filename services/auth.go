package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/edulens/insight/models"
	"github.com/edulens/insight/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

// TeacherContextKey carries the authenticated teacher through request
// contexts.
const TeacherContextKey contextKey = "teacher"

// TeacherFromContext returns the authenticated teacher set by the
// auth middleware.
func TeacherFromContext(ctx context.Context) (*models.Teacher, bool) {
	teacher, ok := ctx.Value(TeacherContextKey).(*models.Teacher)
	return teacher, ok
}

type AuthService struct {
	repo            *repository.GORMRepository
	jwtSecret       []byte
	accessExpiry    time.Duration
	refreshExpiry   time.Duration
	permanentExpiry time.Duration
}

type CookieClaims struct {
	TeacherID string `json:"teacher_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type AuthResponse struct {
	Teacher        *models.Teacher `json:"teacher"`
	AccessToken    string          `json:"access_token,omitempty"`
	RefreshToken   string          `json:"refresh_token,omitempty"`
	PermanentToken string          `json:"permanent_token,omitempty"`
}

func NewAuthService(repo *repository.GORMRepository, jwtSecret string) *AuthService {
	return &AuthService{
		repo:            repo,
		jwtSecret:       []byte(jwtSecret),
		accessExpiry:    5 * time.Minute,
		refreshExpiry:   7 * 24 * time.Hour,
		permanentExpiry: 30 * 24 * time.Hour,
	}
}

// generateSecureToken generates a cryptographically secure random token
func (s *AuthService) generateSecureToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// hashToken creates a SHA256 hash of the token for secure storage
func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Login authenticates a teacher and creates tokens
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	teacher, err := s.repo.GetTeacherByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher == nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	accessToken, err := s.generateAccessToken(teacher)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	permanentToken, err := s.generateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate permanent token: %w", err)
	}

	if err := s.storeTokens(ctx, teacher.ID, refreshToken, permanentToken); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	slog.Info("Teacher logged in successfully", "teacher_id", teacher.ID, "email", teacher.Email)
	return &AuthResponse{
		Teacher:        teacher,
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		PermanentToken: permanentToken,
	}, nil
}

// Signup creates a new teacher account
func (s *AuthService) Signup(ctx context.Context, email, password, fullName, staffID string) (*AuthResponse, error) {
	existing, err := s.repo.GetTeacherByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing teacher: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	if staffID != "" {
		existing, err = s.repo.GetTeacherByStaffID(ctx, staffID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing staff ID: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("staff ID already registered")
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	teacher := &models.Teacher{
		Email:    email,
		Password: string(hashedPassword),
		FullName: fullName,
		StaffID:  staffID,
		Role:     "teacher",
	}

	if err := s.repo.CreateTeacher(ctx, teacher); err != nil {
		return nil, fmt.Errorf("failed to create teacher: %w", err)
	}

	accessToken, err := s.generateAccessToken(teacher)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	permanentToken, err := s.generateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate permanent token: %w", err)
	}

	if err := s.storeTokens(ctx, teacher.ID, refreshToken, permanentToken); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	slog.Info("Teacher signed up successfully", "teacher_id", teacher.ID, "email", teacher.Email)
	return &AuthResponse{
		Teacher:        teacher,
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		PermanentToken: permanentToken,
	}, nil
}

// RefreshToken generates a new access token using a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	tokenRecord, err := s.repo.GetRefreshToken(ctx, s.hashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	if tokenRecord == nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	teacher, err := s.repo.GetTeacherByID(ctx, tokenRecord.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher == nil {
		return nil, fmt.Errorf("teacher not found")
	}

	accessToken, err := s.generateAccessToken(teacher)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("Access token refreshed", "teacher_id", teacher.ID)
	return &AuthResponse{
		Teacher:     teacher,
		AccessToken: accessToken,
	}, nil
}

// VerifyPermanentToken verifies a permanent token and generates a new
// access token
func (s *AuthService) VerifyPermanentToken(ctx context.Context, permanentToken string) (*AuthResponse, error) {
	tokenRecord, err := s.repo.GetPermanentToken(ctx, s.hashToken(permanentToken))
	if err != nil {
		return nil, fmt.Errorf("failed to get permanent token: %w", err)
	}
	if tokenRecord == nil {
		return nil, fmt.Errorf("invalid permanent token")
	}

	teacher, err := s.repo.GetTeacherByID(ctx, tokenRecord.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher == nil {
		return nil, fmt.Errorf("teacher not found")
	}

	accessToken, err := s.generateAccessToken(teacher)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("Access token generated from permanent token", "teacher_id", teacher.ID)
	return &AuthResponse{
		Teacher:     teacher,
		AccessToken: accessToken,
	}, nil
}

// Logout invalidates all tokens for the teacher
func (s *AuthService) Logout(ctx context.Context, teacherID string) error {
	if err := s.repo.DeleteAllTeacherTokens(ctx, teacherID); err != nil {
		return fmt.Errorf("failed to delete teacher tokens: %w", err)
	}

	slog.Info("Teacher logged out", "teacher_id", teacherID)
	return nil
}

// VerifyAccessToken verifies and extracts the teacher from an access
// token
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*models.Teacher, error) {
	claims := &CookieClaims{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	// Ensure the teacher still exists
	teacher, err := s.repo.GetTeacherByID(ctx, claims.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher == nil {
		return nil, fmt.Errorf("teacher not found")
	}

	return teacher, nil
}

// generateAccessToken creates a short-lived access token
func (s *AuthService) generateAccessToken(teacher *models.Teacher) (string, error) {
	claims := &CookieClaims{
		TeacherID: teacher.ID,
		Email:     teacher.Email,
		Role:      teacher.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// storeTokens stores refresh and permanent tokens in the database
func (s *AuthService) storeTokens(ctx context.Context, teacherID, refreshToken, permanentToken string) error {
	refreshTokenRecord := &models.RefreshToken{
		TeacherID: teacherID,
		Token:     s.hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshExpiry),
	}
	if err := s.repo.CreateRefreshToken(ctx, refreshTokenRecord); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	permanentTokenRecord := &models.PermanentToken{
		TeacherID: teacherID,
		Token:     s.hashToken(permanentToken),
	}
	if err := s.repo.CreatePermanentToken(ctx, permanentTokenRecord); err != nil {
		return fmt.Errorf("failed to store permanent token: %w", err)
	}

	return nil
}

// SetAuthCookies sets HTTP-only, secure cookies
func (s *AuthService) SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken, permanentToken string) {
	isProduction := os.Getenv("ENVIRONMENT") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.accessExpiry.Seconds()),
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.refreshExpiry.Seconds()),
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "permanent_token",
		Value:    permanentToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.permanentExpiry.Seconds()),
	})
}

// ClearAuthCookies clears all authentication cookies
func (s *AuthService) ClearAuthCookies(w http.ResponseWriter) {
	isProduction := os.Getenv("ENVIRONMENT") == "production"
	cookies := []string{"access_token", "refresh_token", "permanent_token"}

	for _, cookieName := range cookies {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   isProduction,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// GetTokenFromCookie extracts a token from request cookies
func (s *AuthService) GetTokenFromCookie(r *http.Request, cookieName string) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Middleware for cookie-based authentication
func (s *AuthService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := s.GetTokenFromCookie(r, "access_token")
		if accessToken != "" {
			teacher, err := s.VerifyAccessToken(r.Context(), accessToken)
			if err == nil {
				ctx := context.WithValue(r.Context(), TeacherContextKey, teacher)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		refreshToken := s.GetTokenFromCookie(r, "refresh_token")
		if refreshToken != "" {
			authResponse, err := s.RefreshToken(r.Context(), refreshToken)
			if err == nil {
				s.SetAuthCookies(w, authResponse.AccessToken, "", "")
				ctx := context.WithValue(r.Context(), TeacherContextKey, authResponse.Teacher)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		permanentToken := s.GetTokenFromCookie(r, "permanent_token")
		if permanentToken != "" {
			authResponse, err := s.VerifyPermanentToken(r.Context(), permanentToken)
			if err == nil {
				s.SetAuthCookies(w, authResponse.AccessToken, "", "")
				ctx := context.WithValue(r.Context(), TeacherContextKey, authResponse.Teacher)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}
