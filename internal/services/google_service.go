package services

import (
	"context"
	"errors"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/taskhive/tracker-platform/internal/config"
	"github.com/taskhive/tracker-platform/internal/database"
	"github.com/taskhive/tracker-platform/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

var (
	ErrInvalidState      = errors.New("invalid state parameter")
	ErrExchangeFailed    = errors.New("failed to fetch token")
	ErrProfileFailed     = errors.New("failed to fetch user info")
	ErrIncompleteProfile = errors.New("profile is missing email or name")
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleProfile is the subset of the userinfo response we consume.
type GoogleProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type GoogleService struct {
	oauth       *oauth2.Config
	client      *resty.Client
	auth        *AuthService
	userInfoURL string

	mu     sync.Mutex
	states map[string]struct{}
}

func NewGoogleService(cfg *config.Config, auth *AuthService) *GoogleService {
	return &GoogleService{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  googleAuthURL,
				TokenURL: googleTokenURL,
			},
		},
		client:      resty.New(),
		auth:        auth,
		userInfoURL: googleUserInfoURL,
		states:      make(map[string]struct{}),
	}
}

// LoginURL builds the consent redirect with a single-use state nonce.
func (s *GoogleService) LoginURL() string {
	state := uuid.NewString()

	s.mu.Lock()
	s.states[state] = struct{}{}
	s.mu.Unlock()

	return s.oauth.AuthCodeURL(state)
}

func (s *GoogleService) consumeState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.states[state]; !ok {
		return false
	}
	delete(s.states, state)
	return true
}

// Exchange trades an authorization code for a local session. It exchanges the
// code for a provider access token, fetches the profile, upserts the employee
// by email and issues a session token for the cookie.
func (s *GoogleService) Exchange(ctx context.Context, state, code string) (*models.Employee, string, error) {
	if !s.consumeState(state) {
		return nil, "", ErrInvalidState
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, "", ErrExchangeFailed
	}

	profile := &GoogleProfile{}
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(profile).
		Get(s.userInfoURL)
	if err != nil || resp.IsError() {
		return nil, "", ErrProfileFailed
	}

	if profile.Email == "" || profile.Name == "" {
		return nil, "", ErrIncompleteProfile
	}

	employee, err := s.upsertEmployee(profile)
	if err != nil {
		return nil, "", err
	}

	session, err := s.auth.IssueToken(employee)
	if err != nil {
		return nil, "", err
	}

	return employee, session, nil
}

// upsertEmployee resolves a profile to an employee row. First login creates a
// member; repeat logins refresh name and picture but never touch the role.
func (s *GoogleService) upsertEmployee(profile *GoogleProfile) (*models.Employee, error) {
	db := database.GetDB()

	var employee models.Employee
	err := db.Where("email = ?", profile.Email).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		employee = models.Employee{
			Name:    profile.Name,
			Email:   profile.Email,
			Role:    models.RoleMember,
			Picture: profile.Picture,
		}
		if err := db.Create(&employee).Error; err != nil {
			return nil, err
		}
		return &employee, nil
	}
	if err != nil {
		return nil, err
	}

	employee.Name = profile.Name
	employee.Picture = profile.Picture
	if err := db.Save(&employee).Error; err != nil {
		return nil, err
	}

	return &employee, nil
}
