package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"tingles_server/config"
	"tingles_server/models"
	"tingles_server/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	oauth2google "golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const linkedInUserinfoURL = "https://api.linkedin.com/v2/userinfo"

// AuthController handles sign-up, password login and the OAuth redirect
// flows. Its only job toward the storage layer is producing a verified
// (email, name, provider) triple and calling the credential operations.
type AuthController struct {
	Store     services.Store
	JWTSecret []byte

	google   *oauth2.Config
	linkedin *oauth2.Config

	// Pending OAuth state tokens, for CSRF protection on the callback.
	stateMu sync.Mutex
	states  map[string]time.Time
}

// NewAuthController wires the OAuth client configurations from app config.
func NewAuthController(store services.Store, cfg config.AppConfig) *AuthController {
	base := strings.TrimRight(cfg.OAuthRedirectURL, "/")
	return &AuthController{
		Store:     store,
		JWTSecret: []byte(cfg.JWTSecret),
		google: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  base + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     oauth2google.Endpoint,
		},
		linkedin: &oauth2.Config{
			ClientID:     cfg.LinkedInClientID,
			ClientSecret: cfg.LinkedInClientSecret,
			RedirectURL:  base + "/api/auth/linkedin/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://www.linkedin.com/oauth/v2/authorization",
				TokenURL: "https://www.linkedin.com/oauth/v2/accessToken",
			},
		},
		states: make(map[string]time.Time),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an email/password account.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Password = strings.TrimSpace(req.Password)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	if err := c.Store.AddCredential(r.Context(), req.Email, string(hash), models.RoleUser); err != nil {
		if storeErrorStatus(err) == http.StatusConflict {
			writeError(w, http.StatusConflict, "email already registered, please sign in")
			return
		}
		log.Printf("Failed to add credential for %s: %v", req.Email, err)
		writeError(w, storeErrorStatus(err), "registration failed")
		return
	}

	c.issueToken(w, http.StatusCreated, req.Email, models.RoleUser)
}

// Login authenticates an email/password pair.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	role, err := c.Store.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		switch storeErrorStatus(err) {
		case http.StatusNotFound:
			writeError(w, http.StatusNotFound, "email not found, please sign up first")
		case http.StatusUnauthorized:
			writeError(w, http.StatusUnauthorized, "incorrect password or oauth-only account")
		default:
			log.Printf("Login failed for %s: %v", req.Email, err)
			writeError(w, storeErrorStatus(err), "login failed")
		}
		return
	}

	c.issueToken(w, http.StatusOK, req.Email, role)
}

// GoogleLogin redirects to Google's consent screen.
func (c *AuthController) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	c.redirectToProvider(w, r, c.google)
}

// GoogleCallback exchanges the code and signs the user in, creating the
// account on first visit.
func (c *AuthController) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	token, ok := c.exchangeCode(w, r, c.google)
	if !ok {
		return
	}

	svc, err := googleoauth.NewService(r.Context(), option.WithTokenSource(c.google.TokenSource(r.Context(), token)))
	if err != nil {
		log.Printf("Google userinfo service init failed: %v", err)
		writeError(w, http.StatusBadGateway, "google sign-in failed")
		return
	}
	info, err := svc.Userinfo.Get().Do()
	if err != nil || info.Email == "" {
		log.Printf("Google userinfo fetch failed: %v", err)
		writeError(w, http.StatusBadGateway, "google sign-in failed")
		return
	}

	c.finishOAuth(w, r.Context(), info.Email, info.Name, models.ProviderGoogle, info.Id)
}

// LinkedInLogin redirects to LinkedIn's consent screen.
func (c *AuthController) LinkedInLogin(w http.ResponseWriter, r *http.Request) {
	c.redirectToProvider(w, r, c.linkedin)
}

// LinkedInCallback exchanges the code against LinkedIn and signs the user in.
func (c *AuthController) LinkedInCallback(w http.ResponseWriter, r *http.Request) {
	token, ok := c.exchangeCode(w, r, c.linkedin)
	if !ok {
		return
	}

	client := c.linkedin.Client(r.Context(), token)
	resp, err := client.Get(linkedInUserinfoURL)
	if err != nil {
		log.Printf("LinkedIn userinfo fetch failed: %v", err)
		writeError(w, http.StatusBadGateway, "linkedin sign-in failed")
		return
	}
	defer resp.Body.Close()

	var info struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		log.Printf("LinkedIn userinfo decode failed: %v", err)
		writeError(w, http.StatusBadGateway, "linkedin sign-in failed")
		return
	}

	c.finishOAuth(w, r.Context(), info.Email, info.Name, models.ProviderLinkedIn, info.Sub)
}

func (c *AuthController) redirectToProvider(w http.ResponseWriter, r *http.Request, conf *oauth2.Config) {
	if conf.ClientID == "" {
		writeError(w, http.StatusNotImplemented, "oauth provider not configured")
		return
	}
	state := c.newState()
	http.Redirect(w, r, conf.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

func (c *AuthController) exchangeCode(w http.ResponseWriter, r *http.Request, conf *oauth2.Config) (*oauth2.Token, bool) {
	if !c.consumeState(r.URL.Query().Get("state")) {
		writeError(w, http.StatusBadRequest, "invalid oauth state")
		return nil, false
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return nil, false
	}
	token, err := conf.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("OAuth code exchange failed: %v", err)
		writeError(w, http.StatusBadGateway, "oauth exchange failed")
		return nil, false
	}
	return token, true
}

func (c *AuthController) finishOAuth(w http.ResponseWriter, ctx context.Context, email, name, provider, oauthID string) {
	role, err := c.Store.GetOrCreateOAuthUser(ctx, email, name, provider, oauthID)
	if err != nil {
		if storeErrorStatus(err) == http.StatusConflict {
			writeError(w, http.StatusConflict, "this email is registered with a different login method")
			return
		}
		log.Printf("OAuth sign-in failed for %s: %v", email, err)
		writeError(w, storeErrorStatus(err), "oauth sign-in failed")
		return
	}
	c.issueToken(w, http.StatusOK, email, role)
}

func (c *AuthController) issueToken(w http.ResponseWriter, status int, email, role string) {
	claims := jwt.MapClaims{
		"email": models.NormalizeEmail(email),
		"role":  role,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.JWTSecret)
	if err != nil {
		log.Printf("Failed to sign token for %s: %v", email, err)
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	writeJSON(w, status, map[string]string{"token": signed, "role": role})
}

func (c *AuthController) newState() string {
	state := uuid.NewString()
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	// Drop stale entries from abandoned flows while we are here.
	for s, t := range c.states {
		if time.Since(t) > 10*time.Minute {
			delete(c.states, s)
		}
	}
	c.states[state] = time.Now()
	return state
}

func (c *AuthController) consumeState(state string) bool {
	if state == "" {
		return false
	}
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	issued, ok := c.states[state]
	if !ok {
		return false
	}
	delete(c.states, state)
	return time.Since(issued) <= 10*time.Minute
}
