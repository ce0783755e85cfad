package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"certverify/internal/platform/config"
	dErrors "certverify/pkg/domain-errors"

	"certverify/internal/identity/models"
)

// photoAliases lists the attribute keys a profile photo may be stored under,
// in priority order. The first present alias wins.
var photoAliases = []string{
	"profile_image",
	"profileImage",
	"photo_url",
	"profile-image",
	"Profile Image",
}

// tokenSkew is subtracted from the access token lifetime so we refresh
// slightly before the directory would reject it.
const tokenSkew = 30 * time.Second

// KeycloakClient implements Directory against a Keycloak admin REST API using
// a service account (client_credentials grant).
type KeycloakClient struct {
	httpClient   *http.Client
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	logger       *slog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewKeycloakClient(cfg config.DirectoryConfig, logger *slog.Logger) *KeycloakClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &KeycloakClient{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		realm:        cfg.Realm,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       logger,
	}
}

// FetchProfile retrieves a user by directory identifier and normalizes its
// attributes. Absence maps to ErrNotFound; credential rejection maps to
// ErrPermissionDenied; everything else is a transient directory failure.
func (c *KeycloakClient) FetchProfile(ctx context.Context, personID string) (*models.Profile, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s", c.baseURL, c.realm, url.PathEscape(personID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build directory request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "directory unreachable")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		c.invalidateToken()
		return nil, ErrPermissionDenied
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("directory returned %d: %s", resp.StatusCode, body))
	}

	var user keycloakUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "decode directory response")
	}

	profile := user.toProfile()
	profile.Roles = c.fetchRealmRoles(ctx, token, personID)
	return profile, nil
}

// fetchRealmRoles is best-effort: role enrichment never fails a profile fetch.
func (c *KeycloakClient) fetchRealmRoles(ctx context.Context, token, personID string) []string {
	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s/role-mappings/realm",
		c.baseURL, c.realm, url.PathEscape(personID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "directory role lookup failed", "error", err, "person_id", personID)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "directory role lookup failed",
			"status", resp.StatusCode, "person_id", personID)
		return nil
	}

	var mappings []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&mappings); err != nil {
		return nil
	}
	roles := make([]string, 0, len(mappings))
	for _, m := range mappings {
		roles = append(roles, m.Name)
	}
	return roles
}

func (c *KeycloakClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	endpoint := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.baseURL, c.realm)
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "directory token endpoint unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", ErrPermissionDenied
	}
	if resp.StatusCode != http.StatusOK {
		return "", dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("directory token endpoint returned %d", resp.StatusCode))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "decode token response")
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - tokenSkew)
	return c.token, nil
}

func (c *KeycloakClient) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// keycloakUser is the subset of the directory's user representation we read.
// Attribute values arrive either as a scalar or a single-element list.
type keycloakUser struct {
	ID         string         `json:"id"`
	Username   string         `json:"username"`
	Email      string         `json:"email"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Attributes map[string]any `json:"attributes"`
}

func (u *keycloakUser) toProfile() *models.Profile {
	fullName := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if fullName == "" {
		fullName = u.Username
	}

	return &models.Profile{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		FullNameEN:         fullName,
		PhotoURL:           firstAttribute(u.Attributes, photoAliases...),
		PhoneNumber:        firstAttribute(u.Attributes, "phone_number", "phoneNumber"),
		Address:            firstAttribute(u.Attributes, "address"),
		Gender:             firstAttribute(u.Attributes, "gender"),
		University:         firstAttribute(u.Attributes, "university"),
		BaccalaureateGrade: firstAttribute(u.Attributes, "bacll_grade", "baccalaureate_grade"),
		KhmerName:          firstAttribute(u.Attributes, "khmer_name", "khmerName"),
		Province:           firstAttribute(u.Attributes, "province"),
		DateOfBirth:        firstAttribute(u.Attributes, "dob", "date_of_birth"),
		EducationLevel:     firstAttribute(u.Attributes, "education_level", "educationLevel"),
	}
}

// firstAttribute returns the first present alias, normalized to a scalar.
// Multi-valued attributes keep only the first element; absence maps to nil.
func firstAttribute(attrs map[string]any, aliases ...string) *string {
	for _, alias := range aliases {
		raw, ok := attrs[alias]
		if !ok {
			continue
		}
		if value, ok := scalar(raw); ok {
			return &value
		}
	}
	return nil
}

func scalar(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case []any:
		if len(v) == 0 {
			return "", false
		}
		if s, ok := v[0].(string); ok {
			return s, true
		}
	}
	return "", false
}
