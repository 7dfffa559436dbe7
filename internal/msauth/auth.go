package msauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/steipete/mogcli/internal/config"
	"github.com/steipete/mogcli/internal/secrets"
)

const (
	defaultTenant = "common"

	// refreshTimeout bounds the token refresh exchange so it cannot hang forever.
	refreshTimeout = 30 * time.Second

	// pollSlack is added to one poll interval to bound a single-invocation
	// poll of a pending device authorization.
	pollSlack = 2 * time.Second

	defaultPollInterval = 5 * time.Second
)

var (
	errAuthDeclined = errors.New("authorization declined")
	errAuthExpired  = errors.New("authorization expired; run the command again to restart sign-in")
)

// Grant is a usable credential for one invocation.
type Grant struct {
	AccessToken string
}

// AuthRequiredError reports a freshly started device-code authorization the
// user has to complete out of band.
type AuthRequiredError struct {
	Profile         string
	UserCode        string
	VerificationURI string
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("authorization required for profile %q: visit %s and enter code %s", e.Profile, e.VerificationURI, e.UserCode)
}

// AuthPendingError reports a device-code authorization the user has not
// completed yet.
type AuthPendingError struct {
	Profile string
}

func (e *AuthPendingError) Error() string {
	return fmt.Sprintf("authorization for profile %q still pending", e.Profile)
}

// Seams for tests.
var (
	readCredentials = config.ReadClientCredentials
	openStore       = secrets.OpenDefault
	endpointFor     = microsoft.AzureADEndpoint
	timeNow         = time.Now
)

// EnsureAuth produces a usable token for the profile covering requiredScopes,
// or a typed outcome error the dispatcher turns into an envelope:
// *AuthRequiredError (device flow started), *AuthPendingError (user has not
// approved yet), or an ordinary error. A cached grant missing a required
// scope re-triggers the device flow rather than failing at the remote call.
func EnsureAuth(ctx context.Context, profile string, requiredScopes []string) (Grant, error) {
	creds, err := readCredentials()
	if err != nil {
		return Grant{}, err
	}

	store, err := openStore()
	if err != nil {
		return Grant{}, fmt.Errorf("open secrets store: %w", err)
	}

	cfg := oauthConfig(creds, requiredScopes)

	tok, err := store.GetToken(profile)
	switch {
	case err == nil && hasScopes(tok.Scopes, requiredScopes):
		return refreshGrant(ctx, cfg, store, profile, tok, requiredScopes)
	case err == nil:
		slog.Debug("cached grant lacks required scopes", "profile", profile, "required", requiredScopes)
	case !errors.Is(err, keyring.ErrKeyNotFound):
		return Grant{}, fmt.Errorf("get token for %s: %w", profile, err)
	}

	st, err := store.GetDeviceState(profile)
	switch {
	case err == nil && hasScopes(st.Scopes, requiredScopes):
		return pollDevice(ctx, cfg, store, profile, st)
	case err == nil:
		// Pending grant was requested for narrower scopes; start over.
		_ = store.DeleteDeviceState(profile)
	case !errors.Is(err, keyring.ErrKeyNotFound):
		return Grant{}, fmt.Errorf("get device state for %s: %w", profile, err)
	}

	return Grant{}, startDeviceFlow(ctx, cfg, store, profile, requiredScopes)
}

func oauthConfig(creds config.ClientCredentials, scopes []string) oauth2.Config {
	tenant := strings.TrimSpace(creds.TenantID)
	if tenant == "" {
		tenant = defaultTenant
	}

	return oauth2.Config{
		ClientID: creds.ClientID,
		Endpoint: endpointFor(tenant),
		Scopes:   append(append([]string{}, baseScopes...), scopes...),
	}
}

// startDeviceFlow requests a device code, persists the pending state and
// returns it as an AuthRequiredError.
func startDeviceFlow(ctx context.Context, cfg oauth2.Config, store secrets.Store, profile string, scopes []string) error {
	da, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return fmt.Errorf("request device code: %w", err)
	}

	st := secrets.DeviceState{
		DeviceCode:      da.DeviceCode,
		UserCode:        da.UserCode,
		VerificationURI: da.VerificationURI,
		Interval:        da.Interval,
		Expiry:          da.Expiry,
		Scopes:          scopes,
	}
	if err := store.SetDeviceState(profile, st); err != nil {
		return fmt.Errorf("persist device state: %w", err)
	}

	slog.Debug("device flow started", "profile", profile, "userCode", da.UserCode)

	return &AuthRequiredError{Profile: profile, UserCode: da.UserCode, VerificationURI: da.VerificationURI}
}

// pollDevice performs one bounded poll of a pending authorization. Approval
// caches the token; a still-pending grant surfaces as AuthPendingError so the
// caller can re-invoke later.
func pollDevice(ctx context.Context, cfg oauth2.Config, store secrets.Store, profile string, st secrets.DeviceState) (Grant, error) {
	now := timeNow()
	if !st.Expiry.IsZero() && now.After(st.Expiry) {
		_ = store.DeleteDeviceState(profile)
		return Grant{}, errAuthExpired
	}

	interval := defaultPollInterval
	if st.Interval > 0 {
		interval = time.Duration(st.Interval) * time.Second
	}

	deadline := now.Add(interval + pollSlack)
	if !st.Expiry.IsZero() && st.Expiry.Before(deadline) {
		deadline = st.Expiry
	}

	// Interval 1 so the bounded window fits at least one poll.
	da := &oauth2.DeviceAuthResponse{DeviceCode: st.DeviceCode, Interval: 1, Expiry: deadline}

	tok, err := cfg.DeviceAccessToken(ctx, da)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return Grant{}, err
		}

		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			switch rerr.ErrorCode {
			case "access_denied", "authorization_declined":
				_ = store.DeleteDeviceState(profile)
				return Grant{}, errAuthDeclined
			case "expired_token", "bad_verification_code":
				_ = store.DeleteDeviceState(profile)
				return Grant{}, errAuthExpired
			}
		}

		if errors.Is(err, context.DeadlineExceeded) {
			return Grant{}, &AuthPendingError{Profile: profile}
		}

		return Grant{}, fmt.Errorf("poll device authorization: %w", err)
	}

	_ = store.DeleteDeviceState(profile)
	if err := store.SetToken(profile, tokenForStore(tok, st.Scopes)); err != nil {
		return Grant{}, err
	}

	slog.Debug("device authorization granted", "profile", profile)

	return Grant{AccessToken: tok.AccessToken}, nil
}

// refreshGrant returns the cached token, refreshing it first when stale.
// A dead refresh token restarts the device flow.
func refreshGrant(ctx context.Context, cfg oauth2.Config, store secrets.Store, profile string, tok secrets.Token, requiredScopes []string) (Grant, error) {
	cached := &oauth2.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
		TokenType:    "Bearer",
	}
	if cached.Valid() {
		return Grant{AccessToken: cached.AccessToken}, nil
	}

	if cached.RefreshToken == "" {
		_ = store.DeleteToken(profile)
		return Grant{}, startDeviceFlow(ctx, cfg, store, profile, requiredScopes)
	}

	refreshCtx := context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: refreshTimeout})

	fresh, err := cfg.TokenSource(refreshCtx, cached).Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			// Refresh token revoked or expired.
			_ = store.DeleteToken(profile)
			return Grant{}, startDeviceFlow(ctx, cfg, store, profile, requiredScopes)
		}

		return Grant{}, fmt.Errorf("refresh token for %s: %w", profile, err)
	}

	if fresh.AccessToken != tok.AccessToken || fresh.RefreshToken != tok.RefreshToken {
		if err := store.SetToken(profile, tokenForStore(fresh, tok.Scopes)); err != nil {
			return Grant{}, err
		}
	}

	return Grant{AccessToken: fresh.AccessToken}, nil
}

func tokenForStore(tok *oauth2.Token, scopes []string) secrets.Token {
	return secrets.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
		Scopes:       scopes,
	}
}

// hasScopes reports whether every required scope is present in granted.
func hasScopes(granted, required []string) bool {
	set := make(map[string]struct{}, len(granted))
	for _, s := range granted {
		set[strings.ToLower(s)] = struct{}{}
	}

	for _, s := range required {
		if _, ok := set[strings.ToLower(s)]; !ok {
			return false
		}
	}

	return true
}
