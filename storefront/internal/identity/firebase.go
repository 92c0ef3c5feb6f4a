package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"foodzone/storefront/internal/storage"
)

const (
	DefaultFirebaseURL    = "https://identitytoolkit.googleapis.com/v1"
	DefaultSecureTokenURL = "https://securetoken.googleapis.com/v1"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Firebase signs users in through the Firebase Auth REST API. The signed-in
// user is kept in local storage so a restarted storefront comes back signed
// in, the way the browser SDK does. Call Restore once the URLs are set.
type Firebase struct {
	*Emitter

	APIKey   string
	BaseURL  string
	TokenURL string
	client   HTTPClient
	store    storage.Local
}

func NewFirebase(apiKey string, client HTTPClient, store storage.Local) *Firebase {
	return &Firebase{
		Emitter:  NewEmitter(),
		APIKey:   apiKey,
		BaseURL:  DefaultFirebaseURL,
		TokenURL: DefaultSecureTokenURL,
		client:   client,
		store:    store,
	}
}

type firebaseAccount struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

func (a firebaseAccount) user() *User {
	return &User{
		UID:          a.LocalID,
		Email:        a.Email,
		DisplayName:  a.DisplayName,
		PhotoURL:     a.PhotoURL,
		IDToken:      a.IDToken,
		RefreshToken: a.RefreshToken,
	}
}

type tokenGrant struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	ExpiresIn    string `json:"expires_in"`
}

// FirebaseError is the provider's error envelope, e.g. EMAIL_NOT_FOUND.
type FirebaseError struct {
	Status  int
	Message string
}

func (e *FirebaseError) Error() string {
	return fmt.Sprintf("firebase: %s (status %d)", e.Message, e.Status)
}

func (f *Firebase) SignUp(ctx context.Context, email, password string) (*User, error) {
	var acct firebaseAccount
	if err := f.call(ctx, "accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &acct); err != nil {
		return nil, err
	}
	return f.signedIn(acct), nil
}

func (f *Firebase) SignIn(ctx context.Context, email, password string) (*User, error) {
	var acct firebaseAccount
	if err := f.call(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &acct); err != nil {
		return nil, err
	}
	return f.signedIn(acct), nil
}

// SignInWithProvider exchanges an OAuth id token from providerID, for
// example google.com, for a Firebase session.
func (f *Firebase) SignInWithProvider(ctx context.Context, providerID, idToken string) (*User, error) {
	postBody := url.Values{}
	postBody.Set("id_token", idToken)
	postBody.Set("providerId", providerID)

	var acct firebaseAccount
	if err := f.call(ctx, "accounts:signInWithIdp", map[string]interface{}{
		"postBody":            postBody.Encode(),
		"requestUri":          "http://localhost",
		"returnIdpCredential": true,
		"returnSecureToken":   true,
	}, &acct); err != nil {
		return nil, err
	}
	return f.signedIn(acct), nil
}

func (f *Firebase) SignOut(ctx context.Context) error {
	if f.store != nil {
		if err := f.store.Remove(storage.IdentityKey); err != nil {
			log.Printf("[storefront] identity: failed to forget user: %v", err)
		}
	}
	f.Emit(nil)
	return nil
}

func (f *Firebase) UpdateProfile(ctx context.Context, displayName, photoURL string) error {
	current := f.CurrentUser()
	if current == nil {
		return ErrNotSignedIn
	}

	var acct firebaseAccount
	if err := f.call(ctx, "accounts:update", map[string]interface{}{
		"idToken":           current.IDToken,
		"displayName":       displayName,
		"photoUrl":          photoURL,
		"returnSecureToken": true,
	}, &acct); err != nil {
		return err
	}

	current.DisplayName = acct.DisplayName
	current.PhotoURL = acct.PhotoURL
	if acct.IDToken != "" {
		current.IDToken = acct.IDToken
	}
	if acct.RefreshToken != "" {
		current.RefreshToken = acct.RefreshToken
	}
	f.save(current)
	f.Update(current)
	return nil
}

func (f *Firebase) signedIn(acct firebaseAccount) *User {
	u := acct.user()
	f.save(u)
	f.Emit(u)
	return u
}

func (f *Firebase) call(ctx context.Context, method string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	endpoint := f.BaseURL + "/" + method + "?key=" + url.QueryEscape(f.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return f.send(req, method, out)
}

// refresh trades a refresh token for a new ID token.
func (f *Firebase) refresh(ctx context.Context, refreshToken string) (*tokenGrant, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := f.TokenURL + "/token?key=" + url.QueryEscape(f.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var grant tokenGrant
	if err := f.send(req, "token", &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (f *Firebase) send(req *http.Request, method string, out interface{}) error {
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("firebase %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error.Message == "" {
			envelope.Error.Message = http.StatusText(resp.StatusCode)
		}
		return &FirebaseError{Status: resp.StatusCode, Message: envelope.Error.Message}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (f *Firebase) save(u *User) {
	if f.store == nil {
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := f.store.Set(storage.IdentityKey, string(data)); err != nil {
		log.Printf("[storefront] identity: failed to remember user: %v", err)
	}
}

// Restore brings back the user saved by an earlier run. A saved refresh
// token is exchanged for a fresh ID token first; if the provider rejects it
// the saved user is forgotten. A transport failure keeps the saved user.
func (f *Firebase) Restore(ctx context.Context) error {
	if f.store == nil {
		return nil
	}
	raw, err := f.store.Get(storage.IdentityKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read saved user: %w", err)
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.Email == "" {
		return nil
	}

	if u.RefreshToken != "" {
		grant, err := f.refresh(ctx, u.RefreshToken)
		var fbErr *FirebaseError
		switch {
		case errors.As(err, &fbErr):
			log.Printf("[storefront] identity: saved session for %s rejected: %s", u.Email, fbErr.Message)
			if err := f.store.Remove(storage.IdentityKey); err != nil {
				log.Printf("[storefront] identity: failed to forget user: %v", err)
			}
			return nil
		case err != nil:
			log.Printf("[storefront] identity: could not refresh %s: %v", u.Email, err)
		case grant.UserID != "" && u.UID != "" && grant.UserID != u.UID:
			log.Printf("[storefront] identity: refreshed token belongs to another account, forgetting %s", u.Email)
			if err := f.store.Remove(storage.IdentityKey); err != nil {
				log.Printf("[storefront] identity: failed to forget user: %v", err)
			}
			return nil
		default:
			u.IDToken = grant.IDToken
			if grant.RefreshToken != "" {
				u.RefreshToken = grant.RefreshToken
			}
			f.save(&u)
		}
	}

	f.Emit(&u)
	return nil
}

var _ Provider = (*Firebase)(nil)
