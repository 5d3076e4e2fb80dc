// Package main runs a development identity provider. It speaks just enough
// of the authorization-code flow for local logins: a discovery document, a
// login form, and a token endpoint issuing HS256-signed id_tokens.
// Never deploy this anywhere near production.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"electa/pkg/logger"
)

type account struct {
	SSOID        string
	Email        string
	Name         string
	Groups       []string
	PasswordHash []byte
}

type issuedCode struct {
	Account   *account
	ExpiresAt time.Time
}

type provider struct {
	issuer       string
	clientID     string
	clientSecret string

	mu       sync.Mutex
	accounts map[string]*account // keyed by email
	codes    map[string]issuedCode
}

func main() {
	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	port := getEnv("MOCKSSO_PORT", "8090")

	p := &provider{
		issuer:       getEnv("MOCKSSO_ISSUER", "http://localhost:"+port),
		clientID:     getEnv("SSO_CLIENT_ID", "electa-client"),
		clientSecret: getEnv("SSO_CLIENT_SECRET", "dev-secret"),
		accounts:     map[string]*account{},
		codes:        map[string]issuedCode{},
	}

	p.addAccount("admin@example.com", "admin", "Ada Admin", "sso-admin-1", []string{"admins"})
	p.addAccount("student@example.com", "student", "Sam Student", "sso-student-1", nil)
	p.addAccount("instructor@example.com", "instructor", "Ida Instructor", "sso-instructor-1", []string{"instructors"})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/.well-known/openid-configuration", p.discovery)
	router.GET("/authorize", p.loginForm)
	router.POST("/authorize", p.login)
	router.POST("/token", p.token)

	log.Infow("mock identity provider starting", "port", port, "issuer", p.issuer)
	if err := router.Run(":" + port); err != nil {
		log.Fatalw("mock identity provider failed", "error", err)
	}
}

func (p *provider) addAccount(email, password, name, ssoID string, groups []string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	p.accounts[email] = &account{
		SSOID:        ssoID,
		Email:        email,
		Name:         name,
		Groups:       groups,
		PasswordHash: hash,
	}
}

func (p *provider) discovery(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"issuer":                 p.issuer,
		"authorization_endpoint": p.issuer + "/authorize",
		"token_endpoint":         p.issuer + "/token",
	})
}

const loginPage = `<!DOCTYPE html>
<html><body>
<h1>Dev Login</h1>
<form method="post" action="/authorize">
  <input type="hidden" name="redirect_uri" value="%s">
  <input type="hidden" name="state" value="%s">
  <label>Email <input name="email"></label><br>
  <label>Password <input name="password" type="password"></label><br>
  <button type="submit">Sign in</button>
</form>
</body></html>`

func (p *provider) loginForm(c *gin.Context) {
	if c.Query("client_id") != p.clientID {
		c.String(http.StatusBadRequest, "unknown client_id")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, fmt.Sprintf(loginPage,
		c.Query("redirect_uri"), c.Query("state")))
}

func (p *provider) login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	redirectURI := c.PostForm("redirect_uri")
	state := c.PostForm("state")

	p.mu.Lock()
	acct := p.accounts[email]
	p.mu.Unlock()

	if acct == nil || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)) != nil {
		c.String(http.StatusUnauthorized, "invalid credentials")
		return
	}

	code, err := randomToken(16)
	if err != nil {
		c.String(http.StatusInternalServerError, "cannot issue code")
		return
	}

	p.mu.Lock()
	p.codes[code] = issuedCode{Account: acct, ExpiresAt: time.Now().Add(2 * time.Minute)}
	p.mu.Unlock()

	q := url.Values{}
	q.Set("code", code)
	q.Set("state", state)
	c.Redirect(http.StatusFound, redirectURI+"?"+q.Encode())
}

func (p *provider) token(c *gin.Context) {
	if c.PostForm("grant_type") != "authorization_code" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_grant_type"})
		return
	}
	if c.PostForm("client_id") != p.clientID || c.PostForm("client_secret") != p.clientSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_client"})
		return
	}

	code := c.PostForm("code")

	p.mu.Lock()
	issued, ok := p.codes[code]
	delete(p.codes, code)
	p.mu.Unlock()

	if !ok || time.Now().After(issued.ExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_grant"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":    p.issuer,
		"sub":    issued.Account.SSOID,
		"aud":    p.clientID,
		"iat":    now.Unix(),
		"exp":    now.Add(5 * time.Minute).Unix(),
		"email":  issued.Account.Email,
		"name":   issued.Account.Name,
		"groups": issued.Account.Groups,
	}

	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(p.clientSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id_token":     idToken,
		"access_token": idToken,
		"token_type":   "Bearer",
		"expires_in":   300,
	})
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
