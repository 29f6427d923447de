package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleOAuthHandler struct {
	Auth            *services.AuthService
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) shortCookie(name, value string, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   strings.HasPrefix(h.GoogleRedirect, "https://"),
		SameSite: "Lax",
		MaxAge:   maxAge,
	}
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	next := c.Query("next", "/")
	st := randomState(32)

	c.Cookie(h.shortCookie("oauth_state", st, 10*60))
	c.Cookie(h.shortCookie("oauth_next", next, 10*60))

	return c.Redirect(h.oauthCfg().AuthCodeURL(st), http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleCallback signs the user in and sends them back to the frontend with
// the token in the URL fragment, which never reaches a server log.
func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return writeError(c, utils.Invalid("GoogleCallback", utils.FieldErrors{"code": {"missing code or state"}}))
	}

	stCookie := c.Cookies("oauth_state")
	next := c.Cookies("oauth_next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	if stCookie == "" || stCookie != state {
		return writeError(c, utils.E(utils.CodeUnauthorized, "GoogleCallback", "invalid oauth state", nil))
	}

	c.Cookie(h.shortCookie("oauth_state", "", -1))
	c.Cookie(h.shortCookie("oauth_next", "", -1))

	cfg := h.oauthCfg()
	tok, err := cfg.Exchange(c.UserContext(), code)
	if err != nil {
		return writeError(c, utils.E(utils.CodeUnauthorized, "GoogleCallback", "failed to exchange code", err))
	}

	resp, err := cfg.Client(c.UserContext(), tok).Get(googleUserInfoURL)
	if err != nil {
		return writeError(c, utils.E(utils.CodeUnavailable, "GoogleCallback", "failed to fetch google profile", err))
	}
	defer resp.Body.Close()

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return writeError(c, utils.E(utils.CodeUnavailable, "GoogleCallback", "failed to read google profile", err))
	}
	if !gu.VerifiedEmail {
		return h.redirectErr(c, "Google email is not verified")
	}

	res, err := h.Auth.LoginWithGoogle(c.UserContext(), gu.Email, gu.GivenName, gu.FamilyName, gu.Picture)
	if err != nil {
		var ae *utils.AppError
		if errors.As(err, &ae) && utils.HTTPStatus(err) < fiber.StatusInternalServerError {
			return h.redirectErr(c, ae.Message)
		}
		return writeError(c, err)
	}

	frag := url.Values{}
	frag.Set("token", res.Token)
	frag.Set("role", string(res.Role))
	return c.Redirect(h.FrontendBaseURL+next+"#"+frag.Encode(), http.StatusTemporaryRedirect)
}

func (h *GoogleOAuthHandler) redirectErr(c *fiber.Ctx, msg string) error {
	return c.Redirect(h.FrontendBaseURL+"/auth/login?err="+url.QueryEscape(msg), http.StatusTemporaryRedirect)
}
