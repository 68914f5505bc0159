package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieConfig describe la cookie que transporta el id de sesión.
type CookieConfig struct {
	Name     string
	Secret   []byte
	TTL      time.Duration
	Secure   bool
	SameSite http.SameSite
	Path     string
}

// Cookies emite y valida la cookie de sesión. El valor es un JWT HS256 cuyo
// jti es el id de sesión; el navegador nunca ve keys del backend.
type Cookies struct {
	cfg CookieConfig
	now func() time.Time
}

var errCookieInvalid = errors.New("session: invalid cookie")

func NewCookies(cfg CookieConfig) *Cookies {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	return &Cookies{cfg: cfg, now: time.Now}
}

// Resolve devuelve el id de sesión del request. Si la cookie falta o no es
// válida, crea una sesión nueva y la emite en w. Una cookie válida a la que
// le queda menos de la mitad del TTL se re-emite con el mismo id.
func (c *Cookies) Resolve(w http.ResponseWriter, r *http.Request) (sid string, fresh bool) {
	if ck, err := r.Cookie(c.cfg.Name); err == nil {
		if claims, err := c.parse(ck.Value); err == nil {
			if c.needsRenewal(claims) {
				c.issue(w, claims.ID)
			}
			return claims.ID, false
		}
	}
	sid = uuid.NewString()
	c.issue(w, sid)
	return sid, true
}

func (c *Cookies) needsRenewal(claims *jwt.RegisteredClaims) bool {
	if c.cfg.TTL <= 0 || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Sub(c.now()) < c.cfg.TTL/2
}

func (c *Cookies) issue(w http.ResponseWriter, sid string) {
	val, err := c.sign(sid)
	if err != nil {
		// sin secreto no hay cookie; la sesión vive lo que dura el request
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.Name,
		Value:    val,
		Path:     c.cfg.Path,
		MaxAge:   int(c.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: c.cfg.SameSite,
	})
}

func (c *Cookies) sign(sid string) (string, error) {
	if len(c.cfg.Secret) == 0 {
		return "", errCookieInvalid
	}
	now := c.now()
	claims := jwt.RegisteredClaims{
		ID:       sid,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.cfg.TTL))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.cfg.Secret)
}

func (c *Cookies) parse(raw string) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return c.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, errCookieInvalid
	}
	return &claims, nil
}
