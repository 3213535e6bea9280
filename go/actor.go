package rescueserver

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/Apurer/rescue-adoption-api/internal/shared/errors"
)

const (
	actorContextKey = "rescue.actor_id"
	// ActorHeader carries the caller identity when no signing secret is configured.
	ActorHeader = "X-Actor-ID"
)

var (
	errMissingActor = errors.New("actor identity is required")
	errBearerToken  = errors.New("authorization header must be a bearer token")
	errTokenSubject = errors.New("token has no subject")
)

// ActorResolver extracts the acting user from the request. With a secret it trusts only the
// sub claim of an HS256 bearer token; without one it reads the X-Actor-ID header.
type ActorResolver struct {
	secret []byte
}

func NewActorResolver(secret string) *ActorResolver {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return &ActorResolver{}
	}
	return &ActorResolver{secret: []byte(secret)}
}

// Middleware rejects requests without an identity with 401 problem+json.
func (r *ActorResolver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := r.resolve(c)
		if err != nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
			return
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

func (r *ActorResolver) resolve(c *gin.Context) (string, error) {
	if len(r.secret) == 0 {
		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actor == "" {
			return "", errMissingActor
		}
		return actor, nil
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", errMissingActor
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", errBearerToken
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errTokenSubject
	}
	return strings.TrimSpace(claims.Subject), nil
}

// actorID returns the identity set by the actor middleware.
func actorID(c *gin.Context) string {
	return c.GetString(actorContextKey)
}
