package middleware

import (
	"strings"

	httpError "ride-service/src/pkg/http-error"
	"ride-service/src/pkg/log"
	"ride-service/src/pkg/token"
	"ride-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

const authLocalsKey = "auth"

// VerifyBearer is the identity gate: it turns a bearer credential into a
// token.Claim ({user_id, role}) or a 401. Handlers downstream trust the
// claim completely; the role enum was already validated during Parse.
func VerifyBearer(cfg *viper.Viper) fiber.Handler {
	secret := cfg.GetString("jwt.secret")
	logger := log.GetLogger()

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "no authentication token provided"
			return utils.ResponseError(errObj, ctx)
		}

		claim, err := token.Parse(raw, secret)
		if err != nil {
			logger.Error("auth-middleware", err.Error(), "VerifyBearer", ctx.Path())
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid or expired token"
			return utils.ResponseError(errObj, ctx)
		}

		ctx.Locals(authLocalsKey, claim)
		return ctx.Next()
	}
}

// RequireRole gates a route to a single role. Runs after VerifyBearer.
func RequireRole(role token.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		auth := GetUser(ctx)
		if auth == nil || auth.Role != role {
			errObj := httpError.NewUnauthorized()
			errObj.Message = string(role) + " role required"
			return utils.ResponseError(errObj, ctx)
		}
		return ctx.Next()
	}
}

// GetUser returns the claim stored by VerifyBearer, nil when unauthenticated.
func GetUser(ctx *fiber.Ctx) *token.Claim {
	claim, _ := ctx.Locals(authLocalsKey).(*token.Claim)
	return claim
}
