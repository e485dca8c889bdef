package usecase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ride-service/src/internal/entity"
	"ride-service/src/internal/model"
	"ride-service/src/internal/model/converter"
	httpError "ride-service/src/pkg/http-error"
	"ride-service/src/pkg/log"
	"ride-service/src/pkg/token"
	"ride-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is what the auth flows need from the users table.
type UserRepository interface {
	Insert(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// AuthUseCase backs the identity gate: registration, login and the profile
// lookup consulted per authenticated request (Redis-cached).
type AuthUseCase struct {
	Log            log.Log
	Validate       *validator.Validate
	UserRepository UserRepository
	Config         *viper.Viper
	Redis          redis.UniversalClient
}

func NewAuthUseCase(
	logger log.Log,
	validate *validator.Validate,
	userRepository UserRepository,
	cfg *viper.Viper,
	redisClient redis.UniversalClient,
) *AuthUseCase {
	return &AuthUseCase{
		Log:            logger,
		Validate:       validate,
		UserRepository: userRepository,
		Config:         cfg,
		Redis:          redisClient,
	}
}

func (c *AuthUseCase) Register(ctx context.Context, request *model.RegisterUserRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("auth-usecase", errObj.Message, "Register", "")
		return result
	}

	if _, err := c.UserRepository.FindByEmail(ctx, request.Email); err == nil {
		errObj := httpError.NewConflict()
		errObj.Message = "email already registered"
		result.Error = errObj
		c.Log.Error("auth-usecase", errObj.Message, "Register", request.Email)
		return result
	} else if !errors.Is(err, sql.ErrNoRows) {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to check existing user"
		result.Error = errObj
		c.Log.Error("auth-usecase", fmt.Sprintf("error find user by email: %v", err), "Register", "")
		return result
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to hash password"
		result.Error = errObj
		c.Log.Error("auth-usecase", fmt.Sprintf("error hash password: %v", err), "Register", "")
		return result
	}

	user := &entity.User{
		FullName: request.FullName,
		Email:    request.Email,
		Phone:    request.Phone,
		Password: string(hashed),
		Role:     request.Role,
	}
	if err := c.UserRepository.Insert(ctx, user); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to register user"
		result.Error = errObj
		c.Log.Error("auth-usecase", fmt.Sprintf("error insert user: %v", err), "Register", "")
		return result
	}

	c.Log.Info("auth-usecase", "user registered", "Register", user.UserID)
	result.Data = converter.UserToResponse(user)
	return result
}

func (c *AuthUseCase) Login(ctx context.Context, request *model.LoginUserRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("auth-usecase", errObj.Message, "Login", "")
		return result
	}

	user, err := c.UserRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "invalid email or password"
		result.Error = errObj
		c.Log.Error("auth-usecase", errObj.Message, "Login", request.Email)
		return result
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "invalid email or password"
		result.Error = errObj
		c.Log.Error("auth-usecase", errObj.Message, "Login", request.Email)
		return result
	}

	role, err := token.ParseRole(user.Role)
	if err != nil {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "account has no valid role"
		result.Error = errObj
		c.Log.Error("auth-usecase", errObj.Message, "Login", user.Role)
		return result
	}

	ttl := time.Duration(c.Config.GetInt("jwt.ttl_hour")) * time.Hour
	signed, err := token.Sign(user.UserID, user.FullName, role, c.Config.GetString("jwt.secret"), ttl)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to issue token"
		result.Error = errObj
		c.Log.Error("auth-usecase", fmt.Sprintf("error sign token: %v", err), "Login", "")
		return result
	}

	c.Log.Info("auth-usecase", "user logged in", "Login", user.UserID)
	result.Data = &model.LoginResponse{
		Token: signed,
		User:  *converter.UserToResponse(user),
	}
	return result
}

// Profile resolves a user id to its profile, consulting the Redis cache
// before the database. Profiles are small and rarely change, so a short TTL
// is enough; a cache failure falls through to the store.
func (c *AuthUseCase) Profile(ctx context.Context, request *model.GetUserRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("auth-usecase", errObj.Message, "Profile", "")
		return result
	}

	key := fmt.Sprintf("USER:PROFILE:%s", request.ID)
	if c.Redis != nil {
		if cached, err := c.Redis.Get(ctx, key).Result(); err == nil && cached != "" {
			var response model.UserResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				result.Data = &response
				return result
			}
			c.Log.Warn("auth-usecase", "corrupt cached profile, falling back to store", "Profile", key)
		}
	}

	user, err := c.UserRepository.FindByID(ctx, request.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			errObj := httpError.NewNotFound()
			errObj.Message = fmt.Sprintf("user with id %s not found", request.ID)
			result.Error = errObj
			c.Log.Error("auth-usecase", errObj.Message, "Profile", "")
			return result
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load profile"
		result.Error = errObj
		c.Log.Error("auth-usecase", fmt.Sprintf("error find user: %v", err), "Profile", "")
		return result
	}

	response := converter.UserToResponse(user)
	if c.Redis != nil {
		if data, err := json.Marshal(response); err == nil {
			if err := c.Redis.Set(ctx, key, data, 15*time.Minute).Err(); err != nil {
				c.Log.Warn("auth-usecase", fmt.Sprintf("failed to cache profile: %v", err), "Profile", key)
			}
		}
	}

	result.Data = response
	return result
}
