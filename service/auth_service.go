package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"saletech/config"
	"saletech/constants"
	"saletech/helper"
	"saletech/model"
	"saletech/repository"
)

type AuthService struct {
	users repository.UserRepository
	jwt   config.JWTConfig
}

func NewAuthService(users repository.UserRepository, jwt config.JWTConfig) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

func (s *AuthService) Register(ctx context.Context, in model.RegisterInput) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	usernameTaken, emailTaken, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return model.User{}, err
	}
	if usernameTaken {
		return model.User{}, Conflict(constants.USERNAME_EXISTS)
	}
	if emailTaken {
		return model.User{}, Conflict(constants.EMAIL_EXISTS)
	}

	hash, err := helper.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("%s: %w", constants.CAN_NOT_HASH_PASSWORD, err)
	}
	user := model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		FullName: in.FullName,
		IsActive: true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in model.LoginInput) (model.TokenData, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return model.TokenData{}, Unauthorized(constants.INVALID_PASSWORD)
	}
	if err != nil {
		return model.TokenData{}, err
	}
	if !helper.CheckPasswordHash(in.Password, user.Password) {
		return model.TokenData{}, Unauthorized(constants.INVALID_PASSWORD)
	}
	if !user.IsActive {
		return model.TokenData{}, Unauthorized(constants.ACCOUNT_NOT_ACTIVE)
	}
	return helper.GenerateAccessToken([]byte(s.jwt.Secret), s.jwt.AccessTTL, model.TokenClaim{
		UserId:   user.ID,
		Username: user.Username,
	})
}
