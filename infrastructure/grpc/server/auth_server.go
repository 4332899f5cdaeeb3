package server

import (
	"context"
	"dm-lab/dto"
	"dm-lab/errors"
	"dm-lab/infrastructure/grpc/api"
	"dm-lab/services"
)

type AuthServer struct {
	api.UnimplementedAuthServiceServer
	authService services.IAuthService
}

// NewAuthServer creates a new gRPC server for authentication.
func NewAuthServer(authService services.IAuthService) *AuthServer {
	return &AuthServer{authService: authService}
}

// Register validates the input, hashes the password and issues a token.
func (s *AuthServer) Register(_ context.Context, in *api.RegisterRequest) (*api.AuthResponse, error) {
	account, err := s.authService.Register(in.Username, in.KnownAs, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toAuthResponse(account), nil
}

// Login verifies credentials and returns a session token.
func (s *AuthServer) Login(_ context.Context, in *api.LoginRequest) (*api.AuthResponse, error) {
	account, err := s.authService.Login(in.Username, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toAuthResponse(account), nil
}

func toAuthResponse(account services.Account) *api.AuthResponse {
	return &api.AuthResponse{Account: dto.AccountDto{
		Username: account.User.Username,
		KnownAs:  account.User.KnownAs,
		Token:    account.Token,
	}}
}
