package server_test

import (
	"context"
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/infrastructure/grpc/api"
	"dm-lab/infrastructure/grpc/server"
	"dm-lab/mocks"
	"dm-lab/services"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestAuthServer_Register(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockIAuthService(ctrl)
	srv := server.NewAuthServer(accounts)

	accounts.EXPECT().Register("alice", "Alice", "Sup3r$ecretPass").Return(services.Account{
		User:  domain.User{Username: "alice", KnownAs: "Alice"},
		Token: "token",
	}, nil)

	response, err := srv.Register(context.Background(), &api.RegisterRequest{
		Username: "alice", KnownAs: "Alice", Password: "Sup3r$ecretPass",
	})

	req.NoError(err)
	req.Equal("alice", response.Account.Username)
	req.Equal("token", response.Account.Token)
}

func TestAuthServer_Errors(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockIAuthService(ctrl)
	srv := server.NewAuthServer(accounts)

	accounts.EXPECT().Register("alice", "", "short").Return(services.Account{}, errors.ErrInvalidPassword)
	accounts.EXPECT().Register("bob", "", "Sup3r$ecretPass").Return(services.Account{}, errors.ErrUserAlreadyExists)
	accounts.EXPECT().Login("alice", "wrong").Return(services.Account{}, errors.ErrInvalidCredentials)

	_, err := srv.Register(context.Background(), &api.RegisterRequest{Username: "alice", Password: "short"})
	req.Equal(codes.InvalidArgument, status.Code(err))

	_, err = srv.Register(context.Background(), &api.RegisterRequest{Username: "bob", Password: "Sup3r$ecretPass"})
	req.Equal(codes.AlreadyExists, status.Code(err))

	_, err = srv.Login(context.Background(), &api.LoginRequest{Username: "alice", Password: "wrong"})
	req.Equal(codes.Unauthenticated, status.Code(err))
}
