package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
	"github.com/RashmiRanjanSahu1997/library-management/util/hash"
	jwtutil "github.com/RashmiRanjanSahu1997/library-management/util/jwt"
)

const (
	ErrEmailTaken   apperr.Code = "EMAIL_TAKEN"
	ErrInvalidCreds apperr.Code = "INVALID_CREDENTIALS"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
}

type service struct {
	r      Repo
	secret string
}

func New(r Repo, secret string) Service { return &service{r: r, secret: secret} }

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, error) {
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}

	u := &model.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.r.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(ErrEmailTaken)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.r.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", apperr.New(ErrInvalidCreds)
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", apperr.New(ErrInvalidCreds)
	}
	token, err := jwtutil.Issue(s.secret, u.ID, string(u.Role), 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
