package services

import (
	"context"
	"strings"

	"cravecart-api/models"
	"cravecart-api/repository"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	Generate(user *models.User) (string, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	users  *repository.UserRepository
	tokens TokenIssuer
}

func NewAuthService(users *repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a customer or owner account. Admins are only seeded.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" {
		return nil, invalidInput("Name and email are required")
	}
	if len(in.Password) < 6 {
		return nil, invalidInput("Password must be at least 6 characters")
	}
	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleOwner {
		return nil, invalidInput("Role must be customer or owner")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, internal("find user", err)
	}
	if existing != nil {
		return nil, conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal("hash password", err)
	}
	user := &models.User{Name: name, Email: email, PasswordHash: string(hash), Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration may have claimed the address
		if dup, ferr := s.users.FindByEmail(ctx, email); ferr == nil && dup != nil {
			return nil, conflict("Email already registered")
		}
		return nil, internal("create user", err)
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, internal("find user", err)
	}
	if user == nil {
		return nil, unauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, unauthorized("Invalid email or password")
	}
	return s.issue(user)
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, internal("find user", err)
	}
	if user == nil {
		return nil, notFound("User not found")
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, internal("generate token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
