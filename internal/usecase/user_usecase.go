package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/fintrack/internal/domain"
)

var (
	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidCredentials is returned for any failed login so the caller
	// cannot tell a wrong password from an unknown email.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserUseCase handles registration and credential checks. The ledger core
// itself receives an already-resolved user id; this exists only to feed the
// auth plumbing.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates a new user with a bcrypt-hashed password.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Email:          input.Email,
		Name:           input.Name,
		HashedPassword: string(hash),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// Authenticate verifies credentials and returns the user on success.
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.HashedPassword = ""

	return user, nil
}

// GetUser retrieves a user by id.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}
