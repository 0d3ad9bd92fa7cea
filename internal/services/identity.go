package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/observability"
	"github.com/yungbote/shopgraph-backend/internal/platform/apperr"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
	"github.com/yungbote/shopgraph-backend/internal/repos"
)

const graphNodeUser = "UserNode"

// IdentityService is the identity collaborator: it owns the users collection
// and mirrors name/email into the graph at registration and profile update.
type IdentityService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
	SavePreferences(ctx context.Context, userID string, values map[string]any) error
	GetPreferences(ctx context.Context, userID string) (*domain.Preference, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

type ProfileUpdate struct {
	Name  *string
	Email *string
}

type identityService struct {
	users       repos.UserRepo
	preferences repos.PreferenceRepo
	graph       GraphWriter
	metrics     *observability.Metrics
	log         *logger.Logger
}

func NewIdentityService(
	users repos.UserRepo,
	preferences repos.PreferenceRepo,
	graphStore GraphWriter,
	metrics *observability.Metrics,
	baseLog *logger.Logger,
) IdentityService {
	return &identityService{
		users:       users,
		preferences: preferences,
		graph:       graphStore,
		metrics:     metrics,
		log:         baseLog.With("service", "IdentityService"),
	}
}

func (s *identityService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, apperr.Invalid("email is required")
	}
	if in.Password == "" {
		return nil, apperr.Invalid("password is required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.New(400, apperr.CodeEmailTaken, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	user := &domain.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.metrics.GraphWriteAttempted.WithLabel(graphNodeUser).Inc()
	if err := s.graph.UpsertUserNode(ctx, user.UserID, user.Name, user.Email); err != nil {
		s.metrics.GraphWriteFailed.WithLabel(graphNodeUser).Inc()
		s.log.Warn("graph user mirror failed", "user_id", user.UserID, "error", err)
	}
	return user, nil
}

func (s *identityService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(401, apperr.CodeInvalidCredentials, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.New(401, apperr.CodeInvalidCredentials, nil)
	}
	return user, nil
}

func (s *identityService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, apperr.Invalid("user id is required")
	}
	return s.users.GetByID(ctx, userID)
}

func (s *identityService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	if userID == "" {
		return apperr.Invalid("user id is required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.New(404, apperr.CodeNotFound, nil)
	}

	set := bson.M{}
	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
		set["name"] = user.Name
	}
	if update.Email != nil {
		user.Email = strings.TrimSpace(strings.ToLower(*update.Email))
		set["email"] = user.Email
	}
	if len(set) == 0 {
		return nil
	}

	if err := s.users.Update(ctx, userID, set); err != nil {
		return err
	}

	s.metrics.GraphWriteAttempted.WithLabel(graphNodeUser).Inc()
	if err := s.graph.SetUserProfile(ctx, userID, user.Name, user.Email); err != nil {
		s.metrics.GraphWriteFailed.WithLabel(graphNodeUser).Inc()
		s.log.Warn("graph user profile sync failed", "user_id", userID, "error", err)
	}
	return nil
}

func (s *identityService) SavePreferences(ctx context.Context, userID string, values map[string]any) error {
	if userID == "" {
		return apperr.Invalid("user id is required")
	}
	return s.preferences.Upsert(ctx, userID, values)
}

func (s *identityService) GetPreferences(ctx context.Context, userID string) (*domain.Preference, error) {
	if userID == "" {
		return nil, apperr.Invalid("user id is required")
	}
	return s.preferences.GetByUser(ctx, userID)
}
