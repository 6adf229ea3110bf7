package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/ganfan/internal/ai"
	"github.com/sakif/ganfan/internal/apperror"
	"github.com/sakif/ganfan/internal/auth"
	"github.com/sakif/ganfan/internal/dataurl"
	"github.com/sakif/ganfan/internal/kv"
	"github.com/sakif/ganfan/internal/model"
	"github.com/sakif/ganfan/internal/photo"
	"github.com/sakif/ganfan/internal/repository"
)

// MaxUsernameLength is counted in runes.
const MaxUsernameLength = 32

// GuardianFailedMessage is shown when no guardian image could be generated.
const GuardianFailedMessage = "生成失败，请稍后重试"

// UserService owns identity, profile images and per-user preferences.
type UserService struct {
	users    repository.UserRepository
	meals    repository.MealRepository
	tokens   *auth.TokenService
	settings *kv.Store
	photos   photo.Store
	ai       *ai.Gateway
	logger   *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	meals repository.MealRepository,
	tokens *auth.TokenService,
	settings *kv.Store,
	photos photo.Store,
	gateway *ai.Gateway,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		meals:    meals,
		tokens:   tokens,
		settings: settings,
		photos:   photos,
		ai:       gateway,
		logger:   logger,
	}
}

// AuthResult bundles the user with the session token issued for them so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Login finds the user with the given nickname or creates one, then issues a
// session token. Nicknames are trimmed; an empty one is rejected.
func (s *UserService) Login(ctx context.Context, username string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "请输入昵称")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("昵称不能超过 %d 个字", MaxUsernameLength))
	}

	user, err := s.findOrCreate(ctx, username)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing session: %w", err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) findOrCreate(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	user = &model.User{Username: username}
	err = s.users.Create(ctx, user)
	switch {
	case err == nil:
		s.logger.Info("user created", slog.String("userID", user.ID))
		return user, nil
	case errors.Is(err, apperror.ErrConflict):
		// Another login with the same nickname won the insert.
		return s.users.GetByUsername(ctx, username)
	default:
		return nil, fmt.Errorf("creating user: %w", err)
	}
}

// Get returns the user or apperror.ErrNotFound.
func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, userID)
}

// SetAvatar stores the uploaded image and makes it the user's avatar.
func (s *UserService) SetAvatar(ctx context.Context, userID, image string) (*model.User, error) {
	if !dataurl.IsDataURL(image) {
		return nil, apperror.ValidationFailed("photo", "头像必须是图片")
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	ref, err := s.photos.Put(ctx, userID, image)
	if err != nil {
		s.logger.Error("failed to store avatar",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream("头像上传失败，请稍后重试", err)
	}

	user.Avatar = ref
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("saving avatar: %w", err)
	}
	return user, nil
}

// GenerateGuardian draws a cat or dog guardian for the user, seeded with the
// first photo of their latest meal when there is one. On failure the user is
// left unchanged and an upstream error carrying GuardianFailedMessage is
// returned.
func (s *UserService) GenerateGuardian(ctx context.Context, userID string, kind model.GuardianKind) (*model.User, error) {
	if !kind.Valid() {
		return nil, apperror.ValidationFailed("kind", "kind must be cat or dog")
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.meals.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}

	var reference string
	if n := len(records); n > 0 && len(records[n-1].Photos) > 0 && dataurl.IsDataURL(records[n-1].Photos[0]) {
		reference = records[n-1].Photos[0]
	}

	image := s.ai.GuardianImage(ctx, kind, user.Username, reference)
	if image == "" {
		return nil, apperror.Upstream(GuardianFailedMessage, errors.New("no guardian image generated"))
	}

	ref, err := s.photos.Put(ctx, userID, image)
	if err != nil {
		return nil, apperror.Upstream(GuardianFailedMessage, err)
	}

	user.GuardianImage = ref
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("saving guardian: %w", err)
	}

	s.logger.Info("guardian generated",
		slog.String("userID", userID),
		slog.String("kind", string(kind)),
	)
	return user, nil
}

// Preferences returns the user's theme and nurture type. Missing or
// unrecognised stored values read as the defaults.
func (s *UserService) Preferences(ctx context.Context, userID string) model.Preferences {
	prefs := model.DefaultPreferences

	if theme := kv.Load(ctx, s.settings, kv.UserKey(kv.PrefixTheme, userID), prefs.Theme); theme.Valid() {
		prefs.Theme = theme
	}
	if nurture := kv.Load(ctx, s.settings, kv.UserKey(kv.PrefixNurture, userID), prefs.NurtureType); nurture.Valid() {
		prefs.NurtureType = nurture
	}
	return prefs
}

// PreferencesUpdate carries the fields to change; nil fields are kept.
type PreferencesUpdate struct {
	Theme       *model.ThemeColor  `json:"theme"`
	NurtureType *model.NurtureType `json:"nurtureType"`
}

// UpdatePreferences validates and saves the given fields, then returns the
// resulting preferences.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, update PreferencesUpdate) (model.Preferences, error) {
	if update.Theme != nil && !update.Theme.Valid() {
		return model.Preferences{}, apperror.ValidationFailed("theme",
			fmt.Sprintf("unknown theme %q", *update.Theme))
	}
	if update.NurtureType != nil && !update.NurtureType.Valid() {
		return model.Preferences{}, apperror.ValidationFailed("nurtureType",
			fmt.Sprintf("nurture type must be %q or %q", model.NurtureTree, model.NurturePet))
	}

	if update.Theme != nil {
		kv.Save(ctx, s.settings, kv.UserKey(kv.PrefixTheme, userID), *update.Theme)
	}
	if update.NurtureType != nil {
		kv.Save(ctx, s.settings, kv.UserKey(kv.PrefixNurture, userID), *update.NurtureType)
	}
	return s.Preferences(ctx, userID), nil
}
