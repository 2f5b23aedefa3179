package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/models"
	"github.com/noah-isme/gema-dashboard/internal/repository"
	"github.com/noah-isme/gema-dashboard/internal/session"
)

// AuthService backs the login and registration forms and the current-user lookup.
type AuthService interface {
	Login(ctx context.Context, form dto.LoginForm, redirectPath string) (dto.AuthOutcome, error)
	Register(ctx context.Context, form dto.RegisterForm, redirectPath string) (dto.AuthOutcome, error)
	CurrentUser(ctx context.Context) (models.User, error)
	Logout(currentPath string) dto.LogoutResult
}

type authService struct {
	repo      repository.AuthRepository
	decoder   *session.Decoder
	validator *validator.Validate
	sanitizer textSanitizer
	logger    zerolog.Logger
}

// NewAuthService builds the auth service.
func NewAuthService(repo repository.AuthRepository, decoder *session.Decoder, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		repo:      repo,
		decoder:   decoder,
		validator: validate,
		sanitizer: newTextSanitizer(),
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, form dto.LoginForm, redirectPath string) (dto.AuthOutcome, error) {
	trim(&form.Email, &form.Password)

	errs, err := fieldErrors(s.validator, form)
	if err != nil {
		return dto.AuthOutcome{FormResult: failedForm(form.Values(), "Something went wrong")}, err
	}
	if errs != nil {
		return dto.AuthOutcome{FormResult: invalidForm(form.Values(), errs)}, ErrValidation
	}

	result, err := s.repo.Login(ctx, repository.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		s.logger.Info().Err(err).Str("email", maskEmail(form.Email)).Msg("login rejected")
		return dto.AuthOutcome{FormResult: failedForm(form.Values(), s.sanitizer.ErrorMessage(err))}, err
	}

	s.logger.Info().Str("email", maskEmail(form.Email)).Msg("login succeeded")

	outcome := dto.AuthOutcome{
		FormResult:  submittedForm(s.sanitizer.Text(result.Message), "Logged in"),
		AccessToken: result.AccessToken,
	}
	outcome.Redirect = safeRedirect(redirectPath)
	if outcome.Redirect == "" {
		outcome.Redirect = "/"
	}
	return outcome, nil
}

func (s *authService) Register(ctx context.Context, form dto.RegisterForm, redirectPath string) (dto.AuthOutcome, error) {
	trim(&form.Email, &form.Password, &form.Role)
	form.Role = strings.ToLower(form.Role)

	errs, err := fieldErrors(s.validator, form)
	if err != nil {
		return dto.AuthOutcome{FormResult: failedForm(form.Values(), "Something went wrong")}, err
	}
	if errs != nil {
		return dto.AuthOutcome{FormResult: invalidForm(form.Values(), errs)}, ErrValidation
	}

	result, err := s.repo.Register(ctx, repository.Registration{Email: form.Email, Password: form.Password, Role: form.Role})
	if err != nil {
		s.logger.Info().Err(err).Str("email", maskEmail(form.Email)).Msg("registration rejected")
		return dto.AuthOutcome{FormResult: failedForm(form.Values(), s.sanitizer.ErrorMessage(err))}, err
	}

	s.logger.Info().Str("email", maskEmail(form.Email)).Str("role", form.Role).Msg("account registered")

	outcome := dto.AuthOutcome{
		FormResult:  submittedForm(s.sanitizer.Text(result.Message), "Registered"),
		AccessToken: result.AccessToken,
	}

	if redirect := safeRedirect(redirectPath); redirect != "" {
		outcome.Redirect = redirect
		return outcome, nil
	}

	user, decodeErr := s.decoder.Decode(result.AccessToken)
	if decodeErr != nil {
		s.logger.Warn().Err(decodeErr).Msg("could not read role from new access token")
	}
	if user.Role == "" {
		user.Role = models.ParseRole(form.Role)
	}
	outcome.Redirect = user.HomePath()
	return outcome, nil
}

func (s *authService) CurrentUser(ctx context.Context) (models.User, error) {
	return session.UserFromContext(ctx)
}

func (s *authService) Logout(currentPath string) dto.LogoutResult {
	if IsProtectedPath(currentPath) {
		return dto.LogoutResult{Redirect: "/"}
	}
	return dto.LogoutResult{}
}

// safeRedirect only allows same-site absolute paths.
func safeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return ""
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host != "" || parsed.Scheme != "" {
		return ""
	}
	return target
}
