// Package auth contiene login, alta de usuarios por un admin y el bootstrap del admin inicial.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/pkg/jwt"
	"github.com/ankitkhetariya/crm-real-estate/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TeamAttacher vincula un agente recién creado a su manager (lo implementa hierarchy.Manager).
type TeamAttacher interface {
	AttachAgent(ctx context.Context, agentID, managerID string) error
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	team     TeamAttacher
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, team TeamAttacher, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("auth")
	return &AuthUseCase{userRepo: userRepo, team: team, jwtCfg: jwtCfg, log: log}
}

// RegisterUser crea un usuario (sólo admin). Hashea password con bcrypt y persiste.
// Si trae managedBy el agente se vincula a través de la jerarquía; si eso falla el alta se revierte.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, actingUserID string, in dto.RegisterRequest) (*dto.UserResponse, error) {
	acting, err := uc.userRepo.FindByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if acting == nil || acting.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	role := entity.RoleAgent
	if in.Role != "" {
		r, ok := entity.ParseRole(in.Role)
		if !ok {
			return nil, domain.Invalid("rol %q no válido", in.Role)
		}
		role = r
	}
	if in.ManagedBy != "" && role != entity.RoleAgent {
		return nil, domain.Invalid("sólo los agentes pueden tener manager")
	}

	existing, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash de password: %w", err)
	}
	now := time.Now().UTC()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if in.ManagedBy != "" {
		if err := uc.team.AttachAgent(ctx, user.ID, in.ManagedBy); err != nil {
			if delErr := uc.userRepo.Delete(ctx, user.ID); delErr != nil {
				uc.log.Error().Err(delErr).Str("user_id", user.ID).Msg("no se pudo revertir el alta")
			}
			return nil, err
		}
		manager := in.ManagedBy
		user.ManagedBy = &manager
	}

	uc.log.Info().Str("user_id", user.ID).Str("role", role.String()).Msg("usuario registrado")
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role.String(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}

// Me perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// EnsureAdmin crea el admin inicial si no existe ningún admin. Devuelve true si lo creó.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	if email == "" {
		return false, nil
	}
	if password == "" {
		return false, domain.Invalid("password del admin inicial vacío")
	}
	n, err := uc.userRepo.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("auth: hash de password: %w", err)
	}
	now := time.Now().UTC()
	if name == "" {
		name = "Administrator"
	}
	err = uc.userRepo.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}
	uc.log.Info().Str("email", email).Msg("admin inicial creado")
	return true, nil
}
