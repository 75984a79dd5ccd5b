package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// WorkspaceService resolves authenticated users to their workspace. It backs
// the auth middleware's workspace lookup.
type WorkspaceService struct {
	workspaceRepo domain.WorkspaceRepository
	userRepo      domain.UserRepository
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(workspaceRepo domain.WorkspaceRepository, userRepo domain.UserRepository) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo, userRepo: userRepo}
}

// GetWorkspaceByAuth0ID returns the workspace owned by the user with the
// given Auth0 subject, provisioning user and workspace on first login.
func (s *WorkspaceService) GetWorkspaceByAuth0ID(auth0ID string) (uuid.UUID, error) {
	workspace, err := s.workspaceRepo.GetByAuth0ID(auth0ID)
	if err == nil {
		return workspace.ID, nil
	}
	if !errors.Is(err, domain.ErrWorkspaceNotFound) && !errors.Is(err, domain.ErrUserNotFound) {
		return uuid.Nil, err
	}

	user, err := s.userRepo.GetByAuth0ID(auth0ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		user = &domain.User{Auth0ID: auth0ID}
		if user, err = s.userRepo.Create(user); err != nil {
			return uuid.Nil, err
		}
	} else if err != nil {
		return uuid.Nil, err
	}

	created, err := s.workspaceRepo.Create(&domain.Workspace{
		Name:        "Personal",
		OwnerUserID: user.ID,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}
