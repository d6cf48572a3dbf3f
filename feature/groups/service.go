package groups

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"studyhub/core/apperr"
	"studyhub/core/metrics"
	"studyhub/core/models"
	"studyhub/core/sharecode"
	"studyhub/core/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service persists group operations.
type Service struct {
	repo    store.Repository
	codes   *sharecode.Generator
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new groups service.
func NewService(repo store.Repository, codes *sharecode.Generator, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		codes:   codes,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create makes a new group owned by ownerID with a freshly issued share code.
// An empty ownerID means the local profile.
func (s *Service) Create(ctx context.Context, ownerID, name string, meta Patch) (models.Group, error) {
	meta.Name = nil
	return s.mutate(ctx, "create", func(state *models.State) (models.Group, error) {
		owner, err := actor(state, ownerID)
		if err != nil {
			return models.Group{}, err
		}
		if strings.TrimSpace(name) == "" {
			return models.Group{}, ErrInvalidName
		}

		code := s.codes.Generate(state.IssuedCodes())
		g, err := models.NewGroup(uuid.NewString(), owner, name, code, s.now())
		if err != nil {
			return models.Group{}, ErrInvalidInput.WithDetail("%v", err)
		}
		state.Groups = append(state.Groups, g)
		g, err = UpdateMetadata(g.ID, meta, owner, state.Groups)
		if err != nil {
			return models.Group{}, err
		}
		replace(state.Groups, g)
		state.ShareCodes = append(state.ShareCodes, code)
		return g, nil
	})
}

// Get returns a single group.
func (s *Service) Get(ctx context.Context, id string) (models.Group, error) {
	state, err := s.repo.LoadState(ctx)
	if err != nil {
		return models.Group{}, err
	}
	i := indexOf(state.Groups, id)
	if i < 0 {
		return models.Group{}, ErrGroupNotFound
	}
	return state.Groups[i], nil
}

// List returns every group, or only those userID owns or belongs to when
// userID is set.
func (s *Service) List(ctx context.Context, userID string) ([]models.Group, error) {
	state, err := s.repo.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return slices.Clone(state.Groups), nil
	}
	out := make([]models.Group, 0, len(state.Groups))
	for _, g := range state.Groups {
		if g.OwnerID == userID || g.HasMember(userID) {
			out = append(out, g)
		}
	}
	return out, nil
}

// JoinByCode adds userID to the group holding code.
func (s *Service) JoinByCode(ctx context.Context, code, userID string) (models.Group, error) {
	return s.mutate(ctx, "join", func(state *models.State) (models.Group, error) {
		user, err := actor(state, userID)
		if err != nil {
			return models.Group{}, err
		}
		g, err := JoinByCode(code, user, state.Groups)
		if err != nil {
			return models.Group{}, err
		}
		replace(state.Groups, g)
		return g, nil
	})
}

// Leave removes userID from the group.
func (s *Service) Leave(ctx context.Context, groupID, userID string) (models.Group, error) {
	return s.mutate(ctx, "leave", func(state *models.State) (models.Group, error) {
		user, err := actor(state, userID)
		if err != nil {
			return models.Group{}, err
		}
		g, err := Leave(groupID, user, state.Groups)
		if err != nil {
			return models.Group{}, err
		}
		replace(state.Groups, g)
		return g, nil
	})
}

// UpdateMetadata applies an owner's metadata patch.
func (s *Service) UpdateMetadata(ctx context.Context, groupID string, patch Patch, requesterID string) (models.Group, error) {
	return s.mutate(ctx, "update", func(state *models.State) (models.Group, error) {
		requester, err := actor(state, requesterID)
		if err != nil {
			return models.Group{}, err
		}
		g, err := UpdateMetadata(groupID, patch, requester, state.Groups)
		if err != nil {
			return models.Group{}, err
		}
		replace(state.Groups, g)
		return g, nil
	})
}

// RegenerateCode replaces the group's share code. The old code stops working
// at once and is never issued again.
func (s *Service) RegenerateCode(ctx context.Context, groupID, requesterID string) (models.Group, error) {
	return s.mutate(ctx, "regenerate_code", func(state *models.State) (models.Group, error) {
		requester, err := actor(state, requesterID)
		if err != nil {
			return models.Group{}, err
		}
		i := indexOf(state.Groups, groupID)
		if i < 0 {
			return models.Group{}, ErrGroupNotFound
		}
		g := state.Groups[i].Clone()
		if g.OwnerID != requester {
			return models.Group{}, ErrPermissionDenied
		}
		if !slices.Contains(state.ShareCodes, g.ShareCode) {
			state.ShareCodes = append(state.ShareCodes, g.ShareCode)
		}
		g.ShareCode = s.codes.Regenerate(g, state.IssuedCodes())
		state.ShareCodes = append(state.ShareCodes, g.ShareCode)
		state.Groups[i] = g
		return g, nil
	})
}

func (s *Service) mutate(ctx context.Context, op string, fn func(state *models.State) (models.Group, error)) (models.Group, error) {
	var out models.Group
	err := s.repo.Update(ctx, func(state *models.State) error {
		g, err := fn(state)
		if err != nil {
			return err
		}
		out = g
		return nil
	})

	result := "ok"
	if err != nil {
		result = apperr.CodeOf(err)
	}
	s.metrics.GroupOps.WithLabelValues(op, result).Inc()

	if err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			s.logger.Error("Group operation failed", zap.String("operation", op), zap.Error(err))
		}
		return models.Group{}, err
	}
	s.logger.Info("Group updated",
		zap.String("operation", op),
		zap.String("group_id", out.ID),
		zap.Int("members", len(out.MemberIDs)),
	)
	return out, nil
}

// actor resolves the acting user, defaulting to the local profile.
func actor(state *models.State, userID string) (string, error) {
	if userID != "" {
		return userID, nil
	}
	if state.User != nil && state.User.ID != "" {
		return state.User.ID, nil
	}
	return "", ErrInvalidInput.WithDetail("user id is required")
}
