package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"liveoverlay.app/hooks/common/id"
	"liveoverlay.app/hooks/internal/broadcast"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/store"
)

var controlKeyPattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

type CreateControlParams struct {
	UserID     int64
	TemplateID *int64
	Key        string
	Label      string
	Type       model.ControlType
	Value      string
	Config     model.ControlConfig
	SortOrder  int32
}

// UpdateControlMetadataParams leaves nil fields unchanged.
type UpdateControlMetadataParams struct {
	Label     *string
	Config    *model.ControlConfig
	SortOrder *int32
}

// ControlService is the user-facing control editor. Source-managed controls
// are read-only here apart from deletion.
type ControlService interface {
	List(ctx context.Context, userID int64) ([]model.Control, error)
	Create(ctx context.Context, params CreateControlParams) (*model.Control, error)
	UpdateMetadata(ctx context.Context, userID, controlID int64, params UpdateControlMetadataParams) (*model.Control, error)
	SetValue(ctx context.Context, user *model.User, controlID int64, value string) (*model.Control, error)
	Delete(ctx context.Context, userID, controlID int64) error
}

type controlService struct {
	controls  store.ControlStore
	publisher broadcast.Publisher
}

func NewControlService(controls store.ControlStore, publisher broadcast.Publisher) ControlService {
	return &controlService{
		controls:  controls,
		publisher: publisher,
	}
}

func (s *controlService) List(ctx context.Context, userID int64) ([]model.Control, error) {
	return s.controls.ListByUser(ctx, userID)
}

func (s *controlService) Create(ctx context.Context, params CreateControlParams) (*model.Control, error) {
	key := strings.TrimSpace(params.Key)
	if !controlKeyPattern.MatchString(key) {
		return nil, fmt.Errorf("%w: key must match %s", ErrInvalidControl, controlKeyPattern)
	}
	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidControl, params.Type)
	}

	value := params.Value
	if value == "" && params.Type.Numeric() {
		value = "0"
	}
	value, err := sanitizeValue(params.Type, value)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(params.Label)
	if label == "" {
		label = key
	}

	created, err := s.controls.CreateIfAbsent(ctx, &model.Control{
		ID:         id.New(),
		UserID:     params.UserID,
		TemplateID: params.TemplateID,
		Key:        key,
		Label:      label,
		Type:       params.Type,
		Value:      value,
		Config:     params.Config,
		SortOrder:  params.SortOrder,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrControlKeyTaken
		}
		return nil, fmt.Errorf("creating control: %w", err)
	}
	return created, nil
}

func (s *controlService) UpdateMetadata(ctx context.Context, userID, controlID int64, params UpdateControlMetadataParams) (*model.Control, error) {
	control, err := s.editable(ctx, userID, controlID)
	if err != nil {
		return nil, err
	}

	if params.Label != nil {
		label := strings.TrimSpace(*params.Label)
		if label == "" {
			return nil, fmt.Errorf("%w: label cannot be empty", ErrInvalidControl)
		}
		control.Label = label
	}
	if params.Config != nil {
		control.Config = *params.Config
	}
	if params.SortOrder != nil {
		control.SortOrder = *params.SortOrder
	}

	if err := s.controls.UpdateMetadata(ctx, control); err != nil {
		return nil, fmt.Errorf("updating control: %w", err)
	}
	return control, nil
}

func (s *controlService) SetValue(ctx context.Context, user *model.User, controlID int64, value string) (*model.Control, error) {
	control, err := s.editable(ctx, user.ID, controlID)
	if err != nil {
		return nil, err
	}

	value, err = sanitizeValue(control.Type, value)
	if err != nil {
		return nil, err
	}
	if err := s.controls.SetValue(ctx, control.ID, value); err != nil {
		return nil, fmt.Errorf("setting control value: %w", err)
	}
	control.Value = value

	publishControl(ctx, s.publisher, user.ChannelName, *control)
	return control, nil
}

func (s *controlService) Delete(ctx context.Context, userID, controlID int64) error {
	if err := s.controls.Delete(ctx, userID, controlID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrControlNotFound
		}
		return fmt.Errorf("deleting control: %w", err)
	}
	return nil
}

// editable loads a control the user may edit directly.
func (s *controlService) editable(ctx context.Context, userID, controlID int64) (*model.Control, error) {
	control, err := s.controls.GetByID(ctx, userID, controlID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrControlNotFound
		}
		return nil, fmt.Errorf("fetching control: %w", err)
	}
	if control.SourceManaged {
		return nil, ErrControlSourceManaged
	}
	return control, nil
}
