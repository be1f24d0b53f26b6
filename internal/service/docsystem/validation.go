package docsystem

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"doctree/internal/config"
	"doctree/internal/domain"
	models "doctree/internal/domain/models/docsystem"
	docsysSvc "doctree/internal/domain/services/docsystem"
)

var workspaceIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var workspaceIDRules = []validation.Rule{
	validation.Required,
	validation.Length(1, config.MaxWorkspaceIDLength),
	validation.Match(workspaceIDPattern).Error("workspace id may only contain letters, digits, '.', '_' and '-'"),
}

func tagRules() []validation.Rule {
	return []validation.Rule{
		validation.Length(0, config.MaxTags),
		validation.Each(validation.Required, validation.RuneLength(1, config.MaxTagLength)),
	}
}

func validateWorkspaceID(workspaceID string) error {
	if err := validation.Validate(workspaceID, workspaceIDRules...); err != nil {
		return &domain.ValidationError{Message: "workspace_id: " + err.Error()}
	}
	return nil
}

func (s *hierarchyService) validateCreateRequest(req *docsysSvc.CreateNodeRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.WorkspaceID, workspaceIDRules...),
		validation.Field(&req.Kind,
			validation.Required,
			validation.In(models.KindDocument, models.KindFolder).Error("must be document or folder"),
		),
		validation.Field(&req.ParentID, validation.NilOrNotEmpty),
		validation.Field(&req.Title, validation.RuneLength(0, config.MaxTitleLength)),
		validation.Field(&req.Body, validation.Length(0, config.MaxBodyBytes)),
		validation.Field(&req.Tags, tagRules()...),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

func (s *hierarchyService) validateUpdateRequest(req *docsysSvc.UpdateNodeRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.WorkspaceID, workspaceIDRules...),
		validation.Field(&req.NodeID, validation.Required),
		validation.Field(&req.Title, validation.RuneLength(0, config.MaxTitleLength)),
		validation.Field(&req.Body, validation.Length(0, config.MaxBodyBytes)),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	if req.Tags != nil {
		if err := validation.Validate(*req.Tags, tagRules()...); err != nil {
			return &domain.ValidationError{Message: "tags: " + err.Error()}
		}
	}
	return nil
}

func (s *hierarchyService) validateMoveRequest(req *docsysSvc.MoveNodeRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.WorkspaceID, workspaceIDRules...),
		validation.Field(&req.NodeID, validation.Required),
		validation.Field(&req.Position,
			validation.Required,
			validation.In(models.PositionBefore, models.PositionAfter, models.PositionChild).Error("must be before, after or child"),
		),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	if !req.TargetID.Present {
		return &domain.ValidationError{Message: "target_id: is required (use null for root level)"}
	}
	if req.TargetID.Value != nil && *req.TargetID.Value == "" {
		return &domain.ValidationError{Message: "target_id: cannot be an empty string (use null for root level)"}
	}
	return nil
}
