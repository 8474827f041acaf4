package hierarchy

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"linkhive/internal/config"
	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/services"
)

var (
	folderNameRules = []validation.Rule{
		validation.Required.Error("name is required"),
		validation.RuneLength(1, config.MaxFolderNameLength),
		validation.By(noSlash),
	}
	descriptionRules = []validation.Rule{validation.RuneLength(0, config.MaxDescriptionLength)}
	iconRules        = []validation.Rule{validation.RuneLength(0, config.MaxIconLength)}
	colorRules       = []validation.Rule{is.HexColor}
	idRules          = []validation.Rule{is.UUID.Error("must be a valid UUID")}
)

func noSlash(value any) error {
	s, _ := value.(string)
	if strings.Contains(s, "/") {
		return validation.NewError("validation_no_slash", "cannot contain slashes")
	}
	return nil
}

// asValidation converts ozzo errors into the domain validation error
func asValidation(err error) error {
	if err == nil {
		return nil
	}
	return &domain.ValidationError{Message: err.Error()}
}

// validateIDs checks named identifiers, skipping nil/empty optional ones
func validateIDs(ids map[string]*string) error {
	errs := validation.Errors{}
	for name, id := range ids {
		if id == nil {
			continue
		}
		errs[name] = validation.Validate(*id, append([]validation.Rule{validation.Required}, idRules...)...)
	}
	return asValidation(errs.Filter())
}

// trimOptional trims a metadata value; blank becomes nil (cleared)
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func normalizeCreateFolder(req *services.CreateFolderRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = plainText(req.Description)
	req.Icon = trimOptional(req.Icon)
	req.Color = trimOptional(req.Color)
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) == "" {
		req.ParentID = nil
	}

	return asValidation(validation.Errors{
		"name":        validation.Validate(req.Name, folderNameRules...),
		"parent_id":   validation.Validate(req.ParentID, idRules...),
		"description": validation.Validate(req.Description, descriptionRules...),
		"icon":        validation.Validate(req.Icon, iconRules...),
		"color":       validation.Validate(req.Color, colorRules...),
	}.Filter())
}

func normalizeUpdateFolder(req *services.UpdateFolderRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	req.ParentID.Value = trimOptional(req.ParentID.Value)
	req.Description.Value = plainText(req.Description.Value)
	req.Icon.Value = trimOptional(req.Icon.Value)
	req.Color.Value = trimOptional(req.Color.Value)

	if req.Name == nil && !req.ParentID.Present && !req.Description.Present && !req.Icon.Present && !req.Color.Present {
		return invalid("at least one field must be provided")
	}

	errs := validation.Errors{
		"parent_id":   validation.Validate(req.ParentID.Value, idRules...),
		"description": validation.Validate(req.Description.Value, descriptionRules...),
		"icon":        validation.Validate(req.Icon.Value, iconRules...),
		"color":       validation.Validate(req.Color.Value, colorRules...),
	}
	if req.Name != nil {
		errs["name"] = validation.Validate(*req.Name, folderNameRules...)
	}
	return asValidation(errs.Filter())
}

func validateCollaboratorRequest(req *services.CollaboratorRequest) error {
	req.UserID = strings.TrimSpace(req.UserID)
	return asValidation(validation.Errors{
		"user_id":    validation.Validate(req.UserID, validation.Required),
		"permission": validatePermission(req.Permission),
	}.Filter())
}

func validatePermission(p models.Permission) error {
	if _, err := models.ParsePermission(string(p)); err != nil {
		return validation.NewError("validation_permission", "must be one of view, edit, admin")
	}
	return nil
}

var collectionNameRules = []validation.Rule{
	validation.Required.Error("name is required"),
	validation.RuneLength(1, config.MaxCollectionNameLength),
}

func normalizeCreateCollection(req *services.CreateCollectionRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = plainText(req.Description)
	return asValidation(validation.Errors{
		"name":        validation.Validate(req.Name, collectionNameRules...),
		"description": validation.Validate(req.Description, descriptionRules...),
	}.Filter())
}

func normalizeUpdateCollection(req *services.UpdateCollectionRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	req.Description.Value = plainText(req.Description.Value)

	if req.Name == nil && !req.Description.Present && req.IsPublic == nil {
		return invalid("at least one field must be provided")
	}

	errs := validation.Errors{
		"description": validation.Validate(req.Description.Value, descriptionRules...),
	}
	if req.Name != nil {
		errs["name"] = validation.Validate(*req.Name, collectionNameRules...)
	}
	return asValidation(errs.Filter())
}
