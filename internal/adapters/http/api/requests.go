package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/skillgap/internal/domain/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// analyzeRequest mirrors the OpenAPI schema for POST /analyze.
type analyzeRequest struct {
	LearnerID string             `json:"learner_id,omitempty" validate:"max=128"`
	RoleName  string             `json:"role_name,omitempty" validate:"required_without=Role,max=200"`
	Role      *model.RoleProfile `json:"role,omitempty"`
	Skills    []model.RawSkill   `json:"skills" validate:"required"`
}

// Validate checks the request shape; skill and role contents are checked by the analyzer.
func (r *analyzeRequest) Validate(maxSkills int) error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if len(r.Skills) > maxSkills {
		return model.InvalidInput(opValidate, "skills", "too many skills")
	}
	return nil
}

func (r *analyzeRequest) job() model.AnalysisJob {
	return model.AnalysisJob{
		LearnerID: strings.TrimSpace(r.LearnerID),
		RoleName:  r.RoleName,
		Role:      r.Role,
		Skills:    r.Skills,
	}
}

// batchRequest mirrors the OpenAPI schema for POST /analyze/batch.
type batchRequest struct {
	LearnerID string              `json:"learner_id,omitempty" validate:"max=128"`
	RoleNames []string            `json:"role_names,omitempty" validate:"required_without=Roles,dive,required,max=200"`
	Roles     []model.RoleProfile `json:"roles,omitempty"`
	Skills    []model.RawSkill    `json:"skills" validate:"required"`
}

// Validate checks the request shape and the batch bounds.
func (r *batchRequest) Validate(maxSkills, maxRoles int) error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if len(r.Skills) > maxSkills {
		return model.InvalidInput(opValidate, "skills", "too many skills")
	}
	if len(r.RoleNames)+len(r.Roles) > maxRoles {
		return model.InvalidInput(opValidate, "role_names", "too many roles")
	}
	return nil
}

func (r *batchRequest) job() model.BatchJob {
	return model.BatchJob{
		LearnerID: strings.TrimSpace(r.LearnerID),
		RoleNames: r.RoleNames,
		Roles:     r.Roles,
		Skills:    r.Skills,
	}
}

// submitRequest mirrors the OpenAPI schema for POST /analyses.
type submitRequest struct {
	RequestID string             `json:"request_id,omitempty" validate:"max=128"`
	LearnerID string             `json:"learner_id,omitempty" validate:"max=128"`
	RoleName  string             `json:"role_name,omitempty" validate:"required_without=Role,max=200"`
	Role      *model.RoleProfile `json:"role,omitempty"`
	Skills    []model.RawSkill   `json:"skills" validate:"required"`
}

// Validate checks the request shape.
func (r *submitRequest) Validate(maxSkills int) error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if len(r.Skills) > maxSkills {
		return model.InvalidInput(opValidate, "skills", "too many skills")
	}
	return nil
}

func (r *submitRequest) job() model.AnalysisJob {
	return model.AnalysisJob{
		RequestID: strings.TrimSpace(r.RequestID),
		LearnerID: strings.TrimSpace(r.LearnerID),
		RoleName:  r.RoleName,
		Role:      r.Role,
		Skills:    r.Skills,
	}
}

const opValidate = "api.validate"

// validationError turns a validator failure into an InvalidInput error
// naming the first offending JSON field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		if model.IsInvalidInput(err) {
			return err
		}
		return WrapKind(opValidate, ErrBadRequest, err)
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return model.InvalidInput(opValidate, field, reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + strings.ToLower(fe.Param()) + " is absent"
	case "max":
		return "must be at most " + fe.Param() + " long"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
