package service

import "github.com/pageza/afrocuisto-cms/backend/internal/model"

// Field names a text field of the working copy, by its JSON name.
type Field string

const (
	FieldName                 Field = "name"
	FieldAlias                Field = "alias"
	FieldRegion               Field = "region"
	FieldCategory             Field = "category"
	FieldDifficulty           Field = "difficulty"
	FieldPrepTime             Field = "prepTime"
	FieldCookTime             Field = "cookTime"
	FieldImage                Field = "image"
	FieldDescription          Field = "description"
	FieldTechniqueTitle       Field = "techniqueTitle"
	FieldTechniqueDescription Field = "techniqueDescription"
	FieldDiasporaSubstitutes  Field = "diasporaSubstitutes"
	FieldBenefits             Field = "benefits"
	FieldPedagogicalNote      Field = "pedagogicalNote"
	FieldType                 Field = "type"
	FieldBase                 Field = "base"
	FieldStyle                Field = "style"
	FieldOrigineHumaine       Field = "origine_humaine"
	FieldVideoURL             Field = "videoUrl"
)

func (f Field) Valid() bool {
	var r model.Recipe
	return setStringField(&r, f, "") == nil
}

func setStringField(r *model.Recipe, f Field, value string) error {
	switch f {
	case FieldName:
		r.Name = value
	case FieldAlias:
		r.Alias = value
	case FieldRegion:
		r.Region = value
	case FieldCategory:
		r.Category = value
	case FieldDifficulty:
		r.Difficulty = model.Difficulty(value)
	case FieldPrepTime:
		r.PrepTime = value
	case FieldCookTime:
		r.CookTime = value
	case FieldImage:
		r.Image = value
	case FieldDescription:
		r.Description = value
	case FieldTechniqueTitle:
		r.TechniqueTitle = value
	case FieldTechniqueDescription:
		r.TechniqueDescription = value
	case FieldDiasporaSubstitutes:
		r.DiasporaSubstitutes = value
	case FieldBenefits:
		r.Benefits = value
	case FieldPedagogicalNote:
		r.PedagogicalNote = value
	case FieldType:
		r.Type = value
	case FieldBase:
		r.Base = value
	case FieldStyle:
		r.Style = value
	case FieldOrigineHumaine:
		r.OrigineHumaine = value
	case FieldVideoURL:
		r.VideoURL = value
	default:
		return ErrUnknownField
	}
	return nil
}
