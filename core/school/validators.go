package school

import (
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/fredgona305-cmyk/kjs/core"
)

var (
	gradeLevelTag  = "gradelevel"
	gradeLevelText = "must be one of Grade 1 to Grade 6"

	classSectionTag  = "classsection"
	classSectionText = "must be one of East, West or South"

	termLabelTag  = "termlabel"
	termLabelText = "must be one of Term 1, Term 2 or Term 3"

	examTypeTag  = "examtype"
	examTypeText = "unknown exam type"

	genderTag  = "gender"
	genderText = "must be Male or Female"
)

// Validators bundles the validator instance and its translator so they can
// be shared across services and handlers.
type Validators struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewValidators instantiates the validator with the app-wide and
// school-domain custom tags registered.
func NewValidators() *Validators {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	core.InitValidators(validate, translator)

	register := func(tag, text string, fn validator.Func) {
		_ = validate.RegisterValidation(tag, fn)
		core.RegisterCustomTranslation(validate, translator, tag, text)
	}
	register(gradeLevelTag, gradeLevelText, oneOfValidation(GradeLevels))
	register(classSectionTag, classSectionText, oneOfValidation(ClassSections))
	register(termLabelTag, termLabelText, oneOfValidation(TermLabels))
	register(examTypeTag, examTypeText, oneOfValidation(ExamTypes))
	register(genderTag, genderText, oneOfValidation(Genders))

	return &Validators{Validate: validate, Translator: translator}
}

// oneOfValidation checks the field value against a fixed set of labels.
// The stock "oneof" tag cannot express labels containing spaces.
func oneOfValidation(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, a := range allowed {
			if val == a {
				return true
			}
		}
		return false
	}
}
