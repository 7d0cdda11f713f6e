package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/C3604/ChronoAtlas/internal/config"
	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// eventContent is the validated part of an event write.
type eventContent struct {
	Title   string             `json:"title"`
	Summary string             `json:"summary"`
	Time    *catalog.EventTime `json:"time"`
}

// validateEventContent checks title, summary and time. Title and summary
// must already be trimmed. EventTime implements validation.Validatable, so
// ValidateStruct also runs its invariants.
func validateEventContent(c eventContent) error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxEventTitleLength),
		),
		validation.Field(&c.Summary, validation.RuneLength(0, config.MaxEventSummaryLength)),
		validation.Field(&c.Time, validation.NotNil.Error("is required")),
	)
	if err != nil {
		return toValidationError(err)
	}
	return nil
}

type tagContent struct {
	Name string `json:"name"`
}

func validateTagName(name string) error {
	c := tagContent{Name: name}
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxTagNameLength),
		),
	)
	if err != nil {
		return toValidationError(err)
	}
	return nil
}

// toValidationError turns ozzo field errors into a ValidationError naming
// the first failing field in alphabetical order.
func toValidationError(err error) error {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for f := range fieldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	first := fields[0]

	var ve *domain.ValidationError
	if errors.As(fieldErrs[first], &ve) {
		return ve
	}
	return domain.NewValidationError(first, "%s: %v", first, fieldErrs[first])
}
