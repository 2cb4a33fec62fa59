package wizard

import (
	"github.com/openrentals/listingdesk/internal/draft"
	"github.com/openrentals/listingdesk/internal/validate"
)

// StepStatus tracks one step's gate. Completed and Valid use the same
// threshold: every entity belonging to the step passes validation with all
// required fields populated.
type StepStatus struct {
	Completed bool `json:"completed"`
	Valid     bool `json:"valid"`
}

// FormData bundles the three draft lists the wizard edits.
type FormData struct {
	Property draft.PropertyDraft  `json:"property"`
	Units    []draft.UnitDraft    `json:"units"`
	Listings []draft.ListingDraft `json:"listings"`
}

// FormErrors holds the current per-entity error maps.
type FormErrors struct {
	Property validate.PropertyErrors  `json:"property"`
	Units    []validate.UnitErrors    `json:"units"`
	Listings []validate.ListingErrors `json:"listings"`
}

// FormState is the wizard's aggregate root: the active step, the drafts,
// their error maps, per-step completion flags, and the submit/dirty bits.
type FormState struct {
	CurrentStep  Step                `json:"current_step"`
	Data         FormData            `json:"data"`
	Errors       FormErrors          `json:"errors"`
	Status       map[Step]StepStatus `json:"status"`
	IsSubmitting bool                `json:"is_submitting"`
	IsDirty      bool                `json:"is_dirty"`
}
