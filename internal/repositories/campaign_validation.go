package repositories

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/white/campaign-manager/internal/models"
)

// fieldValidator checks individual campaign fields before any write
var fieldValidator = validator.New()

// validateStatus rejects anything a caller is not allowed to assign
func validateStatus(status models.CampaignStatus) error {
	if !status.Assignable() {
		return NewValidationError("status", fmt.Sprintf("must be %s or %s, got %q",
			models.CampaignStatusActive, models.CampaignStatusInactive, string(status)))
	}
	return nil
}

// validateText trims s and rejects it when nothing is left
func validateText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if err := fieldValidator.Var(s, "required"); err != nil {
		return "", NewValidationError(field, "must not be empty")
	}
	return s, nil
}

// validateStrings rejects empty entries in a list of opaque strings
func validateStrings(field string, values []string) ([]string, error) {
	if err := fieldValidator.Var(values, "dive,required"); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			// Namespace is like "[2]"
			return nil, NewValidationError(field+errs[0].Field(), "must not be empty")
		}
		return nil, NewValidationError(field, "must not contain empty entries")
	}
	if values == nil {
		return []string{}, nil
	}
	return append([]string(nil), values...), nil
}

// dedupe collapses repeated ids, keeping the first occurrence
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// normalizeNewCampaign validates create input and applies defaults
func normalizeNewCampaign(in models.NewCampaign) (models.NewCampaign, error) {
	var err error
	out := models.NewCampaign{}

	if out.Name, err = validateText("name", in.Name); err != nil {
		return out, err
	}
	if out.Description, err = validateText("description", in.Description); err != nil {
		return out, err
	}

	out.Status = in.Status
	if out.Status == "" {
		out.Status = models.CampaignStatusActive
	}
	if err := validateStatus(out.Status); err != nil {
		return out, err
	}

	if out.Leads, err = validateStrings("leads", in.Leads); err != nil {
		return out, err
	}
	accountIDs, err := validateStrings("accountIDs", in.AccountIDs)
	if err != nil {
		return out, err
	}
	out.AccountIDs = dedupe(accountIDs)

	return out, nil
}

// normalizeCampaignUpdate validates the supplied fields of a partial update.
// The returned update carries trimmed, copied values.
func normalizeCampaignUpdate(in models.CampaignUpdate) (models.CampaignUpdate, error) {
	out := models.CampaignUpdate{}

	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return out, err
		}
		status := *in.Status
		out.Status = &status
	}
	if in.Name != nil {
		name, err := validateText("name", *in.Name)
		if err != nil {
			return out, err
		}
		out.Name = &name
	}
	if in.Description != nil {
		description, err := validateText("description", *in.Description)
		if err != nil {
			return out, err
		}
		out.Description = &description
	}
	if in.Leads != nil {
		leads, err := validateStrings("leads", *in.Leads)
		if err != nil {
			return out, err
		}
		out.Leads = &leads
	}
	if in.AccountIDs != nil {
		accountIDs, err := validateStrings("accountIDs", *in.AccountIDs)
		if err != nil {
			return out, err
		}
		accountIDs = dedupe(accountIDs)
		out.AccountIDs = &accountIDs
	}

	return out, nil
}
