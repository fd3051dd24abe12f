package formstate

import "formcraft/internal/domain/models/form"

// UpdateTheme shallow-merges patch into the theme, creating it when absent
func (e *Engine) UpdateTheme(patch form.Theme) error {
	if err := e.requireForm(); err != nil {
		return err
	}

	e.form.Theme = form.MergeInto(e.form.Theme, patch)

	e.commit("update_theme", "keys", len(patch))
	return nil
}

// UpdateSettings shallow-merges patch into the form settings
func (e *Engine) UpdateSettings(patch map[string]any) error {
	if err := e.requireForm(); err != nil {
		return err
	}

	e.form.Settings = form.MergeInto(e.form.Settings, patch)

	e.commit("update_settings", "keys", len(patch))
	return nil
}

// UpdateFormDetails changes the form title and description
func (e *Engine) UpdateFormDetails(patch form.FormPatch) error {
	if err := e.requireForm(); err != nil {
		return err
	}

	patch.ApplyTo(e.form)

	e.commit("update_details")
	return nil
}
