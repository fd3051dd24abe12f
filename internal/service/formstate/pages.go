package formstate

import (
	"formcraft/internal/domain"
	"formcraft/internal/domain/models/form"
)

// AddPage appends a copy of page
func (e *Engine) AddPage(page form.Page) error {
	return e.InsertPage(page, -1)
}

// InsertPage inserts a copy of page at index; a negative or out-of-range index appends
func (e *Engine) InsertPage(page form.Page, index int) error {
	if err := e.requireForm(); err != nil {
		return err
	}

	e.form.Pages, index = insertAt(e.form.Pages, index, page.Clone())

	e.commit("add_page", "page_id", page.ID, "index", index)
	return nil
}

// UpdatePage merges patch onto the page
func (e *Engine) UpdatePage(pageID string, patch form.PagePatch) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	pi := e.form.PageIndex(pageID)
	if pi < 0 {
		return domain.NewNotFound("page", pageID)
	}

	patch.ApplyTo(&e.form.Pages[pi])

	e.commit("update_page", "page_id", pageID)
	return nil
}

// DeletePage removes the page and its blocks. The last remaining page cannot
// be deleted. Selections pointing at the page or one of its blocks are cleared.
func (e *Engine) DeletePage(pageID string) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	pi := e.form.PageIndex(pageID)
	if pi < 0 {
		return domain.NewNotFound("page", pageID)
	}
	if len(e.form.Pages) <= 1 {
		return domain.ErrLastPage
	}

	for _, b := range e.form.Pages[pi].Blocks {
		if b.ID == e.selection.BlockID {
			e.selection.BlockID = ""
			break
		}
	}
	e.form.Pages = removeAt(e.form.Pages, pi)
	if e.selection.PageID == pageID {
		e.selection.PageID = ""
	}

	e.commit("delete_page", "page_id", pageID)
	return nil
}

// MovePage moves the page to index, counted after removing it
func (e *Engine) MovePage(pageID string, index int) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	pi := e.form.PageIndex(pageID)
	if pi < 0 {
		return domain.NewNotFound("page", pageID)
	}

	page := e.form.Pages[pi]
	e.form.Pages = removeAt(e.form.Pages, pi)
	e.form.Pages, index = insertAt(e.form.Pages, index, page)

	e.commit("move_page", "page_id", pageID, "index", index)
	return nil
}

// DuplicatePage inserts a copy of the page right after it. The page and every
// block on it get fresh IDs and the title is suffixed with " (copy)".
func (e *Engine) DuplicatePage(pageID string) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	pi := e.form.PageIndex(pageID)
	if pi < 0 {
		return domain.NewNotFound("page", pageID)
	}

	dup := e.form.Pages[pi].Clone()
	dup.ID = e.newID()
	dup.Title += " (copy)"
	for i := range dup.Blocks {
		dup.Blocks[i] = e.copyBlock(dup.Blocks[i])
	}

	e.form.Pages, _ = insertAt(e.form.Pages, pi+1, dup)
	e.selection.PageID = dup.ID

	e.commit("duplicate_page", "page_id", pageID, "copy_id", dup.ID)
	return nil
}
