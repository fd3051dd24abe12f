package formstate

// Selection is the editor's transient focus. Empty strings mean nothing is selected.
// It is never stored in history.
type Selection struct {
	BlockID string `json:"selectedBlockId,omitempty"`
	PageID  string `json:"selectedPageId,omitempty"`
}

// SelectBlock focuses a block; "" clears the block selection.
// The ID is not checked against the form.
func (e *Engine) SelectBlock(blockID string) {
	e.selection.BlockID = blockID
}

// SelectPage focuses a page; "" clears the page selection
func (e *Engine) SelectPage(pageID string) {
	e.selection.PageID = pageID
}

// Selection returns the current block and page focus
func (e *Engine) Selection() Selection { return e.selection }

// pruneSelection drops selected IDs that no longer exist in the live form
func (e *Engine) pruneSelection() {
	if e.form == nil {
		e.selection = Selection{}
		return
	}
	if e.selection.BlockID != "" {
		if _, ok := e.form.FindBlock(e.selection.BlockID); !ok {
			e.selection.BlockID = ""
		}
	}
	if e.selection.PageID != "" && e.form.PageIndex(e.selection.PageID) < 0 {
		e.selection.PageID = ""
	}
}
