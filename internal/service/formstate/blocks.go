package formstate

import (
	"formcraft/internal/domain"
	"formcraft/internal/domain/models/form"
	"formcraft/internal/service/logic"
)

// AddBlock appends a copy of block to the page and selects it
func (e *Engine) AddBlock(block form.Block, pageID string) error {
	return e.InsertBlock(block, pageID, -1)
}

// InsertBlock inserts a copy of block into the page at index and selects it.
// A negative or out-of-range index appends.
func (e *Engine) InsertBlock(block form.Block, pageID string, index int) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	pi := e.form.PageIndex(pageID)
	if pi < 0 {
		return domain.NewNotFound("page", pageID)
	}

	page := &e.form.Pages[pi]
	page.Blocks, index = insertAt(page.Blocks, index, block.Clone())
	e.selection.BlockID = block.ID

	e.commit("add_block", "block_id", block.ID, "page_id", pageID, "index", index)
	return nil
}

// UpdateBlock merges patch onto the first block with the given ID
func (e *Engine) UpdateBlock(blockID string, patch form.BlockPatch) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	loc, ok := e.form.FindBlock(blockID)
	if !ok {
		return domain.NewNotFound("block", blockID)
	}

	patch.ApplyTo(e.form.Block(loc))

	e.commit("update_block", "block_id", blockID)
	return nil
}

// DeleteBlock removes the block and clears the block selection if it pointed at it
func (e *Engine) DeleteBlock(blockID string) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	loc, ok := e.form.FindBlock(blockID)
	if !ok {
		return domain.NewNotFound("block", blockID)
	}

	e.removeBlock(loc)

	e.commit("delete_block", "block_id", blockID)
	return nil
}

// DeleteField removes the block and strips every logic reference to it as a
// single history entry. Rules left without conditions or actions are dropped.
func (e *Engine) DeleteField(blockID string) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	loc, ok := e.form.FindBlock(blockID)
	if !ok {
		return domain.NewNotFound("block", blockID)
	}

	key := e.form.Block(loc).EffectiveKey()
	e.removeBlock(loc)
	if e.form.Logic != nil {
		e.form.Logic = logic.RemoveFieldReferences(e.form.Logic, blockID)
		if key != blockID {
			e.form.Logic = logic.RemoveFieldReferences(e.form.Logic, key)
		}
	}

	e.commit("delete_field", "block_id", blockID, "rules", len(e.form.Rules()))
	return nil
}

func (e *Engine) removeBlock(loc form.BlockLocation) {
	page := &e.form.Pages[loc.PageIndex]
	removed := page.Blocks[loc.BlockIndex].ID
	page.Blocks = removeAt(page.Blocks, loc.BlockIndex)
	if e.selection.BlockID == removed {
		e.selection.BlockID = ""
	}
}

// MoveBlock removes the block from its page and inserts it into the target
// page at index, counted after the removal. A missing target page rejects the
// move and leaves the block where it was.
func (e *Engine) MoveBlock(blockID, targetPageID string, index int) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	loc, ok := e.form.FindBlock(blockID)
	if !ok {
		return domain.NewNotFound("block", blockID)
	}
	target := e.form.PageIndex(targetPageID)
	if target < 0 {
		return domain.NewNotFound("page", targetPageID)
	}

	source := &e.form.Pages[loc.PageIndex]
	block := source.Blocks[loc.BlockIndex]
	source.Blocks = removeAt(source.Blocks, loc.BlockIndex)

	dest := &e.form.Pages[target]
	dest.Blocks, index = insertAt(dest.Blocks, index, block)

	e.commit("move_block",
		"block_id", blockID,
		"from_page_id", e.form.Pages[loc.PageIndex].ID,
		"to_page_id", targetPageID,
		"index", index,
	)
	return nil
}

// DuplicateBlock inserts a copy right after the original with a fresh ID and
// " (copy)" appended to the question. The key is copied as-is, so a keyed
// block reports a duplicate_key finding until one of them is renamed.
// The copy becomes the selected block.
func (e *Engine) DuplicateBlock(blockID string) error {
	if err := e.requireForm(); err != nil {
		return err
	}
	loc, ok := e.form.FindBlock(blockID)
	if !ok {
		return domain.NewNotFound("block", blockID)
	}

	dup := e.copyBlock(*e.form.Block(loc))
	dup.Question += " (copy)"

	page := &e.form.Pages[loc.PageIndex]
	page.Blocks, _ = insertAt(page.Blocks, loc.BlockIndex+1, dup)
	e.selection.BlockID = dup.ID

	e.commit("duplicate_block", "block_id", blockID, "copy_id", dup.ID)
	return nil
}

// copyBlock deep-copies b under a new ID
func (e *Engine) copyBlock(b form.Block) form.Block {
	dup := b.Clone()
	dup.ID = e.newID()
	return dup
}
