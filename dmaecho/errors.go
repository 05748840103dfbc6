package dmaecho

import "errors"

// Contract violations. These are raised with panic: they indicate a broken
// take/put or wait discipline, never a runtime condition to recover from.
var (
	// ErrEmptyCell is raised when a handler finds the transmit state missing.
	ErrEmptyCell = errors.New("dmaecho: state cell is empty")

	// ErrCellOccupied is raised when a Put would overwrite a live state.
	ErrCellOccupied = errors.New("dmaecho: state cell already occupied")

	// ErrTransferRetired is raised when a Transfer is waited on twice.
	ErrTransferRetired = errors.New("dmaecho: transfer already retired")

	// ErrBuffersTaken is raised when the static buffers are claimed twice.
	ErrBuffersTaken = errors.New("dmaecho: static buffers already taken")
)
