package service

import "errors"

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrSessionNotFound  = errors.New("editor session not found")
	ErrEditorClosed     = errors.New("editor is closed")
	ErrNotEditable      = errors.New("editor is not editable while saving")
	ErrSaveInProgress   = errors.New("save already in progress")
	ErrUploadInProgress = errors.New("image upload already in progress")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrUnknownField     = errors.New("unknown field")
	ErrEmptyUpload      = errors.New("empty image upload")
)
